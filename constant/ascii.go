package constant

// AsciiArtLogo is the application's banner shown in the root help.
const AsciiArtLogo = `
 _            _        _
| | ___   ___| | _____| |_ ___ _ __
| |/ _ \ / __| |/ / __| __/ _ \ '_ \
| | (_) | (__|   <\__ \ ||  __/ |_) |
|_|\___/ \___|_|\_\___/\__\___| .__/
                              |_|`
