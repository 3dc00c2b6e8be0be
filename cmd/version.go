package cmd

import (
	"encoding/json"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"text/template"

	"github.com/lockstep-cli/lockstep/color"
	"github.com/lockstep-cli/lockstep/constant"
	"github.com/lockstep-cli/lockstep/key"
	"github.com/lockstep-cli/lockstep/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// buildInfo describes this binary and the player channel it is configured for.
type buildInfo struct {
	App       string `json:"app"`
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	BuiltAt   string `json:"builtAt"`
	BuiltBy   string `json:"builtBy"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
	Transport string `json:"transport"`
	Property  string `json:"progressProperty"`
}

func currentBuild() buildInfo {
	info := buildInfo{
		App:       constant.Lockstep,
		Version:   constant.Version,
		Revision:  constant.Revision,
		BuiltAt:   strings.TrimSpace(constant.BuiltAt),
		BuiltBy:   constant.BuiltBy,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Transport: viper.GetString(key.PlayerTransport),
		Property:  viper.GetString(key.PlayerProgressProperty),
	}

	// go install leaves the ldflags unset, but the module system still knows the revision.
	if bi, ok := debug.ReadBuildInfo(); ok && info.Revision == "unknown" {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				info.Revision = s.Value
			}
		}
	}
	return info
}

var versionTemplate = lo.Must(template.New("version").Funcs(template.FuncMap{
	"faint":  style.Faint,
	"bold":   style.Bold,
	"purple": style.Fg(color.Purple),
}).Parse(`{{ purple "▇▇▇" }} {{ purple .App }}

  {{ faint "Version" }}     {{ bold .Version }}
  {{ faint "Revision" }}    {{ bold .Revision }}
  {{ faint "Built" }}       {{ bold .BuiltAt }} {{ faint "by" }} {{ bold .BuiltBy }}
  {{ faint "Go" }}          {{ bold .GoVersion }} {{ faint "on" }} {{ bold .Platform }}
  {{ faint "Transport" }}   {{ bold .Transport }} {{ faint "polling" }} {{ bold .Property }}
`))

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Print only the version number")
	versionCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
}

// versionCmd prints build metadata.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version, build metadata and configured player channel",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		info := currentBuild()
		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(info))
			return
		}

		handleErr(versionTemplate.Execute(cmd.OutOrStdout(), info))
	},
}
