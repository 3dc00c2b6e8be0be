// Package cmd implements the command-line interface for lockstep.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/lockstep-cli/lockstep/color"
	"github.com/lockstep-cli/lockstep/constant"
	"github.com/lockstep-cli/lockstep/icon"
	"github.com/lockstep-cli/lockstep/key"
	"github.com/lockstep-cli/lockstep/log"
	"github.com/lockstep-cli/lockstep/style"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.Flags().StringP("transport", "T", "", "Channel to the player: mpv or bridge")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("transport", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{constant.TransportMPV, constant.TransportBridge}, cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.PlayerTransport, rootCmd.Flags().Lookup("transport")))

	rootCmd.Flags().StringP("origin", "o", "", "Origin trusted on the bridge (e.g. https://player.example)")
	lo.Must0(viper.BindPFlag(key.PlayerOrigin, rootCmd.Flags().Lookup("origin")))

	rootCmd.Flags().StringP("listen", "l", "", "Address the bridge listens on")
	lo.Must0(viper.BindPFlag(key.BridgeListen, rootCmd.Flags().Lookup("listen")))

	rootCmd.Flags().StringP("socket", "s", "", "Attach to an mpv already serving JSON IPC on this socket")
	rootCmd.Flags().StringP("media", "m", "", "Launch mpv on this file or URL")
	rootCmd.Flags().StringP("at", "a", "", "Start at this offset (90, 1:30, 1m30s); defaults to the transcript link's t parameter")
}

// rootCmd follows a transcript against a player.
var rootCmd = &cobra.Command{
	Use:   constant.Lockstep + " [transcript]",
	Short: "Keep a transcript in step with a media player",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Keep a transcript in step with a media player"),
	Example: `  lockstep episode.html --media episode.mkv
  lockstep https://example.com/ep/12#transcript --socket /tmp/mpv.sock
  lockstep "https://example.com/ep/12?t=754" -T bridge -o https://player.example`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		if len(args) == 0 {
			_ = cmd.Help()
			return
		}

		handleErr(follow(cmd, args[0]))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
