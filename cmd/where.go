package cmd

import (
	"encoding/json"
	"os"

	"github.com/lockstep-cli/lockstep/color"
	"github.com/lockstep-cli/lockstep/style"
	"github.com/lockstep-cli/lockstep/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// location is a path lockstep reads or writes, selectable with its own flag.
type location struct {
	Name  string `json:"name"`
	Flag  string `json:"-"`
	Short string `json:"-"`
	Path  string `json:"path"`
	path  func() string
}

// locations are resolved lazily because resolving creates the directories.
var locations = []location{
	{Name: "Config file", Flag: "config", Short: "c", path: configFile},
	{Name: "Logs", Flag: "logs", Short: "l", path: where.Logs},
	{Name: "mpv sockets", Flag: "sockets", Short: "S", path: where.Temp},
}

// resolve fills in each location's path.
func resolve(ls []location) []location {
	return lo.Map(ls, func(l location, _ int) location {
		l.Path = l.path()
		return l
	})
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, l := range locations {
		whereCmd.Flags().BoolP(l.Flag, l.Short, false, "Print only the "+l.Name+" path")
	}
	whereCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string {
		return l.Flag
	})...)

	whereCmd.SetOut(os.Stdout)
}

// whereCmd prints where lockstep keeps its config, logs and player sockets.
var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Print where lockstep keeps its config, logs and player sockets",
	Run: func(cmd *cobra.Command, args []string) {
		for _, l := range locations {
			if lo.Must(cmd.Flags().GetBool(l.Flag)) {
				cmd.Println(l.path())
				return
			}
		}

		resolved := resolve(locations)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(resolved))
			return
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		for i, l := range resolved {
			cmd.Printf("%s %s\n", header(l.Name), style.Fg(color.Yellow)("--"+l.Flag))
			cmd.Println(l.Path)

			if i < len(resolved)-1 {
				cmd.Println()
			}
		}
	},
}
