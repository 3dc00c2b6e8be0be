package cmd

import (
	"encoding/json"
	"os"
	"slices"

	"github.com/lockstep-cli/lockstep/color"
	"github.com/lockstep-cli/lockstep/config"
	"github.com/lockstep-cli/lockstep/style"
	"github.com/lockstep-cli/lockstep/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// envVar is one environment variable lockstep reads.
type envVar struct {
	Name  string `json:"name"`
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`
	Set   bool   `json:"set"`
}

// envVars lists every variable lockstep reads, sorted by name, with its value in lookup.
func envVars(lookup func(string) (string, bool)) []envVar {
	vars := lo.Map(config.EnvExposed, func(k string, _ int) envVar {
		field := config.Default[k]
		return envVar{Name: field.Env(), Key: k}
	})
	vars = append(vars, envVar{Name: where.EnvConfigPath})

	for i := range vars {
		vars[i].Value, vars[i].Set = lookup(vars[i].Name)
	}

	slices.SortFunc(vars, func(a, b envVar) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return vars
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only show variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only show variables that are not set")
	envCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
	envCmd.SetOut(os.Stdout)
}

// envCmd lists the environment variables that override configuration.
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables that override configuration",
	Long:  "List every LOCKSTEP_ variable, the config key it overrides and its value in this process.",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			setOnly   = lo.Must(cmd.Flags().GetBool("set-only"))
			unsetOnly = lo.Must(cmd.Flags().GetBool("unset-only"))
			asJSON    = lo.Must(cmd.Flags().GetBool("json"))
		)

		vars := lo.Filter(envVars(os.LookupEnv), func(v envVar, _ int) bool {
			return !(setOnly && !v.Set) && !(unsetOnly && v.Set)
		})

		if asJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(vars))
			return
		}

		name := style.New().Bold(true).Foreground(color.Purple).Render
		for _, v := range vars {
			value := style.Fg(color.Red)("unset")
			if v.Set {
				value = style.Fg(color.Green)(v.Value)
			}

			cmd.Printf("%s=%s", name(v.Name), value)
			if v.Key != "" {
				cmd.Print(style.Faint("  # " + v.Key))
			}
			cmd.Println()
		}
	},
}
