package cmd

import (
	"encoding/json"
	"os"

	"github.com/lockstep-cli/lockstep/gateway"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(protocolCmd)
	protocolCmd.Flags().BoolP("inbound", "i", false, "Only print the schema of messages the player sends")
	protocolCmd.Flags().BoolP("outbound", "O", false, "Only print the schema of commands sent to the player")
	protocolCmd.MarkFlagsMutuallyExclusive("inbound", "outbound")
	protocolCmd.SetOut(os.Stdout)
}

// protocolCmd documents the messages an embedding page must relay.
var protocolCmd = &cobra.Command{
	Use:   "protocol",
	Short: "Print the JSON schemas of the player message protocol",
	Run: func(cmd *cobra.Command, args []string) {
		inbound, outbound := gateway.Schema()

		var doc any = map[string]any{"inbound": inbound, "outbound": outbound}
		switch {
		case lo.Must(cmd.Flags().GetBool("inbound")):
			doc = inbound
		case lo.Must(cmd.Flags().GetBool("outbound")):
			doc = outbound
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(doc))
	},
}
