package cmd

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/lockstep-cli/lockstep/style"
	"github.com/lockstep-cli/lockstep/transcript"
	"github.com/lockstep-cli/lockstep/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(transcriptCmd)
	transcriptCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	transcriptCmd.Flags().StringP("find", "f", "", "Only show entries fuzzily matching this text")
	transcriptCmd.SetOut(os.Stdout)
}

// transcriptCmd shows how a page is parsed into timed entries.
var transcriptCmd = &cobra.Command{
	Use:   "transcript <location>",
	Short: "Print the timed entries found in a transcript page",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		index, err := transcript.Open(context.Background(), args[0], transcriptOptions())
		handleErr(err)

		entries := index.Entries()
		if query := lo.Must(cmd.Flags().GetString("find")); query != "" {
			entries = lo.Map(index.Search(query), func(i int, _ int) transcript.Entry {
				return index.At(i)
			})
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(struct {
				Meta    transcript.Meta    `json:"meta"`
				Entries []transcript.Entry `json:"entries"`
			}{index.Meta(), entries}))
			return
		}

		cmd.Println(renderEntries(index.Meta(), entries))
		cmd.Println(style.Faint(util.Quantify(len(entries), "entry", "entries")))
	},
}

func renderEntries(meta transcript.Meta, entries []transcript.Entry) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(metaTitle(meta))
	tw.AppendHeader(table.Row{"#", "Start", "Speaker", "Text"})

	for _, e := range entries {
		tw.AppendRow(table.Row{e.Order + 1, e.Label(), e.Speaker, e.Text})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, WidthMax: 72},
	})

	return tw.Render()
}

// metaTitle is the table caption: episode label and publication day.
func metaTitle(meta transcript.Meta) string {
	parts := make([]string, 0, 2)
	if label := meta.Label(); label != "" {
		parts = append(parts, label)
	}
	if !meta.Published.IsZero() {
		parts = append(parts, meta.Published.Format("2006-01-02"))
	}
	return strings.Join(parts, " · ")
}
