package cmd

import (
	"fmt"

	"github.com/kavanlund/heapsnap/internal/output"
	"github.com/kavanlund/heapsnap/internal/render"
	"github.com/kavanlund/heapsnap/internal/snapshot/cancel"
	"github.com/kavanlund/heapsnap/internal/snapshot/summary"
	"github.com/kavanlund/heapsnap/utils"
	"github.com/spf13/cobra"
)

var summaryArgs struct {
	top    int
	format string
	json   string
	search string
}

var summaryCmd = &cobra.Command{
	Use:   "summary <file>",
	Short: "Summarize object population by constructor",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension([]string{".heapsnapshot"}, false),
	RunE: func(cmd *cobra.Command, args []string) error {
		tok := cancel.New()
		defer installCancelSignal(tok)()

		sess, err := loadSnapshot(args[0], tok)
		if err != nil {
			return err
		}

		result, err := summary.Build(sess.Raw, summaryArgs.search, tok, sess.Logger)
		if err != nil {
			return err
		}
		s := output.FromSummary(result, summaryArgs.top)

		format := summaryArgs.format
		if summaryArgs.json != "" {
			format = "json"
		}

		var data []byte
		switch format {
		case "md", "":
			data = []byte(render.SummaryMarkdown(s, true))
		case "json":
			data, err = render.SummaryJSON(s)
		case "csv":
			data, err = render.SummaryCSV(s)
		default:
			return fmt.Errorf("unknown --format %q", format)
		}
		if err != nil {
			return err
		}

		return render.WriteOrStdout(summaryArgs.json, data)
	},
}

func init() {
	summaryCmd.Flags().IntVar(&summaryArgs.top, "top", 50, "show top N constructors")
	summaryCmd.Flags().StringVar(&summaryArgs.format, "format", "md", "output format: md, json, csv")
	summaryCmd.Flags().StringVar(&summaryArgs.json, "json", "", "write JSON output to this path (implies --format json)")
	summaryCmd.Flags().StringVar(&summaryArgs.search, "search", "", "only include constructors containing this string")
	rootCmd.AddCommand(summaryCmd)
}
