package cmd

import (
	"fmt"

	"github.com/kavanlund/heapsnap/internal/output"
	"github.com/kavanlund/heapsnap/internal/render"
	"github.com/kavanlund/heapsnap/internal/snapshot/cancel"
	"github.com/kavanlund/heapsnap/internal/snapshot/diffkernel"
	"github.com/kavanlund/heapsnap/internal/snapshot/summary"
	"github.com/kavanlund/heapsnap/utils"
	"github.com/spf13/cobra"
)

var diffArgs struct {
	top      int
	contains string
	format   string
}

var diffCmd = &cobra.Command{
	Use:   "diff <file-a> <file-b>",
	Short: "Compare constructor populations between two snapshots",
	Args:  cobra.ExactArgs(2),
	ValidArgsFunction: utils.CompleteFilesByExtension([]string{".heapsnapshot"}, false),
	RunE: func(cmd *cobra.Command, args []string) error {
		tok := cancel.New()
		defer installCancelSignal(tok)()

		sessA, err := loadSnapshot(args[0], tok)
		if err != nil {
			return err
		}
		sessB, err := loadSnapshot(args[1], tok)
		if err != nil {
			return err
		}

		summaryA, err := summary.Build(sessA.Raw, diffArgs.contains, tok, sessA.Logger)
		if err != nil {
			return err
		}
		summaryB, err := summary.Build(sessB.Raw, diffArgs.contains, tok, sessB.Logger)
		if err != nil {
			return err
		}

		result, err := diffkernel.Build(summaryA, summaryB, tok)
		if err != nil {
			return err
		}
		d := output.FromDiff(result, diffArgs.top)

		var data []byte
		switch diffArgs.format {
		case "md", "":
			data = []byte(render.DiffMarkdown(d))
		case "json":
			data, err = render.DiffJSON(d)
		case "csv":
			data, err = render.DiffCSV(d)
		default:
			return fmt.Errorf("unknown --format %q", diffArgs.format)
		}
		if err != nil {
			return err
		}

		return render.WriteOrStdout("", data)
	},
}

func init() {
	diffCmd.Flags().IntVar(&diffArgs.top, "top", 50, "show top N constructors")
	diffCmd.Flags().StringVar(&diffArgs.contains, "contains", "", "only include constructors containing this string")
	diffCmd.Flags().StringVar(&diffArgs.format, "format", "md", "output format: md, json, csv")
	rootCmd.AddCommand(diffCmd)
}
