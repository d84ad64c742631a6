package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/kavanlund/heapsnap/internal/output"
	"github.com/kavanlund/heapsnap/internal/render"
	"github.com/kavanlund/heapsnap/internal/snapshot/cancel"
	"github.com/kavanlund/heapsnap/internal/snapshot/summary"
	"github.com/kavanlund/heapsnap/utils"
	"github.com/spf13/cobra"
)

var buildArgs struct {
	outdir   string
	top      int
	contains string
}

var buildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Persist a summary and build metadata for a snapshot",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension([]string{".heapsnapshot"}, false),
	RunE: func(cmd *cobra.Command, args []string) error {
		tok := cancel.New()
		defer installCancelSignal(tok)()

		sess, err := loadSnapshot(args[0], tok)
		if err != nil {
			return err
		}

		result, err := summary.Build(sess.Raw, buildArgs.contains, tok, sess.Logger)
		if err != nil {
			return err
		}
		s := output.FromSummary(result, buildArgs.top)

		if err := os.MkdirAll(buildArgs.outdir, 0o755); err != nil {
			return err
		}

		summaryJSON, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		if err := render.WriteOrStdout(filepath.Join(buildArgs.outdir, "summary.json"), summaryJSON); err != nil {
			return err
		}

		meta := output.BuildMeta{
			Version:      output.SchemaVersion,
			TotalNodes:   sess.Raw.NodeCount(),
			TotalEdges:   sess.Raw.EdgeCount(),
			TotalStrings: len(sess.Raw.Strings),
		}
		metaJSON, err := json.MarshalIndent(meta, "", "  ")
		if err != nil {
			return err
		}
		return render.WriteOrStdout(filepath.Join(buildArgs.outdir, "meta.json"), metaJSON)
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildArgs.outdir, "outdir", "", "output directory")
	buildCmd.MarkFlagRequired("outdir")
	buildCmd.Flags().IntVar(&buildArgs.top, "top", 50, "cap summary.json to the top N constructors")
	buildCmd.Flags().StringVar(&buildArgs.contains, "contains", "", "only include constructors containing this string")
	rootCmd.AddCommand(buildCmd)
}
