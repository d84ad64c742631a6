package cmd

import (
	"fmt"

	"github.com/kavanlund/heapsnap/internal/output"
	"github.com/kavanlund/heapsnap/internal/render"
	"github.com/kavanlund/heapsnap/internal/snapshot/cancel"
	"github.com/kavanlund/heapsnap/internal/snapshot/retainers"
	"github.com/kavanlund/heapsnap/utils"
	"github.com/spf13/cobra"
)

var retainersArgs struct {
	id       int64
	name     string
	pick     string
	paths    int
	maxDepth int
	format   string
}

var retainersCmd = &cobra.Command{
	Use:   "retainers <file>",
	Short: "Find the retaining paths keeping a node alive",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension([]string{".heapsnapshot"}, false),
	RunE: func(cmd *cobra.Command, args []string) error {
		tok := cancel.New()
		defer installCancelSignal(tok)()

		sess, err := loadSnapshot(args[0], tok)
		if err != nil {
			return err
		}

		target, err := resolveTarget(cmd, sess, retainersArgs.id, retainersArgs.name, retainersArgs.pick)
		if err != nil {
			return err
		}

		rev, err := sess.ReverseAdjacency(progressSink())
		if err != nil {
			return err
		}

		result, err := retainers.FindPaths(sess.Raw, target, sess.Root(), retainersArgs.paths, retainersArgs.maxDepth, rev, tok)
		if err != nil {
			return err
		}
		r := output.FromRetainers(sess.Raw, result)

		var data []byte
		switch retainersArgs.format {
		case "md", "":
			data = []byte(render.RetainersMarkdown(r))
		case "json":
			data, err = render.RetainersJSON(r)
		case "csv":
			return fmt.Errorf("retainers output does not support csv")
		default:
			return fmt.Errorf("unknown --format %q", retainersArgs.format)
		}
		if err != nil {
			return err
		}

		return render.WriteOrStdout("", data)
	},
}

func init() {
	retainersCmd.Flags().Int64Var(&retainersArgs.id, "id", 0, "target node id")
	retainersCmd.Flags().StringVar(&retainersArgs.name, "name", "", "target constructor name")
	retainersCmd.Flags().StringVar(&retainersArgs.pick, "pick", "largest", "pick strategy when multiple names match --name: largest, count")
	retainersCmd.Flags().IntVar(&retainersArgs.paths, "paths", 5, "max number of paths to output")
	retainersCmd.Flags().IntVar(&retainersArgs.maxDepth, "max-depth", 10, "max BFS depth")
	retainersCmd.Flags().StringVar(&retainersArgs.format, "format", "md", "output format: md, json")
	rootCmd.AddCommand(retainersCmd)
}
