package cmd

import (
	"fmt"

	"github.com/kavanlund/heapsnap/internal/output"
	"github.com/kavanlund/heapsnap/internal/render"
	"github.com/kavanlund/heapsnap/internal/snapshot/cancel"
	"github.com/kavanlund/heapsnap/utils"
	"github.com/spf13/cobra"
)

var dominatorArgs struct {
	id       int64
	name     string
	pick     string
	maxDepth int
	format   string
}

var dominatorCmd = &cobra.Command{
	Use:   "dominator <file>",
	Short: "Print the immediate-dominator chain from the root to a node",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension([]string{".heapsnapshot"}, false),
	RunE: func(cmd *cobra.Command, args []string) error {
		tok := cancel.New()
		defer installCancelSignal(tok)()

		sess, err := loadSnapshot(args[0], tok)
		if err != nil {
			return err
		}

		target, err := resolveTarget(cmd, sess, dominatorArgs.id, dominatorArgs.name, dominatorArgs.pick)
		if err != nil {
			return err
		}

		domMap, err := sess.DominatorMap()
		if err != nil {
			return err
		}
		chain, err := domMap.Chain(target, dominatorArgs.maxDepth)
		if err != nil {
			return err
		}

		d := output.FromDominator(target, chain)

		var data []byte
		switch dominatorArgs.format {
		case "md", "":
			data = []byte(render.DominatorMarkdown(d))
		case "json":
			data, err = render.DominatorJSON(d)
		case "csv":
			return fmt.Errorf("dominator output does not support csv")
		default:
			return fmt.Errorf("unknown --format %q", dominatorArgs.format)
		}
		if err != nil {
			return err
		}

		return render.WriteOrStdout("", data)
	},
}

func init() {
	dominatorCmd.Flags().Int64Var(&dominatorArgs.id, "id", 0, "target node id")
	dominatorCmd.Flags().StringVar(&dominatorArgs.name, "name", "", "target constructor name")
	dominatorCmd.Flags().StringVar(&dominatorArgs.pick, "pick", "largest", "pick strategy when multiple names match --name: largest, count")
	dominatorCmd.Flags().IntVar(&dominatorArgs.maxDepth, "max-depth", 50, "max dominator chain depth")
	dominatorCmd.Flags().StringVar(&dominatorArgs.format, "format", "md", "output format: md, json")
	rootCmd.AddCommand(dominatorCmd)
}
