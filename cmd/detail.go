package cmd

import (
	"fmt"

	"github.com/kavanlund/heapsnap/internal/output"
	"github.com/kavanlund/heapsnap/internal/render"
	"github.com/kavanlund/heapsnap/internal/snapshot/cancel"
	"github.com/kavanlund/heapsnap/internal/snapshot/detail"
	"github.com/kavanlund/heapsnap/utils"
	"github.com/spf13/cobra"
)

var detailArgs struct {
	id           int64
	name         string
	format       string
	skip         int
	limit        int
	topRetainers int
	topEdges     int
}

var detailCmd = &cobra.Command{
	Use:   "detail <file>",
	Short: "Deep-dive on one node id or constructor name",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension([]string{".heapsnapshot"}, false),
	RunE: func(cmd *cobra.Command, args []string) error {
		idSet := cmd.Flags().Changed("id")
		nameSet := cmd.Flags().Changed("name")
		if !idSet && !nameSet {
			return fmt.Errorf("either --id or --name must be specified")
		}
		if idSet && nameSet {
			return fmt.Errorf("use either --id or --name, not both")
		}

		tok := cancel.New()
		defer installCancelSignal(tok)()

		sess, err := loadSnapshot(args[0], tok)
		if err != nil {
			return err
		}

		var d output.Detail
		if idSet {
			byID, err := detail.ByIdQuery(sess.Raw, detailArgs.id, detailArgs.skip, detailArgs.limit, detailArgs.topRetainers, detailArgs.topEdges)
			if err != nil {
				return err
			}
			d = output.FromDetailById(byID)
		} else {
			byName, err := detail.ByNameQuery(sess.Raw, detailArgs.name, detailArgs.skip, detailArgs.limit)
			if err != nil {
				return err
			}
			d = output.FromDetailByName(byName)
		}

		var data []byte
		switch detailArgs.format {
		case "md", "":
			data = []byte(render.DetailMarkdown(d))
		case "json":
			data, err = render.DetailJSON(d)
		case "csv":
			data, err = render.DetailCSV(d)
		default:
			return fmt.Errorf("unknown --format %q", detailArgs.format)
		}
		if err != nil {
			return err
		}

		return render.WriteOrStdout("", data)
	},
}

func init() {
	detailCmd.Flags().Int64Var(&detailArgs.id, "id", 0, "target node id")
	detailCmd.Flags().StringVar(&detailArgs.name, "name", "", "target constructor name")
	detailCmd.Flags().StringVar(&detailArgs.format, "format", "md", "output format: md, json, csv")
	detailCmd.Flags().IntVar(&detailArgs.skip, "skip", 0, "skip first N ids in the name list")
	detailCmd.Flags().IntVar(&detailArgs.limit, "limit", 200, "limit ids listed for --name or --id constructor summary")
	detailCmd.Flags().IntVar(&detailArgs.topRetainers, "top-retainers", 10, "top N retainers (id mode)")
	detailCmd.Flags().IntVar(&detailArgs.topEdges, "top-edges", 10, "top N outgoing edges (id mode)")
	rootCmd.AddCommand(detailCmd)
}
