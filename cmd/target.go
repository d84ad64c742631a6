package cmd

import (
	"fmt"

	"github.com/kavanlund/heapsnap/internal/snapshot/retainers"
	"github.com/kavanlund/heapsnap/internal/snapshot/session"
	"github.com/spf13/cobra"
)

// resolveTarget implements the shared --id/--name/--pick contract used by
// retainers and dominator: exactly one of --id or --name must be given.
func resolveTarget(cmd *cobra.Command, sess *session.Session, id int64, name string, pick string) (int, error) {
	idSet := cmd.Flags().Changed("id")
	nameSet := cmd.Flags().Changed("name")

	if !idSet && !nameSet {
		return 0, fmt.Errorf("either --id or --name must be specified")
	}
	if idSet && nameSet {
		return 0, fmt.Errorf("use either --id or --name, not both")
	}

	if idSet {
		return retainers.ResolveByID(sess.Raw, id, sess.Cancel)
	}

	policy, err := parsePickPolicy(pick)
	if err != nil {
		return 0, err
	}
	return retainers.ResolveByName(sess.Raw, name, policy)
}

func parsePickPolicy(pick string) (retainers.PickPolicy, error) {
	switch pick {
	case "", "largest":
		return retainers.PickLargest, nil
	case "count":
		return retainers.PickCount, nil
	default:
		return "", fmt.Errorf("unknown --pick value %q (want largest or count)", pick)
	}
}
