package cmd

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/kavanlund/heapsnap/internal/httpview"
	"github.com/kavanlund/heapsnap/internal/snapshot/cancel"
	"github.com/kavanlund/heapsnap/utils"
	"github.com/spf13/cobra"
)

var serveArgs struct {
	bind string
	port int
}

var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Serve a loopback-only HTTP viewer over an already-loaded snapshot",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension([]string{".heapsnapshot"}, false),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLoopback(serveArgs.bind); err != nil {
			return err
		}

		tok := cancel.New()
		defer installCancelSignal(tok)()

		sess, err := loadSnapshot(args[0], tok)
		if err != nil {
			return err
		}

		engine := httpview.New(sess)
		addr := fmt.Sprintf("%s:%d", serveArgs.bind, serveArgs.port)
		slog.Info("serve listening", "addr", addr)
		return engine.Run(addr)
	},
}

// requireLoopback rejects any bind address that doesn't resolve to a
// loopback interface; the viewer never listens on a routable address.
func requireLoopback(bind string) error {
	ip := net.ParseIP(bind)
	if ip == nil {
		return fmt.Errorf("--bind %q is not a valid IP address", bind)
	}
	if !ip.IsLoopback() {
		return fmt.Errorf("--bind %q is not a loopback address; serve only binds to loopback", bind)
	}
	return nil
}

func init() {
	serveCmd.Flags().StringVar(&serveArgs.bind, "bind", "127.0.0.1", "loopback address to bind")
	serveCmd.Flags().IntVar(&serveArgs.port, "port", 7878, "port to listen on")
	rootCmd.AddCommand(serveCmd)
}
