package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"chatrelay/internal/client"
)

var probeURLFlag string

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Print the relay descriptor of a running server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return runProbe(ctx, cmd.OutOrStdout(), client.NewHTTPRelay(probeURLFlag, nil))
	},
}

func init() {
	probeCmd.Flags().StringVar(&probeURLFlag, "url", defaultURL, "Base URL of the chatrelay server")
}

func runProbe(ctx context.Context, out io.Writer, relay *client.HTTPRelay) error {
	desc, err := relay.Probe(ctx)
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}
	for _, key := range []string{"status", "message", "usage"} {
		fmt.Fprintf(out, "%-8s %s\n", key+":", desc[key])
	}
	return nil
}
