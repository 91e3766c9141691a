package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/marmos91/bigsqs/internal/logger"
	"github.com/marmos91/bigsqs/pkg/pointer"
	"github.com/spf13/cobra"
)

var (
	receiveMax    int
	receiveDelete bool
	receiveQuiet  bool
)

var receiveCmd = &cobra.Command{
	Use:   "receive",
	Short: "Receive messages, resolving oversized payloads from S3",
	Long: `Receive up to --max messages from the configured queue.

Pointer bodies are resolved from S3 transparently; each resolved body is
printed to stdout. With --delete, successfully resolved messages are deleted
(queue entry and S3 object) after printing.

Messages that cannot be resolved are reported on stderr and left on the
queue for redelivery.

Examples:
  # Receive one message
  bigsqs receive

  # Drain up to 10 messages, deleting as we go
  bigsqs receive --max 10 --delete

  # Print bodies only, one per line
  bigsqs receive --quiet`,
	RunE: runReceive,
}

func init() {
	receiveCmd.Flags().IntVarP(&receiveMax, "max", "m", 1, "Maximum number of messages to receive (1-10)")
	receiveCmd.Flags().BoolVar(&receiveDelete, "delete", false, "Delete messages after successful resolution")
	receiveCmd.Flags().BoolVarP(&receiveQuiet, "quiet", "q", false, "Print message bodies only")
}

func runReceive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	c, err := buildClient(ctx, cfg)
	if err != nil {
		return err
	}

	msgs, err := c.Receive(ctx, receiveMax)
	if err != nil {
		return err
	}

	var failed int
	for _, m := range msgs {
		if m.Err != nil {
			failed++
			var corruptErr *pointer.CorruptPointerError
			if errors.As(m.Err, &corruptErr) {
				fmt.Fprintf(os.Stderr, "message %s: corrupt pointer envelope: %v\n", m.MessageID, m.Err)
			} else {
				fmt.Fprintf(os.Stderr, "message %s: %v\n", m.MessageID, m.Err)
			}
			continue
		}

		if receiveQuiet {
			fmt.Printf("%s\n", m.Body)
		} else {
			fmt.Printf("message_id=%s receipt_handle=%s length=%d md5=%s\n%s\n",
				m.MessageID, m.ReceiptHandle, m.BodyLength, m.BodyMD5, m.Body)
		}

		if receiveDelete {
			if err := c.Delete(ctx, m.ReceiptHandle); err != nil {
				logger.Warn("failed to delete message", "message_id", m.MessageID, "error", err)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d messages could not be resolved", failed, len(msgs))
	}
	return nil
}
