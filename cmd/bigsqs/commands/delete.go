package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/marmos91/bigsqs/pkg/client"
	"github.com/spf13/cobra"
)

var deleteRawBody string

var deleteCmd = &cobra.Command{
	Use:   "delete <receipt-handle>",
	Short: "Delete a message and its offloaded payload",
	Long: `Delete a message from the configured queue by receipt handle.

If the message body was a pointer to S3, the raw (unresolved) body must be
supplied with --raw-body so the offloaded object can be deleted too; without
it only the queue entry is removed.

A cleanup failure after the queue entry is gone is reported but exits
successfully: the message is consumed, the leaked object can be swept later.

Examples:
  bigsqs delete AQEB2Yp...

  # Also clean up the offloaded object
  bigsqs delete AQEB2Yp... --raw-body pointer.json`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().StringVar(&deleteRawBody, "raw-body", "", "File holding the message's raw wire body ('-' for stdin)")
}

func runDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	c, err := buildClient(ctx, cfg)
	if err != nil {
		return err
	}

	receiptHandle := args[0]

	if deleteRawBody == "" {
		err = c.Delete(ctx, receiptHandle)
	} else {
		var rawBody []byte
		rawBody, err = readInput(deleteRawBody)
		if err != nil {
			return err
		}
		err = c.DeleteWithBody(ctx, receiptHandle, rawBody)
	}

	var cleanupErr *client.CleanupError
	if errors.As(err, &cleanupErr) {
		fmt.Fprintf(os.Stderr, "warning: %v\n", cleanupErr)
		return nil
	}
	return err
}
