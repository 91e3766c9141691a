package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sendFile string

var sendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Send a message, offloading it to S3 if oversized",
	Long: `Send a message to the configured queue.

The payload is taken from the argument, or from a file with --file.
Payloads above the configured threshold are stored in S3 automatically.

Examples:
  # Send an inline payload
  bigsqs send "hello" --config bigsqs.yaml

  # Send the contents of a file
  bigsqs send --file payload.json

  # Read from stdin
  bigsqs send --file -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVarP(&sendFile, "file", "f", "", "Read the payload from a file ('-' for stdin)")
}

func runSend(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var payload []byte
	switch {
	case sendFile == "" && len(args) == 0:
		return fmt.Errorf("a message argument or --file is required")
	case sendFile != "" && len(args) > 0:
		return fmt.Errorf("a message argument and --file are mutually exclusive")
	case sendFile != "":
		payload, err = readInput(sendFile)
		if err != nil {
			return err
		}
	default:
		payload = []byte(args[0])
	}

	ctx := cmd.Context()
	c, err := buildClient(ctx, cfg)
	if err != nil {
		return err
	}

	res, err := c.Send(ctx, payload)
	if err != nil {
		return err
	}

	fmt.Printf("message_id=%s length=%d md5=%s\n", res.MessageID, res.BodyLength, res.BodyMD5)
	return nil
}
