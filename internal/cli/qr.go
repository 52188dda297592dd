package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vidgrab/vidgrab/internal/qr"
)

var qrOutput string

var qrCmd = &cobra.Command{
	Use:   "qr <url>",
	Short: "Generate a QR code for a link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if qrOutput != "" {
			png, err := qr.PNG(args[0])
			if err != nil {
				return err
			}
			if err := os.WriteFile(qrOutput, png, 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", qrOutput)
			return nil
		}

		uri, err := qr.DataURI(args[0])
		if err != nil {
			return err
		}
		fmt.Println(uri)
		return nil
	},
}

func init() {
	qrCmd.Flags().StringVarP(&qrOutput, "output", "o", "", "write a PNG file instead of printing a data URI")
}
