package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nodewire/nodewire/pkg/describe"
	"github.com/nodewire/nodewire/pkg/document"
)

// templateCommand emits starting points for new documents.
func (c *CLI) templateCommand() *cobra.Command {
	var text bool
	var starter bool

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Print a document template to start from",
		Long:  `Template prints a minimal JSON document to paste into a prompt or editor. --starter seeds it with group input/output nodes; --text prints the human-readable instruction dialect instead of JSON.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if text {
				fmt.Print(describe.Template())
				return nil
			}

			doc := document.Template()
			if starter {
				doc = document.Starter()
			}
			return document.Write(doc, os.Stdout)
		},
	}

	cmd.Flags().BoolVar(&text, "text", false, "print the human-readable text template")
	cmd.Flags().BoolVar(&starter, "starter", false, "seed the JSON template with group input/output nodes")
	return cmd
}
