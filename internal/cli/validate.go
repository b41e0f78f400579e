package cli

import (
	"github.com/spf13/cobra"

	"github.com/nodewire/nodewire/pkg/document"
	"github.com/nodewire/nodewire/pkg/errors"
)

// validateCommand checks a document's structure without touching any
// graph.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <document.json>",
		Short: "Check a document for structural problems",
		Long:  `Validate parses a document and runs the same fatal pre-checks an import would run: format version, node id uniqueness, type and property names. It never modifies anything.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.Load(args[0])
			if err != nil {
				printError("%s", errors.UserMessage(err))
				return err
			}
			if err := doc.Validate(); err != nil {
				printError("%s", errors.UserMessage(err))
				return err
			}

			printSuccess("%s is structurally valid", args[0])
			printStats(len(doc.Nodes), len(doc.Links), 0)
			return nil
		},
	}
}
