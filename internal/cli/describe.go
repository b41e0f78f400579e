package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nodewire/nodewire/pkg/describe"
	"github.com/nodewire/nodewire/pkg/document"
	"github.com/nodewire/nodewire/pkg/errors"
	"github.com/nodewire/nodewire/pkg/host/memhost"
	"github.com/nodewire/nodewire/pkg/rebuild"
)

// describeCommand turns a document into the human-readable text report.
func (c *CLI) describeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "describe <document.json>",
		Short: "Write a human-readable report of a document",
		Long:  `Describe rebuilds the document into a scratch graph and prints the node-by-node text report: types, attributes, unconnected defaults and connections. The report is one-way; use the JSON document for round trips.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.Load(args[0])
			if err != nil {
				printError("%s", errors.UserMessage(err))
				return err
			}

			g := memhost.New(nil)
			report, err := rebuild.Rebuild(cmd.Context(), doc, g, rebuild.Options{Logger: c.Logger})
			if err != nil {
				printError("%s", errors.UserMessage(err))
				return err
			}
			if !report.Clean() {
				printWarning("%d items did not rebuild; the report covers what did", len(report.Warnings))
			}

			text := describe.Graph(g)
			if output != "" {
				if err := os.WriteFile(output, []byte(text), 0644); err != nil {
					return err
				}
				printSuccess("described %s", args[0])
				printFile(output)
				return nil
			}
			fmt.Print(text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to this file")
	return cmd
}
