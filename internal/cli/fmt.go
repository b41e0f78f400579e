package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nodewire/nodewire/pkg/document"
	"github.com/nodewire/nodewire/pkg/errors"
	"github.com/nodewire/nodewire/pkg/export"
	"github.com/nodewire/nodewire/pkg/host/memhost"
	"github.com/nodewire/nodewire/pkg/rebuild"
)

// fmtCommand canonicalizes a document: aliases become canonical
// identifiers, ids and ordering stabilize, formatting normalizes.
func (c *CLI) fmtCommand() *cobra.Command {
	var output string
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt <document.json>",
		Short: "Rewrite a document in canonical form",
		Long:  `Fmt rebuilds the document into a scratch graph and exports it again. Alias spellings collapse to canonical identifiers, defaults re-encode in their declared kinds, and the JSON is consistently ordered, so diffs against later AI edits stay readable. Items the rebuild rejects are dropped, with a warning per item.`,
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
			for _, it := range report.Warnings {
				printWarning("dropped: %s", it)
			}

			canonical := export.Snapshot(g)

			switch {
			case write:
				output = args[0]
				fallthrough
			case output != "":
				if err := document.Save(canonical, output); err != nil {
					return err
				}
				printSuccess("formatted %s", args[0])
				printFile(output)
			default:
				if err := document.Write(canonical, os.Stdout); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the canonical document to this file")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the input file in place")
	return cmd
}
