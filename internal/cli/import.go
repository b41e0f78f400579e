package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nodewire/nodewire/pkg/document"
	"github.com/nodewire/nodewire/pkg/errors"
	"github.com/nodewire/nodewire/pkg/host/memhost"
	"github.com/nodewire/nodewire/pkg/rebuild"
)

// importCommand rebuilds a document into a scratch graph and reports
// what an editor-side import would accept.
func (c *CLI) importCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "import <document.json>",
		Short: "Rebuild a document and show the import report",
		Long:  `Import rebuilds the document into a fresh in-memory graph, the same best-effort, per-item process an editor import runs, and prints the resulting report: counts plus the first offending items per warning category.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.Load(args[0])
			if err != nil {
				printError("%s", errors.UserMessage(err))
				return err
			}

			p := newProgress(c.Logger)
			g := memhost.New(nil)
			report, err := rebuild.Rebuild(cmd.Context(), doc, g, rebuild.Options{Logger: c.Logger})
			if err != nil {
				printError("%s", errors.UserMessage(err))
				return err
			}
			p.done(fmt.Sprintf("Rebuilt %d nodes, %d links", report.NodesCreated, report.LinksCreated))

			if report.Clean() {
				printSuccess("%s imports cleanly", args[0])
			} else {
				printWarning("%s imports with %d warnings", args[0], len(report.Warnings))
			}
			printStats(report.NodesCreated, report.LinksCreated, len(report.Warnings))
			fmt.Print(report.Summary(c.Config.Report.MaxItems))

			if strict && !report.Clean() {
				return errors.New(errors.ErrCodeInvalidInput, "%d import warnings", len(report.Warnings))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when the import produces warnings")
	return cmd
}
