package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nodewire/nodewire/pkg/describe"
	"github.com/nodewire/nodewire/pkg/host/memhost"
	"github.com/nodewire/nodewire/pkg/rebuild"
	"github.com/nodewire/nodewire/pkg/store"
)

// browseCommand interactively picks a stored document and prints its
// analysis report.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactively browse stored documents",
		Long:  `Browse lists the documents in the configured store and lets you pick one with the arrow keys. The selected document is rebuilt into a scratch graph and its text report printed.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			keys, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				printInfo("store is empty")
				return nil
			}

			entries := make([]store.Entry, 0, len(keys))
			for _, key := range keys {
				entry, err := st.Get(ctx, key)
				if err != nil {
					return err
				}
				if entry != nil {
					entries = append(entries, *entry)
				}
			}

			model, err := tea.NewProgram(NewDocumentListModel(entries)).Run()
			if err != nil {
				return err
			}
			selected := model.(DocumentListModel).Selected
			if selected == nil {
				return nil
			}

			g := memhost.New(nil)
			report, err := rebuild.Rebuild(ctx, selected.Document, g, rebuild.Options{Logger: c.Logger})
			if err != nil {
				return err
			}

			fmt.Println(describe.Graph(g))
			if !report.Clean() {
				printWarning("%d items skipped during rebuild", len(report.Warnings))
			}
			return nil
		},
	}
}
