package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nodewire/nodewire/pkg/document"
	"github.com/nodewire/nodewire/pkg/errors"
	"github.com/nodewire/nodewire/pkg/render"
)

// renderCommand draws a document as a node-link diagram.
func (c *CLI) renderCommand() *cobra.Command {
	var output string
	var detailed bool

	cmd := &cobra.Command{
		Use:   "render <document.json>",
		Short: "Render a document as a DOT or SVG diagram",
		Long:  `Render draws the document as a Graphviz node-link diagram. The output format follows the -o extension: .dot writes the DOT source, .svg renders it. Without -o the DOT source goes to stdout.`,
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

			dot := render.ToDOT(doc, render.Options{Detailed: detailed})
			if output == "" {
				fmt.Print(dot)
				return nil
			}

			switch strings.ToLower(filepath.Ext(output)) {
			case ".dot", ".gv":
				if err := os.WriteFile(output, []byte(dot), 0644); err != nil {
					return err
				}
			case ".svg":
				sp := newSpinner(cmd.Context(), "rendering diagram")
				sp.Start()
				svg, err := render.SVG(cmd.Context(), dot)
				if err != nil {
					sp.StopWithError(fmt.Sprintf("render failed: %v", err))
					return err
				}
				sp.Stop()
				if err := os.WriteFile(output, svg, 0644); err != nil {
					return err
				}
			default:
				return errors.New(errors.ErrCodeInvalidInput, "unsupported output extension %q", filepath.Ext(output))
			}

			printSuccess("rendered %s", args[0])
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.dot, .gv or .svg)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include property values in node labels")
	return cmd
}
