package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/nodewire/nodewire/pkg/document"
	"github.com/nodewire/nodewire/pkg/errors"
	"github.com/nodewire/nodewire/pkg/host/memhost"
	"github.com/nodewire/nodewire/pkg/rebuild"
)

// watchDebounce batches editor write bursts into one re-import.
const watchDebounce = 200 * time.Millisecond

// watchCommand re-imports a document file whenever it changes.
func (c *CLI) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <document.json>",
		Short: "Re-validate and re-import a document on every change",
		Long:  `Watch monitors a document file and reruns the import dry run whenever it changes, printing the fresh report each time. Useful while iterating with an AI on the JSON. Stop with Ctrl-C.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := document.Load(path); err != nil {
				// Still watch: the first save may fix it.
				printWarning("%s", errors.UserMessage(err))
			} else {
				c.checkOnce(cmd.Context(), path)
			}
			return c.watch(cmd.Context(), path)
		},
	}
}

func (c *CLI) watch(ctx context.Context, path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory, not the file: editors replace files on save
	// and the inode-level watch would die with the old file.
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return err
	}

	c.Logger.Info("watching", "path", path)
	printInfo("watching %s", path)

	target := filepath.Clean(path)
	var debounce *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			c.Logger.Info("watch stopped")
			return nil

		case <-fire:
			c.checkOnce(ctx, path)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			c.Logger.Debug("file changed", "op", ev.Op.String())
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
				fire = debounce.C
			} else {
				debounce.Reset(watchDebounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watch error", "err", err)
		}
	}
}

// checkOnce runs one validate + import pass and prints the outcome.
func (c *CLI) checkOnce(ctx context.Context, path string) {
	doc, err := document.Load(path)
	if err != nil {
		printError("%s", errors.UserMessage(err))
		return
	}

	report, err := rebuild.Rebuild(ctx, doc, memhost.New(nil), rebuild.Options{Logger: c.Logger})
	if err != nil {
		printError("%s", errors.UserMessage(err))
		return
	}

	stamp := time.Now().Format("15:04:05")
	if report.Clean() {
		printSuccess("%s %s imports cleanly", stamp, path)
	} else {
		printWarning("%s %s: %d warnings", stamp, path, len(report.Warnings))
		fmt.Print(report.Summary(c.Config.Report.MaxItems))
	}
	printStats(report.NodesCreated, report.LinksCreated, len(report.Warnings))
}
