package cli

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nodewire/nodewire/internal/server"
	"github.com/nodewire/nodewire/pkg/cache"
	"github.com/nodewire/nodewire/pkg/store"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the nodewire HTTP API",
		Long:  `Serve exposes the codec over HTTP: validation, alias normalization, text reports, diagram rendering and a named document store for passing documents between sessions. The store backend comes from the config file.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			srv := server.New(st, c.Logger,
				server.WithMaxReportItems(c.Config.Report.MaxItems),
				server.WithRenderCache(c.renderCache()),
			)
			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-cmd.Context().Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = httpServer.Shutdown(shutdownCtx)
			}()

			c.Logger.Info("serving", "addr", addr, "store", c.Config.Store.Backend)
			printInfo("listening on %s", addr)

			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

// renderCache memoizes rendered SVGs under the config directory. When
// the directory can't be created the server just renders every time.
func (c *CLI) renderCache() cache.Cache {
	dir, err := configDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(filepath.Join(dir, "render"))
	if err != nil {
		c.Logger.Debug("render cache disabled", "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// openStore builds the document store the config names.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg := c.Config.Store
	switch cfg.Backend {
	case "file":
		return store.NewFileStore(cfg.Dir, cfg.TTL())
	case "redis":
		return store.NewRedisStore(ctx, store.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.TTL(),
		})
	default:
		return store.NewMemoryStore(cfg.TTL()), nil
	}
}
