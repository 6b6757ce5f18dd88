package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/toolprompts/config"
	"github.com/jonwraymond/toolprompts/logging"
	"github.com/jonwraymond/toolprompts/mcpserver"
	"github.com/jonwraymond/toolprompts/registry"
	"github.com/jonwraymond/toolprompts/search"
)

const shutdownTimeout = 5 * time.Second

type serveOptions struct {
	transport string
	addr      string
	sdk       bool
	watch     bool
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load(cmd)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("transport") {
				cfg.Server.Transport = opts.transport
			}
			if flags.Changed("addr") {
				cfg.Server.Addr = opts.addr
			}
			if flags.Changed("sdk") {
				cfg.Server.SDK = opts.sdk
			}
			if flags.Changed("watch") {
				cfg.Catalog.Watch = opts.watch
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.transport, "transport", "", "transport: stdio, http, or sse")
	flags.StringVar(&opts.addr, "addr", "", "listen address for http and sse")
	flags.BoolVar(&opts.sdk, "sdk", false, "serve through the MCP Go SDK server")
	flags.BoolVar(&opts.watch, "watch", false, "reload the catalog when it changes")
	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, loader, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	searcher := search.NewSearcher(search.Config{
		MaxResults: cfg.Search.MaxResults,
		NameBoost:  cfg.Search.NameBoost,
	})
	defer func() {
		_ = searcher.Close()
	}()

	var (
		serve    func(context.Context) error
		onReload func()
	)
	if cfg.Server.SDK {
		srv := mcpserver.New(&mcp.Implementation{
			Name:    cfg.Server.Name,
			Version: cfg.Server.Version,
		}, reg, mcpserver.Options{Searcher: searcher})
		onReload = srv.Sync
		serve = func(ctx context.Context) error {
			if cfg.Server.Transport == "stdio" {
				return srv.Run(ctx, &mcp.StdioTransport{})
			}
			return listenAndServe(ctx, cfg.Server.Addr, srv.HTTPHandler())
		}
	} else {
		r := registry.New(registry.Config{
			ServerInfo: registry.ServerInfo{
				Name:    cfg.Server.Name,
				Version: cfg.Server.Version,
			},
			Prompts:  reg,
			Searcher: searcher,
		})
		serve = func(ctx context.Context) error {
			switch cfg.Server.Transport {
			case "http":
				return listenAndServe(ctx, cfg.Server.Addr, registry.ServeHTTP(r))
			case "sse":
				return listenAndServe(ctx, cfg.Server.Addr, registry.ServeSSE(r))
			default:
				return registry.ServeStdio(ctx, r)
			}
		}
	}

	logging.Info().
		Add(logging.Component("server")).
		Add(logging.Str("transport", cfg.Server.Transport)).
		Add(logging.ToolCount(reg.Len())).
		Msg("starting")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if loader != nil && cfg.Catalog.Watch {
		g.Go(func() error {
			return loader.Watch(ctx, onReload)
		})
	}
	g.Go(func() error {
		// Stop the watcher once the transport finishes, e.g. when stdin closes.
		defer cancel()
		return serve(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func listenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Add(logging.Str("addr", addr)).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	}
}
