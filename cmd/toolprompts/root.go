package main

import (
	"github.com/spf13/cobra"

	"github.com/jonwraymond/toolprompts/catalog"
	"github.com/jonwraymond/toolprompts/config"
	"github.com/jonwraymond/toolprompts/logging"
	"github.com/jonwraymond/toolprompts/prompts"
)

type rootOptions struct {
	configPath  string
	catalogPath string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "toolprompts",
		Short: "Serve example prompts for MCP tools",
		Long: `toolprompts keeps a registry of example prompts per tool and exposes it
over MCP (get_prompts, search_prompts, and one MCP prompt per tool).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&opts.catalogPath, "catalog", "", "path to a YAML prompt catalog")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(opts),
		newListCmd(opts),
		newSearchCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// load resolves config, applies persistent flag overrides, and initializes logging.
func (o *rootOptions) load(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("catalog") {
		cfg.Catalog.Path = o.catalogPath
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}

	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	return cfg, nil
}

// loadRegistry builds a prompt registry from the configured catalog, if any.
func loadRegistry(cfg config.Config) (*prompts.Registry, *catalog.Loader, error) {
	reg := prompts.New()
	if cfg.Catalog.Path == "" {
		return reg, nil, nil
	}
	loader := catalog.NewLoader(cfg.Catalog.Path, reg)
	if err := loader.Reload(); err != nil {
		return nil, nil, err
	}
	return reg, loader, nil
}
