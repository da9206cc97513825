package main

import (
	"github.com/shrek82/lappa/config"
	"github.com/shrek82/lappa/logger"
	"github.com/spf13/cobra"
)

// app carries state shared by all subcommands.
type app struct {
	cfgFile string
	cfg     *config.Config
	log     logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "lappa-names",
		Short: "Inspect lappa table naming",
		Long: `lappa-names prints the plural forms and table names lappa derives
for entity names, and checks derived names against an existing database.

Naming can be tuned in lappa.yaml, with LAPPA_* environment variables,
or with the flags below.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = cfg.Logger()
			a.log.SetOutput(cmd.ErrOrStderr())
			if cfg.File != "" {
				a.log.Info("using config file %s", cfg.File)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: ./lappa.yaml)")
	pf.String("tag-name", "", "struct tag key read by the model registry")
	pf.Bool("pluralize-tables", true, "pluralize derived table names")
	pf.String("log-level", "", "log level (silent|error|warn|info|debug)")
	pf.String("log-format", "", "log format (text|json)")

	root.AddCommand(newPluralCmd(a), newTableCmd(a), newCheckCmd(a), newTablesCmd(a))
	return root
}
