package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tuannm99/pagedb/internal"
	"github.com/tuannm99/pagedb/internal/engine"
	"github.com/tuannm99/pagedb/internal/logging"
	"github.com/tuannm99/pagedb/internal/repl"
)

var errNoFilename = errors.New("must supply a database filename")

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pagedb <db-file>",
		Short: "pagedb - single table page store",
		Long: `pagedb stores rows of (id, username, email) in a single page file
and reads insert/select statements from stdin.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errNoFilename
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	f := cmd.Flags()
	f.StringP("config", "c", "", "YAML config file")
	f.String("log-level", "warn", "log level: debug, info, warn, error")
	f.String("history", "", "readline history file (interactive mode only)")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := internal.LoadConfig(cfgPath, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	logging.SetDefault(logger)

	db, err := engine.Open(args[0], cfg)
	if err != nil {
		return err
	}

	s := repl.NewSession(db, cmd.OutOrStdout())
	s.Prompt = cfg.REPL.Prompt

	var runErr error
	if cmd.InOrStdin() == os.Stdin && repl.IsTerminal() {
		runErr = s.RunInteractive(cmd.Context(), cfg.REPL.History)
	} else {
		runErr = s.Run(cmd.Context(), cmd.InOrStdin())
	}

	if err := db.Close(); err != nil {
		return errors.Join(runErr, err)
	}
	if runErr != nil {
		return fmt.Errorf("session: %w", runErr)
	}
	return nil
}
