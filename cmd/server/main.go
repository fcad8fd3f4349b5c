package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kalibracloud/internal/app"
	"kalibracloud/internal/config"
	"kalibracloud/internal/logging"
	"kalibracloud/internal/seed"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var port string

	serve := func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if port != "" {
			cfg.ServerPort = port
		}

		log, err := logging.New(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if err := app.Serve(cmd.Context(), cfg, log); err != nil {
			log.Error("server stopped", zap.Error(err))
			return err
		}
		return nil
	}

	root := &cobra.Command{
		Use:           "kalibracloud",
		Short:         "KalibraCloud calibration management demo",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve,
	}
	root.PersistentFlags().StringVar(&port, "port", "", "listen port (overrides SERVER_PORT)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the web server (default)",
			RunE:  serve,
		},
		newAccountsCmd(),
	)
	return root
}

func newAccountsCmd() *cobra.Command {
	var seedFile string

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List the demo accounts of the seed dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if seedFile == "" {
				seedFile = os.Getenv("SEED_FILE")
			}
			ds, err := seed.Load(seedFile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, u := range ds.Users {
				fmt.Fprintf(out, "%-7s %s / %s\n", u.Role+":", u.Email, u.Password)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&seedFile, "seed-file", "", "seed dataset (default: $SEED_FILE or embedded)")
	return cmd
}
