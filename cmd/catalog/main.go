package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/app"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/platform/logger"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Browse the property catalog and manage the local session",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file or directory holding config.yaml")

	root.AddCommand(
		newListingsCmd(opts),
		newShowCmd(opts),
		newFavoriteCmd(opts),
		newFavoritesCmd(opts),
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newLikeCmd(opts),
		newShareCmd(opts),
		newOptionsCmd(opts),
		newStatsCmd(opts),
	)
	return root
}

// withApp builds the application for one command and closes it afterwards.
func withApp(cmd *cobra.Command, opts *rootOptions, run func(*app.App) error) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	log := logger.NewLogger(&logger.LoggerConfig{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		OutputFile: cfg.Log.OutputFile,
	})
	defer func() { _ = log.Sync() }()

	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())
	return run(a)
}
