package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/sheetboard/internal/board"
	"github.com/sadopc/sheetboard/internal/config"
	"github.com/sadopc/sheetboard/internal/loader"
	"github.com/sadopc/sheetboard/internal/logging"
	"github.com/sadopc/sheetboard/internal/sheets"
	"github.com/sadopc/sheetboard/internal/store"
	"github.com/sadopc/sheetboard/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const historyKeep = 200

var (
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sheetboard",
	Short: "Terminal dashboard for department projects and to-dos kept in Google Sheets",
	Long: `sheetboard reads department project sheets and a to-do sheet from Google
Sheets, groups activities into projects, and shows progress, status counts,
and due dates in an interactive terminal dashboard.

Run without arguments to start the dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.LogPath, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runDashboard,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $SHEETBOARD_CONFIG or <config dir>/sheetboard/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	initCLI()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// session holds what every command needs for one load cycle.
type session struct {
	store  *store.Store
	data   *board.ActivityStore
	loader *loader.Loader
}

func openSession(ctx context.Context) (*session, error) {
	s, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if err := s.PruneRuns(historyKeep); err != nil {
		logger.Warn("prune load history", zap.Error(err))
	}

	client, err := sheets.New(ctx, sheets.Options{
		APIKey:   cfg.APIKey,
		Endpoint: cfg.SheetsEndpoint,
		Timeout:  cfg.HTTPTimeout(),
	})
	if err != nil {
		s.Close()
		return nil, err
	}

	data := board.NewActivityStore()
	return &session{
		store:  s,
		data:   data,
		loader: loader.New(client, cfg, data, s, logger.Named("loader")),
	}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	app := tui.NewApp(tui.Options{
		Context:  ctx,
		Loader:   sess.loader,
		Store:    sess.store,
		Logger:   logger.Named("tui"),
		Schedule: cfg.Schedule,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error: %w", err)
	}
	return nil
}
