package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/vidgrab/vidgrab/internal/config"
	"github.com/vidgrab/vidgrab/internal/downloader"
	"github.com/vidgrab/vidgrab/internal/extractor"
	"github.com/vidgrab/vidgrab/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the vidgrab HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg := config.LoadOrDefault()

	driver, probe := newToolchain(cfg)

	scratch, err := downloader.NewScratch(cfg.ScratchDir)
	if err != nil {
		return err
	}

	historyPath := cfg.HistoryDB
	if historyPath == "" {
		dir, err := config.ConfigDir()
		if err != nil {
			return err
		}
		historyPath = filepath.Join(dir, "history.db")
	}
	history, err := server.OpenHistory(historyPath)
	if err != nil {
		return err
	}
	defer history.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	scratch.StartSweeper(ctx,
		time.Duration(cfg.SweepIntervalMins)*time.Minute,
		time.Duration(cfg.MaxFileAgeMins)*time.Minute,
	)

	srv := server.New(
		extractor.New(driver, probe),
		downloader.New(driver, probe, scratch),
		history,
		server.StaticTokens(cfg.Tokens),
	)

	fmt.Printf("vidgrab API listening on %s\n", cfg.Addr())
	return srv.Run(cfg.Addr())
}
