package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/sayyes/internal/chime"
	"github.com/jask/sayyes/internal/config"
	"github.com/jask/sayyes/internal/content"
	"github.com/jask/sayyes/internal/journal"
	"github.com/jask/sayyes/internal/logging"
	"github.com/jask/sayyes/internal/tui"
)

func main() {
	stats := flag.Bool("stats", false, "print journal totals and recent runs, then exit")
	writeConfig := flag.Bool("write-config", false, "write the effective config to the config path, then exit")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if *writeConfig {
		path := config.Path()
		if err := config.Save(cfg, path); err != nil {
			log.Fatalf("write config: %v", err)
		}
		fmt.Println(path)
		return
	}

	logger, logFile, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("log: %v", err)
	}
	defer logFile.Close()

	tables := content.Default()
	if cfg.Content.Path != "" {
		tables, err = content.LoadFile(cfg.Content.Path)
		if err != nil {
			log.Fatalf("content: %v", err)
		}
	}

	var repo *journal.Repo
	if cfg.Journal.Enabled || *stats {
		if err := os.MkdirAll(filepath.Dir(cfg.Journal.Path), 0o755); err != nil {
			log.Fatalf("mkdir journal dir: %v", err)
		}
		db, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			log.Fatalf("open journal: %v", err)
		}
		defer db.Close()
		if err := journal.RunMigrations(db); err != nil {
			log.Fatalf("migrate journal: %v", err)
		}
		repo = journal.NewRepo(db)
	}

	if *stats {
		if err := printStats(ctx, repo); err != nil {
			log.Fatalf("stats: %v", err)
		}
		return
	}

	cues := player(cfg.Audio, logger)
	defer cues.Close()
	deps := tui.Deps{Logger: logger, Chime: cues}
	if repo != nil {
		entry, err := repo.Start(ctx, cfg.UI.Recipient)
		if err != nil {
			log.Fatalf("journal start: %v", err)
		}
		deps.Journal, deps.EntryID = repo, entry.ID
	}

	logger.Info("starting", "recipient", cfg.UI.Recipient, "theme", cfg.UI.Theme, "journal", repo != nil, "audio", cfg.Audio.Enabled)
	p := tea.NewProgram(tui.New(ctx, cfg, tables, deps), tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		logger.Error("program exited", "err", err)
		fmt.Printf("error: %v\n", err)
	}
}

func player(cfg config.AudioConfig, logger *slog.Logger) chime.Player {
	if !cfg.Enabled {
		return chime.Nop{}
	}
	s, err := chime.NewSpeaker(cfg.Volume)
	if err != nil {
		logger.Warn("audio disabled", "err", err)
		return chime.Nop{}
	}
	return s
}

func printStats(ctx context.Context, repo *journal.Repo) error {
	s, err := repo.Summary(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("sessions %d  accepted %d  declines %d  most declines %d\n",
		s.Sessions, s.Accepted, s.TotalDeclines, s.MostDeclines)

	recent, err := repo.Recent(ctx, 10)
	if err != nil {
		return err
	}
	for _, e := range recent {
		outcome := "pending"
		if e.AcceptedAt != nil {
			outcome = "yes after " + e.AcceptedAt.Sub(e.StartedAt).Round(time.Second).String()
		}
		fmt.Printf("%s  %-12s %3d declines  %s\n",
			e.StartedAt.Local().Format("2006-01-02 15:04"), strings.TrimSpace(e.Recipient), e.Declines, outcome)
	}
	return nil
}
