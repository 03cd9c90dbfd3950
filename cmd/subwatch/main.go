package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/subwatch/internal/config"
	"github.com/abelbrown/subwatch/internal/coord"
	"github.com/abelbrown/subwatch/internal/fetch"
	"github.com/abelbrown/subwatch/internal/logging"
	"github.com/abelbrown/subwatch/internal/player"
	"github.com/abelbrown/subwatch/internal/store"
	"github.com/abelbrown/subwatch/internal/ui"
)

func main() {
	refresh := flag.Bool("refresh", false, "fetch all feeds, update the cache, and exit")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	if err := logging.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Close()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	st := store.New(cfg.CacheFile())
	fetcher := fetch.NewFetcher(30 * time.Second)
	coordinator := coord.NewCoordinator(st, fetcher, cfg)

	if *refresh {
		if err := runRefresh(coordinator, st); err != nil {
			fmt.Fprintf(os.Stderr, "refresh: %v\n", err)
			os.Exit(1)
		}
		return
	}

	app := ui.NewApp(cfg, coordinator, st, player.New(cfg))
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logging.Error("program exited", "err", err)
		fmt.Fprintf(os.Stderr, "subwatch: %v\n", err)
		os.Exit(1)
	}
}

// runRefresh performs one forced reload without starting the UI, so a cron
// job or systemd timer can keep the cache warm.
func runRefresh(coordinator *coord.Coordinator, st *store.Store) error {
	var prev *store.Snapshot
	if st.Exists() {
		snap, err := st.Load()
		if err != nil {
			logging.Warn("ignoring unreadable cache", "err", err)
		} else {
			prev = snap
		}
	}
	if prev == nil {
		prev = store.NewSnapshot()
	}
	snap, err := coordinator.Reload(context.Background(), prev)
	if err != nil {
		return err
	}
	fmt.Printf("fetched %d items\n", len(snap.Items))
	return nil
}
