package ui

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/subwatch/internal/config"
	"github.com/abelbrown/subwatch/internal/store"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// Commands returned by Update run on their own goroutines in Bubble Tea.
// Toggling flags rapidly therefore has a persist command in flight while
// the next keypress mutates the list; the command must work from its own
// copy of the snapshot.
func TestRapidFlagTogglesWithInFlightPersists(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "snapshot.json"))
	snap := store.NewSnapshot()
	snap.ChannelETags["https://a.example/feed"] = ""
	for i := 0; i < 32; i++ {
		snap.Items = append(snap.Items, store.Item{
			Kind:       store.KindVideo,
			ChannelURL: "https://a.example/feed",
			Channel:    "chan",
			Title:      fmt.Sprintf("item %d", i),
			URL:        fmt.Sprintf("https://a.example/%d", i),
			Published:  fmt.Sprintf("2026-01-%02dT00:00:00Z", i%28+1),
		})
	}

	app := NewApp(config.DefaultConfig(), nil, st, nil)
	app.snap = snap
	app.refreshVisible()

	var wg sync.WaitGroup
	var model tea.Model = app
	for i := 0; i < 16; i++ {
		m, cmd := model.Update(keyMsg("t"))
		model = m
		if cmd != nil {
			wg.Add(1)
			go func() {
				defer wg.Done()
				cmd()
			}()
		}
		m, _ = model.Update(keyMsg("j"))
		model = m
	}
	wg.Wait()

	got, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Items) != 32 {
		t.Fatalf("persisted %d items, want 32", len(got.Items))
	}
}

func TestToggleFlagUpdatesListImmediately(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "snapshot.json"))
	snap := store.NewSnapshot()
	snap.ChannelETags["https://a.example/feed"] = ""
	snap.Items = []store.Item{{
		Kind:       store.KindVideo,
		ChannelURL: "https://a.example/feed",
		Channel:    "chan",
		Title:      "only",
		URL:        "https://a.example/1",
		Published:  "2026-01-01T00:00:00Z",
	}}

	app := NewApp(config.DefaultConfig(), nil, st, nil)
	app.snap = snap
	app.refreshVisible()

	m, cmd := app.Update(keyMsg("t"))
	toggled := m.(App)
	if !toggled.visible[0].Read() {
		t.Error("flag not applied to the visible list before persistence")
	}
	if cmd == nil {
		t.Fatal("no persist command returned")
	}
	if msg, ok := cmd().(FlagSaved); !ok || msg.Err != nil {
		t.Fatalf("persist command = %+v", msg)
	}

	got, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.Items[0].Read() {
		t.Error("flag change not persisted")
	}
}
