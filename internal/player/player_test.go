package player

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abelbrown/subwatch/internal/config"
	"github.com/abelbrown/subwatch/internal/store"
)

// fakeBinary drops an executable stub on a temp PATH so LookPath succeeds.
func fakeBinary(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("PATH", dir)
	return path
}

func TestCommandMpvMode(t *testing.T) {
	fakeBinary(t, "mpv")
	cfg := config.DefaultConfig()
	cfg.Fullscreen = true
	cfg.PlayerOpts = []string{"--mute=yes"}
	p := New(cfg)

	cmd, err := p.Command(store.Item{Kind: store.KindVideo, URL: "https://v.example/1"}, false)
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	args := strings.Join(cmd.Args, " ")
	for _, want := range []string{"--ytdl-format=", "-fs", "--mute=yes", "https://v.example/1"} {
		if !strings.Contains(args, want) {
			t.Errorf("args %q missing %q", args, want)
		}
	}
	if strings.Contains(args, "--no-video") {
		t.Error("--no-video present without audio-only")
	}
}

func TestCommandAudioOnly(t *testing.T) {
	fakeBinary(t, "mpv")
	p := New(config.DefaultConfig())

	cmd, err := p.Command(store.Item{Kind: store.KindAudio, URL: "https://a.example/1"}, true)
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	if !strings.Contains(strings.Join(cmd.Args, " "), "--no-video") {
		t.Error("audio-only playback should pass --no-video")
	}
}

func TestCommandFallbackPicksFirstExisting(t *testing.T) {
	fakeBinary(t, "vlc")
	cfg := config.DefaultConfig()
	cfg.MpvMode = false
	cfg.Players = [][]string{{"missing-player", "--flag"}, {"vlc"}}
	p := New(cfg)

	cmd, err := p.Command(store.Item{Kind: store.KindVideo, URL: "https://v.example/1"}, false)
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	if filepath.Base(cmd.Args[0]) != "vlc" {
		t.Errorf("picked %q, want vlc", cmd.Args[0])
	}
}

func TestCommandNoPlayerAvailable(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	cfg := config.DefaultConfig()
	cfg.MpvMode = false
	cfg.Players = [][]string{{"missing-player"}}
	p := New(cfg)

	if _, err := p.Command(store.Item{Kind: store.KindVideo, URL: "x"}, false); !errors.Is(err, ErrNoPlayer) {
		t.Errorf("err = %v, want ErrNoPlayer", err)
	}
}

func TestCommandMagnet(t *testing.T) {
	fakeBinary(t, "transmission-remote")
	cfg := config.DefaultConfig()
	cfg.OpenMagnet = "transmission-remote"
	p := New(cfg)

	cmd, err := p.Command(store.Item{Kind: store.KindMagnet, URL: "magnet:?xt=urn:btih:x"}, false)
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	if cmd.Args[len(cmd.Args)-1] != "magnet:?xt=urn:btih:x" {
		t.Errorf("magnet URL not passed through: %v", cmd.Args)
	}
}

func TestCommandMagnetUnconfigured(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OpenMagnet = ""
	p := New(cfg)

	if _, err := p.Command(store.Item{Kind: store.KindMagnet, URL: "magnet:?x"}, false); err == nil {
		t.Error("expected error without a magnet handler")
	}
}
