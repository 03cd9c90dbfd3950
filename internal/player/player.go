// Package player builds the external commands that handle item URLs:
// media players for video and audio, a magnet handler for torrents, and the
// system opener for everything else.
package player

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/abelbrown/subwatch/internal/config"
	"github.com/abelbrown/subwatch/internal/store"
)

// ErrNoPlayer means no configured player binary exists on this system.
var ErrNoPlayer = errors.New("no usable player configured")

// Player dispatches item URLs to external programs.
type Player struct {
	cfg *config.Config
}

// New creates a Player for the given configuration.
func New(cfg *config.Config) *Player {
	return &Player{cfg: cfg}
}

// Command builds the command that plays an item. Magnet items go to the
// configured magnet handler; everything else goes to mpv or the first
// fallback player whose binary exists. The command is returned unstarted so
// the UI can suspend the terminal around interactive players.
func (p *Player) Command(item store.Item, audioOnly bool) (*exec.Cmd, error) {
	if item.Kind == store.KindMagnet {
		return p.magnetCommand(item.URL)
	}
	if p.cfg.MpvMode {
		return p.mpvCommand(item.URL, audioOnly)
	}
	return p.fallbackCommand(item.URL)
}

func (p *Player) mpvCommand(url string, audioOnly bool) (*exec.Cmd, error) {
	if _, err := exec.LookPath(p.cfg.MpvPath); err != nil {
		return nil, fmt.Errorf("%w: %s not found", ErrNoPlayer, p.cfg.MpvPath)
	}
	args := []string{fmt.Sprintf("--ytdl-format=%s", p.cfg.YtdlFormat)}
	if p.cfg.Fullscreen {
		args = append(args, "-fs")
	}
	if audioOnly {
		args = append(args, "--no-video")
	}
	args = append(args, p.cfg.PlayerOpts...)
	args = append(args, url)
	return exec.Command(p.cfg.MpvPath, args...), nil
}

// fallbackCommand picks the first configured player whose binary is on PATH.
func (p *Player) fallbackCommand(url string) (*exec.Cmd, error) {
	for _, player := range p.cfg.Players {
		if len(player) == 0 {
			continue
		}
		if _, err := exec.LookPath(player[0]); err != nil {
			continue
		}
		args := append(append([]string{}, player[1:]...), p.cfg.PlayerOpts...)
		args = append(args, url)
		return exec.Command(player[0], args...), nil
	}
	return nil, ErrNoPlayer
}

func (p *Player) magnetCommand(url string) (*exec.Cmd, error) {
	if p.cfg.OpenMagnet == "" {
		return nil, errors.New("no magnet handler configured")
	}
	if _, err := exec.LookPath(p.cfg.OpenMagnet); err != nil {
		return nil, fmt.Errorf("magnet handler %s not found: %w", p.cfg.OpenMagnet, err)
	}
	return exec.Command(p.cfg.OpenMagnet, url), nil
}

// OpenBrowser opens a URL with the platform opener, without waiting.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
