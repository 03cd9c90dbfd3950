package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/subwatch/internal/config"
	"github.com/abelbrown/subwatch/internal/coord"
	"github.com/abelbrown/subwatch/internal/player"
	"github.com/abelbrown/subwatch/internal/store"
)

type mode int

const (
	modeList mode = iota
	modeFilter
	modeSearch
	modeInfo
)

// App is the top-level Bubble Tea model.
type App struct {
	cfg    *config.Config
	coord  *coord.Coordinator
	store  *store.Store
	player *player.Player

	snap    *store.Snapshot
	visible []store.Item
	cursor  int
	offset  int
	width   int
	height  int

	mode   mode
	input  textinput.Model
	filter string
	search string

	spin    spinner.Model
	loading bool
	status  string

	infoLines  []string
	infoOffset int
}

// NewApp creates the UI model. The snapshot arrives asynchronously via the
// initial load command.
func NewApp(cfg *config.Config, c *coord.Coordinator, st *store.Store, p *player.Player) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	in := textinput.New()
	in.CharLimit = 100

	return App{
		cfg:    cfg,
		coord:  c,
		store:  st,
		player: p,
		spin:   sp,
		input:  in,
		height: 24,
		width:  80,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.spin.Tick, a.loadCmd(false))
}

// loadCmd loads or reloads the snapshot off the UI goroutine.
func (a App) loadCmd(force bool) tea.Cmd {
	c, snap := a.coord, a.snap
	return func() tea.Msg {
		s, err := c.LoadOrReload(context.Background(), force, snap)
		return SnapshotLoaded{Snap: s, Forced: force, Err: err}
	}
}

// setFlagCmd persists a flag change. The snapshot is cloned here, on the
// update goroutine, so the command goroutine never touches items the next
// keypress may be mutating.
func (a App) setFlagCmd(contentURL string, flag store.Flag) tea.Cmd {
	st, snap := a.store, a.snap.Clone()
	return func() tea.Msg {
		return FlagSaved{Err: st.SetFlag(snap, contentURL, flag)}
	}
}

func yankCmd(url string) tea.Cmd {
	return func() tea.Msg {
		return URLYanked{URL: url, Err: clipboard.WriteAll(url)}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.clampScroll()
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case SnapshotLoaded:
		a.loading = false
		if msg.Err != nil {
			a.status = "reload failed: " + msg.Err.Error()
			return a, nil
		}
		a.snap = msg.Snap
		a.refreshVisible()
		if msg.Forced {
			a.status = fmt.Sprintf("reloaded, %d items", len(a.snap.Items))
		} else {
			a.status = ""
		}
		return a, nil

	case FlagSaved:
		if msg.Err != nil {
			a.status = "could not save cache: " + msg.Err.Error()
		}
		return a, nil

	case PlaybackDone:
		if msg.Err != nil {
			a.status = "player exited: " + msg.Err.Error()
		}
		return a, nil

	case URLYanked:
		if msg.Err != nil {
			a.status = "clipboard: " + msg.Err.Error()
		} else {
			a.status = "yanked " + msg.URL
		}
		return a, nil

	case tea.KeyMsg:
		switch a.mode {
		case modeFilter, modeSearch:
			return a.updateInput(msg)
		case modeInfo:
			return a.updateInfo(msg)
		default:
			return a.updateList(msg)
		}
	}
	return a, nil
}

func (a App) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if a.mode == modeFilter {
			a.filter = ""
			a.refreshVisible()
		}
		a.mode = modeList
		a.input.Blur()
		return a, nil
	case "enter":
		if a.mode == modeSearch {
			a.search = a.input.Value()
			if idx := nextMatch(a.visible, a.search, a.cursor); idx >= 0 {
				a.cursor = idx
			} else {
				a.status = "no match for " + a.search
			}
		}
		a.mode = modeList
		a.input.Blur()
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if a.mode == modeFilter {
		a.filter = a.input.Value()
		a.refreshVisible()
	}
	return a, cmd
}

func (a App) updateInfo(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "h", "i":
		a.mode = modeList
		return a, nil
	case "j", "down":
		if a.infoOffset < len(a.infoLines)-1 {
			a.infoOffset++
		}
	case "k", "up":
		if a.infoOffset > 0 {
			a.infoOffset--
		}
	case "g":
		a.infoOffset = 0
	}
	return a, nil
}

func (a App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "j", "down":
		a.moveCursor(1)
	case "k", "up":
		a.moveCursor(-1)
	case "ctrl+d", "pgdown":
		a.moveCursor(a.pageSize())
	case "ctrl+u", "pgup":
		a.moveCursor(-a.pageSize())
	case "g":
		a.cursor = 0
		a.offset = 0
	case "G":
		if len(a.visible) > 0 {
			a.cursor = len(a.visible) - 1
		}
		a.clampScroll()

	case "r":
		// Soft path: pick up a cache rewritten by a background refresh,
		// otherwise keep what we have.
		if a.coord.Refreshed() {
			a.loading = true
			a.status = "reloading from cache"
			return a, tea.Batch(a.spin.Tick, a.loadCmd(false))
		}
		a.status = "cache unchanged"
		return a, nil
	case "R":
		a.loading = true
		a.status = "fetching feeds"
		return a, tea.Batch(a.spin.Tick, a.loadCmd(true))

	case "f":
		a.mode = modeFilter
		a.input.SetValue(a.filter)
		a.input.Focus()
		return a, textinput.Blink
	case "/":
		a.mode = modeSearch
		a.input.SetValue("")
		a.input.Focus()
		return a, textinput.Blink
	case "n":
		if idx := nextMatch(a.visible, a.search, a.cursor); idx >= 0 {
			a.cursor = idx
			a.clampScroll()
		}

	case "t":
		if it, ok := a.selected(); ok {
			flag := store.FlagRead
			if it.Read() {
				flag = ""
			}
			a.applyFlag(it.URL, flag)
			return a, a.setFlagCmd(it.URL, flag)
		}

	case "i":
		if it, ok := a.selected(); ok {
			a.infoLines = infoLines(it, a.width)
			a.infoOffset = 0
			a.mode = modeInfo
		}

	case "p":
		return a.play(false)
	case "a":
		return a.play(true)

	case "o":
		if it, ok := a.selected(); ok {
			if err := player.OpenBrowser(it.URL); err != nil {
				a.status = "open failed: " + err.Error()
			}
		}

	case "y":
		if it, ok := a.selected(); ok {
			return a, yankCmd(it.URL)
		}
	}
	return a, nil
}

// play launches the selected item's player, suspending the terminal until
// it exits, and marks the item read.
func (a App) play(audioOnly bool) (tea.Model, tea.Cmd) {
	it, ok := a.selected()
	if !ok {
		return a, nil
	}
	cmd, err := a.player.Command(it, audioOnly)
	if err != nil {
		a.status = err.Error()
		return a, nil
	}
	a.applyFlag(it.URL, store.FlagRead)
	exec := tea.ExecProcess(cmd, func(err error) tea.Msg {
		return PlaybackDone{Err: err}
	})
	return a, tea.Batch(a.setFlagCmd(it.URL, store.FlagRead), exec)
}

func (a *App) selected() (store.Item, bool) {
	if a.cursor < 0 || a.cursor >= len(a.visible) {
		return store.Item{}, false
	}
	return a.visible[a.cursor], true
}

// applyFlag updates the in-memory copies so the list repaints immediately;
// persistence happens in setFlagCmd.
func (a *App) applyFlag(contentURL string, flag store.Flag) {
	if a.snap != nil {
		for i := range a.snap.Items {
			if a.snap.Items[i].URL == contentURL {
				a.snap.Items[i].Flag = flag
			}
		}
	}
	for i := range a.visible {
		if a.visible[i].URL == contentURL {
			a.visible[i].Flag = flag
		}
	}
}

func (a *App) refreshVisible() {
	a.visible = visibleItems(a.snap, a.filter, a.cfg.Sort)
	if a.cursor >= len(a.visible) {
		a.cursor = len(a.visible) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	a.clampScroll()
}

func (a *App) moveCursor(delta int) {
	a.cursor += delta
	if a.cursor < 0 {
		a.cursor = 0
	}
	if a.cursor >= len(a.visible) {
		a.cursor = len(a.visible) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	a.clampScroll()
}

func (a *App) pageSize() int {
	// One line for the status bar, one for the input bar when open.
	h := a.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

func (a *App) clampScroll() {
	page := a.pageSize()
	if a.cursor < a.offset {
		a.offset = a.cursor
	}
	if a.cursor >= a.offset+page {
		a.offset = a.cursor - page + 1
	}
	if a.offset < 0 {
		a.offset = 0
	}
}

func (a App) View() string {
	if a.mode == modeInfo {
		return a.infoView()
	}

	var b strings.Builder
	page := a.pageSize()
	for i := a.offset; i < len(a.visible) && i < a.offset+page; i++ {
		b.WriteString(a.lineFor(i))
		b.WriteString("\n")
	}
	for i := len(a.visible); i < a.offset+page; i++ {
		b.WriteString("\n")
	}

	if a.mode == modeFilter {
		b.WriteString(PromptStyle.Render("filter> ") + a.input.View() + "\n")
	} else if a.mode == modeSearch {
		b.WriteString(PromptStyle.Render("search> ") + a.input.View() + "\n")
	} else {
		b.WriteString("\n")
	}

	b.WriteString(a.statusView())
	return b.String()
}

func (a App) lineFor(i int) string {
	it := a.visible[i]
	mark := " "
	if it.Read() {
		mark = "x"
	}
	line := fmt.Sprintf(" %s %s %s %s %s",
		mark,
		a.cfg.KindSymbol(string(it.Kind)),
		shortDate(it.Published),
		padRight(it.Channel, 20),
		it.Title,
	)
	line = padRight(line, max(a.width, 1))
	switch {
	case i == a.cursor:
		return SelectedItem.Render(line)
	case it.Read():
		return ReadItem.Render(line)
	default:
		return NormalItem.Render(line)
	}
}

func (a App) statusView() string {
	left := fmt.Sprintf("%d/%d", a.cursor+1, len(a.visible))
	if a.filter != "" {
		left += " filter:" + a.filter
	}
	if a.loading {
		left = a.spin.View() + " " + left
	}
	msg := a.status
	if msg == "" {
		msg = StatusBarText.Render("p:play a:audio o:open i:info t:read r/R:reload /:search f:filter q:quit")
	} else if strings.Contains(msg, "failed") {
		msg = ErrorStyle.Render(msg)
	}
	return StatusBar.Render(left + "  " + msg)
}

func (a App) infoView() string {
	var b strings.Builder
	page := a.height - 1
	if page < 1 {
		page = 1
	}
	end := a.infoOffset + page
	if end > len(a.infoLines) {
		end = len(a.infoLines)
	}
	for _, line := range a.infoLines[a.infoOffset:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(StatusBar.Render("j/k:scroll h/esc:back"))
	return b.String()
}

// infoLines renders an item's details as pre-wrapped lines.
func infoLines(it store.Item, width int) []string {
	if width < 20 {
		width = 80
	}
	lines := []string{
		InfoTitle.Render(it.Title),
		"",
		InfoLabel.Render("channel   ") + it.Channel,
		InfoLabel.Render("kind      ") + string(it.Kind),
		InfoLabel.Render("published ") + it.Published,
		InfoLabel.Render("url       ") + it.URL,
	}
	if it.Thumbnail != "" {
		lines = append(lines, InfoLabel.Render("thumbnail ")+it.Thumbnail)
	}
	if it.Description != "" {
		lines = append(lines, "")
		lines = append(lines, wrapText(it.Description, width)...)
	}
	if it.Content != "" {
		lines = append(lines, "")
		lines = append(lines, wrapText(stripTags(it.Content), width)...)
	}
	return lines
}

// stripTags removes HTML markup from rich content for terminal display.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// wrapText breaks text into lines no wider than width, on word boundaries
// where possible.
func wrapText(s string, width int) []string {
	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			if len(cur)+1+len(w) > width {
				lines = append(lines, cur)
				cur = w
				continue
			}
			cur += " " + w
		}
		lines = append(lines, cur)
	}
	return lines
}
