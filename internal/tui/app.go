// Package tui provides the interactive Bubble Tea dashboard for subwatch.
package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/subwatch/internal/cli"
	"github.com/theirongolddev/subwatch/internal/config"
	"github.com/theirongolddev/subwatch/internal/logx"
	"github.com/theirongolddev/subwatch/internal/model"
	"github.com/theirongolddev/subwatch/internal/notify"
	"github.com/theirongolddev/subwatch/internal/notion"
	"github.com/theirongolddev/subwatch/internal/pipeline"
	"github.com/theirongolddev/subwatch/internal/store"
	"github.com/theirongolddev/subwatch/internal/tui/components"
	"github.com/theirongolddev/subwatch/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// dataMsg is sent when a background fetch completes. A failed fetch may
// still carry rows when the snapshot cache served them.
type dataMsg struct {
	subs      []model.Subscription
	fetchedAt time.Time
	fromCache bool
	fetchErr  error // fetch failed but cached rows were available
	err       error // fetch failed and nothing could be shown
	loadTime  time.Duration
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	subs      []model.Subscription
	sorted    []model.Subscription // every subscription, soonest renewal first
	overview  model.Overview
	digest    model.Digest
	blocks    []notify.Block
	fetchedAt time.Time
	fromCache bool
	fetchErr  error // last fetch failure; cached rows may still be shown
	loadErr   error // set when there is nothing to show at all

	loaded     bool
	loadTime   time.Duration
	refreshing bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	allState allState
	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 100
	maxContentWidth  = 140

	minContentHeight = 5
)

var errNoCredentials = errors.New("notion credentials not configured")

// loadConfigOrDefault loads config, returning defaults on error.
// The TUI can always start even if the config file is corrupted.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model. When neither a config file nor
// environment credentials exist, the first-run wizard opens before any
// fetch is attempted.
func NewApp() App {
	cfg := loadConfigOrDefault()
	needSetup := !config.Exists() && !config.HasNotionCredentials(cfg)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		needSetup: needSetup,
		spinner:   sp,
	}
	if needSetup {
		// The form binds pointers into setupVals, so the struct must
		// outlive every copy of the model.
		a.setupVals = &setupValues{}
		a.setupForm = newSetupForm(a.setupVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		a.spinner.Tick,
	}
	if a.needSetup && a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	} else {
		cmds = append(cmds, fetchCmd())
	}
	return tea.Batch(cmds...)
}

func (a *App) recompute() {
	a.sorted = sortByDue(a.subs)
	a.overview = pipeline.Summarize(a.subs)
	a.digest = pipeline.BuildDigest(a.subs)
	a.blocks = notify.RenderDigest(a.digest)

	// Clamp the list cursor to the new bounds
	if a.allState.cursor >= len(a.sorted) {
		a.allState.cursor = len(a.sorted) - 1
	}
	if a.allState.cursor < 0 {
		a.allState.cursor = 0
	}
}

// sortByDue orders a copy of subs by days remaining ascending, records
// without a countdown last.
func sortByDue(subs []model.Subscription) []model.Subscription {
	sorted := make([]model.Subscription, len(subs))
	copy(sorted, subs)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := sorted[i].DateRemaining, sorted[j].DateRemaining
		if (di == nil) != (dj == nil) {
			return dj == nil
		}
		if di == nil {
			return false
		}
		return *di < *dj
	})
	return sorted
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Forward to setup form if active
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == 1 && a.allState.cursor > 0 {
				a.allState.cursor--
			}
			return a, nil

		case tea.MouseButtonWheelDown:
			if a.activeTab == 1 && a.allState.cursor < len(a.sorted)-1 {
				a.allState.cursor++
			}
			return a, nil

		case tea.MouseButtonLeft:
			// The tab bar occupies the first line
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 && tab < len(components.Tabs) {
					a.activeTab = tab
				}
			}
			return a, nil
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		// Global: quit
		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// First-run setup wizard intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if !a.loaded {
			return a, nil
		}

		// Settings tab has its own keybindings (text input)
		if a.activeTab == 3 && a.settings.editing {
			return a.updateSettingsInput(msg)
		}

		// Help toggle
		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}

		// Dismiss help
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		// All tab has its own keybindings
		if a.activeTab == 1 {
			compact := a.isCompactLayout()

			switch key {
			case "q":
				if !compact && a.allState.viewMode == allViewDetail {
					a.allState.viewMode = allViewSplit
					return a, nil
				}
				return a, tea.Quit
			case "enter":
				if compact {
					return a, nil
				}
				if a.allState.viewMode == allViewSplit {
					a.allState.viewMode = allViewDetail
				}
				return a, nil
			case "esc":
				if a.allState.viewMode == allViewDetail {
					a.allState.viewMode = allViewSplit
				}
				return a, nil
			case "j", "down":
				if a.allState.cursor < len(a.sorted)-1 {
					a.allState.cursor++
				}
				return a, nil
			case "k", "up":
				if a.allState.cursor > 0 {
					a.allState.cursor--
				}
				return a, nil
			case "g":
				a.allState.cursor = 0
				a.allState.offset = 0
				return a, nil
			case "G":
				a.allState.cursor = len(a.sorted) - 1
				if a.allState.cursor < 0 {
					a.allState.cursor = 0
				}
				return a, nil
			}
		}

		// Settings tab navigation (non-editing mode)
		if a.activeTab == 3 {
			switch key {
			case "j", "down":
				if a.settings.cursor < settingsFieldCount-1 {
					a.settings.cursor++
				}
				return a, nil
			case "k", "up":
				if a.settings.cursor > 0 {
					a.settings.cursor--
				}
				return a, nil
			case "enter":
				return a.settingsStartEdit()
			}
		}

		// Global quit from non-list tabs
		if key == "q" {
			return a, tea.Quit
		}

		// Manual refresh
		if key == "r" && !a.refreshing {
			a.refreshing = true
			return a, fetchCmd()
		}

		// Tab navigation
		if r := []rune(key); len(r) == 1 {
			if idx := components.TabIdxByKey(r[0]); idx >= 0 {
				a.activeTab = idx
				return a, nil
			}
		}
		switch key {
		case "left", "shift+tab":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		}
		return a, nil

	case dataMsg:
		a.loaded = true
		a.refreshing = false
		a.loadTime = msg.loadTime

		if msg.err != nil {
			// Keep previously shown rows when a manual refresh fails
			a.fetchErr = msg.err
			if len(a.subs) == 0 {
				a.loadErr = msg.err
			}
			return a, nil
		}

		a.loadErr = nil
		a.fetchErr = msg.fetchErr
		a.subs = msg.subs
		a.fetchedAt = msg.fetchedAt
		a.fromCache = msg.fromCache
		a.recompute()
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	if a.setupForm.State == huh.StateCompleted {
		if err := applySetup(*a.setupVals); err != nil {
			a.settings.saveErr = err
		}
		a.needSetup = false
		a.setupForm = nil
		return a, fetchCmd()
	}

	if a.setupForm.State == huh.StateAborted {
		// No credentials; the fetch falls back to any cached snapshot
		a.needSetup = false
		a.setupForm = nil
		return a, fetchCmd()
	}

	return a, cmd
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	// First-run setup wizard
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  subwatch needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active
	w := a.width
	h := a.height

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	spinnerStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ subwatch"))
	b.WriteString(subtitleStyle.Render(" · Subscription Reminders"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Fetching subscriptions..."))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active
	h := a.height
	w := a.width

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Navigation"))
	b.WriteString("\n")
	navBindings := []struct{ key, desc string }{
		{"u a b x", "Jump to tab"},
		{"← → ⇥", "Previous / Next tab"},
		{"j k", "Navigate list"},
		{"g G", "First / Last entry"},
	}
	for _, bind := range navBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Actions"))
	b.WriteString("\n")
	actionBindings := []struct{ key, desc string }{
		{"Enter", "Expand / Edit"},
		{"Esc", "Back / Cancel"},
		{"r", "Refresh from Notion"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range actionBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Render header (tab bar + data source pill)
	pillStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	pillAccentStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	pillWarnStyle := lipgloss.NewStyle().
		Foreground(t.Orange).
		Background(t.Surface).
		Bold(true)

	pillStr := pillStyle.Render(" ") +
		pillAccentStyle.Render(fmt.Sprintf("%d due", a.digest.Total()))
	pillStr += pillStyle.Render(" │ ") + pillAccentStyle.Render(a.sourceLabel())
	if a.fetchErr != nil {
		pillStr += pillStyle.Render(" │ ") + pillWarnStyle.Render("offline")
	}
	pillStr += pillStyle.Render(" ")

	pillRowStyle := lipgloss.NewStyle().
		Background(t.Surface).
		Width(w)

	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		pillRowStyle.Render(pillStr)

	// 2. Render status bar
	statusBar := components.RenderStatusBar(w, a.dataAge(), a.refreshing)

	// 3. Calculate content zone height
	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	// 4. Render tab content
	var content string
	if a.loadErr != nil && len(a.subs) == 0 && a.activeTab != 3 {
		content = a.renderLoadError(cw)
	} else {
		switch a.activeTab {
		case 0:
			content = a.renderUpcomingTab(cw)
		case 1:
			content = a.renderAllContent(cw, contentH)
		case 2:
			content = a.renderBlocksTab(cw)
		case 3:
			content = a.renderSettingsTab(cw)
		}
	}

	// 5. Truncate + pad to exactly contentH lines
	content = padHeight(truncateHeight(content, contentH), contentH)

	// 6. Fill each line to full width with background (fixes gaps between cards)
	content = fillLinesWithBackground(content, cw, t.Background)

	// 7. Place content with background fill (handles centering when w > cw)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	// 8. Stack vertically
	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	// 9. Fill the whole terminal with the background color
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// sourceLabel names where the shown rows came from.
func (a App) sourceLabel() string {
	if a.fromCache {
		return "cache"
	}
	return "notion"
}

func (a App) dataAge() string {
	if a.fetchedAt.IsZero() {
		return ""
	}
	age := cli.FormatDuration(int64(time.Since(a.fetchedAt).Seconds()))
	return fmt.Sprintf("%s · %s ago", a.sourceLabel(), age)
}

func (a App) renderLoadError(cw int) string {
	t := theme.Active

	msgStyle := lipgloss.NewStyle().Foreground(t.Red)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString(msgStyle.Render(a.loadErr.Error()))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("Check the credentials in the Settings tab,"))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("then press r to retry."))

	return components.ContentCard("Fetch failed", b.String(), cw)
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	padding := strings.Repeat("\n", h-len(lines))
	return s + padding
}

// fillLinesWithBackground pads each line to width w with background color.
// This ensures gaps between cards and empty lines have proper background fill.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Data Loading ───────────────────────────────────────────────

// fetchCmd fetches subscriptions in the background, saving a snapshot on
// success and falling back to the cached one when the fetch fails.
func fetchCmd() tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		cfg := loadConfigOrDefault()

		client := notion.NewClient(config.GetNotionToken(cfg), config.GetNotionDatabaseID(cfg))
		if client == nil {
			if snap := loadCachedSnapshot(); snap != nil {
				return dataMsg{
					subs:      snap.Subscriptions,
					fetchedAt: snap.FetchedAt,
					fromCache: true,
					fetchErr:  errNoCredentials,
					loadTime:  time.Since(start),
				}
			}
			return dataMsg{err: errNoCredentials, loadTime: time.Since(start)}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		var fetcher notify.Fetcher = client
		cache, cacheErr := store.Open(store.DefaultPath())
		if cacheErr == nil {
			defer func() { _ = cache.Close() }()
			fetcher = store.NewCachingFetcher(client, cache, logx.Nop())
		}

		subs, err := fetcher.FetchSubscriptions(ctx)
		if err != nil {
			if cacheErr == nil {
				if snap, loadErr := cache.LoadLatest(); loadErr == nil && snap != nil {
					return dataMsg{
						subs:      snap.Subscriptions,
						fetchedAt: snap.FetchedAt,
						fromCache: true,
						fetchErr:  err,
						loadTime:  time.Since(start),
					}
				}
			}
			return dataMsg{err: err, loadTime: time.Since(start)}
		}

		return dataMsg{subs: subs, fetchedAt: time.Now(), loadTime: time.Since(start)}
	}
}

func loadCachedSnapshot() *store.Snapshot {
	cache, err := store.Open(store.DefaultPath())
	if err != nil {
		return nil
	}
	defer func() { _ = cache.Close() }()

	snap, err := cache.LoadLatest()
	if err != nil {
		return nil
	}
	return snap
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 1 // leading space
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		// Two-space separator between tabs
		pos += tabW + 2
	}
	return -1
}
