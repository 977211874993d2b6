package tui

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/theirongolddev/subwatch/internal/config"
	"github.com/theirongolddev/subwatch/internal/daemon"
	"github.com/theirongolddev/subwatch/internal/store"
	"github.com/theirongolddev/subwatch/internal/tui/components"
	"github.com/theirongolddev/subwatch/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldNotionToken = iota
	settingsFieldNotionDB
	settingsFieldPushoverToken
	settingsFieldPushoverUser
	settingsFieldSchedule
	settingsFieldListen
	settingsFieldTheme
	settingsFieldCount // sentinel
)

// settingsFieldCount is used by app.go for cursor bounds checking

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := loadConfigOrDefault()
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()

	switch a.settings.cursor {
	case settingsFieldNotionToken:
		ti.Placeholder = "secret_..."
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
		ti.SetValue(config.GetNotionToken(cfg))
	case settingsFieldNotionDB:
		ti.Placeholder = "32-character database ID"
		ti.SetValue(config.GetNotionDatabaseID(cfg))
	case settingsFieldPushoverToken:
		ti.Placeholder = "Pushover application token"
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
		ti.SetValue(config.GetPushoverToken(cfg))
	case settingsFieldPushoverUser:
		ti.Placeholder = "Pushover user key"
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
		ti.SetValue(config.GetPushoverUser(cfg))
	case settingsFieldSchedule:
		ti.Placeholder = `"0 9 * * *" or "12h"`
		ti.SetValue(cfg.Daemon.Schedule)
	case settingsFieldListen:
		ti.Placeholder = "127.0.0.1:7980"
		ti.SetValue(cfg.Daemon.Listen)
	case settingsFieldTheme:
		ti.Placeholder = "flexoki-dark, catppuccin-mocha, tokyo-night, terminal"
		ti.SetValue(cfg.Appearance.Theme)
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

func (a *App) settingsSave() {
	cfg := loadConfigOrDefault()
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldNotionToken:
		cfg.Notion.Token = val
	case settingsFieldNotionDB:
		cfg.Notion.DatabaseID = val
	case settingsFieldPushoverToken:
		cfg.Pushover.Token = val
	case settingsFieldPushoverUser:
		cfg.Pushover.UserKey = val
	case settingsFieldSchedule:
		if _, err := daemon.ParseSchedule(val); err != nil {
			a.settings.saveErr = err
			return
		}
		cfg.Daemon.Schedule = val
	case settingsFieldListen:
		if val != "" {
			cfg.Daemon.Listen = val
		}
	case settingsFieldTheme:
		// Validate theme name
		found := false
		for _, t := range theme.All {
			if t.Name == val {
				found = true
				break
			}
		}
		if found {
			cfg.Appearance.Theme = val
			theme.SetActive(val)
		}
	}

	a.settings.saveErr = config.Save(cfg)
}

// maskValue hides most of a credential for display.
func maskValue(v string) string {
	if v == "" {
		return "(not set)"
	}
	if len(v) > 12 {
		return v[:8] + "..." + v[len(v)-4:]
	}
	return "****"
}

// envMark flags values currently taken from the environment; edits land
// in the config file and stay shadowed until the variable is unset.
func envMark(envName string) string {
	if os.Getenv(envName) != "" {
		return " (env)"
	}
	return ""
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := loadConfigOrDefault()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	type field struct {
		label string
		value string
	}

	fields := []field{
		{"Notion Token", maskValue(config.GetNotionToken(cfg)) + envMark(config.EnvNotionToken)},
		{"Notion Database", maskValue(config.GetNotionDatabaseID(cfg)) + envMark(config.EnvNotionDatabaseID)},
		{"Pushover Token", maskValue(config.GetPushoverToken(cfg)) + envMark(config.EnvPushoverToken)},
		{"Pushover User", maskValue(config.GetPushoverUser(cfg)) + envMark(config.EnvPushoverUser)},
		{"Schedule", cfg.Daemon.Schedule},
		{"Listen", cfg.Daemon.Listen},
		{"Theme", cfg.Appearance.Theme},
	}

	var formBody strings.Builder
	for i, f := range fields {
		// Show text input if currently editing this field
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-17s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			// Selected row with marker and highlight
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-17s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker)
			formBody.WriteString(label)
			formBody.WriteString(value)
			// Use lipgloss.Width() for correct visual width calculation
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			innerW := components.CardInnerWidth(cw)
			padLen := innerW - usedWidth
			if padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			// Normal row
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-17s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	// General info card
	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Config file:   ") + valueStyle.Render(config.ConfigPath()) + "\n")
	infoBody.WriteString(labelStyle.Render("Cache file:    ") + valueStyle.Render(store.DefaultPath()) + "\n")
	infoBody.WriteString(labelStyle.Render("Rows loaded:   ") + valueStyle.Render(strconv.Itoa(len(a.subs))) + "\n")
	lastFetch := a.dataAge()
	if lastFetch == "" {
		lastFetch = "never"
	}
	infoBody.WriteString(labelStyle.Render("Last fetch:    ") + valueStyle.Render(lastFetch))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))

	return b.String()
}
