package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/subwatch/internal/config"
	"github.com/theirongolddev/subwatch/internal/daemon"
	"github.com/theirongolddev/subwatch/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues collects the wizard answers before they are written to config.
type setupValues struct {
	notionToken string
	notionDB    string
	pushToken   string
	pushUser    string
	schedule    string
	theme       string
}

// newSetupForm builds the first-run wizard. Existing values (config file
// or environment) pre-fill the fields so rerunning the wizard edits
// rather than starts over.
func newSetupForm(vals *setupValues) *huh.Form {
	cfg := loadConfigOrDefault()

	vals.notionToken = config.GetNotionToken(cfg)
	vals.notionDB = config.GetNotionDatabaseID(cfg)
	vals.pushToken = config.GetPushoverToken(cfg)
	vals.pushUser = config.GetPushoverUser(cfg)
	vals.schedule = cfg.Daemon.Schedule
	vals.theme = cfg.Appearance.Theme
	if vals.theme == "" {
		vals.theme = theme.FlexokiDark.Name
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("subwatch setup").
				Description("Connect your Notion subscription tracker.\nThe integration needs read access to the database."),
			huh.NewInput().
				Title("Notion integration token").
				Description("From notion.so/my-integrations.").
				EchoMode(huh.EchoModePassword).
				Value(&vals.notionToken).
				Validate(requireField("token")),
			huh.NewInput().
				Title("Notion database ID").
				Description("The 32-character ID from the database URL.").
				Value(&vals.notionDB).
				Validate(requireField("database ID")),
		),
		huh.NewGroup(
			huh.NewNote().
				Title("Pushover (optional)").
				Description("Leave both fields empty to print reminders without pushing."),
			huh.NewInput().
				Title("Pushover app token").
				EchoMode(huh.EchoModePassword).
				Value(&vals.pushToken),
			huh.NewInput().
				Title("Pushover user key").
				EchoMode(huh.EchoModePassword).
				Value(&vals.pushUser),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Daemon schedule").
				Description("Cron line (\"0 9 * * *\") or interval (\"12h\").").
				Value(&vals.schedule).
				Validate(validateScheduleField),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOpts...).
				Value(&vals.theme),
		),
	)
}

// requireField rejects blank input for mandatory fields.
func requireField(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func validateScheduleField(s string) error {
	_, err := daemon.ParseSchedule(s)
	return err
}

// applySetup writes the wizard answers over the current config.
func applySetup(vals setupValues) error {
	cfg := loadConfigOrDefault()

	cfg.Notion.Token = strings.TrimSpace(vals.notionToken)
	cfg.Notion.DatabaseID = strings.TrimSpace(vals.notionDB)
	cfg.Pushover.Token = strings.TrimSpace(vals.pushToken)
	cfg.Pushover.UserKey = strings.TrimSpace(vals.pushUser)
	if s := strings.TrimSpace(vals.schedule); s != "" {
		cfg.Daemon.Schedule = s
	}
	if vals.theme != "" {
		cfg.Appearance.Theme = vals.theme
		theme.SetActive(vals.theme)
	}

	return config.Save(cfg)
}

// ErrSetupCancelled reports that the user aborted the wizard.
var ErrSetupCancelled = errors.New("setup cancelled")

// RunSetup runs the wizard standalone, outside the dashboard. Used by
// the setup command.
func RunSetup() error {
	var vals setupValues
	if err := newSetupForm(&vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrSetupCancelled
		}
		return err
	}
	return applySetup(vals)
}
