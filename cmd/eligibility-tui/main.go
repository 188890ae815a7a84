// cmd/eligibility-tui/main.go
//
// Runs the eligibility questionnaire in the terminal. Configuration comes from
// the same environment variables as the bot; TELEGRAM_BOT_TOKEN is not needed.
// Logs go to ELIGIBILITY_LOG_FILE when set, since the UI owns the screen.

package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"EligibilityBot/config"
	"EligibilityBot/content"
	"EligibilityBot/logging"
	"EligibilityBot/repo"
	"EligibilityBot/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		die("load config: %v", err)
	}

	logger, closer, err := logging.NewFile(cfg.Log)
	if err != nil {
		die("configure logging: %v", err)
	}
	defer closer.Close()

	catalog, err := content.Load(cfg.ContentPath)
	if err != nil {
		die("load content: %v", err)
	}

	submitter, err := repo.NewSubmitter(context.Background(), cfg.Submission, logger.With().Str("component", "submitter").Logger())
	if err != nil {
		die("init submission backend: %v", err)
	}

	app := tui.NewApp(submitter, catalog, logger.With().Str("component", "tui").Logger())
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		logger.Error().Err(err).Msg("terminal ui exited with error")
		die("run: %v", err)
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
