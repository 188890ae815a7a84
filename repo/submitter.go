package repo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"EligibilityBot/config"
	"EligibilityBot/questionnaire"
)

// NewSubmitter builds the submission backend selected in cfg.
func NewSubmitter(ctx context.Context, cfg config.Submission, logger zerolog.Logger) (questionnaire.Submitter, error) {
	switch cfg.Backend {
	case config.BackendFirebase:
		fc, err := NewFirebaseConnector(ctx, cfg.FirebaseServiceAccountKeyPath, cfg.FirebaseDatabaseURL, cfg.FirebaseCollection, logger)
		if err != nil {
			return nil, fmt.Errorf("error creating Firebase connector: %w", err)
		}
		return fc, nil
	case config.BackendHTTP, "":
		return NewHTTPSubmitter(cfg.URL), nil
	default:
		return nil, fmt.Errorf("unknown submission backend %q", cfg.Backend)
	}
}
