package repo

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"EligibilityBot/model"
)

// DefaultCollection is the Realtime Database path submissions are pushed to.
const DefaultCollection = "submissions"

type collectionRef interface {
	Push(ctx context.Context, v interface{}) (*db.Ref, error)
}

// FirebaseConnector stores finished answer sets in a Realtime Database
// collection.
type FirebaseConnector struct {
	ref    collectionRef
	logger zerolog.Logger
}

// NewFirebaseConnector creates a new Firebase connector
func NewFirebaseConnector(ctx context.Context, serviceAccountKeyPath, databaseURL, collection string, logger zerolog.Logger) (*FirebaseConnector, error) {
	opt := option.WithCredentialsFile(serviceAccountKeyPath)

	config := &firebase.Config{
		DatabaseURL: databaseURL,
	}
	app, err := firebase.NewApp(ctx, config, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting database client: %w", err)
	}

	if collection == "" {
		collection = DefaultCollection
	}
	return &FirebaseConnector{
		ref:    client.NewRef(collection),
		logger: logger,
	}, nil
}

// Submit pushes answers as a new child of the collection.
func (fc *FirebaseConnector) Submit(ctx context.Context, answers model.AnswerSet) error {
	newRef, err := fc.ref.Push(ctx, answers)
	if err != nil {
		return fmt.Errorf("error creating submission: %w", err)
	}
	fc.logger.Info().Str("key", newRef.Key).Msg("submission stored")
	return nil
}
