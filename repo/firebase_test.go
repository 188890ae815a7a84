package repo

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/db"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCollection struct {
	pushed []interface{}
	err    error
}

func (f *fakeCollection) Push(ctx context.Context, v interface{}) (*db.Ref, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.pushed = append(f.pushed, v)
	return &db.Ref{Key: "-Nabc", Path: "/submissions/-Nabc"}, nil
}

func TestFirebaseConnectorSubmit(t *testing.T) {
	ref := &fakeCollection{}
	fc := &FirebaseConnector{ref: ref, logger: zerolog.Nop()}

	require.NoError(t, fc.Submit(context.Background(), sampleAnswers()))
	require.Len(t, ref.pushed, 1)
	assert.Equal(t, sampleAnswers(), ref.pushed[0])
}

func TestFirebaseConnectorSubmitError(t *testing.T) {
	pushErr := errors.New("permission denied")
	fc := &FirebaseConnector{ref: &fakeCollection{err: pushErr}, logger: zerolog.Nop()}

	err := fc.Submit(context.Background(), sampleAnswers())
	assert.ErrorIs(t, err, pushErr)
}
