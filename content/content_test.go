package content

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EligibilityBot/model"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	assert.Equal(t, []string{"Functional Mushrooms", "Breathwork", "Meditation", "Sound Healing"}, c.Interests)
	assert.Equal(t, "Are you over 18 years old?", c.Step(model.StepAge).Title)
	assert.Contains(t, c.Step(model.StepPregnancy).Hint, "contraindication")
	assert.Len(t, c.Submitted.Links, 2)
	assert.Len(t, c.Disqualified.Links, 5)
	assert.NotEmpty(t, c.Disqualified.Restart)
	assert.Equal(t, "Something went wrong. Please try again.", c.Notices.SubmissionFailed)
	assert.NotContains(t, c.Notices.Closed, "/start")
	assert.Contains(t, c.Notices.StartAgain, "/start")
}

func TestParseRequiresSubmissionNotice(t *testing.T) {
	raw := bytes.Replace(defaultYAML, []byte("submission_failed: Something went wrong. Please try again."), []byte(`submission_failed: ""`), 1)
	_, err := Parse(raw)
	assert.ErrorContains(t, err, "submission_failed")
}

func TestParseRejectsIncompleteCatalog(t *testing.T) {
	_, err := Parse([]byte("interests: [Meditation]\n"))
	assert.ErrorContains(t, err, "has no title")

	_, err = Parse([]byte("steps: [\n"))
	assert.ErrorContains(t, err, "decode content catalog")
}

func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	custom := bytes.Replace(defaultYAML, []byte("title: Eligibility Questionnaire"), []byte("title: Custom Title"), 1)
	require.NoError(t, os.WriteFile(path, custom, 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Custom Title", c.Header.Title)

	c, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "Eligibility Questionnaire", c.Header.Title)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
