// Package content holds the questionnaire copy: question titles, hints,
// interest options and exit links. A default catalog is embedded; operators
// can replace it with a YAML file of the same shape.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"EligibilityBot/model"
)

//go:embed content.yaml
var defaultYAML []byte

type Header struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
}

type Labels struct {
	Yes           string `yaml:"yes"`
	No            string `yaml:"no"`
	Continue      string `yaml:"continue"`
	Back          string `yaml:"back"`
	Submit        string `yaml:"submit"`
	Submitting    string `yaml:"submitting"`
	NewsletterOn  string `yaml:"newsletter_on"`
	NewsletterOff string `yaml:"newsletter_off"`
}

type Step struct {
	Title       string `yaml:"title"`
	Hint        string `yaml:"hint"`
	Placeholder string `yaml:"placeholder"`
	Invalid     string `yaml:"invalid"`
}

type Link struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

type Screen struct {
	Title   string `yaml:"title"`
	Body    string `yaml:"body"`
	Links   []Link `yaml:"links"`
	Restart string `yaml:"restart"`
}

type Notices struct {
	SubmissionFailed string `yaml:"submission_failed"`
	Stale            string `yaml:"stale"`
	Closed           string `yaml:"closed"`
	StartAgain       string `yaml:"start_again"`
	Busy             string `yaml:"busy"`
}

type Steps struct {
	Email      Step `yaml:"email"`
	Age        Step `yaml:"age"`
	Treatments Step `yaml:"treatments"`
	Psychosis  Step `yaml:"psychosis"`
	Pregnancy  Step `yaml:"pregnancy"`
	Interests  Step `yaml:"interests"`
}

// Catalog is the full set of copy used by the front-ends.
type Catalog struct {
	Header       Header   `yaml:"header"`
	Labels       Labels   `yaml:"labels"`
	Steps        Steps    `yaml:"steps"`
	Interests    []string `yaml:"interests"`
	Submitted    Screen   `yaml:"submitted"`
	Disqualified Screen   `yaml:"disqualified"`
	Notices      Notices  `yaml:"notices"`
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("content: embedded catalog: %v", err))
	}
	return c
}

// Load reads a catalog from path, or returns the default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content catalog: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates a YAML catalog.
func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode content catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	for s := model.StepEmail; s <= model.StepInterests; s++ {
		if c.Step(s).Title == "" {
			return fmt.Errorf("content catalog: step %s has no title", s)
		}
	}
	if len(c.Interests) == 0 {
		return errors.New("content catalog: no interest options")
	}
	if c.Notices.SubmissionFailed == "" {
		return errors.New("content catalog: notices.submission_failed is empty")
	}
	return nil
}

// Step returns the copy for a questionnaire step.
func (c *Catalog) Step(s model.Step) Step {
	switch s {
	case model.StepEmail:
		return c.Steps.Email
	case model.StepAge:
		return c.Steps.Age
	case model.StepTreatments:
		return c.Steps.Treatments
	case model.StepPsychosis:
		return c.Steps.Psychosis
	case model.StepPregnancy:
		return c.Steps.Pregnancy
	case model.StepInterests:
		return c.Steps.Interests
	}
	return Step{}
}
