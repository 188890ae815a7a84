package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"EligibilityBot/model"
)

// DefaultSubmitURL is the collection endpoint answers are created in.
const DefaultSubmitURL = "https://jsonplaceholder.typicode.com/posts"

var tracer = otel.Tracer("EligibilityBot/repo")

// StatusError is returned when the collection endpoint answers with a
// non-success status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("collection endpoint returned status %d", e.StatusCode)
}

// HTTPSubmitter creates one record per call by POSTing the answer set as JSON.
type HTTPSubmitter struct {
	URL    string
	Client *http.Client
}

// NewHTTPSubmitter creates a submitter for url using http.DefaultClient.
func NewHTTPSubmitter(url string) *HTTPSubmitter {
	if url == "" {
		url = DefaultSubmitURL
	}
	return &HTTPSubmitter{
		URL:    url,
		Client: http.DefaultClient,
	}
}

// Submit sends answers once. The response body is not used.
func (s *HTTPSubmitter) Submit(ctx context.Context, answers model.AnswerSet) (err error) {
	ctx, span := tracer.Start(ctx, "submission.create")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	body, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("error encoding answers: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error posting answers: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}
