package copilot

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Suggestion is one recommendation returned by the copilot backend.
type Suggestion struct {
	Title      string  `json:"title"`
	Body       string  `json:"body"`
	Confidence float64 `json:"confidence"`
}

// Response is what handlers return regardless of whether a backend is
// configured. Enabled tells the caller whether the suggestions are real.
type Response struct {
	Enabled     bool         `json:"enabled"`
	Suggestions []Suggestion `json:"suggestions"`
}

// Copilot produces care suggestions for an entity. Implementations must
// degrade gracefully: an unreachable or unconfigured backend yields an
// empty disabled response, never an error surfaced to the caller.
type Copilot interface {
	Suggest(ctx context.Context, tenantID uuid.UUID, entityType string, entityID uuid.UUID) (*Response, error)
}

type disabledCopilot struct{}

func (disabledCopilot) Suggest(ctx context.Context, tenantID uuid.UUID, entityType string, entityID uuid.UUID) (*Response, error) {
	return &Response{Enabled: false, Suggestions: []Suggestion{}}, nil
}

// NewDisabled returns a copilot that always reports itself unavailable.
func NewDisabled() Copilot {
	return disabledCopilot{}
}

type httpCopilot struct {
	client *resty.Client
}

// NewHTTP talks to an external suggestion backend over REST.
func NewHTTP(baseURL string, timeout time.Duration) Copilot {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(1).
		SetHeader("Accept", "application/json")
	return &httpCopilot{client: client}
}

type suggestPayload struct {
	TenantID   string `json:"tenant_id"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
}

func (c *httpCopilot) Suggest(ctx context.Context, tenantID uuid.UUID, entityType string, entityID uuid.UUID) (*Response, error) {
	var out struct {
		Suggestions []Suggestion `json:"suggestions"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(suggestPayload{
			TenantID:   tenantID.String(),
			EntityType: entityType,
			EntityID:   entityID.String(),
		}).
		SetResult(&out).
		Post("/v1/suggest")
	if err != nil || resp.IsError() {
		// The backend being down must not break the caller's workflow.
		return &Response{Enabled: false, Suggestions: []Suggestion{}}, nil
	}

	if out.Suggestions == nil {
		out.Suggestions = []Suggestion{}
	}
	return &Response{Enabled: true, Suggestions: out.Suggestions}, nil
}

// New picks an implementation from configuration. An empty URL disables
// the feature entirely.
func New(baseURL string, timeoutSeconds int) Copilot {
	if baseURL == "" {
		return NewDisabled()
	}
	if timeoutSeconds <= 0 {
		timeoutSeconds = 5
	}
	return NewHTTP(baseURL, time.Duration(timeoutSeconds)*time.Second)
}
