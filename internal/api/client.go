// Package api implements the HTTP client for the remote classification
// backend. The chat endpoint is the sole wire contract of the conversation
// core; health and capabilities are operational extras.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/htsflow/htsflow/internal/common"
	"github.com/htsflow/htsflow/internal/model"
)

// Client defines the operations the backend exposes.
type Client interface {
	// Chat sends one user turn. sessionID is empty for a fresh conversation;
	// the returned SessionID must be echoed on subsequent turns.
	Chat(ctx context.Context, sessionID, message string) (*ChatResponse, error)
	Health(ctx context.Context) (*HealthStatus, error)
	Capabilities(ctx context.Context) (*Capabilities, error)
}

// ChatResponse is a decoded, validated backend reply.
type ChatResponse struct {
	SessionID string
	Type      model.MessageType
	Question  string
	Analysis  string
	Results   []model.ClassificationResult
}

// Message converts the response into the assistant message to append.
func (r *ChatResponse) Message() model.Message {
	if r.Type == model.TypeQuestion {
		return model.NewQuestionMessage(r.Question)
	}
	return model.NewResultMessage(r.Results, r.Analysis)
}

// HealthStatus reports backend readiness.
type HealthStatus struct {
	Status        string `json:"status"`
	AgentReady    bool   `json:"agent_ready"`
	ClaudeEnabled bool   `json:"claude_enabled"`
	Version       string `json:"version"`
}

// Healthy reports whether the backend is ready to classify.
func (h *HealthStatus) Healthy() bool {
	return h.Status == "healthy" && h.AgentReady
}

// Capabilities describes optional backend features.
type Capabilities struct {
	Success      bool            `json:"success"`
	Capabilities map[string]bool `json:"capabilities"`
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultTimeout bounds a single request so a hung backend cannot wedge the
// client forever.
const DefaultTimeout = 60 * time.Second

type httpClient struct {
	client  *http.Client
	baseURL string
}

// New creates a backend client.
func New(cfg Config) (Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: api.base_url is required", common.ErrMissingConfig)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &httpClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// chatRequest is the wire shape of a chat turn. SessionID serializes as null
// on the first turn of a conversation.
type chatRequest struct {
	SessionID *string `json:"session_id"`
	Message   string  `json:"message"`
}

// chatPayload is the wire shape of a chat reply.
type chatPayload struct {
	SessionID string          `json:"session_id"`
	Type      string          `json:"type"`
	Question  string          `json:"question,omitempty"`
	Analysis  string          `json:"analysis,omitempty"`
	Results   []resultPayload `json:"results,omitempty"`
}

type resultPayload struct {
	HTSCode         string `json:"hts_code"`
	Description     string `json:"description"`
	EffectiveDuty   string `json:"effective_duty"`
	SpecialDuty     string `json:"special_duty,omitempty"`
	Unit            string `json:"unit,omitempty"`
	Chapter         string `json:"chapter"`
	MatchType       string `json:"match_type"`
	DutySource      string `json:"duty_source"`
	ConfidenceScore int    `json:"confidence_score"`
}

// Chat sends one user turn to the backend.
func (c *httpClient) Chat(ctx context.Context, sessionID, message string) (*ChatResponse, error) {
	reqBody := chatRequest{Message: message}
	if sessionID != "" {
		reqBody.SessionID = &sessionID
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Non-2xx is a uniform transport failure regardless of body content.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("backend error (status %d): %s", resp.StatusCode, truncateBody(body))
	}

	var payload chatPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return payload.validate()
}

// validate enforces the response contract: a known type discriminator and
// the fields that type requires.
func (p *chatPayload) validate() (*ChatResponse, error) {
	resp := &ChatResponse{
		SessionID: p.SessionID,
		Question:  p.Question,
		Analysis:  p.Analysis,
	}

	switch p.Type {
	case string(model.TypeQuestion):
		if p.Question == "" {
			return nil, fmt.Errorf("%w: question response without question text", common.ErrProtocol)
		}
		resp.Type = model.TypeQuestion

	case string(model.TypeResult):
		if len(p.Results) == 0 {
			return nil, fmt.Errorf("%w: result response without results", common.ErrProtocol)
		}
		resp.Type = model.TypeResult
		resp.Results = make([]model.ClassificationResult, 0, len(p.Results))
		for _, r := range p.Results {
			resp.Results = append(resp.Results, model.ClassificationResult{
				HTSCode:         r.HTSCode,
				Description:     r.Description,
				EffectiveDuty:   r.EffectiveDuty,
				SpecialDuty:     r.SpecialDuty,
				Unit:            r.Unit,
				Chapter:         r.Chapter,
				MatchType:       model.MatchType(r.MatchType),
				DutySource:      model.DutySource(r.DutySource),
				ConfidenceScore: r.ConfidenceScore,
			})
		}

	default:
		return nil, fmt.Errorf("%w: unknown response type %q", common.ErrProtocol, p.Type)
	}

	return resp, nil
}

// Health fetches backend readiness.
func (c *httpClient) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.getJSON(ctx, "/api/health", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Capabilities fetches the backend feature set.
func (c *httpClient) Capabilities(ctx context.Context) (*Capabilities, error) {
	var caps Capabilities
	if err := c.getJSON(ctx, "/api/capabilities", &caps); err != nil {
		return nil, err
	}
	return &caps, nil
}

func (c *httpClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend error (status %d): %s", resp.StatusCode, truncateBody(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// truncateBody keeps error messages readable when the backend returns a
// large error page.
func truncateBody(body []byte) string {
	const maxLen = 200
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
