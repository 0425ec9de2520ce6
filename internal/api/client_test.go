package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/htsflow/htsflow/internal/common"
	"github.com/htsflow/htsflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("requires base URL", func(t *testing.T) {
		_, err := New(Config{})
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrMissingConfig)
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		client, err := New(Config{BaseURL: "http://localhost:5000/"})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:5000", client.(*httpClient).baseURL)
	})
}

func TestChat_RequestShape(t *testing.T) {
	var captured struct {
		SessionID *string `json:"session_id"`
		Message   string  `json:"message"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"session_id": "s1",
			"type":       "question",
			"question":   "Knitted or woven?",
		})
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)

	t.Run("fresh session sends null session_id", func(t *testing.T) {
		resp, chatErr := client.Chat(context.Background(), "", "cotton t-shirts")
		require.NoError(t, chatErr)
		assert.Nil(t, captured.SessionID)
		assert.Equal(t, "cotton t-shirts", captured.Message)
		assert.Equal(t, "s1", resp.SessionID)
	})

	t.Run("continuation echoes session_id", func(t *testing.T) {
		_, chatErr := client.Chat(context.Background(), "s1", "knitted")
		require.NoError(t, chatErr)
		require.NotNil(t, captured.SessionID)
		assert.Equal(t, "s1", *captured.SessionID)
	})
}

func TestChat_ResultResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"session_id": "s1",
			"type":       "result",
			"analysis":   "Knit cotton t-shirts fall under heading 6109.",
			"results": []map[string]any{
				{
					"hts_code":         "6109.10.0000",
					"description":      "T-shirts, singlets... of cotton",
					"effective_duty":   "16.5%",
					"unit":             "doz.",
					"chapter":          "61",
					"match_type":       "semantic",
					"duty_source":      "general",
					"confidence_score": 95,
				},
				{
					"hts_code":         "6109.90.1007",
					"description":      "T-shirts of man-made fibers",
					"effective_duty":   "32%",
					"chapter":          "61",
					"match_type":       "keyword",
					"duty_source":      "general",
					"confidence_score": 42,
				},
			},
		})
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := client.Chat(context.Background(), "", "cotton t-shirts")
	require.NoError(t, err)

	assert.Equal(t, model.TypeResult, resp.Type)
	assert.Equal(t, "s1", resp.SessionID)
	require.Len(t, resp.Results, 2)

	first := resp.Results[0]
	assert.Equal(t, "6109.10.0000", first.HTSCode)
	assert.Equal(t, "16.5%", first.EffectiveDuty)
	assert.Equal(t, "doz.", first.Unit)
	assert.Equal(t, model.MatchSemantic, first.MatchType)
	assert.Equal(t, model.DutyGeneral, first.DutySource)
	assert.Equal(t, 95, first.ConfidenceScore)

	// Backend order is authoritative: the lower-confidence candidate stays second.
	assert.Equal(t, "6109.90.1007", resp.Results[1].HTSCode)

	msg := resp.Message()
	assert.Equal(t, model.RoleAssistant, msg.Role)
	assert.Equal(t, model.TypeResult, msg.Type)
	assert.Equal(t, "Knit cotton t-shirts fall under heading 6109.", msg.Analysis)
}

func TestChat_TransportFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "internal error", http.StatusInternalServerError)
			},
		},
		{
			name: "not found status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "no such route", http.StatusNotFound)
			},
		},
		{
			name: "malformed JSON body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client, err := New(Config{BaseURL: server.URL})
			require.NoError(t, err)

			resp, chatErr := client.Chat(context.Background(), "", "cotton t-shirts")
			require.Error(t, chatErr)
			assert.Nil(t, resp)
		})
	}
}

func TestChat_ProtocolErrors(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "unknown type",
			body: map[string]any{"session_id": "s1", "type": "surprise"},
		},
		{
			name: "result without results",
			body: map[string]any{"session_id": "s1", "type": "result"},
		},
		{
			name: "question without question text",
			body: map[string]any{"session_id": "s1", "type": "question"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_ = json.NewEncoder(w).Encode(tt.body)
			}))
			defer server.Close()

			client, err := New(Config{BaseURL: server.URL})
			require.NoError(t, err)

			resp, chatErr := client.Chat(context.Background(), "", "cotton t-shirts")
			require.Error(t, chatErr)
			assert.ErrorIs(t, chatErr, common.ErrProtocol)
			assert.Nil(t, resp)
		})
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":         "healthy",
			"agent_ready":    true,
			"claude_enabled": true,
			"version":        "1.0.0",
		})
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)

	status, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy())
	assert.Equal(t, "1.0.0", status.Version)
}

func TestCapabilities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/capabilities", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"capabilities": map[string]bool{
				"conversational":       true,
				"clarifying_questions": true,
			},
		})
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)

	caps, err := client.Capabilities(context.Background())
	require.NoError(t, err)
	assert.True(t, caps.Success)
	assert.True(t, caps.Capabilities["conversational"])
}
