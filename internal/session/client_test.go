package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/htsflow/htsflow/internal/api"
	"github.com/htsflow/htsflow/internal/common"
	"github.com/htsflow/htsflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBackend implements api.Client for tests.
type mockBackend struct {
	chatFn    func(ctx context.Context, sessionID, message string) (*api.ChatResponse, error)
	chatCalls atomic.Int64
}

func (m *mockBackend) Chat(ctx context.Context, sessionID, message string) (*api.ChatResponse, error) {
	m.chatCalls.Add(1)
	if m.chatFn != nil {
		return m.chatFn(ctx, sessionID, message)
	}
	return &api.ChatResponse{
		SessionID: "s1",
		Type:      model.TypeQuestion,
		Question:  "Knitted or woven?",
	}, nil
}

func (m *mockBackend) Health(_ context.Context) (*api.HealthStatus, error) {
	return &api.HealthStatus{Status: "healthy", AgentReady: true}, nil
}

func (m *mockBackend) Capabilities(_ context.Context) (*api.Capabilities, error) {
	return &api.Capabilities{Success: true}, nil
}

func resultResponse() *api.ChatResponse {
	return &api.ChatResponse{
		SessionID: "s1",
		Type:      model.TypeResult,
		Analysis:  "Knit cotton t-shirts fall under heading 6109.",
		Results: []model.ClassificationResult{
			{HTSCode: "6109.10.0000", ConfidenceScore: 95, EffectiveDuty: "16.5%"},
		},
	}
}

func TestSendMessage_EmptyInputIsNoOp(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty string", text: ""},
		{name: "whitespace only", text: "   \t\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &mockBackend{}
			client := New(backend)

			accepted := client.SendMessage(context.Background(), tt.text)

			assert.False(t, accepted)
			assert.Empty(t, client.Messages())
			assert.Equal(t, Idle, client.Phase())
			assert.Equal(t, int64(0), backend.chatCalls.Load())
		})
	}
}

func TestSendMessage_QuestionRoundTrip(t *testing.T) {
	backend := &mockBackend{}
	client := New(backend)

	accepted := client.SendMessage(context.Background(), "cotton t-shirts")
	require.True(t, accepted)

	messages := client.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, model.RoleUser, messages[0].Role)
	assert.Equal(t, "cotton t-shirts", messages[0].Content)
	assert.Equal(t, model.TypeQuestion, messages[1].Type)
	assert.Equal(t, "Knitted or woven?", messages[1].Question)

	assert.Equal(t, "s1", client.SessionID())
	assert.Equal(t, Idle, client.Phase())
	assert.Empty(t, client.Err())
}

func TestSendMessage_ResultRoundTrip(t *testing.T) {
	backend := &mockBackend{
		chatFn: func(_ context.Context, _, _ string) (*api.ChatResponse, error) {
			return resultResponse(), nil
		},
	}
	client := New(backend)

	require.True(t, client.SendMessage(context.Background(), "cotton t-shirts"))

	messages := client.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, model.TypeResult, messages[1].Type)
	require.Len(t, messages[1].Results, 1)
	assert.Equal(t, "6109.10.0000", messages[1].Results[0].HTSCode)
	assert.Equal(t, "s1", client.SessionID())
}

func TestSendMessage_TrimsInputBeforeSending(t *testing.T) {
	var gotMessage string
	backend := &mockBackend{
		chatFn: func(_ context.Context, _, message string) (*api.ChatResponse, error) {
			gotMessage = message
			return resultResponse(), nil
		},
	}
	client := New(backend)

	require.True(t, client.SendMessage(context.Background(), "  cotton t-shirts  "))
	assert.Equal(t, "cotton t-shirts", gotMessage)
	assert.Equal(t, "cotton t-shirts", client.Messages()[0].Content)
}

func TestSendMessage_SessionIDPropagation(t *testing.T) {
	var gotSessionIDs []string
	backend := &mockBackend{
		chatFn: func(_ context.Context, sessionID, _ string) (*api.ChatResponse, error) {
			gotSessionIDs = append(gotSessionIDs, sessionID)
			return &api.ChatResponse{
				SessionID: "s1",
				Type:      model.TypeQuestion,
				Question:  "Knitted or woven?",
			}, nil
		},
	}
	client := New(backend)

	require.True(t, client.SendMessage(context.Background(), "cotton t-shirts"))
	require.True(t, client.SendMessage(context.Background(), "knitted"))

	require.Len(t, gotSessionIDs, 2)
	assert.Equal(t, "", gotSessionIDs[0])
	assert.Equal(t, "s1", gotSessionIDs[1])
}

func TestSendMessage_TransportFailureKeepsUserMessage(t *testing.T) {
	backend := &mockBackend{
		chatFn: func(_ context.Context, _, _ string) (*api.ChatResponse, error) {
			return nil, fmt.Errorf("backend error (status 500): internal error")
		},
	}
	client := New(backend)

	require.True(t, client.SendMessage(context.Background(), "cotton t-shirts"))

	messages := client.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, model.RoleUser, messages[0].Role)
	assert.Equal(t, Failed, client.Phase())
	assert.NotEmpty(t, client.Err())
	assert.False(t, client.Loading())
}

func TestSendMessage_ProtocolErrorSurfaced(t *testing.T) {
	backend := &mockBackend{
		chatFn: func(_ context.Context, _, _ string) (*api.ChatResponse, error) {
			return nil, fmt.Errorf("%w: result response without results", common.ErrProtocol)
		},
	}
	client := New(backend)

	require.True(t, client.SendMessage(context.Background(), "cotton t-shirts"))

	require.Len(t, client.Messages(), 1)
	assert.Equal(t, Failed, client.Phase())
	assert.Contains(t, client.Err(), "unexpected response")
}

func TestSendMessage_RetryAfterFailureClearsError(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	backend := &mockBackend{
		chatFn: func(_ context.Context, _, _ string) (*api.ChatResponse, error) {
			if fail.Load() {
				return nil, errors.New("connection refused")
			}
			return resultResponse(), nil
		},
	}
	client := New(backend)

	require.True(t, client.SendMessage(context.Background(), "cotton t-shirts"))
	require.Equal(t, Failed, client.Phase())

	fail.Store(false)
	require.True(t, client.SendMessage(context.Background(), "cotton t-shirts"))

	assert.Equal(t, Idle, client.Phase())
	assert.Empty(t, client.Err())
	// Both user messages stay visible; only the second got an answer.
	assert.Len(t, client.Messages(), 3)
}

func TestSendMessage_SingleFlight(t *testing.T) {
	release := make(chan struct{})
	backend := &mockBackend{
		chatFn: func(_ context.Context, _, _ string) (*api.ChatResponse, error) {
			<-release
			return resultResponse(), nil
		},
	}
	client := New(backend)

	done := make(chan bool)
	go func() {
		done <- client.SendMessage(context.Background(), "cotton t-shirts")
	}()

	require.Eventually(t, client.Loading, time.Second, time.Millisecond)

	// Second send while the first is in flight: rejected, no state change.
	accepted := client.SendMessage(context.Background(), "wool sweaters")
	assert.False(t, accepted)
	assert.Len(t, client.Messages(), 1)

	close(release)
	assert.True(t, <-done)

	assert.Equal(t, int64(1), backend.chatCalls.Load())
	assert.Len(t, client.Messages(), 2)
}

func TestStartNewChat_ResetsEverything(t *testing.T) {
	backend := &mockBackend{}
	client := New(backend)

	require.True(t, client.SendMessage(context.Background(), "cotton t-shirts"))
	require.NotEmpty(t, client.Messages())
	require.NotEmpty(t, client.SessionID())

	client.StartNewChat()

	assert.Empty(t, client.Messages())
	assert.Empty(t, client.SessionID())
	assert.Empty(t, client.Err())
	assert.Equal(t, Idle, client.Phase())
}

func TestStartNewChat_ClearsErrorState(t *testing.T) {
	backend := &mockBackend{
		chatFn: func(_ context.Context, _, _ string) (*api.ChatResponse, error) {
			return nil, errors.New("connection refused")
		},
	}
	client := New(backend)

	require.True(t, client.SendMessage(context.Background(), "cotton t-shirts"))
	require.Equal(t, Failed, client.Phase())

	client.StartNewChat()

	assert.Equal(t, Idle, client.Phase())
	assert.Empty(t, client.Err())
}

func TestStartNewChat_DiscardsInFlightReply(t *testing.T) {
	release := make(chan struct{})
	backend := &mockBackend{
		chatFn: func(_ context.Context, _, _ string) (*api.ChatResponse, error) {
			<-release
			return resultResponse(), nil
		},
	}
	client := New(backend)

	done := make(chan bool)
	go func() {
		done <- client.SendMessage(context.Background(), "cotton t-shirts")
	}()
	require.Eventually(t, client.Loading, time.Second, time.Millisecond)

	client.StartNewChat()
	close(release)
	<-done

	// The stale reply must not repopulate the fresh conversation.
	assert.Empty(t, client.Messages())
	assert.Empty(t, client.SessionID())
	assert.Equal(t, Idle, client.Phase())
}

// recordingRecorder captures exchanges for assertions.
type recordingRecorder struct {
	exchanges []Exchange
	err       error
}

func (r *recordingRecorder) Record(_ context.Context, ex Exchange) error {
	r.exchanges = append(r.exchanges, ex)
	return r.err
}

func TestSendMessage_RecordsExchange(t *testing.T) {
	backend := &mockBackend{
		chatFn: func(_ context.Context, _, _ string) (*api.ChatResponse, error) {
			return resultResponse(), nil
		},
	}
	recorder := &recordingRecorder{}
	client := New(backend, WithRecorder(recorder))

	require.True(t, client.SendMessage(context.Background(), "cotton t-shirts"))

	require.Len(t, recorder.exchanges, 1)
	assert.Equal(t, "s1", recorder.exchanges[0].SessionID)
	assert.Equal(t, "cotton t-shirts", recorder.exchanges[0].Query)
	assert.Equal(t, model.TypeResult, recorder.exchanges[0].Response.Type)
}

func TestSendMessage_RecorderFailureDoesNotAffectConversation(t *testing.T) {
	backend := &mockBackend{
		chatFn: func(_ context.Context, _, _ string) (*api.ChatResponse, error) {
			return resultResponse(), nil
		},
	}
	recorder := &recordingRecorder{err: errors.New("disk full")}
	client := New(backend, WithRecorder(recorder))

	require.True(t, client.SendMessage(context.Background(), "cotton t-shirts"))

	assert.Equal(t, Idle, client.Phase())
	assert.Empty(t, client.Err())
	assert.Len(t, client.Messages(), 2)
}
