package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/workup/internal/cost"
	"github.com/steveyegge/workup/internal/errs"
	"github.com/steveyegge/workup/internal/team"
)

const anthropicReply = `{
  "id": "msg_01",
  "type": "message",
  "role": "assistant",
  "model": "claude-sonnet-4-5-20250929",
  "content": [
    {"type": "text", "text": "Alice: Design the database schema\n"},
    {"type": "text", "text": "Bob: Build the REST API"}
  ],
  "stop_reason": "end_turn",
  "stop_sequence": null,
  "usage": {"input_tokens": 42, "output_tokens": 17}
}`

type capturedRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	System    []struct {
		Text string `json:"text"`
	} `json:"system"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	} `json:"messages"`
}

func newAnthropicServer(t *testing.T, handler http.HandlerFunc) *Anthropic {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gw, err := NewAnthropic(&Config{
		APIKey:    "test-key",
		BaseURL:   srv.URL,
		Model:     "test-model",
		MaxTokens: 256,
		Timeout:   2 * time.Second,
	})
	require.NoError(t, err)
	return gw
}

func TestAnthropic_Request(t *testing.T) {
	var got capturedRequest
	gw := newAnthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, anthropicReply)
	})

	out, err := gw.Request(context.Background(), "You assign tasks.", "Who does what?")
	require.NoError(t, err)

	assert.Equal(t, "Alice: Design the database schema\nBob: Build the REST API", out)
	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, 256, got.MaxTokens)
	require.Len(t, got.System, 1)
	assert.Equal(t, "You assign tasks.", got.System[0].Text)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "Who does what?", got.Messages[0].Content[0].Text)
}

func TestAnthropic_RecordsUsageAndEnforcesBudget(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, anthropicReply)
	}))
	t.Cleanup(srv.Close)

	usage := cost.NewTracker(cost.PricingFor(ModelSonnet), 50)
	gw, err := NewAnthropic(&Config{APIKey: "k", BaseURL: srv.URL, Usage: usage})
	require.NoError(t, err)

	_, err = gw.Request(context.Background(), "", "hi")
	require.NoError(t, err)
	stats := usage.Stats()
	assert.Equal(t, 1, stats.Calls)
	assert.Equal(t, int64(42), stats.InputTokens)
	assert.Equal(t, int64(17), stats.OutputTokens)

	_, err = gw.Request(context.Background(), "", "again")
	assert.ErrorIs(t, err, cost.ErrBudgetExceeded)
	assert.Equal(t, int32(1), hits.Load())
}

func TestAnthropic_SingleAttemptOnFailure(t *testing.T) {
	var hits atomic.Int32
	gw := newAnthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"api_error","message":"boom"}}`)
	})

	_, err := gw.Request(context.Background(), "", "hi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic API call failed")
	assert.Equal(t, int32(1), hits.Load())
}

func TestAnthropic_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	gw, err := NewAnthropic(&Config{APIKey: "k", BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	_, err = gw.Request(context.Background(), "", "hi")

	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewAnthropic_MissingKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := NewAnthropic(&Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY not set")
}

func TestNew_UnsupportedProvider(t *testing.T) {
	_, err := New(context.Background(), &Config{Provider: "llama-farm", APIKey: "k"})
	assert.True(t, errors.Is(err, errs.ErrUnsupportedFormat))
}

func TestNew_DefaultsToAnthropic(t *testing.T) {
	t.Setenv("WORKUP_MODEL", "")

	gw, err := New(context.Background(), &Config{APIKey: "k"})
	require.NoError(t, err)

	a, ok := gw.(*Anthropic)
	require.True(t, ok)
	assert.Equal(t, ModelSonnet, a.Model())
}

func TestGetDefaultModel(t *testing.T) {
	t.Setenv("WORKUP_MODEL", "")
	assert.Equal(t, ModelSonnet, GetDefaultModel(""))
	assert.Equal(t, ModelGeminiFlash, GetDefaultModel("Gemini"))

	t.Setenv("WORKUP_MODEL", "custom")
	assert.Equal(t, "custom", GetDefaultModel("anthropic"))
}

func TestGemini_Request(t *testing.T) {
	var path string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
  "candidates": [{"content": {"role": "model", "parts": [{"text": "1. Workup\n2. TeamForge"}]}}],
  "usageMetadata": {"promptTokenCount": 9, "candidatesTokenCount": 6}
}`)
	}))
	t.Cleanup(srv.Close)

	gw, err := NewGemini(context.Background(), &Config{
		Provider: ProviderGemini,
		APIKey:   "k",
		BaseURL:  srv.URL,
		Model:    "gemini-test",
		Timeout:  2 * time.Second,
	})
	require.NoError(t, err)

	out, err := gw.Request(context.Background(), RoleNaming, "Name my project")
	require.NoError(t, err)

	assert.Equal(t, "1. Workup\n2. TeamForge", out)
	assert.Contains(t, path, "gemini-test:generateContent")
	assert.Contains(t, body, "systemInstruction")
}

func TestText(t *testing.T) {
	ok := Func(func(ctx context.Context, sys, user string) (string, error) {
		return "fine", nil
	})
	bad := Func(func(ctx context.Context, sys, user string) (string, error) {
		return "", errors.New("quota exceeded")
	})

	assert.Equal(t, "fine", Text(context.Background(), ok, "", ""))

	msg := Text(context.Background(), bad, "", "")
	assert.Equal(t, "API request failed: quota exceeded", msg)
	assert.True(t, IsFailure(msg))
	assert.False(t, IsFailure("fine"))
}

func TestPrompts(t *testing.T) {
	var roles, prompts []string
	gw := Func(func(ctx context.Context, sys, user string) (string, error) {
		roles = append(roles, sys)
		prompts = append(prompts, user)
		return "ok", nil
	})
	ctx := context.Background()
	members := []team.Member{{Name: "Alice", Expertise: "databases"}}

	_, err := WorkloadDistribution(ctx, gw, "A tracker", members)
	require.NoError(t, err)
	_, err = ProjectWorkflow(ctx, gw, "A tracker")
	require.NoError(t, err)
	_, err = ProjectNames(ctx, gw, "A tracker")
	require.NoError(t, err)

	assert.Equal(t, []string{RoleWorkload, RoleWorkflow, RoleNaming}, roles)
	assert.Contains(t, prompts[0], "'A tracker'")
	assert.Contains(t, prompts[0], "Alice: databases")
	assert.Contains(t, prompts[0], `"Name: Task"`)
	assert.Contains(t, prompts[1], "step-by-step workflow")
	assert.Contains(t, prompts[2], "Suggest 5 creative")
}

func TestSafeTruncateString(t *testing.T) {
	assert.Equal(t, "abc", safeTruncateString("abc", 10))
	assert.Equal(t, "ab", safeTruncateString("abc", 2))
	// "é" is two bytes; cutting inside it backs off to the boundary.
	assert.Equal(t, "a", safeTruncateString("aé", 2))
}

func TestSafeTruncateString_InvalidUTF8(t *testing.T) {
	description := "caf\xe9 " + strings.Repeat("long description ", 2000)
	require.Greater(t, len(description), maxDescriptionBytes)

	got := safeTruncateString(description, maxDescriptionBytes)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), maxDescriptionBytes)
	assert.Greater(t, len(got), maxDescriptionBytes-utf8.UTFMax)
	assert.True(t, strings.HasPrefix(got, "caf\uFFFD long description"))

	prompt := WorkflowPrompt(description)
	assert.Contains(t, prompt, "caf\uFFFD long description long description")
	assert.Greater(t, len(prompt), maxDescriptionBytes)
}
