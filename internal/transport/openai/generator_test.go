package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/helix-hr/staffrag/internal/domain"
)

// chatResponse mirrors the OpenAI-compatible API chat completion response.
type chatResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	MaxTokens int `json:"max_tokens"`
}

func chatServer(t *testing.T, content string, captured *chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if captured != nil {
			if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}

		resp := chatResponse{ID: "chatcmpl-test", Object: "chat.completion", Model: "test-model"}
		resp.Choices = append(resp.Choices, struct {
			Index   int `json:"index"`
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		}{
			Message: struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			}{Role: "assistant", Content: content},
			FinishReason: "stop",
		})
		resp.Usage.PromptTokens = 20
		resp.Usage.CompletionTokens = 5
		resp.Usage.TotalTokens = 25

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestGenerator_Generate(t *testing.T) {
	var captured chatRequest
	server := chatServer(t, "Alice is available.", &captured)
	defer server.Close()

	gen := NewGenerator(&GeneratorConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	result, err := gen.Generate(context.Background(), []domain.Message{
		{Role: domain.RoleSystem, Content: "You are an HR assistant."},
		{Role: domain.RoleUser, Content: "Who is available?"},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if result.Content != "Alice is available." {
		t.Errorf("Content = %q", result.Content)
	}
	if result.PromptTokens != 20 || result.CompletionTokens != 5 || result.TotalTokens != 25 {
		t.Errorf("unexpected usage: %+v", result)
	}

	if len(captured.Messages) != 2 {
		t.Fatalf("expected 2 messages sent, got %d", len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" {
		t.Errorf("first message role = %q, expected system", captured.Messages[0].Role)
	}
	if captured.Messages[1].Role != "user" {
		t.Errorf("second message role = %q, expected user", captured.Messages[1].Role)
	}
	if captured.Messages[1].Content != "Who is available?" {
		t.Errorf("user content = %q", captured.Messages[1].Content)
	}
}

func TestGenerator_MaxTokensSent(t *testing.T) {
	var captured chatRequest
	server := chatServer(t, "ok", &captured)
	defer server.Close()

	gen := NewGenerator(&GeneratorConfig{
		APIKey:    "test-key",
		BaseURL:   server.URL,
		Model:     "test-model",
		MaxTokens: 500,
		Logger:    zap.NewNop(),
	})

	if _, err := gen.Generate(context.Background(), []domain.Message{
		{Role: domain.RoleUser, Content: "hello"},
	}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if captured.MaxTokens != 500 {
		t.Errorf("max_tokens = %d, expected 500", captured.MaxTokens)
	}
}

func TestGenerator_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Block until the client gives up. Drain the body first: the
		// server only watches for client disconnect (and cancels
		// r.Context()) once the request body has been consumed.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	gen := NewGenerator(&GeneratorConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		Model:      "test-model",
		TimeoutSec: 1,
		Logger:     zap.NewNop(),
	})

	start := time.Now()
	_, err := gen.Generate(context.Background(), []domain.Message{
		{Role: domain.RoleUser, Content: "hello"},
	})
	if !errors.Is(err, domain.ErrGenerationProvider) {
		t.Fatalf("expected ErrGenerationProvider, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("call was not bounded by the timeout, took %v", elapsed)
	}
}

func TestGenerator_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse{ID: "chatcmpl-test", Object: "chat.completion"})
	}))
	defer server.Close()

	gen := NewGenerator(&GeneratorConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	_, err := gen.Generate(context.Background(), []domain.Message{
		{Role: domain.RoleUser, Content: "hello"},
	})
	if !errors.Is(err, domain.ErrGenerationProvider) {
		t.Errorf("expected ErrGenerationProvider, got %v", err)
	}
}

func TestGenerator_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "internal error",
				"type":    "server_error",
			},
		})
	}))
	defer server.Close()

	gen := NewGenerator(&GeneratorConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	_, err := gen.Generate(context.Background(), []domain.Message{
		{Role: domain.RoleUser, Content: "hello"},
	})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !errors.Is(err, domain.ErrGenerationProvider) {
		t.Errorf("expected ErrGenerationProvider, got %v", err)
	}
}
