package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/bitrise-io/bitrise-plugins-code-assistant/model"
)

func newTestServer(t *testing.T, status int, body string, inspect func(r *http.Request)) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if inspect != nil {
			inspect(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func testRequest() model.ChatRequest {
	return model.ChatRequest{
		SystemPrompt: "system",
		UserPrompt:   "hello",
		Temperature:  0.5,
		MaxTokens:    150,
	}
}

func TestOpenAIPrompt_Success(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]any

	server, _ := newTestServer(t, http.StatusOK,
		`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Hi there"}}]}`,
		func(r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotPath = r.URL.Path
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
		})

	client, err := NewOpenAI("secret", WithBaseURL(server.URL), WithModel("gpt-3.5-turbo"))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	content, err := client.Prompt(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if content != "Hi there" {
		t.Errorf("Expected 'Hi there', got %q", content)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Expected bearer auth header, got %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("Expected /chat/completions, got %s", gotPath)
	}
	if gotBody["model"] != "hf:gpt-3.5-turbo" {
		t.Errorf("Expected prefixed model, got %v", gotBody["model"])
	}
	if gotBody["max_tokens"] != float64(150) {
		t.Errorf("Expected max_tokens 150, got %v", gotBody["max_tokens"])
	}
	messages, ok := gotBody["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("Expected two messages, got %v", gotBody["messages"])
	}
	first := messages[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "system" {
		t.Errorf("Expected system message first, got %v", first)
	}
	second := messages[1].(map[string]any)
	if second["role"] != "user" || second["content"] != "hello" {
		t.Errorf("Expected user message second, got %v", second)
	}
}

func TestOpenAIPrompt_PrefixNotDuplicated(t *testing.T) {
	var gotModel string
	server, _ := newTestServer(t, http.StatusOK,
		`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`,
		func(r *http.Request) {
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			gotModel, _ = body["model"].(string)
		})

	client, err := NewOpenAI("secret", WithBaseURL(server.URL), WithModel("hf:meta-llama/Llama-3"))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	if _, err := client.Prompt(context.Background(), testRequest()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if gotModel != "hf:meta-llama/Llama-3" {
		t.Errorf("Expected model to keep a single prefix, got %s", gotModel)
	}
}

func TestOpenAIPrompt_ErrorMessage(t *testing.T) {
	server, calls := newTestServer(t, http.StatusUnauthorized, `{"error":{"message":"invalid key"}}`, nil)

	client, err := NewOpenAI("bad", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = client.Prompt(context.Background(), testRequest())
	if err == nil {
		t.Fatal("Expected error")
	}
	if err.Error() != "invalid key" {
		t.Errorf("Expected error message 'invalid key', got %q", err.Error())
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("Expected RequestError, got %T", err)
	}
	if reqErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", reqErr.StatusCode)
	}
	if atomic.LoadInt32(calls) != 1 {
		t.Errorf("Expected a single attempt, got %d", *calls)
	}
}

func TestOpenAIPrompt_ErrorWithoutMessage(t *testing.T) {
	server, calls := newTestServer(t, http.StatusInternalServerError, `not json`, nil)

	client, err := NewOpenAI("key", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = client.Prompt(context.Background(), testRequest())
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("Expected RequestError, got %v", err)
	}
	if reqErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", reqErr.StatusCode)
	}
	if reqErr.Message != "" {
		t.Errorf("Expected no remote message, got %q", reqErr.Message)
	}
	if err.Error() == "" {
		t.Error("Expected the HTTP status as error text")
	}
	if atomic.LoadInt32(calls) != 1 {
		t.Errorf("Expected no retry on 500, got %d attempts", *calls)
	}
}

func TestOpenAIPrompt_EmptyChoices(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{"choices":[]}`, nil)

	client, err := NewOpenAI("key", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	content, err := client.Prompt(context.Background(), testRequest())
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("Expected ErrMalformedResponse, got %v", err)
	}
	if content != "" {
		t.Errorf("Expected no content, got %q", content)
	}
}

func TestOpenAIPrompt_EmptyContent(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":""}}]}`, nil)

	client, err := NewOpenAI("key", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	if _, err := client.Prompt(context.Background(), testRequest()); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("Expected ErrMalformedResponse, got %v", err)
	}
}

func TestOpenAIPrompt_Canceled(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{"choices":[{"message":{"content":"late"}}]}`, nil)

	client, err := NewOpenAI("key", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Prompt(ctx, testRequest()); err == nil {
		t.Error("Expected error for canceled context")
	}
}

func TestNewLLM(t *testing.T) {
	if _, err := NewLLM(ProviderOpenAI, ""); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Expected ErrMissingAPIKey, got %v", err)
	}

	if _, err := NewLLM("unknown", "key"); err == nil {
		t.Error("Expected error for unsupported provider")
	}

	client, err := NewLLM(ProviderOpenAI, "key")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, ok := client.(*OpenAIModel); !ok {
		t.Errorf("Expected *OpenAIModel, got %T", client)
	}

	client, err = NewLLM(ProviderAnthropic, "key")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, ok := client.(*AnthropicModel); !ok {
		t.Errorf("Expected *AnthropicModel, got %T", client)
	}
}

func TestRequestError_Fallbacks(t *testing.T) {
	if got := (&RequestError{StatusCode: 404, Status: "404 Not Found"}).Error(); got != "404 Not Found" {
		t.Errorf("Expected status text, got %q", got)
	}
	if got := (&RequestError{StatusCode: 503}).Error(); got != "503 Service Unavailable" {
		t.Errorf("Expected derived status text, got %q", got)
	}
	if got := (&RequestError{StatusCode: 401, Status: "401 Unauthorized", Message: "invalid key"}).Error(); got != "invalid key" {
		t.Errorf("Expected remote message, got %q", got)
	}
}
