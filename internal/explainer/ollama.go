package explainer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OllamaExplainer calls an OpenAI-compatible LLM endpoint
// (Ollama, LM Studio, vLLM, etc.) to explain missed answers.
type OllamaExplainer struct {
	url    string       // e.g. "http://localhost:1234"
	model  string       // e.g. "qwen3-8b"
	client *http.Client // reused across calls
}

// Compile-time check: *OllamaExplainer satisfies the Explainer interface.
var _ Explainer = (*OllamaExplainer)(nil)

// RequestError is returned when an explanation cannot be produced, so the
// caller can distinguish "LLM gave a bad reply" from "LLM was unreachable."
type RequestError struct {
	Reason  string
	Wrapped error
}

func (e *RequestError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("explanation failed: %s: %v", e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("explanation failed: %s", e.Reason)
}

func (e *RequestError) Unwrap() error {
	return e.Wrapped
}

// NewOllamaExplainer creates an explainer that calls the given LLM endpoint.
func NewOllamaExplainer(url, model string) *OllamaExplainer {
	return &OllamaExplainer{
		url:   url,
		model: model,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

const maxRetries = 2

// Explain asks the LLM for a short explanation of the missed question.
// It retries once on an empty reply (small models sometimes need a second try).
func (g *OllamaExplainer) Explain(ctx context.Context, prompt, acceptedAnswer, submitted string) (string, error) {
	userPrompt := buildExplainPrompt(prompt, acceptedAnswer, submitted)

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		content, err := g.callLLM(ctx, userPrompt)
		if err != nil {
			lastErr = err
			continue
		}

		explanation := strings.TrimSpace(stripThinkBlocks(content))
		if explanation == "" {
			lastErr = &RequestError{Reason: "empty explanation from LLM"}
			continue
		}
		return explanation, nil
	}

	return "", &RequestError{
		Reason:  fmt.Sprintf("failed after %d attempts", maxRetries),
		Wrapped: lastErr,
	}
}

// ============================================================================
// LLM communication
// ============================================================================

type llmRequest struct {
	Model       string       `json:"model"`
	Messages    []llmMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
}

type llmMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type llmResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (g *OllamaExplainer) callLLM(ctx context.Context, prompt string) (string, error) {
	reqBody := llmRequest{
		Model: g.model,
		Messages: []llmMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("LLM request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("LLM returned status %d", resp.StatusCode)
	}

	var llmResp llmResponse
	if err := json.NewDecoder(resp.Body).Decode(&llmResp); err != nil {
		return "", fmt.Errorf("failed to decode LLM response: %w", err)
	}

	if len(llmResp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}

	return llmResp.Choices[0].Message.Content, nil
}

// buildExplainPrompt is short and directive, tuned for small (4-8B) models.
func buildExplainPrompt(prompt, acceptedAnswer, submitted string) string {
	var b strings.Builder
	b.WriteString("You are a study assistant reviewing a flashcard the learner got wrong.\n\n")
	b.WriteString("Question: " + prompt + "\n")
	b.WriteString("Accepted answer(s): " + acceptedAnswer + "\n")
	if submitted == "" {
		b.WriteString("The learner gave no answer.\n")
	} else {
		b.WriteString("The learner answered: " + submitted + "\n")
	}
	b.WriteString("\nIn at most two plain sentences, explain the correct answer ")
	b.WriteString("and, if the learner answered, what went wrong. No markdown, no preamble.")
	return b.String()
}

// stripThinkBlocks removes <think>...</think> reasoning blocks that some
// local models emit before their actual reply.
func stripThinkBlocks(s string) string {
	for {
		start := strings.Index(s, "<think>")
		if start == -1 {
			return s
		}
		end := strings.Index(s[start:], "</think>")
		if end == -1 {
			return s[:start]
		}
		s = s[:start] + s[start+end+len("</think>"):]
	}
}
