package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"vocanalyzer/internal/config"
	"vocanalyzer/internal/domain"
	"vocanalyzer/internal/httpx"
)

const defaultGroqModel = "llama-3.3-70b-versatile"
const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

const groqChatCompletionsURL = "https://api.groq.com/openai/v1/chat/completions"

const maxErrorLen = 100
const parseRetryDelay = time.Second

// LiveClassifier classifies complaints through the configured LLM provider.
// It owns the prompt contract, response parsing, and the retry schedules:
// exponential backoff for service failures, fixed delay for malformed
// responses. It never touches the record store.
type LiveClassifier struct {
	cfg          config.Config
	serviceRetry retryPolicy
	parseRetry   retryPolicy

	// invoke is swapped out in tests to avoid real service calls.
	invoke func(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

func NewLiveClassifier(cfg config.Config) *LiveClassifier {
	c := &LiveClassifier{
		cfg:          cfg,
		serviceRetry: newRetryPolicy(cfg.LLMMaxRetries, exponentialBackoff),
		parseRetry:   newRetryPolicy(cfg.LLMMaxRetries, fixedDelay(parseRetryDelay)),
	}
	c.invoke = c.callProvider
	return c
}

// IsAvailable reports whether a credential is configured for the selected
// provider. When false the client must not be invoked at all; the caller
// substitutes demo data instead.
func (c *LiveClassifier) IsAvailable() bool {
	return c.cfg.APIKey() != ""
}

func (c *LiveClassifier) Classify(ctx context.Context, rec domain.ComplaintRecord) domain.ClassificationResult {
	if strings.TrimSpace(rec.ComplaintText) == "" {
		return domain.ClassificationResult{Error: "empty complaint text"}
	}

	prompt := buildClassificationPrompt(rec)
	maxAttempts := c.serviceRetry.MaxAttempts

	for attempt := 0; attempt < maxAttempts; attempt++ {
		raw, err := c.invoke(ctx, classificationSystemPrompt, prompt)
		if err != nil {
			if attempt < maxAttempts-1 {
				c.serviceRetry.Wait(attempt)
				continue
			}
			return domain.ClassificationResult{Error: truncateError(err)}
		}

		result, parseErr := parseClassificationResponse(raw)
		if parseErr != nil {
			log.Printf("llm classify parse error id=%s attempt=%d: %v", rec.ComplaintID, attempt+1, parseErr)
			if attempt < maxAttempts-1 {
				c.parseRetry.Wait(attempt)
				continue
			}
			return domain.ClassificationResult{Error: fmt.Sprintf("JSON parsing failed after %d attempts", maxAttempts)}
		}
		return result
	}

	return domain.ClassificationResult{Error: "max retries exceeded"}
}

// GenerateText runs one free-form generation through the configured
// provider. The report generator uses it for LLM-written reports; it shares
// the provider dispatch but not the classification retry schedule.
func (c *LiveClassifier) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.invoke(ctx, systemPrompt, userPrompt)
}

func (c *LiveClassifier) callProvider(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	switch c.cfg.LLMProvider {
	case "anthropic":
		model := c.cfg.LLMModel
		if model == "" {
			model = defaultAnthropicModel
		}
		return callAnthropic(ctx, c.cfg.AnthropicAPIKey, model, c.cfg.LLMMaxTokens, systemPrompt, userPrompt)
	default:
		model := c.cfg.LLMModel
		if model == "" {
			model = defaultGroqModel
		}
		return callGroq(ctx, c.cfg.GroqAPIKey, model, c.cfg.LLMTemperature, c.cfg.LLMMaxTokens, systemPrompt, userPrompt)
	}
}

// parseClassificationResponse strips an optional markdown code fence and
// parses the strict six-key JSON contract. Unknown keys, non-object shapes,
// and trailing content are all parse failures.
func parseClassificationResponse(raw string) (domain.ClassificationResult, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	// Literal null and other non-object values decode without error into a
	// zero result, which would masquerade as a successful classification.
	if !strings.HasPrefix(raw, "{") {
		return domain.ClassificationResult{}, fmt.Errorf("classification response is not a JSON object")
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()

	var result domain.ClassificationResult
	if err := dec.Decode(&result); err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("parsing classification response: %w", err)
	}
	if dec.More() {
		return domain.ClassificationResult{}, fmt.Errorf("trailing content after classification JSON")
	}
	return result, nil
}

func truncateError(err error) string {
	msg := err.Error()
	if len(msg) <= maxErrorLen {
		return msg
	}
	cut := maxErrorLen
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut]
}

// --- Groq (OpenAI-compatible chat completions) ---

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func callGroq(ctx context.Context, apiKey, model string, temperature float64, maxTokens int, systemPrompt, userPrompt string) (string, error) {
	reqBody := groqRequest{
		Model: model,
		Messages: []groqMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", groqChatCompletionsURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := httpx.Client().Do(req)
	if err != nil {
		log.Printf("llm groq error: %v", err)
		return "", fmt.Errorf("Groq API error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var groqResp groqResponse
	if err := json.Unmarshal(respBody, &groqResp); err != nil {
		return "", fmt.Errorf("parsing Groq response: %w", err)
	}

	if groqResp.Error != nil {
		log.Printf("llm groq api error: %s", groqResp.Error.Message)
		return "", fmt.Errorf("Groq API error: %s", groqResp.Error.Message)
	}

	if len(groqResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in Groq response")
	}

	content := groqResp.Choices[0].Message.Content
	log.Printf("llm groq response model=%s size=%d", model, len(content))
	return content, nil
}

// --- Anthropic ---

func callAnthropic(ctx context.Context, apiKey, model string, maxTokens int, systemPrompt, userPrompt string) (string, error) {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		log.Printf("llm anthropic error: %v", err)
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			log.Printf("llm anthropic response model=%s size=%d", model, len(block.Text))
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Anthropic response")
}
