package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"

	"btc-barometer/internal/domain"
)

const classifyPrompt = `You are a financial sentiment classifier for Bitcoin news.
Classify the following headline and summary as positive, negative, or neutral
for the Bitcoin price outlook. Respond with JSON only, no prose:
{"label": "positive|negative|neutral", "confidence": 0.0-1.0}

Text:
%s`

// openAIChatClient is the slice of the OpenAI SDK we consume, kept narrow so
// tests can stub it.
type openAIChatClient interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// OpenAIClassifier scores text with a chat-completion model. It is used when
// an OpenAI key is configured but no dedicated classification endpoint is.
type OpenAIClassifier struct {
	chat  openAIChatClient
	model string
}

func NewOpenAIClassifier(client *openai.Client, model string) *OpenAIClassifier {
	return &OpenAIClassifier{chat: &chatCompletionAdapter{client: client}, model: model}
}

// chatCompletionAdapter wraps the official SDK's chat completions service.
type chatCompletionAdapter struct {
	client *openai.Client
}

func (a *chatCompletionAdapter) New(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return a.client.Chat.Completions.New(ctx, params)
}

func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (domain.SentimentScore, error) {
	text = truncateWords(text, maxClassifyChars)
	if text == "" {
		return domain.SentimentScore{}, fmt.Errorf("empty text")
	}

	resp, err := c.chat.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(fmt.Sprintf(classifyPrompt, text)),
		},
	})
	if err != nil {
		return domain.SentimentScore{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.SentimentScore{}, fmt.Errorf("chat completion returned no choices")
	}

	raw := trimCodeFence(resp.Choices[0].Message.Content)
	var parsed struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return domain.SentimentScore{}, fmt.Errorf("parse model response %q: %w", raw, err)
	}

	return domain.SentimentScore{
		Label:      normalizeLabel(parsed.Label),
		Confidence: clamp01(parsed.Confidence),
	}, nil
}

// trimCodeFence strips a markdown ```json fence the model sometimes wraps
// around its output.
func trimCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
