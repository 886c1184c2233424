package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"btc-barometer/internal/domain"
)

// Classifier scores a single text through an external classification
// service. Confidence is the service's calibrated probability for the label.
type Classifier interface {
	Classify(ctx context.Context, text string) (domain.SentimentScore, error)
}

// maxClassifyWords caps the text sent to the classification service; the
// hosted models truncate around 512 tokens anyway.
const maxClassifyChars = 512

// HuggingFaceClassifier calls a hosted text-classification model.
type HuggingFaceClassifier struct {
	client *http.Client
	url    string
	apiKey string
}

func NewHuggingFaceClassifier(url, apiKey string, timeout time.Duration) *HuggingFaceClassifier {
	return &HuggingFaceClassifier{
		client: &http.Client{Timeout: timeout},
		url:    url,
		apiKey: apiKey,
	}
}

func (c *HuggingFaceClassifier) Classify(ctx context.Context, text string) (domain.SentimentScore, error) {
	text = truncateWords(text, maxClassifyChars)
	if text == "" {
		return domain.SentimentScore{}, fmt.Errorf("empty text")
	}

	payload, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return domain.SentimentScore{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return domain.SentimentScore{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.SentimentScore{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.SentimentScore{}, fmt.Errorf("classification API error %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.SentimentScore{}, err
	}
	return parseClassification(body)
}

// parseClassification accepts the two shapes the inference API produces:
// [[{"label","score"},...]] and [{"label","score"},...]. The first entry is
// the winning label.
func parseClassification(body []byte) (domain.SentimentScore, error) {
	type prediction struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}

	var nested [][]prediction
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return scoreFromPrediction(nested[0][0].Label, nested[0][0].Score)
	}

	var flat []prediction
	if err := json.Unmarshal(body, &flat); err == nil && len(flat) > 0 {
		return scoreFromPrediction(flat[0].Label, flat[0].Score)
	}

	return domain.SentimentScore{}, fmt.Errorf("unrecognized classification payload: %s", string(body))
}

func scoreFromPrediction(label string, score float64) (domain.SentimentScore, error) {
	return domain.SentimentScore{
		Label:      normalizeLabel(label),
		Confidence: clamp01(score),
	}, nil
}

// normalizeLabel maps the heterogeneous label vocabularies of hosted models
// (POSITIVE/NEGATIVE, LABEL_0..2, 1-5 stars) onto the common unit.
func normalizeLabel(label string) domain.SentimentLabel {
	label = strings.ToLower(strings.TrimSpace(label))
	switch {
	case strings.Contains(label, "positive"), label == "label_2",
		strings.HasPrefix(label, "4 star"), strings.HasPrefix(label, "5 star"):
		return domain.SentimentPositive
	case strings.Contains(label, "negative"), label == "label_0",
		strings.HasPrefix(label, "1 star"), strings.HasPrefix(label, "2 star"):
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func truncateWords(text string, maxChars int) string {
	text = strings.TrimSpace(text)
	if len(text) <= maxChars {
		return text
	}
	words := strings.Fields(text)
	var b strings.Builder
	for _, w := range words {
		if b.Len()+len(w)+1 > maxChars {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
	}
	return b.String()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
