package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/marketgap/backend/internal/domain"
	"github.com/marketgap/backend/internal/metrics"
)

const (
	defaultAPIURL = "https://api.openai.com/v1/chat/completions"
	defaultModel  = "gpt-4o-mini"

	// maxCandidateNameLength keeps the prompt cheap for long listings.
	maxCandidateNameLength = 100
)

// Matcher picks semantic product matches with a chat-completion call. It
// exists for source names that token matching cannot handle, typically
// Japanese listings being compared against English ones.
type Matcher struct {
	httpClient *http.Client
	apiKey     string
	apiURL     string
	model      string
	log        *zap.Logger
}

// NewMatcher creates a semantic matcher. An empty API key produces a
// disabled matcher, which callers should check via Enabled.
func NewMatcher(apiKey, model string, log *zap.Logger) *Matcher {
	if model == "" {
		model = defaultModel
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Matcher{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey: apiKey,
		apiURL: defaultAPIURL,
		model:  model,
		log:    log,
	}
}

// Enabled reports whether the matcher can make API calls.
func (m *Matcher) Enabled() bool {
	return m.apiKey != ""
}

// PickMatch asks the model which candidate matches the product name and
// returns its index, or -1 when the model reports no match.
func (m *Matcher) PickMatch(ctx context.Context, name string, candidates []string) (int, error) {
	if !m.Enabled() {
		return -1, domain.ErrSemanticMatchUnavailable
	}
	if len(candidates) == 0 {
		return -1, nil
	}

	content, err := m.complete(ctx, buildPrompt(name, candidates))
	if err != nil {
		metrics.SemanticMatchesTotal.WithLabelValues("error").Inc()
		return -1, err
	}

	idx, err := parseChoice(content, len(candidates))
	if err != nil {
		metrics.SemanticMatchesTotal.WithLabelValues("error").Inc()
		m.log.Debug("unparseable semantic match response",
			zap.String("response", content),
		)
		return -1, err
	}

	if idx < 0 {
		metrics.SemanticMatchesTotal.WithLabelValues("no_match").Inc()
	} else {
		metrics.SemanticMatchesTotal.WithLabelValues("matched").Inc()
	}
	return idx, nil
}

func (m *Matcher) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model": m.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0,
		"max_tokens":  10,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

// buildPrompt numbers the candidates 1-based; the model answers with one
// number, where 0 means no match.
func buildPrompt(name string, candidates []string) string {
	var list strings.Builder
	for i, candidate := range candidates {
		runes := []rune(candidate)
		if len(runes) > maxCandidateNameLength {
			candidate = string(runes[:maxCandidateNameLength])
		}
		fmt.Fprintf(&list, "%d. %s\n", i+1, candidate)
	}

	return fmt.Sprintf(`You are a product matching expert. Your task is to find if a source product has an equivalent or very similar product in the candidate list.

SOURCE PRODUCT (may contain non-English characters - understand what it is):
%q

CANDIDATE PRODUCTS LIST:
%s
INSTRUCTIONS:
1. Read and understand what the source product actually IS (translate mentally if needed)
2. Look for the SAME or VERY SIMILAR product type in the candidate list
3. Consider: same function, same use case, same category

RESPOND WITH ONLY:
- If match found: Just the number (e.g., "5")
- If no match: "0"

Do NOT explain. Just respond with the number.`, name, list.String())
}

// parseChoice converts the model's 1-based answer to a 0-based index.
func parseChoice(content string, candidateCount int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(content))
	if err != nil {
		return -1, fmt.Errorf("unexpected response %q: %w", content, err)
	}
	if n <= 0 || n > candidateCount {
		return -1, nil
	}
	return n - 1, nil
}
