// internal/server/sampling.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// SamplingClient asks the AI gateway to break a free-text meal description
// into ingredients.
type SamplingClient struct {
	httpClient *http.Client
	proxyURL   string
	apiKey     string
	model      string
}

func NewSamplingClient(proxyURL, apiKey, model string) *SamplingClient {
	return &SamplingClient{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		proxyURL: strings.TrimRight(proxyURL, "/"),
		apiKey:   apiKey,
		model:    model,
	}
}

const ingredientSystemPrompt = `You are a nutrition assistant helping a user keep a food and symptom journal.

List the individual ingredients in the meal the user describes, including
common hidden ones (for example butter in a croissant, wheat in pasta).

IMPORTANT: Always respond with valid JSON in this exact format:
{
  "ingredients": ["ingredient one", "ingredient two"]
}

Use short lowercase names and do not include quantities.`

// ExtractIngredients returns the ingredients of a meal description. When the
// gateway is unreachable or its answer cannot be parsed, the description is
// split locally instead.
func (s *SamplingClient) ExtractIngredients(ctx context.Context, description string) []string {
	if s == nil || s.proxyURL == "" {
		return SplitIngredients(description)
	}

	completionRequest := map[string]interface{}{
		"model":         s.model,
		"system_prompt": ingredientSystemPrompt,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": fmt.Sprintf("List the ingredients in this meal: %q", description),
			},
		},
		"max_tokens":  500,
		"temperature": 0.1,
	}

	output, err := s.callGateway(ctx, "create_completion", completionRequest)
	if err != nil {
		log.WithError(err).Warn("ingredient extraction failed, splitting description locally")
		return SplitIngredients(description)
	}

	ingredients, ok := parseIngredients(output)
	if !ok {
		log.WithField("output", output).Debug("unparseable ingredient list, splitting description locally")
		return SplitIngredients(description)
	}
	return ingredients
}

func (s *SamplingClient) callGateway(ctx context.Context, toolName string, args interface{}) (string, error) {
	url := fmt.Sprintf("%s/openrouter-gateway", s.proxyURL)

	requestData := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name":      toolName,
			"arguments": args,
		},
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("request failed with status %d and couldn't read body: %v", resp.StatusCode, err)
		}
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var mcpResponse struct {
		Result struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&mcpResponse); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(mcpResponse.Result.Content) == 0 {
		return "", fmt.Errorf("unexpected response format")
	}
	return mcpResponse.Result.Content[0].Text, nil
}

// parseIngredients pulls the ingredient list out of a completion. The
// completion is a JSON object whose "content" holds the model's text, which
// in turn should contain a JSON object.
func parseIngredients(aiOutput string) ([]string, bool) {
	var completion struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(aiOutput), &completion); err != nil || completion.Content == "" {
		return nil, false
	}

	content := completion.Content
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return nil, false
	}

	var parsed struct {
		Ingredients []string `json:"ingredients"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err != nil {
		return nil, false
	}

	ingredients := cleanIngredients(parsed.Ingredients)
	if len(ingredients) == 0 {
		return nil, false
	}
	return ingredients, true
}

var ingredientSeparators = regexp.MustCompile(`(?i)\s*(?:,|;|&|\+|\band\b|\bwith\b)\s*`)

// SplitIngredients is the local fallback: it splits a description on commas,
// semicolons, "and" and "with".
func SplitIngredients(description string) []string {
	return cleanIngredients(ingredientSeparators.Split(description, -1))
}

func cleanIngredients(raw []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		ing := strings.ToLower(strings.TrimSpace(r))
		if ing == "" || seen[ing] {
			continue
		}
		seen[ing] = true
		out = append(out, ing)
	}
	return out
}
