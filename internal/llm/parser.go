package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseClassification extracts category and confidence from a provider's
// text reply.
func parseClassification(content string) (ClassificationResponse, error) {
	var jsonResp struct {
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
	}

	content = cleanMarkdownWrapper(content)

	if err := json.Unmarshal([]byte(content), &jsonResp); err != nil {
		return ClassificationResponse{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if jsonResp.Category == "" {
		return ClassificationResponse{}, fmt.Errorf("no category found in response")
	}
	if jsonResp.Confidence < 0 || jsonResp.Confidence > 1 {
		return ClassificationResponse{}, fmt.Errorf("confidence %v out of range", jsonResp.Confidence)
	}

	return ClassificationResponse{
		Category:   strings.ToLower(strings.TrimSpace(jsonResp.Category)),
		Confidence: jsonResp.Confidence,
	}, nil
}

// cleanMarkdownWrapper strips markdown code fences that models sometimes wrap
// around JSON despite instructions not to.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")

	return strings.TrimSpace(content)
}
