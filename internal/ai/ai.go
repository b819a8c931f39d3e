/*
Package ai produces an optional Gemini-generated digest of a run's accepted
opportunities, appended to the notification when an API key is configured.
*/
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/licitaware/pncpwatch/internal/types"
)

const maxDigestMatches = 15

const systemInstruction = `
You are a procurement analyst reviewing Brazilian public tender notices that
matched a company's keyword profile.

Summarize the batch in 3-5 concise bullet points. Prioritize, in order:
1. High-value contracts (estimated value) and which company profile they matched.
2. Urgent proposal deadlines.
3. Clusters of similar work (e.g. several road or sanitation contracts).

Write plain factual bullets. Every bullet must reference a concrete notice,
value, or deadline from the input. Do not speculate beyond the provided data.
`

type runDigest struct {
	Highlights []string `json:"highlights"`
}

// GenerateDigest asks Gemini for a short highlight list over the run's
// accepted matches. Failures are the caller's to log; the run never depends
// on this step.
func GenerateDigest(ctx context.Context, matches []types.MatchRecord, apiKey string, modelName string) ([]string, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	contents := []*genai.Content{
		{Role: "system", Parts: []*genai.Part{{Text: systemInstruction}}},
		{Role: "user", Parts: []*genai.Part{{Text: describeMatches(matches)}}},
	}

	resp, err := client.Models.GenerateContent(ctx, modelName, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   digestSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	respText := resp.Text()

	var digest runDigest
	if err := json.Unmarshal([]byte(respText), &digest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gemini JSON response: %w. Raw text: %s", err, respText)
	}
	return digest.Highlights, nil
}

// describeMatches renders the top matches as compact input lines, highest
// score first is assumed from the caller.
func describeMatches(matches []types.MatchRecord) string {
	var sb strings.Builder
	sb.WriteString("Matched tender notices:\n\n")

	n := len(matches)
	if n > maxDigestMatches {
		n = maxDigestMatches
	}
	for _, m := range matches[:n] {
		desc := m.Description
		if len(desc) > 200 {
			desc = desc[:200] + "..."
		}
		sb.WriteString(fmt.Sprintf("- company=%s modality=%s org=%s value=%.2f score=%d status=%s urgency=%s: %s\n",
			m.Company, m.ModalityName, m.OrgName, m.Value, m.Score, m.Status, m.Urgency, desc))
	}
	return sb.String()
}

func digestSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"highlights": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "3-5 concise bullet points over the matched notices.",
			},
		},
		Required: []string{"highlights"},
	}
}
