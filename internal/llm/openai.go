package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bcviz/internal/analysis"
	"bcviz/internal/logger"
	"bcviz/internal/models"

	"github.com/sashabaranov/go-openai"
)

// Client generates markdown narratives summarizing seasonal black
// carbon statistics. Narrative generation is optional: with no API key
// the client is disabled and callers should use FallbackNarrative.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a narrative client. An empty API key produces a
// disabled client.
func NewClient(apiKey, model string) *Client {
	c := &Client{model: model}
	if apiKey != "" {
		c.client = openai.NewClient(apiKey)
	}
	return c
}

// Enabled reports whether narrative generation is available.
func (c *Client) Enabled() bool {
	return c.client != nil
}

// GenerateNarrative produces a markdown narrative for the dataset's
// seasonal statistics.
func (c *Client) GenerateNarrative(ctx context.Context, dataset *models.Dataset, stats map[models.Season]analysis.SeasonStat, shares []analysis.SeasonShare) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("narrative client not configured")
	}

	prompt := c.buildPrompt(dataset, stats, shares)

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   2000,
			Temperature: 0.3,
		},
	)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	narrative := resp.Choices[0].Message.Content
	logger.Debug("Generated narrative", map[string]interface{}{
		"characters": len(narrative),
	})
	return narrative, nil
}

const systemPrompt = "You are an atmospheric scientist specializing in black carbon aerosol measurements. " +
	"Write a concise interpretation of the provided seasonal statistics in markdown format. " +
	"Cover seasonal differences in mass absorption cross-section (MAC), the split of observations " +
	"across seasons, and what the MAC values suggest about aerosol optical properties. Stay factual " +
	"and grounded in the numbers provided."

// buildPrompt constructs the user prompt from dataset metadata and the
// computed statistics.
func (c *Client) buildPrompt(dataset *models.Dataset, stats map[models.Season]analysis.SeasonStat, shares []analysis.SeasonShare) string {
	prompt := fmt.Sprintf("## Black Carbon Measurement Summary\n\nDataset: %d records starting %s at %d-day intervals.\n\n",
		len(dataset.Records), dataset.StartDate, dataset.StepDays)

	type seasonSummary struct {
		Season  string  `json:"season"`
		MeanMAC float64 `json:"mean_mac_m2_per_g"`
		Count   int     `json:"count"`
	}
	summaries := make([]seasonSummary, 0, len(shares))
	for _, share := range shares {
		s := seasonSummary{Season: string(share.Season), Count: share.Count}
		if stat, ok := stats[share.Season]; ok {
			s.MeanMAC = stat.MeanMAC
		}
		summaries = append(summaries, s)
	}

	prompt += "### Seasonal MAC Statistics:\n```json\n"
	if jsonData, err := json.MarshalIndent(summaries, "", "  "); err == nil {
		prompt += string(jsonData)
	} else {
		prompt += "Error marshaling seasonal statistics"
	}
	prompt += "\n```\n\n"

	if mean, ok := analysis.OverallMean(dataset.Records); ok {
		prompt += fmt.Sprintf("Overall mean MAC across all records: %.2f m²/g.\n\n", mean)
	}

	prompt += "### Instructions:\nSummarize these seasonal patterns in 2-4 short markdown paragraphs."
	return prompt
}

// FallbackNarrative builds a plain statistical summary used when
// narrative generation is disabled or fails.
func FallbackNarrative(records []models.MeasurementRecord, stats map[models.Season]analysis.SeasonStat) string {
	narrative := "## Seasonal Summary\n\n"
	for _, season := range models.Seasons() {
		stat, ok := stats[season]
		if !ok {
			continue
		}
		narrative += fmt.Sprintf("- **%s**: %d records, mean MAC %.2f m²/g\n", season, stat.Count, stat.MeanMAC)
	}
	if mean, ok := analysis.OverallMean(records); ok {
		narrative += fmt.Sprintf("\nOverall mean MAC across %d records: %.2f m²/g.\n", len(records), mean)
	}
	return narrative
}
