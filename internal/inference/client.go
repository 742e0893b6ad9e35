// internal/inference/client.go

// Package inference wraps the Google GenAI client behind the two operations
// the pipeline needs: structured section extraction and narrative summary
// generation. Both are treated as black boxes that may fail or time out; the
// caller bounds every call with a context deadline.
package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"rfp-bid-engine/internal/models"
)

const defaultModel = "gemini-2.5-flash"

// Service is the inference collaborator contract consumed by the pipeline
// steps.
type Service interface {
	ExtractSections(ctx context.Context, documentText string) (*models.ExtractedSections, error)
	Summarize(ctx context.Context, bid *models.FinalBid) (string, error)
}

// GeminiClient implements Service against the Gemini API.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates a client configured for the Gemini API backend.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &GeminiClient{client: client, modelName: model}, nil
}

const extractPrompt = `You are given the full text of a request-for-proposal document.
Return a JSON object with exactly these string fields:
- "scope_of_supply": the products/quantities requested, one bullet line per item
- "technical_specifications": the technical requirements text
- "testing_requirements": the testing and acceptance requirements, one bullet line per test

Document text:
%s`

// ExtractSections asks the model for the three structured text sections of a
// proposal document.
func (c *GeminiClient) ExtractSections(ctx context.Context, documentText string) (*models.ExtractedSections, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0),
	}

	out, err := c.generateContent(ctx, fmt.Sprintf(extractPrompt, documentText), cfg)
	if err != nil {
		return nil, err
	}

	var sections models.ExtractedSections
	if err := json.Unmarshal([]byte(out), &sections); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}
	return &sections, nil
}

// Summarize produces the narrative summary for a consolidated bid.
func (c *GeminiClient) Summarize(ctx context.Context, bid *models.FinalBid) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "RFP ID: %s\n", bid.RFPID)
	fmt.Fprintf(&sb, "Title: %s\n", bid.RFPTitle)
	fmt.Fprintf(&sb, "Due Date: %s\n", bid.RFPDueDate)
	fmt.Fprintf(&sb, "Total Bid Value: %s\n", bid.TotalBidValue)
	sb.WriteString("Items:\n")
	for _, item := range bid.Pricing {
		fmt.Fprintf(&sb, "- %s | SKU=%s | Qty=%d | Total=%s\n",
			item.RequirementItemID, item.ChosenSKU, item.Quantity, item.TotalCost)
	}

	prompt := fmt.Sprintf(
		"Write a short professional bid summary (3-5 sentences) for the following offer. "+
			"Mention the total bid value and the number of line items.\n\n%s",
		sb.String(),
	)

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.2),
	}
	return c.generateContent(ctx, prompt, cfg)
}

func (c *GeminiClient) generateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("gemini client is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// Model returns the configured model name.
func (c *GeminiClient) Model() string {
	if c == nil {
		return ""
	}
	return c.modelName
}
