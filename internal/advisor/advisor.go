// Package advisor wraps the Gemini API behind the dashboard's financial
// assistant endpoint. It is deliberately thin: one system prompt, one
// single-turn generation per request, no tool calling.
package advisor

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"financer/internal/models"
)

const systemPrompt = `You are an expert AI financial advisor with deep knowledge of Indian markets, taxation, and investment strategies.
Provide comprehensive, actionable advice while being conservative and risk-aware.

Key guidelines:
- Always consider the Indian regulatory framework (SEBI, RBI, Income Tax Act)
- Explain concepts clearly for all knowledge levels
- Emphasize risk management and diversification
- Be transparent about limitations and suggest professional consultation for complex matters
- Provide data-driven insights when possible
- Consider inflation, market volatility, and economic factors`

// Advisor answers financial questions through Gemini.
type Advisor struct {
	client *genai.Client
	model  string
	log    *logrus.Entry
}

// New creates an Advisor. apiKey may come from the environment via the
// genai client itself; model is the Gemini model name to use.
func New(ctx context.Context, apiKey, model string) (*Advisor, error) {
	cfg := &genai.ClientConfig{}
	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Advisor{
		client: client,
		model:  model,
		log:    logrus.WithField("component", "advisor"),
	}, nil
}

// Ask sends a single user question and returns the assistant's reply.
func (a *Advisor) Ask(ctx context.Context, question string) (string, error) {
	if question == "" {
		return "", &models.InvalidInputError{Field: "message", Reason: "must not be empty"}
	}

	temperature := float32(0.7)
	cfg := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		MaxOutputTokens:   2048,
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model,
		genai.Text(question), cfg)
	if err != nil {
		a.log.WithError(err).Error("generation failed")
		return "", fmt.Errorf("advisor unavailable: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("advisor returned an empty response")
	}
	return text, nil
}
