// Package gemini implements the bankroll classifier, bet slip extractor and
// coach on top of the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Generator is the part of the Gemini API used by Client.
// *genai.Models implements it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client answers bankroll questions with a Gemini model.
// It implements bankroll.Classifier, bankroll.Extractor and bankroll.Advisor.
type Client struct {
	gen   Generator
	model string
	log   zerolog.Logger
}

// New returns a Client using gen. An empty model means DefaultModel.
func New(gen Generator, model string, log zerolog.Logger) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{gen: gen, model: model, log: log}
}

// NewFromAPIKey connects to the Gemini API. An empty apiKey lets the genai
// library read GEMINI_API_KEY or GOOGLE_API_KEY from the environment.
func NewFromAPIKey(ctx context.Context, apiKey, model string, log zerolog.Logger) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create gemini client: %w", err)
	}
	return New(client.Models, model, log), nil
}

// generateJSON asks the model for a JSON answer matching schema and decodes it into v.
func (c *Client) generateJSON(ctx context.Context, task string, system string, schema *genai.Schema, parts []*genai.Part, v any) error {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	resp, err := c.gen.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return fmt.Errorf("%s: %w", task, err)
	}
	text := responseText(resp)
	if text == "" {
		return fmt.Errorf("%s: empty response from %s", task, c.model)
	}
	c.log.Debug().Str("task", task).Str("model", c.model).Int("bytes", len(text)).Msg("gemini answered")

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		c.log.Warn().Str("task", task).Str("response", text).Msg("gemini answer is not valid JSON")
		return fmt.Errorf("%s: invalid JSON answer: %w", task, err)
	}
	return nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}

// toJSON renders v for a prompt.
func toJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
