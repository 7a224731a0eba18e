package gemini

import (
	"context"
	"fmt"

	"github.com/etnz/bankroll"
	"google.golang.org/genai"
)

var classifySystem = fmt.Sprintf(`Você classifica apostas esportivas.
Para cada aposta recebida, decida o mercado correto entre %q e a liga.
Para %q a liga deve ser uma de %q, ou "N/A" quando não for possível identificar.
Para os outros mercados, use o nome do campeonato ou "N/A".
Responda apenas para as apostas cuja classificação você consegue determinar, usando o mesmo id.`,
	bankroll.Markets, bankroll.GameTitleMarket, bankroll.Leagues)

var correctionsSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":     {Type: genai.TypeString, Description: "O id da aposta recebida."},
			"market": {Type: genai.TypeString, Enum: bankroll.Markets, Description: "O mercado da aposta."},
			"league": {Type: genai.TypeString, Description: "A liga ou campeonato, ou N/A."},
		},
		Required: []string{"id", "market", "league"},
	},
}

// Classify implements bankroll.Classifier.
// Answers for ids that were not asked for are ignored.
func (c *Client) Classify(ctx context.Context, batch []bankroll.ClassificationRequest) ([]bankroll.Correction, error) {
	if len(batch) == 0 {
		return nil, nil
	}
	asked := make(map[string]bool, len(batch))
	for _, r := range batch {
		asked[r.ID] = true
	}

	prompt := "Classifique as apostas abaixo:\n" + toJSON(batch)
	var answer []any
	if err := c.generateJSON(ctx, "classify", classifySystem, correctionsSchema, []*genai.Part{{Text: prompt}}, &answer); err != nil {
		return nil, err
	}

	corrections := make([]bankroll.Correction, 0, len(answer))
	for _, raw := range answer {
		corr, ok := bankroll.NormalizeCorrection(raw)
		if !ok || !asked[corr.ID] {
			continue
		}
		corrections = append(corrections, corr)
	}
	c.log.Debug().Int("asked", len(batch)).Int("corrected", len(corrections)).Msg("classification batch done")
	return corrections, nil
}
