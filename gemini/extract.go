package gemini

import (
	"context"
	"fmt"

	"github.com/etnz/bankroll"
	"google.golang.org/genai"
)

var extractPrompt = fmt.Sprintf(`Analise esta imagem de um boletim de aposta e extraia cada aposta que ela contém.
O mercado deve ser um dos seguintes: %q.`, bankroll.Markets)

var slipSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"market":     {Type: genai.TypeString, Enum: bankroll.Markets, Description: "O mercado da aposta."},
			"league":     {Type: genai.TypeString, Description: "A liga, se aplicável (ex: LPL, CBLOL)."},
			"details":    {Type: genai.TypeString, Description: "Os times envolvidos, no formato 'Time A vs Time B'."},
			"betType":    {Type: genai.TypeString, Description: "O tipo de aposta (ex: Moneyline, Handicap -1.5)."},
			"odd":        {Type: genai.TypeNumber, Description: "A odd da aposta."},
			"stakeValue": {Type: genai.TypeNumber, Description: "O valor apostado, se visível."},
		},
	},
}

// Extract implements bankroll.Extractor.
func (c *Client) Extract(ctx context.Context, image []byte, mimeType string) ([]map[string]any, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("extract: empty image")
	}
	parts := []*genai.Part{
		{InlineData: &genai.Blob{Data: image, MIMEType: mimeType}},
		{Text: extractPrompt},
	}
	var answer any
	if err := c.generateJSON(ctx, "extract", "", slipSchema, parts, &answer); err != nil {
		return nil, err
	}

	var records []map[string]any
	switch v := answer.(type) {
	case map[string]any:
		records = append(records, v)
	case []any:
		for _, item := range v {
			if record, ok := item.(map[string]any); ok {
				records = append(records, record)
			}
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("extract: no bet found in the image")
	}
	return records, nil
}
