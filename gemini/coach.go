package gemini

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/bankroll"
	"google.golang.org/genai"
)

const coachSystem = `Você é um analista de apostas esportivas e de gestão de banca, com foco em análise quantitativa, psicologia do apostador e controle de risco.

Analise o desempenho do apostador e recomende como deve ser a PRÓXIMA aposta, buscando lucro no longo prazo sem colocar a banca em risco.

Você recebe as estatísticas gerais, as últimas apostas resolvidas em ordem cronológica e o resultado por mercado e liga.

1. Procure sequências de vitórias ou derrotas e onde elas se concentram.
2. Compare o desempenho recente com o geral.
3. Detecte comportamentos de risco: aumentar as unidades logo após derrotas é um alerta Alto, aumentar muito após vitórias é um alerta Médio, manter as unidades estáveis é sinal de disciplina.
4. Sugira o tamanho da próxima aposta em unidades (0.5, 1, 2 ou 3), conservador após derrotas.
5. Dê conselhos práticos e específicos sobre mercados e ligas.

Responda estritamente em JSON, seguindo o schema fornecido.`

var recommendationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"recommendationTitle": {Type: genai.TypeString, Description: "Título curto da recomendação, ex: 'Manter disciplina: 1 unidade'."},
		"suggestedUnits":      {Type: genai.TypeNumber, Description: "Unidades sugeridas para a próxima aposta (0.5, 1, 2 ou 3)."},
		"analysisSummary":     {Type: genai.TypeString, Description: "Resumo da análise e do momento atual."},
		"riskAlert": {
			Type:     genai.TypeObject,
			Nullable: genai.Ptr(true),
			Properties: map[string]*genai.Schema{
				"level":   {Type: genai.TypeString, Enum: riskLevels},
				"message": {Type: genai.TypeString, Description: "Explicação do risco detectado."},
			},
		},
		"strategicAdvice": {Type: genai.TypeString, Description: "Conselho estratégico prático."},
	},
	Required: []string{"recommendationTitle", "suggestedUnits", "analysisSummary", "strategicAdvice"},
}

var riskLevels = []string{bankroll.RiskLow, bankroll.RiskMedium, bankroll.RiskHigh, bankroll.RiskNone}

// recentWager is what the model sees of a past wager.
type recentWager struct {
	Market     string  `json:"market"`
	League     string  `json:"league"`
	Units      float64 `json:"units"`
	Odd        float64 `json:"odd"`
	Status     string  `json:"status"`
	ProfitLoss float64 `json:"profitLoss"`
}

// Advise implements bankroll.Advisor.
func (c *Client) Advise(ctx context.Context, req bankroll.CoachingRequest) (*bankroll.Recommendation, error) {
	var rec bankroll.Recommendation
	parts := []*genai.Part{{Text: coachPrompt(req)}}
	if err := c.generateJSON(ctx, "advise", coachSystem, recommendationSchema, parts, &rec); err != nil {
		return nil, err
	}
	if rec.RiskAlert != nil && !slices.Contains(riskLevels, rec.RiskAlert.Level) {
		c.log.Warn().Str("level", rec.RiskAlert.Level).Msg("unknown risk level in recommendation")
		rec.RiskAlert.Level = bankroll.RiskNone
	}
	if rec.SuggestedUnits < 0 {
		rec.SuggestedUnits = 0
	}
	return &rec, nil
}

func coachPrompt(req bankroll.CoachingRequest) string {
	s := req.Stats
	stats := map[string]any{
		"roi":             float64(s.ROI),
		"winRate":         float64(s.WinRate),
		"totalProfitLoss": s.TotalProfitLoss,
		"currentBankroll": s.CurrentBankroll,
		"maxDrawdown":     float64(s.MaxDrawdown),
		"resolved":        s.ResolvedCount,
	}

	recent := make([]recentWager, 0, len(req.Recent))
	for _, w := range req.Recent {
		units, _ := w.Units.Round(2).Float64()
		odd, _ := w.Odd.Float64()
		pl, _ := w.ProfitLoss.Round(2).Float64()
		recent = append(recent, recentWager{w.Market, w.League, units, odd, w.Status.String(), pl})
	}

	type market struct {
		Name     string  `json:"name"`
		Profit   float64 `json:"profit"`
		Invested float64 `json:"invested"`
		Count    int     `json:"count"`
	}
	performance := make([]market, 0, len(req.Performance))
	for _, p := range req.Performance {
		profit, _ := p.Profit.Round(2).Float64()
		invested, _ := p.Invested.Round(2).Float64()
		performance = append(performance, market{p.Name, profit, invested, p.Count})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Estatísticas gerais:\n%s\n\n", toJSON(stats))
	fmt.Fprintf(&b, "Histórico recente (últimas %d apostas resolvidas):\n%s\n\n", len(recent), toJSON(recent))
	fmt.Fprintf(&b, "Desempenho por mercado e liga:\n%s\n\n", toJSON(performance))
	b.WriteString("Com base nesses dados, forneça sua análise e recomendação.")
	return b.String()
}
