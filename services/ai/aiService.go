package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"finance-tracker/logger"
	aiTypes "finance-tracker/types/ai"

	"google.golang.org/genai"
)

const (
	SourceGemini   = "gemini"
	SourceFallback = "fallback"

	geminiModel = "gemini-2.5-flash-lite"

	// completionTimeout caps a single model call; past it the caller
	// degrades to the deterministic fallback
	completionTimeout = 15 * time.Second
)

// DefaultCategories is the classifier's vocabulary when the caller does not
// supply one
var DefaultCategories = []string{"Comida", "Transporte", "Vivienda", "Entretenimiento", "Otros"}

const tipsSystemPrompt = `Eres un asesor financiero práctico.
Responde SOLO en JSON válido (sin texto adicional).
Políticas:
- No prometas rendimientos.
- Respeta la moneda provista.
- Muestra "plan_semanal" o "plan_mensual" según timeframe.
- Incluye 2-4 consejos de recorte realistas (comida, transporte, entretenimiento).
Devuelve JSON estricto con la forma:
{
  "resumen": string,
  "meta": { "descripcion": string, "monto_objetivo": number, "plazo": { "unidad": "weeks"|"months", "valor": number } },
  "plan": { "aporte_por_periodo": number, "periodos": number, "plan_semanal"?: { "aporte": number }, "plan_mensual"?: { "aporte": number } },
  "consejos": string[],
  "riesgos": string[]
}`

const categorizeSystemPrompt = `Eres un clasificador de gastos.
Responde SOLO en JSON válido (sin texto adicional).
Devuelve {"categoria": "...", "confianza": 0-1}.
Usa solo: Comida, Transporte, Vivienda, Entretenimiento, Otros.`

// Service produces savings tips and expense categorization, backed by the
// Gemini API with deterministic fallbacks. Without an API key, or when the
// model call fails, the fallback answers and the response is tagged with its
// source so clients can tell them apart.
type Service struct {
	APIKey string
	Model  string
}

// NewAIService reads GEMINI_API_KEY from the environment; an empty key is
// allowed and routes everything through the fallbacks
func NewAIService() *Service {
	return &Service{
		APIKey: os.Getenv("GEMINI_API_KEY"),
		Model:  geminiModel,
	}
}

// TipsResult pairs the advisor output with where it came from
type TipsResult struct {
	Data   *aiTypes.TipsResponse `json:"data"`
	Source string                `json:"source"`
}

// CategorizeResult pairs the classifier output with where it came from
type CategorizeResult struct {
	Data   *aiTypes.CategorizeResponse `json:"data"`
	Source string                      `json:"source"`
}

// normalizedTips is a TipsRequest with the free-form variant resolved into
// the structured one
type normalizedTips struct {
	Goal         string
	TargetAmount float64
	Timeframe    aiTypes.Timeframe
	Context      aiTypes.TipsContext
}

var firstNumberRe = regexp.MustCompile(`\d+(\.\d+)?`)

// normalizeTips resolves a request into its structured form. Free-form
// prompts take the first number found as the target amount, defaulting to 50
// over 4 weeks in USD.
func normalizeTips(req *aiTypes.TipsRequest) *normalizedTips {
	if req.IsStructured() {
		n := &normalizedTips{
			Goal:         req.Goal,
			TargetAmount: req.TargetAmount,
			Timeframe:    *req.Timeframe,
		}
		if req.Context != nil {
			n.Context = *req.Context
		}
		if n.Context.Currency == "" {
			n.Context.Currency = "USD"
		}
		return n
	}

	targetAmount := 50.0
	if m := firstNumberRe.FindString(req.Prompt); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			targetAmount = v
		}
	}
	return &normalizedTips{
		Goal:         req.Prompt,
		TargetAmount: targetAmount,
		Timeframe:    aiTypes.Timeframe{Unit: "weeks", Value: 4},
		Context:      aiTypes.TipsContext{Currency: "USD"},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// fallbackTips computes a flat per-period savings plan without the model
func fallbackTips(input *normalizedTips) *aiTypes.TipsResponse {
	periods := input.Timeframe.Value
	aporte := round2(input.TargetAmount / float64(periods))

	periodName := "mes"
	if input.Timeframe.Unit == "weeks" {
		periodName = "semana"
	}

	plan := aiTypes.TipsPlan{
		AportePorPeriodo: aporte,
		Periodos:         periods,
	}
	installment := map[string]float64{"aporte": aporte}
	if input.Timeframe.Unit == "weeks" {
		plan.PlanSemanal = &installment
	} else {
		plan.PlanMensual = &installment
	}

	resp := &aiTypes.TipsResponse{
		Resumen: fmt.Sprintf("Ahorra %.2f %s por %s para lograr %q.",
			aporte, input.Context.Currency, periodName, input.Goal),
		Plan: plan,
		Consejos: []string{
			"Registra todo gasto en la app inmediatamente",
			"Reduce comidas fuera a la mitad esta semana",
			"Usa transporte público o comparte viajes 2 días",
			"Evita compras por impulso: espera 48h",
		},
		Riesgos: []string{
			"Ingresos variables pueden retrasar la meta",
			"Gastos imprevistos (salud, estudios) afectan el plan",
		},
	}
	resp.Meta.Descripcion = input.Goal
	resp.Meta.MontoObjetivo = input.TargetAmount
	resp.Meta.Plazo.Unidad = input.Timeframe.Unit
	resp.Meta.Plazo.Valor = periods
	return resp
}

var categoryPatterns = []struct {
	re       *regexp.Regexp
	category string
}{
	{regexp.MustCompile(`pupusa|pizza|almuerzo|cena|comida|restaurante|soda|snack`), "Comida"},
	{regexp.MustCompile(`bus|uber|taxi|gasolina|pasaje|transporte|combustible`), "Transporte"},
	{regexp.MustCompile(`renta|alquiler|agua|luz|electricidad|internet|servicio|cable`), "Vivienda"},
	{regexp.MustCompile(`cine|netflix|spotify|juego|concierto|entretenimiento`), "Entretenimiento"},
}

// fallbackCategorize classifies an expense by keyword matching
func fallbackCategorize(text string) *aiTypes.CategorizeResponse {
	t := strings.ToLower(text)
	for _, p := range categoryPatterns {
		if p.re.MatchString(t) {
			return &aiTypes.CategorizeResponse{Categoria: p.category, Confianza: 0.7}
		}
	}
	return &aiTypes.CategorizeResponse{Categoria: "Otros", Confianza: 0.5}
}

// GetTips produces a savings plan for the request. Model errors never fail
// the operation, they only downgrade it to the fallback.
func (s *Service) GetTips(ctx context.Context, req *aiTypes.TipsRequest) (*TipsResult, error) {
	input := normalizeTips(req)

	if s.APIKey == "" {
		logger.Warning("No GEMINI_API_KEY configured, using fallback tips")
		return &TipsResult{Data: fallbackTips(input), Source: SourceFallback}, nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"goal":         input.Goal,
		"targetAmount": input.TargetAmount,
		"timeframe":    input.Timeframe,
		"context":      input.Context,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode tips input: %w", err)
	}

	raw, err := s.generateJSON(ctx, tipsSystemPrompt, string(payload), 0.3)
	if err != nil {
		logger.Error("Gemini tips request failed, using fallback", err)
		return &TipsResult{Data: fallbackTips(input), Source: SourceFallback}, nil
	}

	var tips aiTypes.TipsResponse
	if err := json.Unmarshal([]byte(raw), &tips); err != nil {
		logger.Error("Failed to parse Gemini tips response, using fallback", err)
		return &TipsResult{Data: fallbackTips(input), Source: SourceFallback}, nil
	}

	logger.Success("Gemini tips generated")
	return &TipsResult{Data: &tips, Source: SourceGemini}, nil
}

// Categorize classifies an expense description into one of the allowed
// categories. An answer outside the vocabulary is coerced to "Otros".
func (s *Service) Categorize(ctx context.Context, req *aiTypes.CategorizeRequest) (*CategorizeResult, error) {
	categories := req.Categories
	if len(categories) == 0 {
		categories = DefaultCategories
	}

	if s.APIKey == "" {
		logger.Warning("No GEMINI_API_KEY configured, using fallback categorizer")
		return &CategorizeResult{Data: fallbackCategorize(req.Text), Source: SourceFallback}, nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"text":       req.Text,
		"amount":     req.Amount,
		"categories": categories,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode categorize input: %w", err)
	}

	raw, err := s.generateJSON(ctx, categorizeSystemPrompt, string(payload), 0)
	if err != nil {
		logger.Error("Gemini categorize request failed, using fallback", err)
		return &CategorizeResult{Data: fallbackCategorize(req.Text), Source: SourceFallback}, nil
	}

	var result aiTypes.CategorizeResponse
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		logger.Error("Failed to parse Gemini categorize response, using fallback", err)
		return &CategorizeResult{Data: fallbackCategorize(req.Text), Source: SourceFallback}, nil
	}

	allowed := false
	for _, c := range categories {
		if result.Categoria == c {
			allowed = true
			break
		}
	}
	if !allowed {
		result.Categoria = "Otros"
	}

	logger.Success("Gemini categorization generated")
	return &CategorizeResult{Data: &result, Source: SourceGemini}, nil
}

// generateJSON runs one Gemini completion and returns the raw JSON text
func (s *Service) generateJSON(ctx context.Context, system, user string, temperature float32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	content := &genai.Content{
		Parts: []*genai.Part{
			{Text: system},
			{Text: fmt.Sprintf("Responde en JSON. Entrada:\n%s", user)},
		},
	}

	result, err := client.Models.GenerateContent(
		ctx,
		s.Model,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(temperature),
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}
	responseText := result.Candidates[0].Content.Parts[0].Text
	if responseText == "" {
		return "", fmt.Errorf("empty response")
	}

	return extractJSONFromMarkdown(responseText), nil
}

// extractJSONFromMarkdown strips markdown code fences the model sometimes
// wraps its JSON in
func extractJSONFromMarkdown(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") && strings.HasSuffix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 1 {
			return strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	return text
}
