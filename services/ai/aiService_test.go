package ai

import (
	"context"
	"testing"

	aiTypes "finance-tracker/types/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOfflineService() *Service {
	// No API key: everything routes through the fallbacks
	return &Service{Model: geminiModel}
}

func TestGetTipsFallbackStructured(t *testing.T) {
	svc := newOfflineService()

	req := &aiTypes.TipsRequest{
		Goal:         "Fondo de emergencia",
		TargetAmount: 200,
		Timeframe:    &aiTypes.Timeframe{Unit: "weeks", Value: 8},
		Context:      &aiTypes.TipsContext{Currency: "GTQ", MonthlyIncome: 900},
	}
	require.NoError(t, req.Validate())

	result, err := svc.GetTips(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, result.Source)

	tips := result.Data
	assert.Equal(t, 25.0, tips.Plan.AportePorPeriodo)
	assert.Equal(t, 8, tips.Plan.Periodos)
	require.NotNil(t, tips.Plan.PlanSemanal)
	assert.Equal(t, 25.0, (*tips.Plan.PlanSemanal)["aporte"])
	assert.Nil(t, tips.Plan.PlanMensual)
	assert.Equal(t, "Fondo de emergencia", tips.Meta.Descripcion)
	assert.Equal(t, 200.0, tips.Meta.MontoObjetivo)
	assert.Equal(t, "weeks", tips.Meta.Plazo.Unidad)
	assert.Contains(t, tips.Resumen, "GTQ")
	assert.NotEmpty(t, tips.Consejos)
	assert.NotEmpty(t, tips.Riesgos)
}

func TestGetTipsFallbackMonthlyPlan(t *testing.T) {
	svc := newOfflineService()

	result, err := svc.GetTips(context.Background(), &aiTypes.TipsRequest{
		Goal:         "Laptop nueva",
		TargetAmount: 600,
		Timeframe:    &aiTypes.Timeframe{Unit: "months", Value: 6},
	})
	require.NoError(t, err)

	tips := result.Data
	assert.Equal(t, 100.0, tips.Plan.AportePorPeriodo)
	require.NotNil(t, tips.Plan.PlanMensual)
	assert.Nil(t, tips.Plan.PlanSemanal)
	assert.Contains(t, tips.Resumen, "por mes")
}

func TestGetTipsFallbackFromPrompt(t *testing.T) {
	svc := newOfflineService()

	result, err := svc.GetTips(context.Background(), &aiTypes.TipsRequest{
		Prompt: "quiero ahorrar 120 para un regalo",
	})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, result.Source)

	// First number in the prompt becomes the target, over 4 weeks
	tips := result.Data
	assert.Equal(t, 120.0, tips.Meta.MontoObjetivo)
	assert.Equal(t, 4, tips.Plan.Periodos)
	assert.Equal(t, 30.0, tips.Plan.AportePorPeriodo)
}

func TestGetTipsFallbackPromptWithoutNumber(t *testing.T) {
	svc := newOfflineService()

	result, err := svc.GetTips(context.Background(), &aiTypes.TipsRequest{
		Prompt: "quiero ahorrar algo cada semana",
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.Data.Meta.MontoObjetivo)
	assert.Equal(t, 12.5, result.Data.Plan.AportePorPeriodo)
}

func TestTipsRequestValidation(t *testing.T) {
	empty := &aiTypes.TipsRequest{}
	require.Error(t, empty.Validate())

	noTimeframe := &aiTypes.TipsRequest{Goal: "Meta", TargetAmount: 10}
	require.Error(t, noTimeframe.Validate())

	promptOnly := &aiTypes.TipsRequest{Prompt: "ahorrar 30"}
	require.NoError(t, promptOnly.Validate())
}

func TestCategorizeFallbackKeywords(t *testing.T) {
	svc := newOfflineService()

	cases := map[string]string{
		"pizza con los amigos":  "Comida",
		"uber al trabajo":       "Transporte",
		"pago de internet":      "Vivienda",
		"entrada al cine":       "Entretenimiento",
		"compra sin clasificar": "Otros",
	}
	for text, expected := range cases {
		result, err := svc.Categorize(context.Background(), &aiTypes.CategorizeRequest{
			Text:   text,
			Amount: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, SourceFallback, result.Source)
		assert.Equal(t, expected, result.Data.Categoria, "text: %s", text)
	}
}

func TestCategorizeFallbackConfidence(t *testing.T) {
	svc := newOfflineService()

	matched, err := svc.Categorize(context.Background(), &aiTypes.CategorizeRequest{
		Text: "almuerzo", Amount: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.7, matched.Data.Confianza)

	unmatched, err := svc.Categorize(context.Background(), &aiTypes.CategorizeRequest{
		Text: "misc", Amount: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.5, unmatched.Data.Confianza)
	assert.Equal(t, "Otros", unmatched.Data.Categoria)
}

func TestNormalizeTipsDefaults(t *testing.T) {
	structured := normalizeTips(&aiTypes.TipsRequest{
		Goal:         "Meta",
		TargetAmount: 80,
		Timeframe:    &aiTypes.Timeframe{Unit: "months", Value: 2},
	})
	assert.Equal(t, "USD", structured.Context.Currency)

	prompt := normalizeTips(&aiTypes.TipsRequest{Prompt: "ahorrar 75.50 este mes"})
	assert.Equal(t, 75.50, prompt.TargetAmount)
	assert.Equal(t, "weeks", prompt.Timeframe.Unit)
	assert.Equal(t, 4, prompt.Timeframe.Value)
}

func TestExtractJSONFromMarkdown(t *testing.T) {
	plain := `{"ok": true}`
	assert.Equal(t, plain, extractJSONFromMarkdown(plain))

	fenced := "```json\n{\"ok\": true}\n```"
	assert.Equal(t, plain, extractJSONFromMarkdown(fenced))

	generic := "```\n{\"ok\": true}\n```"
	assert.Equal(t, plain, extractJSONFromMarkdown(generic))
}

func TestGetTipsFallsBackWhenContextIsDead(t *testing.T) {
	svc := &Service{APIKey: "test-key", Model: geminiModel}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := &aiTypes.TipsRequest{
		Goal:         "Viaje a la playa",
		TargetAmount: 300,
		Timeframe:    &aiTypes.Timeframe{Unit: "months", Value: 3},
	}
	result, err := svc.GetTips(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, result.Source)
	require.NotNil(t, result.Data)
	assert.NotEmpty(t, result.Data.Consejos)
}

func TestCategorizeFallsBackWhenContextIsDead(t *testing.T) {
	svc := &Service{APIKey: "test-key", Model: geminiModel}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.Categorize(ctx, &aiTypes.CategorizeRequest{Text: "uber al aeropuerto"})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, result.Source)
	assert.Equal(t, "Transporte", result.Data.Categoria)
}
