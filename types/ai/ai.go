package ai

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Timeframe expresses a savings horizon in weeks or months
type Timeframe struct {
	Unit  string `json:"unit" validate:"required,oneof=weeks months"`
	Value int    `json:"value" validate:"required,gt=0"`
}

// TipsContext carries the user's financial situation for the advisor
type TipsContext struct {
	Currency       string  `json:"currency"`
	MonthlyIncome  float64 `json:"monthlyIncome" validate:"gte=0"`
	FixedCosts     float64 `json:"fixedCosts" validate:"gte=0"`
	CurrentBalance float64 `json:"currentBalance" validate:"gte=0"`
}

// TipsRequest accepts either the structured form (goal/targetAmount/timeframe)
// or a single free-form prompt.
type TipsRequest struct {
	Goal         string       `json:"goal"`
	TargetAmount float64      `json:"targetAmount" validate:"gte=0"`
	Timeframe    *Timeframe   `json:"timeframe"`
	Context      *TipsContext `json:"context"`
	Prompt       string       `json:"prompt"`
}

func (req *TipsRequest) Validate() error {
	if req.Prompt == "" && req.Goal == "" {
		return errors.New("se requiere goal o prompt")
	}
	if req.Goal != "" && req.Timeframe == nil {
		return errors.New("timeframe es requerido cuando se envía goal")
	}
	return validate.Struct(req)
}

// IsStructured reports whether the request uses the structured form
func (req *TipsRequest) IsStructured() bool {
	return req.Goal != ""
}

// CategorizeRequest is the payload for POST /ai/categorize
type CategorizeRequest struct {
	Text       string   `json:"text" validate:"required"`
	Amount     float64  `json:"amount" validate:"required,gt=0"`
	Categories []string `json:"categories"`
}

func (req *CategorizeRequest) Validate() error {
	return validate.Struct(req)
}

// TipsPlan describes the per-period savings plan
type TipsPlan struct {
	AportePorPeriodo float64             `json:"aporte_por_periodo"`
	Periodos         int                 `json:"periodos"`
	PlanSemanal      *map[string]float64 `json:"plan_semanal,omitempty"`
	PlanMensual      *map[string]float64 `json:"plan_mensual,omitempty"`
}

// TipsMeta describes the savings goal
type TipsMeta struct {
	Descripcion   string  `json:"descripcion"`
	MontoObjetivo float64 `json:"monto_objetivo"`
	Plazo         struct {
		Unidad string `json:"unidad"`
		Valor  int    `json:"valor"`
	} `json:"plazo"`
}

// TipsResponse is the advisor output, both from the model and the fallback
type TipsResponse struct {
	Resumen  string   `json:"resumen"`
	Meta     TipsMeta `json:"meta"`
	Plan     TipsPlan `json:"plan"`
	Consejos []string `json:"consejos"`
	Riesgos  []string `json:"riesgos"`
}

// CategorizeResponse is the classifier output
type CategorizeResponse struct {
	Categoria string  `json:"categoria"`
	Confianza float64 `json:"confianza"`
}
