package finance

import (
	"fmt"
	"time"

	financeModel "finance-tracker/models/finance"
	financeTypes "finance-tracker/types/finance"

	"github.com/jinzhu/now"
)

// GetSummary aggregates the user's movements over [from, to]: inflow and
// outflow totals plus the outflow breakdown per category, largest first.
// When no range is given it defaults to the current calendar month.
func (s *Service) GetSummary(userID uint, from, to *time.Time) (*financeTypes.SummaryResponse, error) {
	start := now.BeginningOfMonth()
	end := now.EndOfMonth()
	if from != nil {
		start = *from
	}
	if to != nil {
		end = *to
	}

	sumDirection := func(direction financeModel.TxnDirection) (float64, error) {
		var total float64
		err := s.DB.Model(&financeModel.Transaction{}).
			Where("user_id = ? AND direction = ? AND occurred_at >= ? AND occurred_at <= ?",
				userID, direction, start, end).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&total).Error
		return total, err
	}

	inflow, err := sumDirection(financeModel.DirectionInflow)
	if err != nil {
		return nil, fmt.Errorf("failed to sum inflows: %w", err)
	}
	outflow, err := sumDirection(financeModel.DirectionOutflow)
	if err != nil {
		return nil, fmt.Errorf("failed to sum outflows: %w", err)
	}

	type categoryRow struct {
		CategoryID *uint
		Total      float64
	}
	var rows []categoryRow
	err = s.DB.Model(&financeModel.Transaction{}).
		Where("user_id = ? AND direction = ? AND occurred_at >= ? AND occurred_at <= ?",
			userID, financeModel.DirectionOutflow, start, end).
		Select("category_id, COALESCE(SUM(amount), 0) AS total").
		Group("category_id").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group expenses: %w", err)
	}

	names := map[uint]string{}
	var categories []financeModel.Category
	if err := s.DB.Where("user_id = ?", userID).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	expenses := make([]financeTypes.ExpenseByCategory, 0, len(rows))
	for _, row := range rows {
		name := "(sin categoría)"
		if row.CategoryID != nil {
			if n, ok := names[*row.CategoryID]; ok {
				name = n
			}
		}
		expenses = append(expenses, financeTypes.ExpenseByCategory{
			CategoryID:   row.CategoryID,
			CategoryName: name,
			Total:        row.Total,
		})
	}

	return &financeTypes.SummaryResponse{
		From: start,
		To:   end,
		Totals: financeTypes.SummaryTotals{
			Inflow:  inflow,
			Outflow: outflow,
			Net:     inflow - outflow,
		},
		ExpensesByCategory: expenses,
	}, nil
}
