package finance

import (
	"errors"
	"fmt"

	financeModel "finance-tracker/models/finance"
	financeTypes "finance-tracker/types/finance"

	"gorm.io/gorm"
)

func (s *Service) ensureCategoryOwned(userID, categoryID uint) (*financeModel.Category, error) {
	var category financeModel.Category
	err := s.DB.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, requestError(404, "Categoría no encontrada o no pertenece al usuario")
		}
		return nil, fmt.Errorf("failed to look up category: %w", err)
	}
	return &category, nil
}

// ListCategories returns the user's categories ordered by name
func (s *Service) ListCategories(userID uint) ([]financeModel.Category, error) {
	var categories []financeModel.Category
	err := s.DB.Where("user_id = ?", userID).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory creates a category for the user
func (s *Service) CreateCategory(userID uint, req *financeTypes.CreateCategoryRequest) (*financeModel.Category, error) {
	category := &financeModel.Category{
		UserID: userID,
		Name:   req.Name,
		Icon:   req.Icon,
		Color:  req.Color,
	}
	if err := s.DB.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// UpdateCategory applies a partial update to an owned category
func (s *Service) UpdateCategory(userID, categoryID uint, req *financeTypes.UpdateCategoryRequest) (*financeModel.Category, error) {
	category, err := s.ensureCategoryOwned(userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if len(updates) > 0 {
		if err := s.DB.Model(category).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update category: %w", err)
		}
	}
	return category, nil
}

// DeleteCategory removes an owned category. Transactions that referenced it
// are kept and detached, not deleted.
func (s *Service) DeleteCategory(userID, categoryID uint) error {
	category, err := s.ensureCategoryOwned(userID, categoryID)
	if err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&financeModel.Transaction{}).
			Where("user_id = ? AND category_id = ?", userID, categoryID).
			Update("category_id", nil).Error
		if err != nil {
			return fmt.Errorf("failed to detach transactions: %w", err)
		}
		if err := tx.Delete(category).Error; err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
}
