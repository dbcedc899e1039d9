package services

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "pennywise/internal/errors"
	"pennywise/internal/events"
	"pennywise/internal/models"
)

// categoryService maintains the category values stored on transactions.
type categoryService struct {
	db        *gorm.DB
	publisher events.Publisher
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB, publisher events.Publisher) CategoryServicer {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &categoryService{db: db, publisher: publisher}
}

// GetCategories returns the distinct categories in use, sorted.
func (s *categoryService) GetCategories() ([]string, error) {
	var categories []string
	if err := s.db.Model(&models.Transaction{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error; err != nil {
		return nil, storageError("list categories", err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// GetCategoryUsage counts and totals the transactions in a category.
func (s *categoryService) GetCategoryUsage(category string) (*CategoryUsage, error) {
	category = strings.TrimSpace(category)
	var transactions []models.Transaction
	if err := s.db.Where("category = ?", category).Find(&transactions).Error; err != nil {
		return nil, storageError("category usage", err)
	}
	if len(transactions) == 0 {
		return nil, apperrors.ErrCategoryNotFound
	}

	usage := &CategoryUsage{
		Category:         category,
		TransactionCount: int64(len(transactions)),
		TotalExpenses:    decimal.Zero,
		TotalIncome:      decimal.Zero,
	}
	for _, t := range transactions {
		switch t.Type {
		case models.TransactionTypeExpense:
			usage.TotalExpenses = usage.TotalExpenses.Add(t.Amount)
		case models.TransactionTypeIncome:
			usage.TotalIncome = usage.TotalIncome.Add(t.Amount)
		}
	}
	return usage, nil
}

// RenameCategory moves every transaction and budget from oldName to newName
// atomically and returns the number of transactions changed.
func (s *categoryService) RenameCategory(oldName, newName string) (int64, error) {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if oldName == "" || newName == "" {
		return 0, invalid("category name must not be empty")
	}
	if oldName == newName {
		return 0, invalid("new category name must differ from the old one")
	}

	var changed int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Transaction{}).Where("category = ?", oldName).Update("category", newName)
		if res.Error != nil {
			return storageError("rename category", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrCategoryNotFound
		}
		changed = res.RowsAffected

		if err := tx.Model(&models.Budget{}).Where("category = ?", oldName).Update("category", newName).Error; err != nil {
			return storageError("rename budget category", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	publishEvent(s.publisher, events.New(events.CategoryRenamed, newName, map[string]any{
		"old_name": oldName,
		"new_name": newName,
		"count":    changed,
	}))
	return changed, nil
}

// DeleteCategory soft-deletes every transaction in the category. Budgets
// for the category are kept.
func (s *categoryService) DeleteCategory(category string) (int64, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return 0, invalid("category name must not be empty")
	}

	res := s.db.Where("category = ?", category).Delete(&models.Transaction{})
	if res.Error != nil {
		return 0, storageError("delete category", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, apperrors.ErrCategoryNotFound
	}

	publishEvent(s.publisher, events.New(events.CategoryDeleted, category, map[string]any{
		"count": res.RowsAffected,
	}))
	return res.RowsAffected, nil
}
