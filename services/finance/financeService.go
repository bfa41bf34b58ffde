package finance

import (
	"gorm.io/gorm"
)

// Service implements account, category, transaction and summary operations.
// Every query is scoped by the owning user's id; a resource belonging to a
// different user behaves exactly like a missing one.
type Service struct {
	DB *gorm.DB
}

// NewFinanceService creates a new finance service
func NewFinanceService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// RequestError carries the HTTP status a failed operation maps to
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func requestError(status int, message string) *RequestError {
	return &RequestError{Status: status, Message: message}
}
