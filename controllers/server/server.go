package server

import (
	"finance-tracker/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthController exposes the liveness endpoint
type HealthController struct {
	DB *gorm.DB
}

// NewHealthController creates a new health controller
func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

// Health reports whether the service and its database are reachable
func (hc *HealthController) Health(c *fiber.Ctx) error {
	sqlDB, err := hc.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(types.ApiResponse{
			Message: "degraded",
			Status:  fiber.StatusServiceUnavailable,
			Data:    map[string]string{"database": "down"},
		})
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "ok",
		Status:  fiber.StatusOK,
		Data:    map[string]string{"database": "up"},
	})
}
