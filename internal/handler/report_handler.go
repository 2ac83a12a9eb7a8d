package handler

import (
	"strconv"

	"cashierhub-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GET /api/products/stats
func (h *ReportHandler) GetProductStats(c *fiber.Ctx) error {
	stats, err := h.service.ProductStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// GET /api/users/stats
func (h *ReportHandler) GetEmployeeStats(c *fiber.Ctx) error {
	stats, err := h.service.EmployeeStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// GetDashboardStats returns overview totals
func (h *ReportHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.DashboardStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// GetDailySales returns units and revenue per day.
// Query params: days (default 7)
func (h *ReportHandler) GetDailySales(c *fiber.Ctx) error {
	days := service.DefaultSalesDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return badRequest(c, "days must be a positive integer")
		}
		days = n
	}

	sales, err := h.service.DailySales(c.UserContext(), days)
	if err != nil {
		return err
	}
	return c.JSON(sales)
}
