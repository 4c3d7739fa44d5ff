package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

const readyPingTimeout = 2 * time.Second

type HealthHandler struct {
	db *pgxpool.Pool
}

// NewHealthHandler создает обработчик health/ready проб.
func NewHealthHandler(db *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{db: db}
}

type healthResponse struct {
	Status string `json:"status"`
}

// Live отвечает, что процесс жив.
func (h *HealthHandler) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}

// Ready проверяет доступность базы. Оркестратор снимает трафик,
// пока проба не вернет 200.
func (h *HealthHandler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readyPingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "database unavailable"})
	}

	return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}
