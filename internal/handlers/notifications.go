package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/pocket-ledger/backend/internal/analytics"
	"example.com/pocket-ledger/backend/internal/auth"
	"example.com/pocket-ledger/backend/internal/models"
	"example.com/pocket-ledger/backend/internal/notifications"
)

type NotificationHandler struct {
	Hub *notifications.Hub
}

// NewNotificationHandler создает SSE-обработчик уведомлений.
func NewNotificationHandler(hub *notifications.Hub) *NotificationHandler {
	return &NotificationHandler{Hub: hub}
}

// Stream открывает SSE-поток событий для пользователя.
func (h *NotificationHandler) Stream(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return serverError(c)
	}

	ch, unsubscribe := h.Hub.Subscribe(userID)
	defer unsubscribe()

	_ = writeSSE(c, notifications.Event{Type: "connected", Data: map[string]string{"user_id": userID.String()}})
	flusher.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			if err := writeSSE(c, event); err != nil {
				return nil
			}
			flusher.Flush()
		}
	}
}

func writeSSE(c echo.Context, event notifications.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if _, err := c.Response().Write([]byte("event: " + event.Type + "\n")); err != nil {
		return err
	}
	if _, err := c.Response().Write([]byte("data: " + string(payload) + "\n\n")); err != nil {
		return err
	}

	return nil
}

func publishTransactionCreated(hub *notifications.Hub, userID uuid.UUID, tx models.Transaction) {
	if hub == nil {
		return
	}

	hub.Publish(userID, notifications.Event{
		Type: "transaction_created",
		Data: map[string]interface{}{
			"transaction_id": tx.ID.String(),
			"type":           string(tx.Type),
			"amount":         tx.Amount.String(),
			"currency":       tx.Currency,
		},
	})
}

func publishBudgetOffTrack(hub *notifications.Hub, userID uuid.UUID, prediction analytics.BudgetPrediction) {
	if hub == nil {
		return
	}

	hub.Publish(userID, notifications.Event{
		Type: "budget_offtrack",
		Data: map[string]interface{}{
			"budget_id":       prediction.BudgetID.String(),
			"predicted_total": prediction.PredictedTotal.String(),
			"predicted_over":  prediction.PredictedOver.String(),
		},
	})
}
