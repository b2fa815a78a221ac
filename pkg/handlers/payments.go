package handlers

import (
	"context"
	"net/http"
	"time"

	"forumhub/pkg/payments"
	"forumhub/pkg/session"
	"forumhub/pkg/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentsHandler charges the flat membership fee. The amount and
// currency come from configuration, never from the client.
type PaymentsHandler struct {
	Provider PaymentProvider
	Users    UsersRepo
	Amount   int64
	Currency string
	Logger   *zap.SugaredLogger
}

type PaymentProvider interface {
	CreateIntent(ctx context.Context, amount int64, currency, idempotencyKey string) (*payments.Intent, error)
}

type IntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

func (h *PaymentsHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	_, err := session.SessionFromContext(r.Context())
	if err != nil {
		WriteResponse(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	intent, err := h.Provider.CreateIntent(ctx, h.Amount, h.Currency, uuid.New().String())
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	WriteJSON(w, &IntentResponse{ClientSecret: intent.ClientSecret}, http.StatusOK)
}

// ConfirmPayment marks the caller as paid once the client has completed
// the provider checkout flow.
func (h *PaymentsHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	sess, err := session.SessionFromContext(r.Context())
	if err != nil {
		WriteResponse(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	matched, err := h.Users.UpdatePaymentStatus(sess.Identity.Email, user.Paid)
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !matched {
		WriteResponse(w, "user not found", http.StatusNotFound)
		return
	}

	WriteSuccess(w, "payment recorded", http.StatusOK)
}
