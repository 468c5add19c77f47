package gateway

import (
	"context"
	"errors"
)

var (
	ErrGatewayRejected = errors.New("payment gateway rejected the request")
)

// Order - заказ, созданный на стороне платежного шлюза
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // в пайсах
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// OrderRequest - параметры создания заказа
type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Gateway - контракт платежного шлюза: создание заказа и проверка подписи колбэка
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	// Signature - ожидаемая подпись колбэка (для логов при несовпадении)
	Signature(orderID, paymentID string) string
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}
