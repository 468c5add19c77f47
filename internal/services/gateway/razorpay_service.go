package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "https://api.razorpay.com/v1"
	// Razorpay отклоняет receipt длиннее 40 символов
	MaxReceiptLength = 40
)

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
}

type RazorpayService struct {
	keyID     string
	keySecret string
	client    *resty.Client
}

func NewRazorpayService(cfg RazorpayConfig) *RazorpayService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(cfg.KeyID, cfg.KeySecret).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &RazorpayService{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		client:    client,
	}
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder создает заказ. Повторов нет: сбой возвращается вызывающему как есть.
func (s *RazorpayService) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if len(req.Receipt) > MaxReceiptLength {
		req.Receipt = req.Receipt[:MaxReceiptLength]
	}

	var order Order
	var apiErr razorpayError
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&order).
		SetError(&apiErr).
		Post("/orders")
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d: %s %s", ErrGatewayRejected,
			resp.StatusCode(), apiErr.Error.Code, apiErr.Error.Description)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("%w: empty order id", ErrGatewayRejected)
	}
	return &order, nil
}

func (s *RazorpayService) Signature(orderID, paymentID string) string {
	return ComputeSignature(s.keySecret, orderID, paymentID)
}

// VerifySignature сравнивает подпись колбэка за постоянное время
func (s *RazorpayService) VerifySignature(orderID, paymentID, signature string) bool {
	expected := s.Signature(orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (s *RazorpayService) KeyID() string {
	return s.keyID
}

// ComputeSignature - hex(HMAC_SHA256(secret, orderId + "|" + paymentId))
func ComputeSignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
