package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSignature_MatchesReferenceHMAC(t *testing.T) {
	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte("order_1|pay_1"))
	expected := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, expected, ComputeSignature("secret", "order_1", "pay_1"))
	assert.NotEqual(t, expected, ComputeSignature("secret", "order_1", "pay_2"))
	assert.NotEqual(t, expected, ComputeSignature("other", "order_1", "pay_1"))
}

func TestRazorpayService_VerifySignature(t *testing.T) {
	svc := NewRazorpayService(RazorpayConfig{KeyID: "key", KeySecret: "secret"})
	good := ComputeSignature("secret", "order_1", "pay_1")

	assert.True(t, svc.VerifySignature("order_1", "pay_1", good))
	assert.Equal(t, good, svc.Signature("order_1", "pay_1"))
	assert.False(t, svc.VerifySignature("order_1", "pay_1", strings.ToUpper(good)))
	assert.False(t, svc.VerifySignature("order_1", "pay_1", ""))
	assert.False(t, svc.VerifySignature("order_2", "pay_1", good))
	assert.Equal(t, "key", svc.KeyID())
}

func TestRazorpayService_CreateOrder(t *testing.T) {
	var got OrderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       "order_abc",
			"amount":   got.Amount,
			"currency": got.Currency,
			"receipt":  got.Receipt,
			"status":   "created",
		})
	}))
	defer server.Close()

	svc := NewRazorpayService(RazorpayConfig{KeyID: "key", KeySecret: "secret", BaseURL: server.URL})
	order, err := svc.CreateOrder(context.Background(), OrderRequest{
		Amount:   3000,
		Currency: "INR",
		Receipt:  strings.Repeat("r", 60),
		Notes:    map[string]string{"userId": "u1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, int64(3000), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Len(t, got.Receipt, MaxReceiptLength)
	assert.Equal(t, "u1", got.Notes["userId"])
}

func TestRazorpayService_CreateOrder_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too small"}}`))
	}))
	defer server.Close()

	svc := NewRazorpayService(RazorpayConfig{KeyID: "key", KeySecret: "secret", BaseURL: server.URL})
	order, err := svc.CreateOrder(context.Background(), OrderRequest{Amount: 1, Currency: "INR", Receipt: "r"})

	assert.Nil(t, order)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGatewayRejected))
	assert.Contains(t, err.Error(), "amount too small")
}

func TestRazorpayService_CreateOrder_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	svc := NewRazorpayService(RazorpayConfig{KeyID: "key", KeySecret: "secret", BaseURL: url})
	_, err := svc.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "INR", Receipt: "r"})

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrGatewayRejected))
}
