package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skillup_backend/internal/app"
	"skillup_backend/internal/auth"
	"skillup_backend/internal/config"
	"skillup_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "my_super_secret_key_for_tests_12345"

// TestServer - приложение целиком поверх sqlite и фейковых внешних сервисов
type TestServer struct {
	Server    *httptest.Server
	DB        *gorm.DB
	App       *app.Application
	Gateway   *FakeGateway
	Email     *RecordingEmailProvider
	Publisher *RecordingPublisher
	Tokens    *auth.TokenManager
}

// TestConfig - конфигурация без Redis, Kafka и SMTP; письма отправляются синхронно
func TestConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.Env = "test"
	cfg.Database.Driver = "sqlite"
	cfg.JWT.Secret = testJWTSecret
	cfg.Razorpay.KeyID = FakeKeyID
	cfg.Razorpay.KeySecret = FakeKeySecret
	cfg.Email.Async = false
	return cfg
}

// NewTestServer собирает приложение через app.New с подмененными зависимостями
func NewTestServer(t *testing.T, opts ...app.Option) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := TestConfig()
	db := NewTestDB(t)

	ts := &TestServer{
		DB:        db,
		Gateway:   NewFakeGateway(),
		Email:     NewRecordingEmailProvider(),
		Publisher: NewRecordingPublisher(),
		Tokens:    auth.NewTokenManager(cfg.JWT.Secret, time.Hour),
	}

	all := append([]app.Option{
		app.WithGateway(ts.Gateway),
		app.WithEmailProvider(ts.Email),
		app.WithPublisher(ts.Publisher),
	}, opts...)

	application, err := app.New(cfg, db, all...)
	require.NoError(t, err, "Не удалось собрать приложение")
	ts.App = application
	ts.Server = httptest.NewServer(application.Router)

	t.Cleanup(ts.Close)
	return ts
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	ts.App.Close()
}

// Token выдает access-токен для пользователя
func (ts *TestServer) Token(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := ts.Tokens.Generate(user.ID, user.Email, string(user.AccountType))
	require.NoError(t, err)
	return token
}

// SendRequest отправляет JSON-запрос и возвращает ответ и тело строкой
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "Ошибка кодирования JSON для запроса")
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err, "Ошибка создания HTTP-запроса")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err, "Ошибка отправки HTTP-запроса")
	defer res.Body.Close()

	resBodyBytes, err := io.ReadAll(res.Body)
	require.NoError(t, err, "Ошибка чтения тела ответа")

	return res, string(resBodyBytes)
}

// DecodeData разбирает поле data успешного ответа
func DecodeData(t *testing.T, body string, out interface{}) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &envelope), body)
	require.True(t, envelope.Success, body)
	require.NoError(t, json.Unmarshal(envelope.Data, out), body)
}
