package logger

import (
	"context"
	"log/slog"
)

type fieldsKey struct{}

// logFields - атрибуты запроса, которые попадают в каждую запись лога
type logFields struct {
	requestID string
	userID    string
	orderID   string
	paymentID string
}

func fieldsFrom(ctx context.Context) logFields {
	if ctx == nil {
		return logFields{}
	}
	f, _ := ctx.Value(fieldsKey{}).(logFields)
	return f
}

func withFields(ctx context.Context, update func(*logFields)) context.Context {
	f := fieldsFrom(ctx)
	update(&f)
	return context.WithValue(ctx, fieldsKey{}, f)
}

// WithRequestID добавляет request ID в context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withFields(ctx, func(f *logFields) { f.requestID = requestID })
}

// WithUserID добавляет user ID в context
func WithUserID(ctx context.Context, userID string) context.Context {
	return withFields(ctx, func(f *logFields) { f.userID = userID })
}

// WithPayment привязывает к логам заказ и платеж шлюза
func WithPayment(ctx context.Context, orderID, paymentID string) context.Context {
	return withFields(ctx, func(f *logFields) {
		f.orderID = orderID
		f.paymentID = paymentID
	})
}

func GetRequestID(ctx context.Context) string {
	return fieldsFrom(ctx).requestID
}

func GetUserID(ctx context.Context) string {
	return fieldsFrom(ctx).userID
}

// FromContext возвращает логгер с непустыми атрибутами из context
func FromContext(ctx context.Context) *slog.Logger {
	l := GetLogger()
	f := fieldsFrom(ctx)

	var attrs []any
	for _, kv := range [][2]string{
		{"request_id", f.requestID},
		{"user_id", f.userID},
		{"order_id", f.orderID},
		{"payment_id", f.paymentID},
	} {
		if kv[1] != "" {
			attrs = append(attrs, kv[0], kv[1])
		}
	}

	if len(attrs) > 0 {
		l = l.With(attrs...)
	}
	return l
}

func CtxInfo(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info(msg, args...)
}

func CtxWarn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn(msg, args...)
}

func CtxError(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Error(msg, args...)
}

// CtxWithError пишет error вместе с текстом ошибки; nil err допустим
func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append([]any{"error", err.Error()}, args...)
	}
	FromContext(ctx).Error(msg, args...)
}
