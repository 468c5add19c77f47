package helpers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"skillup_backend/internal/email"
	"skillup_backend/internal/events"
	"skillup_backend/internal/services/gateway"
)

const (
	FakeKeyID     = "rzp_test_key"
	FakeKeySecret = "rzp_test_secret"
)

// FakeGateway - шлюз в памяти. Подпись считается тем же HMAC, что и у Razorpay.
type FakeGateway struct {
	mu     sync.Mutex
	seq    int
	Orders []gateway.OrderRequest
	Fail   error
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{}
}

func (g *FakeGateway) CreateOrder(ctx context.Context, req gateway.OrderRequest) (*gateway.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Fail != nil {
		return nil, g.Fail
	}
	g.seq++
	g.Orders = append(g.Orders, req)
	return &gateway.Order{
		ID:       fmt.Sprintf("order_test_%d", g.seq),
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}, nil
}

func (g *FakeGateway) Signature(orderID, paymentID string) string {
	return gateway.ComputeSignature(FakeKeySecret, orderID, paymentID)
}

func (g *FakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return g.Signature(orderID, paymentID) == signature
}

func (g *FakeGateway) KeyID() string {
	return FakeKeyID
}

func (g *FakeGateway) OrderCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Orders)
}

// SentEmail - письмо, записанное RecordingEmailProvider
type SentEmail struct {
	To       []string
	Subject  string
	Template string
	Data     email.TemplateData
}

// RecordingEmailProvider запоминает письма вместо отправки
type RecordingEmailProvider struct {
	mu   sync.Mutex
	sent []SentEmail
	Fail error
}

func NewRecordingEmailProvider() *RecordingEmailProvider {
	return &RecordingEmailProvider{}
}

func (p *RecordingEmailProvider) Send(ctx context.Context, msg *email.Email) error {
	return p.record(SentEmail{To: msg.To, Subject: msg.Subject})
}

func (p *RecordingEmailProvider) SendTemplate(ctx context.Context, to []string, subject string, templateName string, data email.TemplateData) error {
	return p.record(SentEmail{To: to, Subject: subject, Template: templateName, Data: data})
}

func (p *RecordingEmailProvider) record(msg SentEmail) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Fail != nil {
		return p.Fail
	}
	p.sent = append(p.sent, msg)
	return nil
}

func (p *RecordingEmailProvider) Close() error { return nil }

// Sent возвращает письма указанного шаблона (все, если шаблон пустой)
func (p *RecordingEmailProvider) Sent(templateName string) []SentEmail {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []SentEmail
	for _, m := range p.sent {
		if templateName == "" || m.Template == templateName {
			out = append(out, m)
		}
	}
	return out
}

// RecordingPublisher запоминает опубликованные события
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

func (p *RecordingPublisher) Publish(ctx context.Context, evs ...events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evs...)
	return nil
}

func (p *RecordingPublisher) Close() error { return nil }

func (p *RecordingPublisher) Events(eventType string) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []events.Event
	for _, e := range p.events {
		if eventType == "" || e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// ManualScheduler хранит отложенные задачи до явного Fire
type ManualScheduler struct {
	mu     sync.Mutex
	tasks  map[string]func()
	delays map[string]time.Duration
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{
		tasks:  make(map[string]func()),
		delays: make(map[string]time.Duration),
	}
}

func (s *ManualScheduler) Schedule(key string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[key] = fn
	s.delays[key] = delay
}

func (s *ManualScheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[key]
	delete(s.tasks, key)
	delete(s.delays, key)
	return ok
}

func (s *ManualScheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[key]
	return ok
}

func (s *ManualScheduler) Delay(key string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delays[key]
}

var ErrNoTask = errors.New("no scheduled task")

// Fire выполняет задачу по ключу синхронно и снимает ее
func (s *ManualScheduler) Fire(key string) error {
	s.mu.Lock()
	fn, ok := s.tasks[key]
	delete(s.tasks, key)
	delete(s.delays, key)
	s.mu.Unlock()

	if !ok {
		return ErrNoTask
	}
	fn()
	return nil
}
