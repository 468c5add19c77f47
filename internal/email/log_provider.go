package email

import (
	"context"
	"strings"

	"skillup_backend/internal/logger"
)

// LogProvider пишет письма в лог вместо отправки. Используется, когда SMTP не настроен.
type LogProvider struct {
	renderer TemplateRenderer
}

func NewLogProvider(renderer TemplateRenderer) *LogProvider {
	return &LogProvider{renderer: renderer}
}

func (p *LogProvider) Send(ctx context.Context, email *Email) error {
	logger.CtxInfo(ctx, "Email (not sent, SMTP disabled)",
		"to", strings.Join(email.To, ","),
		"subject", email.Subject,
		"html_bytes", len(email.HTMLBody),
	)
	return nil
}

func (p *LogProvider) SendTemplate(ctx context.Context, to []string, subject string, templateName string, data TemplateData) error {
	html := ""
	if p.renderer != nil {
		rendered, err := p.renderer.Render(templateName, data)
		if err != nil {
			return err
		}
		html = rendered
	}
	return p.Send(ctx, &Email{To: to, Subject: subject, HTMLBody: html})
}

func (p *LogProvider) Close() error { return nil }
