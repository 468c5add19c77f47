package email

import (
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"skillup_backend/internal/money"
)

var templateFuncs = template.FuncMap{
	"rupees": money.FormatMajor,
}

// TemplateManager реализует TemplateRenderer для управления шаблонами email
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер со встроенными шаблонами.
// Файлы из dirPath (если задан) перекрывают встроенные по имени.
func NewTemplateManager(dirPath string) (*TemplateManager, error) {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}

	for name, text := range builtinTemplates {
		if err := tm.AddTemplate(name, text); err != nil {
			return nil, fmt.Errorf("failed to load builtin template %s: %w", name, err)
		}
	}

	if dirPath != "" {
		if _, err := os.Stat(dirPath); err == nil {
			if err := tm.LoadTemplates(dirPath); err != nil {
				return nil, err
			}
		}
	}

	return tm, nil
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// AddTemplate добавляет шаблон в менеджер
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Funcs(templateFuncs).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}

// LoadTemplates загружает *.html из директории
func (tm *TemplateManager) LoadTemplates(dirPath string) error {
	return filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}

		templateName := strings.TrimSuffix(filepath.Base(path), ".html")
		if err := tm.AddTemplate(templateName, string(content)); err != nil {
			return fmt.Errorf("failed to add template %s: %w", templateName, err)
		}

		return nil
	})
}

var builtinTemplates = map[string]string{
	TemplatePaymentReceipt: paymentReceiptTemplate,
	TemplateCourseWelcome:  courseWelcomeTemplate,
	TemplateCartReminder:   cartReminderTemplate,
}

const paymentReceiptTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Payment received</h2>
  <p>Dear {{.Name}},</p>
  <p>We have received a payment of <strong>{{.Amount}}</strong>.</p>
  <p>Payment ID: <b>{{.PaymentID}}</b><br>Order ID: <b>{{.OrderID}}</b></p>
  <p>Thank you for learning with SkillUp.</p>
</body>
</html>`

const courseWelcomeTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Successfully enrolled into {{.CourseName}}</h2>
  <p>Hello {{.Name}},</p>
  <p>You are now enrolled in <strong>{{.CourseName}}</strong>. Open your dashboard to start learning.</p>
</body>
</html>`

const cartReminderTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Your courses are waiting</h2>
  <p>Hi {{.Name}}, you left these courses in your cart:</p>
  <ul>
  {{range .Courses}}<li>{{.Name}} ({{rupees .Price}} INR)</li>
  {{end}}</ul>
  <p>Complete your purchase whenever you are ready.</p>
</body>
</html>`
