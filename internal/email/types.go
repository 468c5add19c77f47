package email

// Email представляет структуру email сообщения
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData представляет данные для шаблонов писем
type TemplateData map[string]interface{}

// Имена встроенных шаблонов
const (
	TemplatePaymentReceipt = "payment_receipt"
	TemplateCourseWelcome  = "course_welcome"
	TemplateCartReminder   = "cart_reminder"
)
