package handlers

import (
	"net/http"
	"time"

	"skillup_backend/internal/auth"
	"skillup_backend/internal/middleware"
	"skillup_backend/internal/services"
	"skillup_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	*BaseHandler
	paymentService     services.PaymentService
	abandonmentService services.AbandonmentService
}

func NewPaymentHandler(base *BaseHandler, paymentService services.PaymentService, abandonmentService services.AbandonmentService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:        base,
		paymentService:     paymentService,
		abandonmentService: abandonmentService,
	}
}

// RouteGuards - middleware, которыми защищаются маршруты оплаты
type RouteGuards struct {
	Auth      gin.HandlerFunc
	Limiter   *middleware.RateLimiter
	RateLimit int
	Window    time.Duration
}

func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup, guards RouteGuards) {
	payment := r.Group("/payment")
	payment.Use(guards.Auth)
	payment.Use(guards.Limiter.Limit("payment", guards.RateLimit, guards.Window))
	{
		payment.POST("/capturePayment", middleware.RequirePermission(auth.PermPurchaseCourses), h.CapturePayment)
		payment.POST("/verifyPayment", h.VerifyPayment)
		payment.POST("/sendPaymentSuccessEmail", h.SendPaymentSuccessEmail)
		payment.POST("/track-abandonment", h.TrackAbandonment)
		payment.GET("/enrolled-courses", h.GetEnrolledCourses)
	}
}

// CapturePayment godoc
// @Summary Создать заказ на оплату корзины
// @Description Проверяет курсы и создает заказ в Razorpay. Сумма в пайсах.
// @Tags payment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CapturePaymentRequest true "Курсы корзины"
// @Success 200 {object} SuccessResponse{data=dto.CapturePaymentResponse}
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Уже записан"
// @Failure 500 {object} apperrors.ErrorResponse "Шлюз недоступен"
// @Router /api/v1/payment/capturePayment [post]
func (h *PaymentHandler) CapturePayment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CapturePaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	order, err := h.paymentService.CapturePayment(c.Request.Context(), h.GetDB(c), userID, req.Courses)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: order})
}

// VerifyPayment godoc
// @Summary Проверить оплату и записать на курсы
// @Description Проверяет подпись колбэка, записывает студента на каждый курс и возвращает отчет по курсам
// @Tags payment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.VerifyPaymentRequest true "Данные колбэка"
// @Success 200 {object} SuccessResponse{data=dto.VerifyPaymentResponse}
// @Failure 400 {object} apperrors.ErrorResponse "Неверная подпись или поля"
// @Failure 500 {object} apperrors.ErrorResponse "Оплата прошла, запись не завершена"
// @Router /api/v1/payment/verifyPayment [post]
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.VerifyPaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.paymentService.VerifyPayment(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	message := "Payment Verified"
	if result.Replayed {
		message = "Payment already processed"
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: message, Data: result})
}

// SendPaymentSuccessEmail godoc
// @Summary Отправить чек об оплате
// @Description Отправляет чек один раз на проверенный платеж
// @Tags payment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendPaymentEmailRequest true "Платеж"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/v1/payment/sendPaymentSuccessEmail [post]
func (h *PaymentHandler) SendPaymentSuccessEmail(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SendPaymentEmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.paymentService.SendPaymentSuccessEmail(c.Request.Context(), h.GetDB(c), userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Payment success email sent"})
}

// TrackAbandonment godoc
// @Summary Зафиксировать брошенную корзину
// @Tags payment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TrackAbandonmentRequest true "Курс со страницы оплаты"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /api/v1/payment/track-abandonment [post]
func (h *PaymentHandler) TrackAbandonment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.TrackAbandonmentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if _, err := h.abandonmentService.Track(c.Request.Context(), h.GetDB(c), userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Abandonment tracked"})
}

// GetEnrolledCourses godoc
// @Summary Купленные курсы с прогрессом
// @Tags payment
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SuccessResponse{data=[]dto.EnrolledCourseResponse}
// @Router /api/v1/payment/enrolled-courses [get]
func (h *PaymentHandler) GetEnrolledCourses(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	courses, err := h.paymentService.GetEnrolledCourses(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: courses})
}
