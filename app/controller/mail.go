package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-mailer/app/dto"
	"github.com/vibast-solutions/ms-go-mailer/app/service"
)

// ServiceName identifies this service in health responses.
const ServiceName = "ms-go-mailer"

// Version is the reported API version.
const Version = "1.0.0"

// availableRoutes is the public route listing returned by /api and the
// 404 fallback.
var availableRoutes = []string{
	"GET /api",
	"GET /status",
	"GET /health",
	"GET /sending-status",
	"POST /stop-sending",
	"POST /send-gmail",
	"POST /send-gmail-simple",
}

// MailController exposes the HTTP surface of the mail relay.
type MailController struct {
	service   *service.MailService
	port      string
	startedAt time.Time
}

// NewMailController constructs the HTTP controller.
func NewMailController(svc *service.MailService, port string) *MailController {
	return &MailController{service: svc, port: port, startedAt: time.Now()}
}

// Send handles the full send endpoint.
func (c *MailController) Send(ctx echo.Context) error {
	return c.handleSend(ctx, c.service.Send)
}

// SendSimple handles the simplified send endpoint.
func (c *MailController) SendSimple(ctx echo.Context) error {
	return c.handleSend(ctx, c.service.SendSimple)
}

// StopSending requests cooperative cancellation of the in-flight send.
func (c *MailController) StopSending(ctx echo.Context) error {
	if !c.service.Stop() {
		return ctx.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "no send in progress",
		})
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "cancellation requested",
	})
}

// SendingStatus reports the gate state and the lifetime counter.
func (c *MailController) SendingStatus(ctx echo.Context) error {
	st := c.service.Status()
	return ctx.JSON(http.StatusOK, echo.Map{
		"isSending":     st.Busy,
		"stopRequested": st.CancelRequested,
		"emailCount":    st.TotalSent,
	})
}

// Health is the liveness endpoint.
func (c *MailController) Health(ctx echo.Context) error {
	st := c.service.Status()
	return ctx.JSON(http.StatusOK, echo.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   ServiceName,
		"isSending": st.Busy,
	})
}

// Status reports operational status: uptime, memory, and counters.
func (c *MailController) Status(ctx echo.Context) error {
	st := c.service.Status()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return ctx.JSON(http.StatusOK, echo.Map{
		"status":    "online",
		"port":      c.port,
		"uptime":    time.Since(c.startedAt).Round(time.Second).String(),
		"startTime": c.startedAt.Format(time.RFC3339),
		"memory": echo.Map{
			"usage": fmt.Sprintf("%.1f MB", float64(mem.Alloc)/(1024*1024)),
		},
		"emails": echo.Map{
			"today": st.SentToday,
			"total": st.TotalSent,
		},
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// APIIndex lists the service capabilities.
func (c *MailController) APIIndex(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"message":   "mail relay service",
		"version":   Version,
		"endpoints": availableRoutes,
	})
}

// NotFound is the JSON fallback for unknown routes.
func (c *MailController) NotFound(ctx echo.Context) error {
	return ctx.JSON(http.StatusNotFound, echo.Map{
		"success":         false,
		"message":         "route not found",
		"availableRoutes": availableRoutes,
	})
}

type sendFunc func(ctx context.Context, req dto.SendRequest) (service.Receipt, error)

func (c *MailController) handleSend(ctx echo.Context, send sendFunc) error {
	req, err := dto.FromEchoContext(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, echo.Map{
			"success":     false,
			"message":     "invalid request body",
			"shouldWait":  false,
			"interrupted": false,
		})
	}

	receipt, err := send(ctx.Request().Context(), req)
	if err != nil {
		return c.sendFailure(ctx, err)
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"message":    "email sent",
		"messageId":  receipt.MessageID,
		"emailCount": receipt.EmailCount,
	})
}

func (c *MailController) sendFailure(ctx echo.Context, err error) error {
	var sendErr *service.SendError
	if !errors.As(err, &sendErr) {
		return ctx.JSON(http.StatusInternalServerError, echo.Map{
			"success":     false,
			"message":     err.Error(),
			"shouldWait":  false,
			"interrupted": false,
		})
	}

	status := http.StatusInternalServerError
	switch sendErr.Kind {
	case service.KindInvalidInput:
		status = http.StatusBadRequest
	case service.KindAlreadyInProgress:
		status = http.StatusTooManyRequests
	}

	return ctx.JSON(status, echo.Map{
		"success":     false,
		"message":     sendErr.Message,
		"shouldWait":  sendErr.ShouldWait,
		"interrupted": sendErr.Interrupted,
	})
}
