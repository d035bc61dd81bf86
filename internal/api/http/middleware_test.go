package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

func TestRequestLoggerRecordsErrorStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	app := fiber.New()
	RegisterMiddlewares(app, zap.New(core), nil, time.Second)
	app.Get("/missing", func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("widget", "WIDGET_NOT_FOUND")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/missing", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("request log entries = %d, want 1", len(entries))
	}
	if status, ok := entries[0].ContextMap()["status"].(int64); !ok || status != 404 {
		t.Errorf("logged status = %v, want 404", entries[0].ContextMap()["status"])
	}
}

func TestRequestTimeoutReachesHandlerContext(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), nil, time.Second)

	var hasDeadline bool
	app.Get("/check", func(c *fiber.Ctx) error {
		_, hasDeadline = c.UserContext().Deadline()
		return c.SendStatus(fiber.StatusNoContent)
	})

	if _, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/check", nil), -1); err != nil {
		t.Fatalf("request: %v", err)
	}
	if !hasDeadline {
		t.Error("handler context carries no deadline")
	}
}

func TestRequestTimeoutSkippedWhenDisabled(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), nil, 0)

	var hasDeadline bool
	app.Get("/check", func(c *fiber.Ctx) error {
		_, hasDeadline = c.UserContext().Deadline()
		return c.SendStatus(fiber.StatusNoContent)
	})

	if _, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/check", nil), -1); err != nil {
		t.Fatalf("request: %v", err)
	}
	if hasDeadline {
		t.Error("deadline set despite timeout being disabled")
	}
}
