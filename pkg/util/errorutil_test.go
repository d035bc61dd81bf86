package util

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"nil passthrough handled by caller", NewValidationError("bad", nil), "VALIDATION_FAILED", http.StatusBadRequest},
		{"not found keeps code", NewNotFound("inbox", "INBOX_NOT_FOUND"), "INBOX_NOT_FOUND", http.StatusNotFound},
		{"conflict keeps code", NewConflict("PLAN_EXISTS", "duplicate", nil), "PLAN_EXISTS", http.StatusConflict},
		{"sql no rows maps to 404", sql.ErrNoRows, "NOT_FOUND", http.StatusNotFound},
		{"wrapped domain error unwrapped", fmt.Errorf("ctx: %w", NewForbidden("no")), "FORBIDDEN", http.StatusForbidden},
		{"unknown error is internal", errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
		{"upstream is bad gateway", NewUpstreamError("gateway", errors.New("timeout")), "UPSTREAM_ERROR", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.HTTPStatus != tt.wantStatus {
				t.Errorf("status = %d, want %d", got.HTTPStatus, tt.wantStatus)
			}
		})
	}
}

func TestUpstreamErrorHidesCause(t *testing.T) {
	err := ToDomainError(NewUpstreamError("stripe", errors.New("secret dsn leak")))
	if err.Message != "stripe request failed" {
		t.Errorf("message = %q, want generic upstream message", err.Message)
	}
	if err.Err == nil {
		t.Error("wrapped cause should be retained for logs")
	}
}

func TestNotFoundDefaultCode(t *testing.T) {
	err := ToDomainError(NewNotFound("thing", ""))
	if err.Code != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", err.Code)
	}
}
