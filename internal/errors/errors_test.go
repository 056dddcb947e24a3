package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"ecommerce-dashboard/internal/dataset"
	"ecommerce-dashboard/internal/filter"
)

func TestFromDomain(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    ErrorCode
		status  int
		message string
	}{
		{"incomplete range", filter.ErrIncompleteRange, CodeIncompleteRange, http.StatusBadRequest, MessageIncompleteRange},
		{"start after end", filter.ErrStartAfterEnd, CodeInvalidRange, http.StatusBadRequest, MessageStartAfterEnd},
		{"malformed date", fmt.Errorf("%w: bad", filter.ErrInvalidRange), CodeInvalidRange, http.StatusBadRequest, "Invalid date range"},
		{"data load", fmt.Errorf("parse x: %w", dataset.ErrDataLoad), CodeDataLoad, http.StatusServiceUnavailable, "Dataset could not be loaded"},
		{"unknown", stderrors.New("boom"), CodeInternal, http.StatusInternalServerError, "An unexpected error occurred"},
		{"already app error", BadRequest("nope"), CodeBadRequest, http.StatusBadRequest, "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDomain(tt.err)
			if got.Code != tt.code {
				t.Errorf("Code = %s, want %s", got.Code, tt.code)
			}
			if got.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", got.StatusCode, tt.status)
			}
			if got.Message != tt.message {
				t.Errorf("Message = %q, want %q", got.Message, tt.message)
			}
		})
	}

	if FromDomain(nil) != nil {
		t.Error("FromDomain(nil) should be nil")
	}
}

func TestAppError_Unwrap(t *testing.T) {
	err := FromDomain(filter.ErrIncompleteRange)
	if !stderrors.Is(err, filter.ErrInvalidRange) {
		t.Error("AppError should unwrap to the domain error")
	}
}

func TestWriteError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	w := httptest.NewRecorder()

	WriteError(w, logger, filter.ErrStartAfterEnd, "req-1")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q", ct)
	}

	var response struct {
		Success bool `json:"success"`
		Error   struct {
			Code      string `json:"code"`
			Message   string `json:"message"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if response.Success {
		t.Error("expected success=false")
	}
	if response.Error.Code != string(CodeInvalidRange) || response.Error.RequestID != "req-1" {
		t.Errorf("unexpected error body: %+v", response.Error)
	}
}

func TestWriteSuccessWithHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccessWithHeaders(w, []int{1, 2}, map[string]string{"Cache-Control": "no-store"})

	if w.Header().Get("Cache-Control") != "no-store" {
		t.Error("expected custom header")
	}

	var response map[string]any
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatal(err)
	}
	if success, ok := response["success"].(bool); !ok || !success {
		t.Error("expected success=true in response")
	}
}
