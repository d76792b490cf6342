package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/brandfolio/api/internal/platform/requestctx"
)

func TestNewError(t *testing.T) {
	err := NewError("bad_request", "something\nbroke", http.StatusBadRequest)
	if err.Code != "bad_request" || err.Status != http.StatusBadRequest {
		t.Fatalf("unexpected error %+v", err)
	}
	if strings.Contains(err.Message, "\n") {
		t.Fatalf("expected newlines stripped, got %q", err.Message)
	}

	t.Run("zero status defaults to 500", func(t *testing.T) {
		if got := NewError("oops", "oops", 0); got.Status != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", got.Status)
		}
	})

	t.Run("long messages truncated", func(t *testing.T) {
		got := NewError("code", strings.Repeat("x", 2000), http.StatusBadRequest)
		if len(got.Message) != 512 {
			t.Fatalf("expected message clamped to 512, got %d", len(got.Message))
		}
	})
}

func TestWriteError(t *testing.T) {
	decode := func(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
		t.Helper()
		var payload map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode body %q: %v", rec.Body.String(), err)
		}
		return payload
	}

	t.Run("bare context", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(context.Background(), rec, NewError("not_found", "missing", http.StatusNotFound))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type %q", ct)
		}
		payload := decode(t, rec)
		if payload["error"] != "not_found" || payload["message"] != "missing" || payload["status"] != float64(http.StatusNotFound) {
			t.Fatalf("unexpected envelope %v", payload)
		}
		if _, ok := payload["request_id"]; ok {
			t.Fatalf("expected request_id omitted without middleware")
		}
		if _, ok := payload["trace_id"]; ok {
			t.Fatalf("expected trace_id omitted without trace")
		}
	})

	t.Run("identifiers from context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
		ctx = requestctx.WithTrace(ctx, requestctx.TraceInfo{TraceID: "trace-42"})

		rec := httptest.NewRecorder()
		WriteError(ctx, rec, NewError("conflict", "conflicting write", http.StatusConflict))

		payload := decode(t, rec)
		if payload["request_id"] != "req-42" {
			t.Fatalf("expected request id in envelope, got %v", payload)
		}
		if payload["trace_id"] != "trace-42" {
			t.Fatalf("expected trace id in envelope, got %v", payload)
		}
	})

	t.Run("zero status defaults to 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(context.Background(), rec, Error{Code: "oops", Message: "oops"})
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}
