package firestore

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestWrapError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		if err := WrapError("op", nil); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		err := WrapError("wishlist.get", status.Error(codes.NotFound, "missing"))
		var repoErr *Error
		if !errors.As(err, &repoErr) {
			t.Fatalf("expected *Error, got %T", err)
		}
		if !repoErr.IsNotFound() || repoErr.IsConflict() || repoErr.IsUnavailable() {
			t.Fatalf("expected not found classification, got %+v", repoErr)
		}
		if !strings.HasPrefix(err.Error(), "wishlist.get:") {
			t.Fatalf("expected op prefix in message, got %q", err.Error())
		}
	})

	t.Run("conflict codes", func(t *testing.T) {
		for _, code := range []codes.Code{codes.AlreadyExists, codes.FailedPrecondition, codes.Aborted, codes.OutOfRange} {
			err := WrapError("op", status.Error(code, code.String()))
			var repoErr *Error
			if !errors.As(err, &repoErr) || !repoErr.IsConflict() {
				t.Fatalf("expected conflict for %v, got %v", code, err)
			}
		}
	})

	t.Run("unavailable codes", func(t *testing.T) {
		for _, code := range []codes.Code{codes.Unavailable, codes.ResourceExhausted, codes.Internal} {
			err := WrapError("op", status.Error(code, code.String()))
			var repoErr *Error
			if !errors.As(err, &repoErr) || !repoErr.IsUnavailable() {
				t.Fatalf("expected unavailable for %v, got %v", code, err)
			}
		}
	})

	t.Run("context cancellation passes through", func(t *testing.T) {
		if err := WrapError("op", context.Canceled); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if err := WrapError("op", context.DeadlineExceeded); !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected context.DeadlineExceeded, got %v", err)
		}
	})

	t.Run("grpc cancellation folds into context errors", func(t *testing.T) {
		if err := WrapError("op", status.Error(codes.Canceled, "canceled")); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if err := WrapError("op", status.Error(codes.DeadlineExceeded, "deadline")); !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected context.DeadlineExceeded, got %v", err)
		}
	})

	t.Run("already wrapped keeps classification and gains op", func(t *testing.T) {
		inner := WrapError("", status.Error(codes.NotFound, "missing"))
		err := WrapError("outer", inner)
		var repoErr *Error
		if !errors.As(err, &repoErr) || !repoErr.IsNotFound() {
			t.Fatalf("expected not found preserved, got %v", err)
		}
		if !strings.HasPrefix(err.Error(), "outer:") {
			t.Fatalf("expected outer op, got %q", err.Error())
		}
	})

	t.Run("plain errors are unclassified", func(t *testing.T) {
		err := WrapError("op", errors.New("boom"))
		var repoErr *Error
		if !errors.As(err, &repoErr) {
			t.Fatalf("expected *Error, got %T", err)
		}
		if repoErr.IsNotFound() || repoErr.IsConflict() || repoErr.IsUnavailable() {
			t.Fatalf("expected unclassified error, got %+v", repoErr)
		}
	})
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := WrapError("op", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be reachable")
	}
}
