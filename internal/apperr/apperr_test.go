package apperr_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/blog-cms-api/internal/apperr"
)

func TestUnavailableWrapping(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.1:5432: connection refused")
	err := apperr.Unavailable("create article", cause)

	if !apperr.IsUnavailable(err) {
		t.Fatalf("wrapped storage error not recognized: %v", err)
	}
	if !strings.Contains(err.Error(), "create article") {
		t.Errorf("message lost the operation: %q", err.Error())
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("message lost the cause: %q", err.Error())
	}

	// the wrapper stays outside the domain taxonomy
	if apperr.IsNotFound(err) || apperr.IsConflict(err) || apperr.IsValidation(err) || apperr.IsState(err) {
		t.Errorf("storage error matched a domain predicate: %v", err)
	}
}

func TestUnavailableNilCause(t *testing.T) {
	if err := apperr.Unavailable("count articles", nil); err != nil {
		t.Errorf("nil cause produced %v, want nil", err)
	}
}

func TestUnavailableDoesNotMatchDomainErrors(t *testing.T) {
	if apperr.IsUnavailable(apperr.NewNotFound("article", "x")) {
		t.Error("NotFoundError reported as unavailable")
	}
	if apperr.IsUnavailable(nil) {
		t.Error("nil reported as unavailable")
	}
}
