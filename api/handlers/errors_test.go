package handlers

import (
	"errors"
	"net/http"
	"testing"

	coreerrors "feedpulse-api/core/errors"

	"github.com/danielgtaylor/huma/v2"
)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var statusErr huma.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error %v is not a huma.StatusError", err)
	}
	return statusErr.GetStatus()
}

func TestToHumaError_Nil(t *testing.T) {
	if toHumaError(nil) != nil {
		t.Error("toHumaError(nil) should return nil")
	}
}

func TestToHumaError_NotFound(t *testing.T) {
	err := toHumaError(&coreerrors.NotFoundError{Resource: "feed", ID: "x"})

	if got := statusOf(t, err); got != http.StatusNotFound {
		t.Errorf("status = %d, want 404", got)
	}
}

func TestToHumaError_Validation(t *testing.T) {
	err := toHumaError(&coreerrors.ValidationError{Field: "url", Message: "bad"})

	if got := statusOf(t, err); got != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", got)
	}
}

func TestToHumaError_Unknown(t *testing.T) {
	err := toHumaError(errors.New("boom"))

	if got := statusOf(t, err); got != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", got)
	}
}
