package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/waabox/nowpublish/internal/domain"
)

func TestVersionNotFound_CanBeDetectedWithErrorsIs(t *testing.T) {
	wrapped := fmt.Errorf("resolving version: %w", domain.VersionNotFound())
	if !errors.Is(wrapped, domain.ErrVersionNotFound) {
		t.Error("expected errors.Is to detect ErrVersionNotFound in wrapped error")
	}
	if !domain.IsKind(wrapped, domain.KindVersionNotFound) {
		t.Error("expected kind VersionNotFound")
	}
}

func TestError_MessageIsVerbatim(t *testing.T) {
	err := domain.TransportError("The user credentials are incorrect.", errors.New("status 401"))
	if err.Error() != "The user credentials are incorrect." {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if domain.IsKind(err, domain.KindConfiguration) {
		t.Error("transport error reported as configuration error")
	}
}
