package services_test

import (
	"errors"
	"strings"
	"testing"

	"reeldex/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalService, "websearch", "fetch", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"websearch", "fetch", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "llm", "suggest", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected default transient marker, got %v", err)
	}
}

func TestDegradableClassification(t *testing.T) {
	providerErr := services.Wrap(services.ErrTimeout, "llm", "suggest", "deadline", nil)
	if !services.Degradable(providerErr) {
		t.Fatal("expected timeout to be degradable")
	}

	storeErr := services.Wrap(services.ErrPersistence, "catalog", "upsert", "constraint", errors.New("sqlite"))
	if services.Degradable(storeErr) {
		t.Fatal("expected persistence failure to be fatal")
	}

	if !services.Degradable(nil) {
		t.Fatal("nil error should be degradable")
	}
}
