package otel

import (
	"context"
	"testing"
)

func TestSetupDisabledWithoutEndpoint(t *testing.T) {
	t.Setenv("WAZAP_OTEL_ENDPOINT", "")

	shutdown, err := Setup(context.Background(), "wazap-test")
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if shutdown == nil {
		t.Fatal("Setup() shutdown = nil, want no-op function")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("no-op shutdown error = %v", err)
	}
}

func TestSetupDisabledExplicitly(t *testing.T) {
	t.Setenv("WAZAP_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("WAZAP_OTEL_ENABLED", "false")

	shutdown, err := Setup(context.Background(), "wazap-test")
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("no-op shutdown error = %v", err)
	}
}
