package app

import (
	"strings"
	"testing"
)

func TestRunReturnsInitFailure(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")

	a := NewApp()
	err := a.Run()
	if err == nil || !strings.Contains(err.Error(), "failed to create logger") {
		t.Fatalf("expected logger init error, got %v", err)
	}
	if a.Logger() == nil {
		t.Fatal("fallback logger must be available after a failed start")
	}
}
