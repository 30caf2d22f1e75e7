package utils

import (
	"context"
	"testing"
)

func TestRunLockScriptCompiles(t *testing.T) {
	// Compile-time smoke test: the release script should be initialized.
	if runLockReleaseScript == nil {
		t.Fatalf("expected script to be initialized")
	}
}

func TestRunLockRejectsNilClient(t *testing.T) {
	if _, err := AcquireRunLock(context.Background(), nil, "k", "t", 1); err == nil {
		t.Fatalf("expected error for nil client")
	}
	if err := ReleaseRunLock(context.Background(), nil, "k", "t"); err == nil {
		t.Fatalf("expected error for nil client")
	}
}
