package testutil

import (
	"os"
	"testing"

	"github.com/arthur-debert/carton/pkg/errors"
)

// AssertErrorCode fails the test unless err carries code
func AssertErrorCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if got := errors.GetErrorCode(err); got != code {
		t.Fatalf("expected error code %s, got %s (%v)", code, got, err)
	}
}

// AssertSymlink fails the test unless path is a symlink to target
func AssertSymlink(t *testing.T, path, target string) {
	t.Helper()
	got, err := os.Readlink(path)
	if err != nil {
		t.Fatalf("expected %s to be a symlink: %v", path, err)
	}
	if got != target {
		t.Fatalf("expected %s to point to %s, got %s", path, target, got)
	}
}

// AssertNotExists fails the test if path exists, links included
func AssertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err == nil {
		t.Fatalf("expected %s not to exist", path)
	}
}
