package registry

import (
	"testing"
	"time"
)

func TestNewDefaultsRequestTimeout(t *testing.T) {
	if got := New().timeout; got != DefaultTimeout {
		t.Fatalf("expected default timeout %s, got %s", DefaultTimeout, got)
	}
	if got := New(WithTimeout(0)).timeout; got != 0 {
		t.Fatalf("expected explicit zero timeout to be kept, got %s", got)
	}
	if got := New(WithTimeout(-time.Second)).timeout; got != DefaultTimeout {
		t.Fatalf("expected negative timeout to be ignored, got %s", got)
	}
}
