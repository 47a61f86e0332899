package utils

import "testing"

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"", "production", "development", " DEV "} {
		logger, err := NewLogger(env)
		if err != nil {
			t.Fatalf("NewLogger(%q) error = %v", env, err)
		}
		if logger == nil {
			t.Fatalf("NewLogger(%q) returned nil logger", env)
		}
		_ = logger.Sync()
	}
}
