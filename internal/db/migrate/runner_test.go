package migrate

import (
	"strings"
	"testing"
)

func TestUp_EmptyDSN(t *testing.T) {
	err := Up("")
	if err == nil {
		t.Fatal("Up with empty DSN should return error")
	}
	if !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Errorf("error = %q, should mention DATABASE_URL", err)
	}
}

func TestDown_EmptyDSN(t *testing.T) {
	if err := Down(""); err == nil {
		t.Fatal("Down with empty DSN should return error")
	}
}

func TestUp_InvalidDSN(t *testing.T) {
	for _, dsn := range []string{"invalid-dsn", "://localhost/test", "postgres://"} {
		if err := Up(dsn); err == nil {
			t.Errorf("Up with invalid DSN %q should return error", dsn)
		}
	}
}
