package postgres

import (
	"context"
	"testing"
)

func TestNewPoolInvalidURL(t *testing.T) {
	if _, err := NewPool(context.Background(), "not-a-url", 1, 0); err == nil {
		t.Fatalf("expected error when parsing invalid URL")
	}
}

func TestNewPoolPingFailure(t *testing.T) {
	_, err := NewPool(context.Background(), "postgres://invalid:5432/db", 1, 0)
	if err == nil {
		t.Fatalf("expected error when pool cannot connect")
	}
}
