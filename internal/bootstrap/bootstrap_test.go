package bootstrap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slangop28/local-electrician-sub001/platform/logger"
)

func TestWithRetry(t *testing.T) {
	tests := []struct {
		name      string
		failUntil int
		attempts  int
		wantErr   bool
		wantCalls int
	}{
		{name: "first try", failUntil: 0, attempts: 3, wantCalls: 1},
		{name: "recovers", failUntil: 2, attempts: 3, wantCalls: 3},
		{name: "exhausted", failUntil: 5, attempts: 2, wantErr: true, wantCalls: 2},
		{name: "invalid attempts", attempts: 0, wantErr: true, wantCalls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), logger.Nop(), "op", tt.attempts, time.Millisecond, func() error {
				calls++
				if calls <= tt.failUntil {
					return errors.New("not yet")
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WithRetry(ctx, logger.Nop(), "op", 3, time.Millisecond, func() error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want canceled", err)
	}
}
