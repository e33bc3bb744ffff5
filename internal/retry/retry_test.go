package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errFlaky = errors.New("connection refused")

func TestDo(t *testing.T) {
	tests := []struct {
		name      string
		attempts  int
		failFirst int
		wantCalls int
		wantErr   bool
	}{
		{"succeeds first time", 3, 0, 1, false},
		{"succeeds on last attempt", 3, 2, 3, false},
		{"exhausts budget", 3, 5, 3, true},
		{"zero attempts means one", 0, 5, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Do(context.Background(), Policy{Attempts: tt.attempts, Delay: time.Millisecond}, func(ctx context.Context) error {
				calls++
				if calls <= tt.failFirst {
					return errFlaky
				}
				return nil
			})

			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var exhausted *ExhaustedError
				if !errors.As(err, &exhausted) {
					t.Fatalf("err = %T, want *ExhaustedError", err)
				}
				if !errors.Is(err, errFlaky) {
					t.Error("exhausted error does not wrap the last failure")
				}
			}
		})
	}
}

func TestDo_Permanent(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{Attempts: 5}, func(ctx context.Context) error {
		calls++
		return Permanent(errFlaky)
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !errors.Is(err, errFlaky) {
		t.Errorf("err = %v", err)
	}
}

func TestDo_CancelDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := Do(ctx, Policy{Attempts: 3, Delay: time.Second}, func(ctx context.Context) error {
		calls++
		return errFlaky
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
