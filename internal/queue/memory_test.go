package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestMemoryBrokerDelivers(t *testing.T) {
	b := NewMemoryBroker(Config{MaxRetries: 3, RetryDelay: time.Millisecond})
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan string, 1)
	err := b.Subscribe(ctx, QueueNotifications, func(ctx context.Context, message []byte) error {
		got <- string(message)
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := b.Publish(ctx, QueueNotifications, []byte(`{"event":"custom"}`)); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case msg := <-got:
		if msg != `{"event":"custom"}` {
			t.Fatalf("unexpected message %s", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}
}

func TestMemoryBrokerRetriesThenDeadLetters(t *testing.T) {
	b := NewMemoryBroker(Config{MaxRetries: 2, RetryDelay: time.Millisecond})
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	err := b.Subscribe(ctx, QueueSalesImport, func(ctx context.Context, message []byte) error {
		calls.Add(1)
		return errors.New("sheet unavailable")
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := b.Publish(ctx, QueueSalesImport, []byte("task")); err != nil {
		t.Fatalf("publish: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(b.DeadLetters()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("message never dead-lettered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if n := calls.Load(); n != 3 {
		t.Fatalf("expected 3 handler calls, got %d", n)
	}
	dl := b.DeadLetters()[0]
	if dl.Queue != "sales-import-dlq" || dl.RetryCount != 2 || dl.Error != "sheet unavailable" {
		t.Fatalf("unexpected dead letter %+v", dl)
	}
}

func TestMemoryBrokerClosed(t *testing.T) {
	b := NewMemoryBroker(Config{})
	if err := b.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if err := b.Publish(context.Background(), QueueNotifications, nil); !errors.Is(err, ErrBrokerClosed) {
		t.Fatalf("expected ErrBrokerClosed, got %v", err)
	}
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		retry int
		want  time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
	}
	for _, tt := range tests {
		if got := backoff(time.Second, tt.retry); got != tt.want {
			t.Errorf("backoff(%d) = %v, want %v", tt.retry, got, tt.want)
		}
	}
}

func TestMemoryBrokerPing(t *testing.T) {
	b := NewMemoryBroker(Config{})
	if err := b.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	b.Close()
	if err := b.Ping(); !errors.Is(err, ErrBrokerClosed) {
		t.Fatalf("expected ErrBrokerClosed, got %v", err)
	}
}
