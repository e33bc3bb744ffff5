package queue

import (
	"context"
	"time"
)

type Broker interface {
	Publish(ctx context.Context, queueName string, message []byte) error
	Subscribe(ctx context.Context, queueName string, handler MessageHandler) error
	Ping() error
	Close() error
}

type MessageHandler func(ctx context.Context, message []byte) error

const (
	QueueSalesImport   = "sales-import"
	QueueNotifications = "notifications"
)

// Queues lists every work queue. Each has a dead letter queue next to it.
var Queues = []string{QueueSalesImport, QueueNotifications}

func DeadLetterQueue(queueName string) string {
	return queueName + "-dlq"
}

type Config struct {
	URL           string
	MaxRetries    int
	RetryDelay    time.Duration
	PrefetchCount int
}

func (c Config) withDefaults() Config {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Second
	}
	if c.PrefetchCount <= 0 {
		c.PrefetchCount = 10
	}
	return c
}

// backoff doubles the base delay per retry already made:
// base, 2*base, 4*base...
func backoff(base time.Duration, retryCount int) time.Duration {
	return base << retryCount
}

// sleep waits for d or until ctx is done, reporting whether the full
// delay elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
