package queue

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrBrokerClosed = errors.New("broker closed")

// DeadLetter is a message that exhausted its retries.
type DeadLetter struct {
	Queue      string
	Body       []byte
	RetryCount int
	Error      string
}

// MemoryBroker delivers messages between goroutines of one process with the
// same retry and dead letter rules as RabbitMQBroker.
type MemoryBroker struct {
	config Config

	mu          sync.Mutex
	queues      map[string]chan delivery
	deadLetters []DeadLetter
	closed      bool
	done        chan struct{}
	wg          sync.WaitGroup
}

type delivery struct {
	body       []byte
	retryCount int
}

func NewMemoryBroker(cfg Config) *MemoryBroker {
	cfg = cfg.withDefaults()

	b := &MemoryBroker{
		config: cfg,
		queues: make(map[string]chan delivery),
		done:   make(chan struct{}),
	}
	for _, name := range Queues {
		b.queue(name)
	}

	return b
}

func (b *MemoryBroker) queue(name string) chan delivery {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, ok := b.queues[name]
	if !ok {
		q = make(chan delivery, 256)
		b.queues[name] = q
	}
	return q
}

func (b *MemoryBroker) Publish(ctx context.Context, queueName string, message []byte) error {
	return b.enqueue(ctx, queueName, delivery{body: append([]byte(nil), message...)})
}

func (b *MemoryBroker) enqueue(ctx context.Context, queueName string, d delivery) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrBrokerClosed
	}

	q := b.queue(queueName)
	select {
	case q <- d:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-b.done:
		return ErrBrokerClosed
	}
}

func (b *MemoryBroker) Subscribe(ctx context.Context, queueName string, handler MessageHandler) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBrokerClosed
	}
	b.wg.Add(1)
	b.mu.Unlock()

	q := b.queue(queueName)

	go func() {
		defer b.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-b.done:
				return
			case d := <-q:
				b.handle(ctx, queueName, d, handler)
			}
		}
	}()

	return nil
}

func (b *MemoryBroker) handle(ctx context.Context, queueName string, d delivery, handler MessageHandler) {
	err := handler(ctx, d.body)
	if err == nil {
		return
	}

	if d.retryCount < b.config.MaxRetries {
		timer := time.NewTimer(backoff(b.config.RetryDelay, d.retryCount))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-b.done:
			return
		case <-timer.C:
		}
		d.retryCount++
		_ = b.enqueue(ctx, queueName, d)
		return
	}

	b.mu.Lock()
	b.deadLetters = append(b.deadLetters, DeadLetter{
		Queue:      DeadLetterQueue(queueName),
		Body:       d.body,
		RetryCount: d.retryCount,
		Error:      err.Error(),
	})
	b.mu.Unlock()
}

// DeadLetters returns the messages dead-lettered so far.
func (b *MemoryBroker) DeadLetters() []DeadLetter {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]DeadLetter(nil), b.deadLetters...)
}

func (b *MemoryBroker) Ping() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBrokerClosed
	}
	return nil
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.done)
	b.mu.Unlock()

	b.wg.Wait()
	return nil
}
