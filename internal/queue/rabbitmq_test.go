package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type settlement struct {
	acked, nacked, requeued bool
}

func (s *settlement) Ack(uint64, bool) error {
	s.acked = true
	return nil
}

func (s *settlement) Nack(_ uint64, _ bool, requeue bool) error {
	s.nacked, s.requeued = true, requeue
	return nil
}

func (s *settlement) Reject(_ uint64, requeue bool) error {
	s.nacked, s.requeued = true, requeue
	return nil
}

type published struct {
	queue string
	msg   amqp.Publishing
}

func newTestRabbitMQ(maxRetries int, publishErr error) (*RabbitMQBroker, *[]published) {
	var sent []published
	b := &RabbitMQBroker{config: Config{MaxRetries: maxRetries, RetryDelay: time.Millisecond}}
	b.publish = func(_ context.Context, queueName string, msg amqp.Publishing) error {
		if publishErr != nil {
			return publishErr
		}
		sent = append(sent, published{queueName, msg})
		return nil
	}
	return b, &sent
}

func failing(context.Context, []byte) error { return errors.New("boom") }

func TestRabbitMQHandleMessageRetries(t *testing.T) {
	b, sent := newTestRabbitMQ(3, nil)
	ack := &settlement{}

	b.handleMessage(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("x")}, failing, QueueNotifications)

	if !ack.acked || ack.nacked {
		t.Fatalf("expected ack after republish, got %+v", ack)
	}
	if len(*sent) != 1 || (*sent)[0].queue != QueueNotifications {
		t.Fatalf("unexpected publishes %+v", *sent)
	}
	if got := retryCountOf((*sent)[0].msg.Headers); got != 1 {
		t.Errorf("retry count = %d, want 1", got)
	}
}

func TestRabbitMQHandleMessageDeadLetters(t *testing.T) {
	b, sent := newTestRabbitMQ(1, nil)
	ack := &settlement{}
	msg := amqp.Delivery{Acknowledger: ack, Body: []byte("x"), Headers: amqp.Table{"x-retry-count": int32(1)}}

	b.handleMessage(context.Background(), msg, failing, QueueNotifications)

	if !ack.acked {
		t.Fatalf("expected ack, got %+v", ack)
	}
	if len(*sent) != 1 || (*sent)[0].queue != DeadLetterQueue(QueueNotifications) {
		t.Fatalf("unexpected publishes %+v", *sent)
	}
	if (*sent)[0].msg.Headers["x-error"] != "boom" {
		t.Errorf("unexpected headers %v", (*sent)[0].msg.Headers)
	}
}

func TestRabbitMQHandleMessageRequeuesWhenRepublishFails(t *testing.T) {
	for _, retries := range []int{0, 3} {
		b, _ := newTestRabbitMQ(retries, errors.New("channel closed"))
		ack := &settlement{}

		b.handleMessage(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("x")}, failing, QueueNotifications)

		if ack.acked || !ack.nacked || !ack.requeued {
			t.Errorf("max retries %d: expected requeue, got %+v", retries, ack)
		}
	}
}

func TestRabbitMQHandleMessageAcksSuccess(t *testing.T) {
	b, sent := newTestRabbitMQ(3, nil)
	ack := &settlement{}

	b.handleMessage(context.Background(), amqp.Delivery{Acknowledger: ack}, func(context.Context, []byte) error { return nil }, QueueNotifications)

	if !ack.acked || len(*sent) != 0 {
		t.Errorf("expected plain ack, got %+v and %d publishes", ack, len(*sent))
	}
}
