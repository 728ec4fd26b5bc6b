// Package rabbitmq carries audit records from the pipeline services to
// the persistence worker through a durable queue.
package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// New dials the broker and proves it is usable by opening and closing a
// channel. Queue declaration is left to the publisher and consumer,
// which both declare the audit queue idempotently.
func New(ctx context.Context, url string) (*amqp.Connection, error) {
	type dialResult struct {
		conn *amqp.Connection
		err  error
	}

	done := make(chan dialResult, 1)
	go func() {
		conn, err := amqp.Dial(url)
		if err != nil {
			done <- dialResult{err: fmt.Errorf("dial rabbitmq failed: %w", err)}
			return
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			done <- dialResult{err: fmt.Errorf("open rabbitmq channel failed: %w", err)}
			return
		}
		_ = ch.Close()
		done <- dialResult{conn: conn}
	}()

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	select {
	case <-connectCtx.Done():
		return nil, fmt.Errorf("rabbitmq connect timeout: %w", connectCtx.Err())
	case res := <-done:
		return res.conn, res.err
	}
}
