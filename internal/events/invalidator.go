// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package events

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/cinematch/internal/metrics"
)

// Purger drops cached recommendation results.
type Purger interface {
	Purge() error
}

// Invalidator purges the result cache for every change event received.
type Invalidator struct {
	subscriber message.Subscriber
	purger     Purger
	logger     watermill.LoggerAdapter

	processed atomic.Int64
	failed    atomic.Int64
}

// NewInvalidator returns an Invalidator reading from sub.
func NewInvalidator(sub message.Subscriber, purger Purger, logger watermill.LoggerAdapter) *Invalidator {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &Invalidator{subscriber: sub, purger: purger, logger: logger}
}

// Run subscribes to every change topic and processes messages until ctx
// is canceled or the subscriptions close.
func (inv *Invalidator) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, topic := range Topics {
		messages, err := inv.subscriber.Subscribe(ctx, topic)
		if err != nil {
			return fmt.Errorf("subscribe to %s: %w", topic, err)
		}
		wg.Add(1)
		go func(topic string, messages <-chan *message.Message) {
			defer wg.Done()
			inv.consume(ctx, topic, messages)
		}(topic, messages)
	}
	wg.Wait()
	return ctx.Err()
}

func (inv *Invalidator) consume(ctx context.Context, topic string, messages <-chan *message.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			err := inv.handle(msg)
			metrics.RecordEventConsume(topic, err)
			if err != nil {
				inv.failed.Add(1)
				inv.logger.Error("Change event processing failed", err, watermill.LogFields{
					"message_uuid": msg.UUID,
					"topic":        topic,
				})
				// Failed messages are acked and not redelivered.
			}
			msg.Ack()
		}
	}
}

func (inv *Invalidator) handle(msg *message.Message) error {
	event, err := Unmarshal(msg.Payload)
	if err != nil {
		return err
	}
	if err := inv.purger.Purge(); err != nil {
		return fmt.Errorf("purge cache: %w", err)
	}
	inv.processed.Add(1)
	inv.logger.Debug("Result cache purged", watermill.LogFields{
		"kind":           string(event.Kind),
		"corpus_version": event.CorpusVersion,
	})
	return nil
}

// Processed returns the number of events that purged the cache.
func (inv *Invalidator) Processed() int64 {
	return inv.processed.Load()
}

// Failed returns the number of events that could not be processed.
func (inv *Invalidator) Failed() int64 {
	return inv.failed.Load()
}
