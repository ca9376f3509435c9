package record

import "context"

// Stream is an unbounded, append-oriented source of records.
//
// Subscribe blocks until ctx is canceled or the stream ends, invoking fn for
// every event. Delivery is at-least-once: a source may re-deliver a record
// after a restart, and consumers must treat re-delivery of the same record
// id as an update of the same logical entity. fn returning an error does not
// stop the stream; the error is the consumer's to log, and the source moves
// on so one bad record cannot block unrelated ones.
//
// Any concrete transport (in-process channel, database tailing, CDC feed)
// can satisfy this interface.
type Stream[T any] interface {
	Subscribe(ctx context.Context, fn func(context.Context, T) error) error
}

// Channel is a push-based Stream backed by a Go channel.
// The producer owns the channel and closes it to end the stream.
type Channel[T any] struct {
	C chan T
}

// NewChannel creates a Channel stream with the given buffer size.
func NewChannel[T any](buffer int) *Channel[T] {
	return &Channel[T]{C: make(chan T, buffer)}
}

// Subscribe delivers events from the channel until it is closed or ctx is
// canceled. Returns ctx.Err() on cancellation, nil when the channel closes.
func (s *Channel[T]) Subscribe(ctx context.Context, fn func(context.Context, T) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case rec, ok := <-s.C:
			if !ok {
				return nil
			}
			_ = fn(ctx, rec) // per-record errors are the consumer's concern
		}
	}
}

// Replay is a finite Stream that delivers a fixed slice of records in order
// and then ends. Used in tests to drive pipelines with known fixtures.
type Replay[T any] struct {
	Records []T
}

// Subscribe delivers every record in order, then returns nil.
func (s *Replay[T]) Subscribe(ctx context.Context, fn func(context.Context, T) error) error {
	for _, rec := range s.Records {
		if err := ctx.Err(); err != nil {
			return err
		}
		_ = fn(ctx, rec)
	}
	return nil
}
