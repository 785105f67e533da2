package session

import "context"

// ResultPublisher is notified of every resolved round.
type ResultPublisher interface {
	PublishResult(ctx context.Context, res Resolution) error
}

type nopPublisher struct{}

func (nopPublisher) PublishResult(context.Context, Resolution) error { return nil }
