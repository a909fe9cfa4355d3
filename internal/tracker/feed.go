package tracker

import (
	"context"
	"sync"
)

const feedBuffer = 64

// Feed is a PositionSource filled by whoever receives samples from the device,
// e.g. a websocket reader. Samples and actions keep their push order.
type Feed struct {
	ch       chan Update
	done     chan struct{}
	closeOne sync.Once
}

func NewFeed() *Feed {
	return &Feed{
		ch:   make(chan Update, feedBuffer),
		done: make(chan struct{}),
	}
}

func (f *Feed) Watch(ctx context.Context) (<-chan Update, error) {
	return f.ch, nil
}

// Push queues a sample. It blocks while the buffer is full and gives up once the
// feed is closed.
func (f *Feed) Push(u Update) {
	select {
	case f.ch <- u:
	case <-f.done:
	}
}

// Unavailable reports that the device has no location capability.
func (f *Feed) Unavailable() {
	f.Push(Update{Err: ErrUnavailable})
}

// Do queues fn behind every sample pushed so far. It is dropped once the feed
// is closed.
func (f *Feed) Do(fn func()) {
	f.Push(Update{Action: fn})
}

// Close stops accepting samples and unblocks pending pushes.
func (f *Feed) Close() {
	f.closeOne.Do(func() { close(f.done) })
}
