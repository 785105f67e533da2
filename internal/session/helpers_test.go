package session

import (
	"context"
	"sync"
)

// recorder is an in-memory Conn that keeps everything delivered to it.
type recorder struct {
	id  ConnID
	mu  sync.Mutex
	got []Outbound
}

func newRecorder(id ConnID) *recorder {
	return &recorder{id: id}
}

func (r *recorder) ID() ConnID { return r.id }

func (r *recorder) Deliver(ev Outbound) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, ev)
}

func (r *recorder) events() []Outbound {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Outbound(nil), r.got...)
}

func (r *recorder) names() []string {
	var out []string
	for _, ev := range r.events() {
		out = append(out, ev.Event())
	}
	return out
}

func (r *recorder) count(name string) int {
	n := 0
	for _, ev := range r.events() {
		if ev.Event() == name {
			n++
		}
	}
	return n
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = nil
}

type capturePublisher struct {
	mu  sync.Mutex
	got []Resolution
}

func (p *capturePublisher) PublishResult(_ context.Context, res Resolution) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, res)
	return nil
}

func (p *capturePublisher) results() []Resolution {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Resolution(nil), p.got...)
}
