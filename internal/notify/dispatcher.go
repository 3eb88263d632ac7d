// Package notify sends email notices without holding up the request that
// triggered them.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type envelope struct {
	to, subject, body string
}

// Dispatcher queues notices and delivers them from a single worker.
// A full queue drops the notice; nothing is retried.
type Dispatcher struct {
	mailer  Mailer
	log     *slog.Logger
	queue   chan envelope
	timeout time.Duration

	once sync.Once
	done chan struct{}
}

func NewDispatcher(mailer Mailer, log *slog.Logger, size int) *Dispatcher {
	if size <= 0 {
		size = 64
	}
	return &Dispatcher{
		mailer:  mailer,
		log:     log,
		queue:   make(chan envelope, size),
		timeout: 30 * time.Second,
		done:    make(chan struct{}),
	}
}

// Start runs the worker until ctx is cancelled, then drains what is queued.
func (d *Dispatcher) Start(ctx context.Context) {
	d.once.Do(func() {
		go d.run(ctx)
	})
}

// Wait blocks until the worker has exited.
func (d *Dispatcher) Wait() {
	<-d.done
}

func (d *Dispatcher) Send(_ context.Context, to, subject, body string) {
	if to == "" {
		return
	}
	select {
	case d.queue <- envelope{to: to, subject: subject, body: body}:
	default:
		d.log.Warn("notification queue full, dropping", slog.String("to", to), slog.String("subject", subject))
	}
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case env := <-d.queue:
			d.deliver(env)
		case <-ctx.Done():
			for {
				select {
				case env := <-d.queue:
					d.deliver(env)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(env envelope) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := d.mailer.Send(ctx, env.to, env.subject, env.body); err != nil {
		d.log.Error("notification failed",
			slog.String("to", env.to),
			slog.String("subject", env.subject),
			slog.String("error", err.Error()))
	}
}
