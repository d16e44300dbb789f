// Package timer drives the countdown of a running exam attempt.
package timer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultInterval = time.Second
	// WarningThreshold is the remaining time below which the display turns
	// into a warning.
	WarningThreshold = 300
)

// Source is where the countdown value lives.
type Source interface {
	TimeRemaining() (int, bool)
	UpdateTimeRemaining(seconds int)
}

type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

type TickerFactory func(d time.Duration) Ticker

type stdTicker struct {
	*time.Ticker
}

func (t stdTicker) Chan() <-chan time.Time {
	return t.C
}

func NewStdTicker(d time.Duration) Ticker {
	return stdTicker{time.NewTicker(d)}
}

// Tick is pushed to subscribers after every countdown step.
type Tick struct {
	Remaining int    `json:"remaining"`
	Display   string `json:"display"`
	Warning   bool   `json:"warning"`
	Expired   bool   `json:"expired"`
}

type Controller struct {
	source    Source
	onExpire  func()
	interval  time.Duration
	newTicker TickerFactory
	logger    *slog.Logger

	mu          sync.Mutex
	cancel      context.CancelFunc
	running     bool
	generation  int
	expired     bool
	subscribers map[int]chan Tick
	nextSubID   int
}

type Option func(*Controller)

func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

func WithTickerFactory(f TickerFactory) Option {
	return func(c *Controller) {
		c.newTicker = f
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController binds a countdown to source. onExpire runs once each time
// the countdown reaches zero after a Start.
func NewController(source Source, onExpire func(), opts ...Option) *Controller {
	c := &Controller{
		source:      source,
		onExpire:    onExpire,
		interval:    DefaultInterval,
		newTicker:   NewStdTicker,
		logger:      slog.Default(),
		subscribers: make(map[int]chan Tick),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start launches the countdown. It is a no-op while already running and
// when the source has no value. A source already at zero expires at once.
func (c *Controller) Start(ctx context.Context) {
	remaining, ok := c.source.TimeRemaining()
	if !ok {
		return
	}

	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.expired = false
	if remaining <= 0 {
		c.mu.Unlock()
		c.expire(0)
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.running = true
	c.generation++
	generation := c.generation
	c.mu.Unlock()

	ticker := c.newTicker(c.interval)
	go c.loop(ctx, ticker, generation)
}

func (c *Controller) loop(ctx context.Context, ticker Ticker, generation int) {
	defer ticker.Stop()
	defer c.markStopped(generation)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if !c.step(generation) {
				return
			}
		}
	}
}

func (c *Controller) markStopped(generation int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A later Start owns the state once the generation moved on.
	if c.generation != generation {
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.running = false
}

// Stop tears the countdown down without waiting for the tick goroutine, so
// it is safe to call from the expiry callback.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.running = false
}

func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Tick performs one countdown step and reports whether ticking should
// continue.
func (c *Controller) Tick() bool {
	return c.step(0)
}

// step decrements the source on behalf of countdown generation. A step
// from a countdown that was stopped or replaced writes nothing. Generation
// 0 is not bound to any countdown.
func (c *Controller) step(generation int) bool {
	remaining, ok := c.source.TimeRemaining()
	if !ok {
		return false
	}

	c.mu.Lock()
	if !c.ownsLocked(generation) {
		c.mu.Unlock()
		return false
	}
	decremented := remaining > 0
	if decremented {
		remaining--
		c.source.UpdateTimeRemaining(remaining)
	}
	c.mu.Unlock()

	if decremented {
		c.broadcast(Tick{Remaining: remaining, Display: FormatTime(remaining), Warning: IsWarning(remaining)})
	}

	if remaining <= 0 {
		c.expire(generation)
		return false
	}
	return true
}

func (c *Controller) ownsLocked(generation int) bool {
	return generation == 0 || (c.running && c.generation == generation)
}

func (c *Controller) expire(generation int) {
	c.mu.Lock()
	if c.expired || !c.ownsLocked(generation) {
		c.mu.Unlock()
		return
	}
	c.expired = true
	c.running = false
	c.mu.Unlock()

	c.broadcast(Tick{Remaining: 0, Display: FormatTime(0), Warning: true, Expired: true})
	c.logger.Info("Exam timer expired")

	if c.onExpire != nil {
		c.onExpire()
	}
}

// Display is the MM:SS rendering of the current value, "00:00" when idle.
func (c *Controller) Display() string {
	remaining, ok := c.source.TimeRemaining()
	if !ok {
		return FormatTime(0)
	}
	return FormatTime(remaining)
}

// Subscribe returns a channel of ticks and a function that releases it.
// Slow subscribers only see the latest tick.
func (c *Controller) Subscribe() (<-chan Tick, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	ch := make(chan Tick, 1)
	c.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subscribers, id)
			close(ch)
		})
	}
}

func (c *Controller) broadcast(t Tick) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ch := range c.subscribers {
		select {
		case ch <- t:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- t:
			default:
			}
		}
	}
}

// FormatTime renders seconds as zero-padded MM:SS with minutes allowed past
// 59. Zero and negative values render "00:00".
func FormatTime(seconds int) string {
	if seconds <= 0 {
		return "00:00"
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func IsWarning(seconds int) bool {
	return seconds < WarningThreshold
}
