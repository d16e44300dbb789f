package timer

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu        sync.Mutex
	remaining *int
}

func newFakeSource(seconds int) *fakeSource {
	return &fakeSource{remaining: &seconds}
}

func (f *fakeSource) TimeRemaining() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.remaining == nil {
		return 0, false
	}
	return *f.remaining, true
}

func (f *fakeSource) UpdateTimeRemaining(seconds int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.remaining = &seconds
}

func (f *fakeSource) unset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.remaining = nil
}

type manualTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (m *manualTicker) Chan() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()                  { m.stopped.Store(true) }

func manualFactory(ticker *manualTicker) TickerFactory {
	return func(time.Duration) Ticker { return ticker }
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{125, "02:05"},
		{0, "00:00"},
		{-5, "00:00"},
		{59, "00:59"},
		{3600, "60:00"},
		{7265, "121:05"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatTime(tt.seconds))
	}
}

func TestIsWarning(t *testing.T) {
	assert.False(t, IsWarning(WarningThreshold))
	assert.True(t, IsWarning(WarningThreshold-1))
	assert.True(t, IsWarning(0))
}

func TestTick_ExpiresExactlyOnce(t *testing.T) {
	source := newFakeSource(1)
	var fired int
	c := NewController(source, func() { fired++ })

	assert.False(t, c.Tick())
	remaining, _ := source.TimeRemaining()
	assert.Equal(t, 0, remaining)
	assert.Equal(t, 1, fired)

	c.Tick()
	c.Tick()
	assert.Equal(t, 1, fired)
}

func TestTick_Decrements(t *testing.T) {
	source := newFakeSource(3)
	c := NewController(source, nil)

	assert.True(t, c.Tick())
	assert.True(t, c.Tick())
	remaining, _ := source.TimeRemaining()
	assert.Equal(t, 1, remaining)
	assert.Equal(t, "00:01", c.Display())
}

func TestController_InertWithoutValue(t *testing.T) {
	source := &fakeSource{}
	var fired atomic.Int32
	c := NewController(source, func() { fired.Add(1) })

	c.Start(context.Background())
	assert.False(t, c.Running())
	assert.False(t, c.Tick())
	assert.Equal(t, "00:00", c.Display())
	assert.Equal(t, int32(0), fired.Load())
}

func TestStart_AtZeroExpiresImmediately(t *testing.T) {
	source := newFakeSource(0)
	var fired atomic.Int32
	c := NewController(source, func() { fired.Add(1) })

	c.Start(context.Background())
	assert.Equal(t, int32(1), fired.Load())
	assert.False(t, c.Running())
}

func TestStart_DrivesCountdownFromTicker(t *testing.T) {
	source := newFakeSource(2)
	ticker := &manualTicker{ch: make(chan time.Time)}
	expired := make(chan struct{})
	c := NewController(source, func() { close(expired) }, WithTickerFactory(manualFactory(ticker)))

	ticks, unsubscribe := c.Subscribe()
	defer unsubscribe()

	c.Start(context.Background())
	require.True(t, c.Running())
	c.Start(context.Background())

	ticker.ch <- time.Now()
	first := <-ticks
	assert.Equal(t, Tick{Remaining: 1, Display: "00:01", Warning: true}, first)

	ticker.ch <- time.Now()
	select {
	case <-expired:
	case <-time.After(time.Second):
		t.Fatal("expiry callback was not invoked")
	}

	assert.Eventually(t, func() bool { return ticker.stopped.Load() && !c.Running() }, time.Second, 5*time.Millisecond)
}

func TestStop_TearsDownLoop(t *testing.T) {
	source := newFakeSource(100)
	ticker := &manualTicker{ch: make(chan time.Time)}
	c := NewController(source, nil, WithTickerFactory(manualFactory(ticker)))

	c.Start(context.Background())
	c.Stop()

	assert.False(t, c.Running())
	assert.Eventually(t, ticker.stopped.Load, time.Second, 5*time.Millisecond)
	remaining, _ := source.TimeRemaining()
	assert.Equal(t, 100, remaining)
}

// pausingSource parks the first read made while armed until release is
// closed.
type pausingSource struct {
	*fakeSource
	armed   atomic.Bool
	read    chan struct{}
	release chan struct{}
}

func (p *pausingSource) TimeRemaining() (int, bool) {
	remaining, ok := p.fakeSource.TimeRemaining()
	if p.armed.CompareAndSwap(true, false) {
		close(p.read)
		<-p.release
	}
	return remaining, ok
}

func TestStop_InFlightTickLeavesNextCountdownAlone(t *testing.T) {
	source := &pausingSource{
		fakeSource: newFakeSource(1),
		read:       make(chan struct{}),
		release:    make(chan struct{}),
	}
	first := &manualTicker{ch: make(chan time.Time)}
	second := &manualTicker{ch: make(chan time.Time)}
	tickers := []*manualTicker{first, second}
	factory := func(time.Duration) Ticker {
		next := tickers[0]
		tickers = tickers[1:]
		return next
	}

	var fired atomic.Int32
	c := NewController(source, func() { fired.Add(1) }, WithTickerFactory(factory))

	c.Start(context.Background())
	source.armed.Store(true)
	first.ch <- time.Now()
	<-source.read

	c.Stop()
	source.UpdateTimeRemaining(1800)
	c.Start(context.Background())
	require.True(t, c.Running())
	close(source.release)

	assert.Eventually(t, first.stopped.Load, time.Second, 5*time.Millisecond)
	remaining, _ := source.TimeRemaining()
	assert.Equal(t, 1800, remaining)
	assert.Equal(t, int32(0), fired.Load())
	assert.True(t, c.Running())

	second.ch <- time.Now()
	assert.Eventually(t, func() bool {
		remaining, _ := source.TimeRemaining()
		return remaining == 1799
	}, time.Second, 5*time.Millisecond)
	c.Stop()
}

func TestLoop_EndsWhenValueUnset(t *testing.T) {
	source := newFakeSource(100)
	ticker := &manualTicker{ch: make(chan time.Time)}
	c := NewController(source, nil, WithTickerFactory(manualFactory(ticker)))

	c.Start(context.Background())
	source.unset()
	ticker.ch <- time.Now()

	assert.Eventually(t, func() bool { return ticker.stopped.Load() && !c.Running() }, time.Second, 5*time.Millisecond)
}

func TestSubscribe_KeepsLatestTick(t *testing.T) {
	source := newFakeSource(10)
	c := NewController(source, nil)

	ticks, unsubscribe := c.Subscribe()
	c.Tick()
	c.Tick()

	latest := <-ticks
	assert.Equal(t, 8, latest.Remaining)

	unsubscribe()
	unsubscribe()
	_, open := <-ticks
	assert.False(t, open)
}
