package contact

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// button is a minimal SubmitControl.
type button struct {
	mu      sync.Mutex
	label   string
	enabled bool
}

func (b *button) Enabled() bool     { b.mu.Lock(); defer b.mu.Unlock(); return b.enabled }
func (b *button) Label() string     { b.mu.Lock(); defer b.mu.Unlock(); return b.label }
func (b *button) SetEnabled(v bool) { b.mu.Lock(); b.enabled = v; b.mu.Unlock() }
func (b *button) SetLabel(s string) { b.mu.Lock(); b.label = s; b.mu.Unlock() }

func TestGate_AcquireTwiceThenRelease(t *testing.T) {
	g := NewGate(nil, "")

	require.True(t, g.TryAcquire())
	require.False(t, g.TryAcquire())
	assert.True(t, g.InFlight())

	g.Release()
	assert.False(t, g.InFlight())
	assert.True(t, g.TryAcquire())
}

func TestGate_ReleaseIsIdempotent(t *testing.T) {
	b := &button{label: "Send Message", enabled: true}
	g := NewGate(b, "")

	g.Release()
	assert.Equal(t, "Send Message", b.Label(), "release on idle gate must not touch the control")

	require.True(t, g.TryAcquire())
	g.Release()
	g.Release()
	assert.False(t, g.InFlight())
	assert.True(t, b.Enabled())
}

func TestGate_PresentsControl(t *testing.T) {
	b := &button{label: "Send Message", enabled: true}
	g := NewGate(b, "")

	require.True(t, g.TryAcquire())
	assert.Equal(t, DefaultBusyLabel, b.Label())
	assert.False(t, b.Enabled())

	g.Release()
	assert.Equal(t, "Send Message", b.Label())
	assert.True(t, b.Enabled())
}

func TestGate_RestoresPreAcquireValues(t *testing.T) {
	b := &button{label: "Go", enabled: false}
	g := NewGate(b, "Wait")

	require.True(t, g.TryAcquire())
	assert.Equal(t, "Wait", b.Label())

	g.Release()
	assert.Equal(t, "Go", b.Label())
	assert.False(t, b.Enabled())
}

func TestGate_ConcurrentAcquireHasOneWinner(t *testing.T) {
	g := NewGate(nil, "")
	var wins atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire() {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}
