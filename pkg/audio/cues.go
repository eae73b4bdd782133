// Package audio plays short tones when the rope tail is grabbed and
// released. Audio is optional: when it is disabled or no output device is
// available every call is a silent no-op.
package audio

import (
	"context"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/opd-ai/go-rope/pkg/config"
	"github.com/opd-ai/go-rope/pkg/event"
	"github.com/opd-ai/go-rope/pkg/logging"
)

// bufferDuration is the speaker buffer length
const bufferDuration = 100 * time.Millisecond

// Cues turns grab events into tones mixed onto the speaker
type Cues struct {
	mu          sync.Mutex
	cfg         config.AudioConfig
	rate        beep.SampleRate
	mixer       *beep.Mixer
	enabled     bool
	initialized bool
	played      int

	subscriptions []*event.Subscription
	logger        *logging.Logger
}

// NewCues creates cues from cfg. Nothing is played until Initialize opens
// the speaker.
func NewCues(cfg config.AudioConfig, logger *logging.Logger) *Cues {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Cues{
		cfg:     cfg,
		rate:    beep.SampleRate(cfg.SampleRate),
		mixer:   &beep.Mixer{},
		enabled: cfg.Enabled,
		logger:  logger,
	}
}

// Initialize opens the speaker and starts the mixer. A device error is
// logged and disables the cues instead of failing the caller.
func (c *Cues) Initialize(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled || c.initialized {
		return
	}

	if err := speaker.Init(c.rate, c.rate.N(bufferDuration)); err != nil {
		c.logger.Warn(ctx, "audio unavailable, cues disabled", "error", err.Error())
		c.enabled = false
		return
	}

	speaker.Play(c.mixer)
	c.initialized = true
	c.logger.Info(ctx, "audio initialized", "sample_rate", int(c.rate))
}

// Attach subscribes the cues to grab events on bus
func (c *Cues) Attach(bus *event.Bus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.subscriptions = append(c.subscriptions,
		bus.Subscribe(event.GrabStarted, func(event.Event) { c.Play(event.GrabStarted) }),
		bus.Subscribe(event.GrabEnded, func(event.Event) { c.Play(event.GrabEnded) }),
	)
}

// Play mixes in the tone for eventType. Types without a tone are ignored.
func (c *Cues) Play(eventType event.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		return
	}
	freq, ok := c.frequency(eventType)
	if !ok {
		return
	}

	tone := Tone(freq, time.Duration(c.cfg.CueMillis)*time.Millisecond, c.cfg.Volume, c.rate)
	if c.initialized {
		speaker.Lock()
		c.mixer.Add(tone)
		speaker.Unlock()
	} else {
		c.mixer.Add(tone)
	}
	c.played++
}

// Played returns the number of tones mixed in so far
func (c *Cues) Played() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.played
}

// Enabled reports whether cues will be played
func (c *Cues) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Close unsubscribes from the bus and stops anything still playing
func (c *Cues) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, sub := range c.subscriptions {
		sub.Cancel()
	}
	c.subscriptions = nil

	if c.initialized {
		speaker.Clear()
		c.initialized = false
	}
	c.mixer.Clear()
}

func (c *Cues) frequency(eventType event.Type) (float64, bool) {
	switch eventType {
	case event.GrabStarted:
		return c.cfg.GrabFrequency, true
	case event.GrabEnded:
		return c.cfg.ReleaseFrequency, true
	default:
		return 0, false
	}
}
