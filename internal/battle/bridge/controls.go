package bridge

import (
	"fmt"

	"github.com/duskhollow/battle-ui-go/internal/battle/events"
)

// Host UI control entry points. Each forwards to the engine and publishes a
// UI interaction event so the control action shows up in the event stream
// alongside the combat it affects.

// Pause suspends battle playback.
func (b *Bridge) Pause() error {
	if err := b.engine.Pause(); err != nil {
		return err
	}
	b.bus.Publish(events.UIInteractionPayload{Control: "pause"})
	return nil
}

// Resume continues a paused battle.
func (b *Bridge) Resume() error {
	if err := b.engine.Resume(); err != nil {
		return err
	}
	b.bus.Publish(events.UIInteractionPayload{Control: "resume"})
	return nil
}

// SetSpeed changes the playback speed multiplier.
func (b *Bridge) SetSpeed(multiplier float64) error {
	if err := b.engine.SetSpeed(multiplier); err != nil {
		return err
	}
	b.bus.Publish(events.UIInteractionPayload{
		Control: "speed",
		Detail:  fmt.Sprintf("%.2gx", multiplier),
	})
	return nil
}
