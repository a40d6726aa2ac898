package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType indicates the category of a battle event.
type EventType string

const (
	// Battle lifecycle events
	EventBattleStarted EventType = "BATTLE_STARTED"
	EventBattleEnded   EventType = "BATTLE_ENDED"

	// Turn lifecycle events
	EventTurnStarted EventType = "TURN_STARTED"
	EventTurnEnded   EventType = "TURN_ENDED"

	// Character events
	EventCharacterAction   EventType = "CHARACTER_ACTION"
	EventCharacterDamaged  EventType = "CHARACTER_DAMAGED"
	EventCharacterHealed   EventType = "CHARACTER_HEALED"
	EventCharacterDefeated EventType = "CHARACTER_DEFEATED"
	EventCharacterRevived  EventType = "CHARACTER_REVIVED"

	// Status effect events
	EventStatusEffectApplied  EventType = "STATUS_EFFECT_APPLIED"
	EventStatusEffectRemoved  EventType = "STATUS_EFFECT_REMOVED"
	EventStatusEffectUpdated  EventType = "STATUS_EFFECT_UPDATED"
	EventStatusEffectsChanged EventType = "STATUS_EFFECTS_CHANGED"

	// Ability events
	EventAbilityUsed      EventType = "ABILITY_USED"
	EventPassiveTriggered EventType = "PASSIVE_TRIGGERED"

	// UI events
	EventUIInteraction EventType = "UI_INTERACTION"
	EventBattleLog     EventType = "BATTLE_LOG"
)

// knownTypes is the closed vocabulary the bus expects. Subscribing to a type
// outside this set is tolerated but logged as unexpected.
var knownTypes = map[EventType]bool{
	EventBattleStarted:        true,
	EventBattleEnded:          true,
	EventTurnStarted:          true,
	EventTurnEnded:            true,
	EventCharacterAction:      true,
	EventCharacterDamaged:     true,
	EventCharacterHealed:      true,
	EventCharacterDefeated:    true,
	EventCharacterRevived:     true,
	EventStatusEffectApplied:  true,
	EventStatusEffectRemoved:  true,
	EventStatusEffectUpdated:  true,
	EventStatusEffectsChanged: true,
	EventAbilityUsed:          true,
	EventPassiveTriggered:     true,
	EventUIInteraction:        true,
	EventBattleLog:            true,
}

// IsKnown reports whether the event type belongs to the fixed vocabulary.
func (et EventType) IsKnown() bool {
	return knownTypes[et]
}

// AllTypes returns the full event vocabulary in a stable order.
func AllTypes() []EventType {
	return []EventType{
		EventBattleStarted,
		EventBattleEnded,
		EventTurnStarted,
		EventTurnEnded,
		EventCharacterAction,
		EventCharacterDamaged,
		EventCharacterHealed,
		EventCharacterDefeated,
		EventCharacterRevived,
		EventStatusEffectApplied,
		EventStatusEffectRemoved,
		EventStatusEffectUpdated,
		EventStatusEffectsChanged,
		EventAbilityUsed,
		EventPassiveTriggered,
		EventUIInteraction,
		EventBattleLog,
	}
}

// Event represents a single battle occurrence delivered to subscribers.
// Events are immutable once published; subscribers must treat the payload
// as read-only.
type Event struct {
	Type         EventType
	ID           string
	Payload      Payload
	DispatchedAt time.Time
}

// Listener defines a callback that reacts to events of one type.
type Listener func(Event)

// NewEvent stamps a payload into a dispatchable event. The type is taken
// from the payload itself so the two can never disagree.
func NewEvent(payload Payload) Event {
	return Event{
		Type:         payload.EventType(),
		ID:           uuid.NewString(),
		Payload:      payload,
		DispatchedAt: time.Now(),
	}
}
