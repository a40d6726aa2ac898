package view

import (
	"fmt"
	"time"

	"github.com/duskhollow/battle-ui-go/internal/battle/events"
)

const defaultLogCapacity = 100

// LogEntry is one rendered battle log line.
type LogEntry struct {
	Message string
	Type    string
	At      time.Time
}

// BattleLog renders events into a bounded textual log. It formats its own
// lines from event payloads and degrades to a generic message when payload
// fields are missing.
type BattleLog struct {
	capacity int
	entries  []LogEntry
}

// NewBattleLog creates a log keeping at most capacity lines.
func NewBattleLog(capacity int) *BattleLog {
	if capacity < 1 {
		capacity = defaultLogCapacity
	}
	return &BattleLog{capacity: capacity}
}

// Append adds a line, discarding the oldest once over capacity.
func (l *BattleLog) Append(message, logType string, at time.Time) {
	if message == "" {
		return
	}
	l.entries = append(l.entries, LogEntry{Message: message, Type: logType, At: at})
	if len(l.entries) > l.capacity {
		l.entries = l.entries[len(l.entries)-l.capacity:]
	}
}

// Entries returns a copy of the current log lines, oldest first.
func (l *BattleLog) Entries() []LogEntry {
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of retained lines.
func (l *BattleLog) Len() int {
	return len(l.entries)
}

// Clear drops every line.
func (l *BattleLog) Clear() {
	l.entries = nil
}

// HandleEvent formats and appends the line for one event. Unhandled kinds
// are ignored.
func (l *BattleLog) HandleEvent(event events.Event) {
	message, logType := formatLogLine(event)
	l.Append(message, logType, event.DispatchedAt)
}

// displayName falls back through the ref's identifiers so a line can always
// name its subject.
func displayName(ref events.CharacterRef) string {
	if ref.Name != "" {
		return ref.Name
	}
	if ref.UniqueID != "" {
		return ref.UniqueID
	}
	if ref.ID != 0 {
		return fmt.Sprintf("#%d", ref.ID)
	}
	return "Unknown"
}

func formatLogLine(event events.Event) (string, string) {
	switch p := event.Payload.(type) {
	case events.BattleStartedPayload:
		return "The battle begins!", "info"
	case events.BattleEndedPayload:
		switch p.Winner {
		case "player":
			return "Victory!", "success"
		case "enemy":
			return "Defeat...", "error"
		default:
			return "The battle ends in a draw.", "info"
		}
	case events.TurnStartedPayload:
		return fmt.Sprintf("Turn %d: %s acts.", p.TurnNumber, displayName(p.Character)), "info"
	case events.DamagePayload:
		line := fmt.Sprintf("%s takes %d damage (%d/%d HP).",
			displayName(p.Character), p.Amount, p.NewHealth, p.MaxHealth)
		if p.Source != nil {
			line = fmt.Sprintf("%s hits %s for %d (%d/%d HP).",
				displayName(*p.Source), displayName(p.Character), p.Amount, p.NewHealth, p.MaxHealth)
		}
		return line, "damage"
	case events.HealPayload:
		return fmt.Sprintf("%s recovers %d HP (%d/%d).",
			displayName(p.Character), p.Amount, p.NewHealth, p.MaxHealth), "heal"
	case events.DefeatPayload:
		return fmt.Sprintf("%s is defeated!", displayName(p.Character)), "error"
	case events.RevivePayload:
		return fmt.Sprintf("%s returns to the fight!", displayName(p.Character)), "success"
	case events.StatusAppliedPayload:
		return fmt.Sprintf("%s gains %s.", displayName(p.Character), statusName(p.StatusID, p.Definition)), "status"
	case events.StatusRemovedPayload:
		return fmt.Sprintf("%s loses %s.", displayName(p.Character), statusName(p.StatusID, nil)), "status"
	case events.AbilityUsedPayload:
		if p.Target != nil {
			return fmt.Sprintf("%s uses %s on %s.",
				displayName(p.Character), p.Ability.Name, displayName(*p.Target)), "action"
		}
		return fmt.Sprintf("%s uses %s.", displayName(p.Character), p.Ability.Name), "action"
	case events.PassiveTriggeredPayload:
		return fmt.Sprintf("%s's %s triggers.", displayName(p.Character), p.PassiveName), "action"
	case events.BattleLogPayload:
		return p.Message, p.LogType
	default:
		return "", ""
	}
}

func statusName(statusID string, def *events.StatusInfo) string {
	if def != nil && def.Name != "" {
		return def.Name
	}
	if statusID != "" {
		return statusID
	}
	return "an effect"
}
