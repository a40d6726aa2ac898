package view

import (
	"time"

	"go.uber.org/zap"

	"github.com/duskhollow/battle-ui-go/internal/battle/engine"
	"github.com/duskhollow/battle-ui-go/internal/battle/status"
)

// Animation step durations. The underlying combat state has moved on by the
// time these play out; they are presentation only.
const (
	hitAnimDuration    = 300 * time.Millisecond
	healAnimDuration   = 300 * time.Millisecond
	defeatAnimDuration = 600 * time.Millisecond
	reviveAnimDuration = 600 * time.Millisecond
	fadeAnimDuration   = 200 * time.Millisecond
)

// CharacterNode is the visual representation of one participant. It owns
// its displayed health, status tracker, action text and highlight state,
// and is mutated exclusively by bus-event handlers.
type CharacterNode struct {
	logger *zap.Logger

	participant *engine.Character
	name        string
	id          int
	uniqueID    string
	team        string

	displayedHP int
	maxHP       int
	actionText  string
	highlighted bool
	defeated    bool

	tracker  *status.Tracker
	animator *Animator
}

// NewCharacterNode creates the node for one roster entry.
func NewCharacterNode(participant *engine.Character, currentHP, maxHP int, catalog *status.Catalog, maxStatusSlots int, logger *zap.Logger) *CharacterNode {
	if logger == nil {
		logger = zap.NewNop()
	}

	node := &CharacterNode{
		logger:      logger,
		participant: participant,
		displayedHP: currentHP,
		maxHP:       maxHP,
		animator:    NewAnimator(),
	}
	if participant != nil {
		node.name = participant.Name
		node.id = participant.ID
		node.uniqueID = participant.UniqueID
		node.team = participant.Team
	}
	node.tracker = status.NewTracker(node.name, catalog, maxStatusSlots, logger)
	return node
}

// Participant returns the tracked combat-side character.
func (n *CharacterNode) Participant() *engine.Character { return n.participant }

// Name returns the character's display name.
func (n *CharacterNode) Name() string { return n.name }

// ID returns the character's numeric id.
func (n *CharacterNode) ID() int { return n.id }

// UniqueID returns the character's unique id.
func (n *CharacterNode) UniqueID() string { return n.uniqueID }

// Team returns the character's team tag.
func (n *CharacterNode) Team() string { return n.team }

// Health returns the displayed current and max health.
func (n *CharacterNode) Health() (current, max int) {
	return n.displayedHP, n.maxHP
}

// SetHealth sets the displayed health to an absolute value. Duplicate
// delivery of the same event leaves the display unchanged because nothing
// accumulates.
func (n *CharacterNode) SetHealth(current, max int) {
	if current < 0 {
		current = 0
	}
	if max > 0 {
		n.maxHP = max
	}
	if current > n.maxHP {
		current = n.maxHP
	}
	n.displayedHP = current
}

// PlayHit queues the damage flash animation.
func (n *CharacterNode) PlayHit() {
	n.animator.Play(Animation{Name: "hit", Duration: hitAnimDuration})
}

// PlayHeal queues the heal glow animation.
func (n *CharacterNode) PlayHeal() {
	n.animator.Play(Animation{Name: "heal", Duration: healAnimDuration})
}

// MarkDefeated greys the node out and queues the defeat animation.
func (n *CharacterNode) MarkDefeated() {
	if n.defeated {
		return
	}
	n.defeated = true
	n.highlighted = false
	n.actionText = ""
	n.animator.Play(Animation{Name: "defeat", Duration: defeatAnimDuration})
}

// MarkRevived restores a defeated node.
func (n *CharacterNode) MarkRevived() {
	if !n.defeated {
		return
	}
	n.defeated = false
	n.animator.Play(Animation{Name: "revive", Duration: reviveAnimDuration})
}

// Defeated reports whether the node is displayed as defeated.
func (n *CharacterNode) Defeated() bool { return n.defeated }

// ShowAction sets the action indicator text above the node.
func (n *CharacterNode) ShowAction(text string) { n.actionText = text }

// ClearAction removes the action indicator text.
func (n *CharacterNode) ClearAction() { n.actionText = "" }

// ActionText returns the current action indicator text.
func (n *CharacterNode) ActionText() string { return n.actionText }

// SetHighlight toggles the active-turn highlight.
func (n *CharacterNode) SetHighlight(on bool) { n.highlighted = on }

// Highlighted reports whether the active-turn highlight is on.
func (n *CharacterNode) Highlighted() bool { return n.highlighted }

// Status returns the node's status effect tracker.
func (n *CharacterNode) Status() *status.Tracker { return n.tracker }

// FadeStatusIcon queues the brief fade transition that precedes a status
// icon disappearing. The tracker state is already updated by the time this
// plays.
func (n *CharacterNode) FadeStatusIcon(statusID string) {
	n.animator.Play(Animation{Name: "status_fade:" + statusID, Duration: fadeAnimDuration})
}

// Animator returns the node's animation queue.
func (n *CharacterNode) Animator() *Animator { return n.animator }

// Update advances the node's animations.
func (n *CharacterNode) Update(now time.Time) {
	n.animator.Update(now)
}

// Teardown stops animation state and clears tracked effects so no dangling
// update can land after the node is destroyed.
func (n *CharacterNode) Teardown() {
	n.animator.Stop()
	n.tracker.Clear()
	n.highlighted = false
	n.actionText = ""
}
