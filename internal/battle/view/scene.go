package view

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/duskhollow/battle-ui-go/internal/battle/events"
	"github.com/duskhollow/battle-ui-go/internal/battle/status"
)

// Scene is the battle screen: it owns the roster, battle log, turn
// indicator and control panel, subscribes them to the bus, and tears
// everything down when the player leaves. Subscribers only ever talk to
// each other through the bus; none of them calls back into the combat
// engine from inside a handler.
type Scene struct {
	logger *zap.Logger
	bus    *events.Bus

	catalog        *status.Catalog
	maxStatusSlots int

	roster    *Roster
	log       *BattleLog
	indicator *TurnIndicator
	panel     *ControlPanel

	handles    []int
	battleOver bool
}

// SceneConfig carries the scene's display knobs.
type SceneConfig struct {
	MaxStatusSlots int
	LogCapacity    int
}

// NewScene builds the battle screen. controls may be nil for a
// spectate-only scene.
func NewScene(bus *events.Bus, controls BattleControls, catalog *status.Catalog, cfg SceneConfig, logger *zap.Logger) *Scene {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scene{
		logger:         logger,
		bus:            bus,
		catalog:        catalog,
		maxStatusSlots: cfg.MaxStatusSlots,
		roster:         NewRoster(logger),
		log:            NewBattleLog(cfg.LogCapacity),
		indicator:      NewTurnIndicator(),
		panel:          NewControlPanel(controls, logger),
	}
}

// Roster returns the team rosters.
func (s *Scene) Roster() *Roster { return s.roster }

// Log returns the battle log.
func (s *Scene) Log() *BattleLog { return s.log }

// Indicator returns the turn indicator.
func (s *Scene) Indicator() *TurnIndicator { return s.indicator }

// Panel returns the control panel.
func (s *Scene) Panel() *ControlPanel { return s.panel }

// BattleOver reports whether a battle-ended event has been seen.
func (s *Scene) BattleOver() bool { return s.battleOver }

// Start registers every subscriber. Call once per scene.
func (s *Scene) Start() {
	sub := func(kind events.EventType, h events.Listener) {
		s.handles = append(s.handles, s.bus.Subscribe(kind, h))
	}

	sub(events.EventBattleStarted, s.onBattleStarted)
	sub(events.EventBattleEnded, s.onBattleEnded)
	sub(events.EventTurnStarted, s.onTurnStarted)
	sub(events.EventTurnEnded, s.onTurnEnded)
	sub(events.EventCharacterAction, s.onCharacterAction)
	sub(events.EventCharacterDamaged, s.onDamaged)
	sub(events.EventCharacterHealed, s.onHealed)
	sub(events.EventCharacterDefeated, s.onDefeated)
	sub(events.EventCharacterRevived, s.onRevived)
	sub(events.EventStatusEffectApplied, s.onStatusApplied)
	sub(events.EventStatusEffectUpdated, s.onStatusUpdated)
	sub(events.EventStatusEffectRemoved, s.onStatusRemoved)
	sub(events.EventStatusEffectsChanged, s.onStatusChanged)
	sub(events.EventUIInteraction, s.onUIInteraction)

	// The log renders its own lines for every kind it knows.
	for _, kind := range []events.EventType{
		events.EventBattleStarted,
		events.EventBattleEnded,
		events.EventTurnStarted,
		events.EventCharacterDamaged,
		events.EventCharacterHealed,
		events.EventCharacterDefeated,
		events.EventCharacterRevived,
		events.EventStatusEffectApplied,
		events.EventStatusEffectRemoved,
		events.EventAbilityUsed,
		events.EventPassiveTriggered,
		events.EventBattleLog,
	} {
		sub(kind, s.log.HandleEvent)
	}
}

// Update advances every node's animations. Driven by the host tick loop.
func (s *Scene) Update(now time.Time) {
	s.roster.Each(func(n *CharacterNode) { n.Update(now) })
}

// Teardown clears the scene when returning to a non-battle screen: every
// animator is stopped, the rosters are destroyed, and the bus's listener
// lists are cleared so nothing dangles into destroyed nodes. Safe to call
// when no battle is active.
func (s *Scene) Teardown() {
	s.indicator.Clear()
	s.roster.Clear()
	s.log.Clear()
	s.panel.Reset()
	s.handles = nil
	s.battleOver = false
	s.bus.ResetAll()
}

// resolveNode looks up the node for a reference, logging a warning on a
// miss. A miss aborts only the caller's own update.
func (s *Scene) resolveNode(ref events.CharacterRef, kind events.EventType) *CharacterNode {
	node := s.roster.Resolve(ref)
	if node == nil {
		s.logger.Warn("could not resolve character for event",
			zap.String("event_type", string(kind)),
			zap.String("name", ref.Name),
			zap.String("team", ref.Team),
			zap.Int("id", ref.ID),
		)
	}
	return node
}

func (s *Scene) onBattleStarted(event events.Event) {
	payload, ok := event.Payload.(events.BattleStartedPayload)
	if !ok {
		s.logger.Warn("malformed battle started payload")
		return
	}
	s.battleOver = false
	s.indicator.Clear()
	s.roster.Populate(payload.Player, payload.Enemy, s.catalog, s.maxStatusSlots)
	s.panel.OnBattleStarted()
}

func (s *Scene) onBattleEnded(event events.Event) {
	if _, ok := event.Payload.(events.BattleEndedPayload); !ok {
		s.logger.Warn("malformed battle ended payload")
		return
	}
	// Late gameplay events after this point still resolve and apply; they
	// are no-ops because the engine stops changing state, not because the
	// scene filters them.
	s.battleOver = true
	s.indicator.Clear()
	s.panel.OnBattleEnded()
}

func (s *Scene) onTurnStarted(event events.Event) {
	payload, ok := event.Payload.(events.TurnStartedPayload)
	if !ok {
		s.logger.Warn("malformed turn started payload")
		return
	}
	node := s.resolveNode(payload.Character, event.Type)
	s.indicator.OnTurnStarted(payload.TurnNumber, node)
}

func (s *Scene) onTurnEnded(event events.Event) {
	s.indicator.OnTurnEnded()
}

func (s *Scene) onCharacterAction(event events.Event) {
	payload, ok := event.Payload.(events.CharacterActionPayload)
	if !ok {
		s.logger.Warn("malformed character action payload")
		return
	}
	node := s.resolveNode(payload.Character, event.Type)
	if node == nil {
		return
	}
	text := payload.Action.Name
	if text == "" {
		text = payload.Action.Type
	}
	s.indicator.OnAction(node, text)
}

func (s *Scene) onDamaged(event events.Event) {
	payload, ok := event.Payload.(events.DamagePayload)
	if !ok {
		s.logger.Warn("malformed damage payload")
		return
	}
	node := s.resolveNode(payload.Character, event.Type)
	if node == nil {
		return
	}
	// Absolute health from the payload: duplicate delivery cannot
	// double-subtract.
	node.SetHealth(payload.NewHealth, payload.MaxHealth)
	node.PlayHit()
}

func (s *Scene) onHealed(event events.Event) {
	payload, ok := event.Payload.(events.HealPayload)
	if !ok {
		s.logger.Warn("malformed heal payload")
		return
	}
	node := s.resolveNode(payload.Character, event.Type)
	if node == nil {
		return
	}
	node.SetHealth(payload.NewHealth, payload.MaxHealth)
	node.PlayHeal()
}

func (s *Scene) onDefeated(event events.Event) {
	payload, ok := event.Payload.(events.DefeatPayload)
	if !ok {
		s.logger.Warn("malformed defeat payload")
		return
	}
	if node := s.resolveNode(payload.Character, event.Type); node != nil {
		node.MarkDefeated()
	}
}

func (s *Scene) onRevived(event events.Event) {
	payload, ok := event.Payload.(events.RevivePayload)
	if !ok {
		s.logger.Warn("malformed revive payload")
		return
	}
	if node := s.resolveNode(payload.Character, event.Type); node != nil {
		node.MarkRevived()
		node.SetHealth(payload.NewHealth, 0)
	}
}

func (s *Scene) onStatusApplied(event events.Event) {
	payload, ok := event.Payload.(events.StatusAppliedPayload)
	if !ok {
		s.logger.Warn("malformed status applied payload")
		return
	}
	if node := s.resolveNode(payload.Character, event.Type); node != nil {
		node.Status().Apply(payload.StatusID, payload.Duration, payload.Stacks, payload.Definition)
	}
}

func (s *Scene) onStatusUpdated(event events.Event) {
	payload, ok := event.Payload.(events.StatusUpdatedPayload)
	if !ok {
		s.logger.Warn("malformed status updated payload")
		return
	}
	if node := s.resolveNode(payload.Character, event.Type); node != nil {
		node.Status().Update(payload.StatusID, payload.Duration, payload.Stacks, payload.Definition)
	}
}

func (s *Scene) onStatusRemoved(event events.Event) {
	payload, ok := event.Payload.(events.StatusRemovedPayload)
	if !ok {
		s.logger.Warn("malformed status removed payload")
		return
	}
	if node := s.resolveNode(payload.Character, event.Type); node != nil {
		if node.Status().Remove(payload.StatusID) {
			node.FadeStatusIcon(payload.StatusID)
		}
	}
}

func (s *Scene) onStatusChanged(event events.Event) {
	payload, ok := event.Payload.(events.StatusChangedPayload)
	if !ok {
		s.logger.Warn("malformed status bulk change payload")
		return
	}
	if node := s.resolveNode(payload.Character, event.Type); node != nil {
		node.Status().ReplaceAll(payload.Effects)
	}
}

func (s *Scene) onUIInteraction(event events.Event) {
	payload, ok := event.Payload.(events.UIInteractionPayload)
	if !ok {
		s.logger.Warn("malformed ui interaction payload")
		return
	}
	switch payload.Control {
	case "pause":
		s.panel.OnPaused()
	case "resume":
		s.panel.OnResumed()
	case "speed":
		if multiplier, err := strconv.ParseFloat(strings.TrimSuffix(payload.Detail, "x"), 64); err == nil {
			s.panel.OnSpeedChanged(multiplier)
		}
	}
}
