// Package bridge derives battle events from an imperative combat engine.
//
// The bridge is a decorator composed around a CombatEngine at construction
// time: calling a bridge method runs the engine's own logic unchanged and
// additionally publishes the corresponding bus events, computed from the
// engine's return value or from the difference between pre- and post-call
// observable state. The engine's results are returned to the caller
// untouched, and nothing the visual layer does can propagate back into the
// engine's call stack.
package bridge

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/duskhollow/battle-ui-go/internal/battle/engine"
	"github.com/duskhollow/battle-ui-go/internal/battle/events"
)

// Bridge intercepts combat engine entry points and re-emits them as a typed
// event stream. It is the single authoritative event source: engine-internal
// notifications are ignored in favor of the deltas observed here.
type Bridge struct {
	engine   engine.CombatEngine
	attacker engine.AutoAttacker // nil when the engine lacks the capability
	bus      *events.Bus
	logger   *zap.Logger

	legacyWarn sync.Once

	mu       sync.Mutex
	battleID string
	turns    int
}

// New composes a bridge around the engine. A nil engine or bus is a
// programming error and fails loudly. Passing an engine that is already a
// bridge returns that bridge unchanged, so event publication can never be
// doubled by re-initialization.
func New(eng engine.CombatEngine, bus *events.Bus, logger *zap.Logger) (*Bridge, error) {
	if eng == nil {
		return nil, fmt.Errorf("bridge requires a combat engine")
	}
	if bus == nil {
		return nil, fmt.Errorf("bridge requires an event bus")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if existing, ok := eng.(*Bridge); ok {
		logger.Warn("bridge initialization requested for an already bridged engine; reusing existing bridge")
		return existing, nil
	}

	b := &Bridge{
		engine: eng,
		bus:    bus,
		logger: logger,
	}

	if attacker, ok := eng.(engine.AutoAttacker); ok {
		b.attacker = attacker
	} else {
		logger.Info("engine has no auto-attack entry point; skipping that interception")
	}

	return b, nil
}

// BattleID returns the identifier of the battle in progress, empty when
// none has been started through this bridge.
func (b *Bridge) BattleID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.battleID
}

// refFor builds an entity reference carrying every identifier the bridge
// knows for the character, so any resolver tier can match it.
func refFor(c *engine.Character) events.CharacterRef {
	if c == nil {
		return events.CharacterRef{}
	}
	return events.CharacterRef{
		Participant: c,
		Name:        c.Name,
		Team:        c.Team,
		ID:          c.ID,
		UniqueID:    c.UniqueID,
	}
}

func refPtr(c *engine.Character) *events.CharacterRef {
	if c == nil {
		return nil
	}
	ref := refFor(c)
	return &ref
}

func abilityInfo(a *engine.Ability) *events.AbilityInfo {
	if a == nil {
		return nil
	}
	return &events.AbilityInfo{ID: a.ID, Name: a.Name, Type: a.Type}
}

func snapshotTeam(team []*engine.Character) []events.CharacterSnapshot {
	out := make([]events.CharacterSnapshot, 0, len(team))
	for _, c := range team {
		out = append(out, events.CharacterSnapshot{
			Ref:           refFor(c),
			CurrentHealth: c.CurrentHP,
			MaxHealth:     c.MaxHP,
		})
	}
	return out
}

// StartBattle delegates to the engine and announces the rosters.
func (b *Bridge) StartBattle(player, enemy []*engine.Character) error {
	if err := b.engine.StartBattle(player, enemy); err != nil {
		return err
	}

	b.mu.Lock()
	b.battleID = uuid.NewString()
	b.turns = 0
	battleID := b.battleID
	b.mu.Unlock()

	b.bus.Publish(events.BattleStartedPayload{
		BattleID: battleID,
		Player:   snapshotTeam(player),
		Enemy:    snapshotTeam(enemy),
	})
	b.bus.Publish(events.BattleLogPayload{
		Message: fmt.Sprintf("Battle started: %d vs %d", len(player), len(enemy)),
		LogType: "info",
	})
	return nil
}

// EndBattle delegates to the engine and reports the outcome.
func (b *Bridge) EndBattle(winner string) error {
	if err := b.engine.EndBattle(winner); err != nil {
		return err
	}

	b.mu.Lock()
	turns := b.turns
	b.mu.Unlock()

	b.bus.Publish(events.BattleEndedPayload{Winner: winner, TurnCount: turns})
	return nil
}

// BeginTurn delegates to the engine and announces the turn.
func (b *Bridge) BeginTurn(turnNumber int, character *engine.Character) error {
	if err := b.engine.BeginTurn(turnNumber, character); err != nil {
		return err
	}

	b.mu.Lock()
	if turnNumber > b.turns {
		b.turns = turnNumber
	}
	b.mu.Unlock()

	b.bus.Publish(events.TurnStartedPayload{
		TurnNumber: turnNumber,
		Character:  refFor(character),
	})
	return nil
}

// EndTurn delegates to the engine and closes out the turn.
func (b *Bridge) EndTurn(turnNumber int) error {
	if err := b.engine.EndTurn(turnNumber); err != nil {
		return err
	}
	b.bus.Publish(events.TurnEndedPayload{TurnNumber: turnNumber})
	return nil
}

// ApplyActionEffect delegates the composite effect and derives events from
// the target's health delta. The engine's own granular notifications are
// not trusted for damage/heal amounts; only the observed pre/post
// difference decides what is published.
func (b *Bridge) ApplyActionEffect(effect *engine.ActionEffect, caster, target *engine.Character) (*engine.ActionResult, error) {
	var preHP int
	if target != nil {
		preHP = target.CurrentHP
	}

	result, err := b.engine.ApplyActionEffect(effect, caster, target)
	if err != nil {
		return result, err
	}

	if effect != nil && target != nil {
		b.bus.Publish(events.CharacterActionPayload{
			Character: refFor(caster),
			Action: events.ActionInfo{
				Type:   "effect",
				Name:   effect.Name,
				Target: refPtr(target),
			},
		})
		if effect.Ability != nil {
			b.bus.Publish(events.AbilityUsedPayload{
				Character: refFor(caster),
				Ability:   *abilityInfo(effect.Ability),
				Target:    refPtr(target),
			})
		}
	}

	if target != nil {
		var ability *engine.Ability
		if effect != nil {
			ability = effect.Ability
		}
		b.publishHealthDelta(target, caster, ability, preHP, target.CurrentHP)
	}

	if effect != nil && effect.StatusID != "" && result != nil && result.StatusApplied && target != nil {
		stacks := effect.Stacks
		if stacks < 1 {
			stacks = 1
		}
		b.bus.Publish(events.StatusAppliedPayload{
			Character: refFor(target),
			StatusID:  effect.StatusID,
			Duration:  effect.Duration,
			Stacks:    stacks,
			Source:    refPtr(caster),
		})
	}

	return result, nil
}

// publishHealthDelta emits a damaged or healed event when the observed
// health changed, plus defeat/revive follow-ups at the boundaries.
func (b *Bridge) publishHealthDelta(target, source *engine.Character, ability *engine.Ability, preHP, postHP int) {
	switch {
	case postHP < preHP:
		b.bus.Publish(events.DamagePayload{
			Character: refFor(target),
			Amount:    preHP - postHP,
			NewHealth: postHP,
			MaxHealth: target.MaxHP,
			Source:    refPtr(source),
			Ability:   abilityInfo(ability),
		})
		if postHP == 0 {
			b.bus.Publish(events.DefeatPayload{
				Character: refFor(target),
				Source:    refPtr(source),
			})
		}
	case postHP > preHP:
		b.bus.Publish(events.HealPayload{
			Character: refFor(target),
			Amount:    postHP - preHP,
			NewHealth: postHP,
			MaxHealth: target.MaxHP,
			Source:    refPtr(source),
			Ability:   abilityInfo(ability),
		})
		if preHP == 0 {
			b.bus.Publish(events.RevivePayload{
				Character: refFor(target),
				NewHealth: postHP,
			})
		}
	}
}

// ApplyDamage delegates and publishes a damaged event with the absolute
// post-damage health from the engine result.
func (b *Bridge) ApplyDamage(target *engine.Character, amount int, source *engine.Character, ability *engine.Ability) (*engine.DamageResult, error) {
	result, err := b.engine.ApplyDamage(target, amount, source, ability)
	if err != nil {
		return result, err
	}

	if result != nil && result.ActualDamage > 0 {
		b.bus.Publish(events.DamagePayload{
			Character: refFor(target),
			Amount:    result.ActualDamage,
			NewHealth: result.NewHealth,
			MaxHealth: result.MaxHealth,
			Source:    refPtr(source),
			Ability:   abilityInfo(ability),
		})
		if result.Killed {
			b.bus.Publish(events.DefeatPayload{
				Character: refFor(target),
				Source:    refPtr(source),
			})
		}
	}
	return result, nil
}

// ApplyHealing delegates and publishes a healed event with the absolute
// post-heal health from the engine result.
func (b *Bridge) ApplyHealing(target *engine.Character, amount int, source *engine.Character, ability *engine.Ability) (*engine.HealResult, error) {
	result, err := b.engine.ApplyHealing(target, amount, source, ability)
	if err != nil {
		return result, err
	}

	if result != nil && result.ActualHealing > 0 {
		b.bus.Publish(events.HealPayload{
			Character: refFor(target),
			Amount:    result.ActualHealing,
			NewHealth: result.NewHealth,
			MaxHealth: result.MaxHealth,
			Source:    refPtr(source),
			Ability:   abilityInfo(ability),
		})
		if result.Revived {
			b.bus.Publish(events.RevivePayload{
				Character: refFor(target),
				NewHealth: result.NewHealth,
			})
		}
	}
	return result, nil
}

// AddStatusEffect delegates a status application and publishes the applied
// event.
func (b *Bridge) AddStatusEffect(target *engine.Character, statusID string, source *engine.Character, duration, stacks int) (bool, error) {
	if stacks < 1 {
		stacks = 1
	}

	applied, err := b.engine.AddStatusEffect(target, statusID, source, duration, stacks)
	if err != nil || !applied {
		return applied, err
	}

	b.bus.Publish(events.StatusAppliedPayload{
		Character: refFor(target),
		StatusID:  statusID,
		Duration:  duration,
		Stacks:    stacks,
		Source:    refPtr(source),
	})
	return applied, nil
}

// AddStatusEffectArgs is the loosely-typed status entry point for callers
// that predate the canonical signature. The trailing arguments take two
// shapes:
//
//	canonical: (source *engine.Character, duration int[, stacks int])
//	legacy:    (duration int)
//
// The legacy positional form predates source attribution; it is upgraded
// in place with a one-time compatibility warning instead of failing.
func (b *Bridge) AddStatusEffectArgs(target *engine.Character, statusID string, args ...any) (bool, error) {
	source, duration, stacks, err := b.normalizeStatusArgs(statusID, args)
	if err != nil {
		return false, err
	}
	return b.AddStatusEffect(target, statusID, source, duration, stacks)
}

// normalizeStatusArgs upgrades the legacy call convention to the canonical
// (source, duration, stacks) triple.
func (b *Bridge) normalizeStatusArgs(statusID string, args []any) (*engine.Character, int, int, error) {
	switch len(args) {
	case 1:
		// Legacy shape: a bare numeric duration where the source is
		// expected now.
		duration, ok := args[0].(int)
		if !ok {
			return nil, 0, 0, fmt.Errorf("add status %s: single argument must be a duration, got %T", statusID, args[0])
		}
		b.legacyWarn.Do(func() {
			b.logger.Warn("legacy addStatusEffect call shape detected; upgrading to (source, duration, stacks)",
				zap.String("status_id", statusID),
			)
		})
		return nil, duration, 1, nil

	case 2, 3:
		var source *engine.Character
		switch v := args[0].(type) {
		case nil:
		case *engine.Character:
			source = v
		default:
			return nil, 0, 0, fmt.Errorf("add status %s: source must be a character or nil, got %T", statusID, args[0])
		}
		duration, ok := args[1].(int)
		if !ok {
			return nil, 0, 0, fmt.Errorf("add status %s: duration must be an int, got %T", statusID, args[1])
		}
		stacks := 1
		if len(args) == 3 {
			if stacks, ok = args[2].(int); !ok {
				return nil, 0, 0, fmt.Errorf("add status %s: stacks must be an int, got %T", statusID, args[2])
			}
		}
		if stacks < 1 {
			stacks = 1
		}
		return source, duration, stacks, nil

	default:
		return nil, 0, 0, fmt.Errorf("add status %s: expected (source, duration, stacks) or legacy (duration), got %d arguments", statusID, len(args))
	}
}

// RemoveStatusEffect delegates a status removal and publishes the removed
// event when the engine confirms something was dropped.
func (b *Bridge) RemoveStatusEffect(target *engine.Character, statusID string) (bool, error) {
	removed, err := b.engine.RemoveStatusEffect(target, statusID)
	if err != nil || !removed {
		return removed, err
	}

	b.bus.Publish(events.StatusRemovedPayload{
		Character: refFor(target),
		StatusID:  statusID,
	})
	return removed, nil
}

// SyncStatusEffects publishes the authoritative bulk snapshot of a
// character's current effect list. Used to resynchronize the visual layer
// after operations that touch many effects at once.
func (b *Bridge) SyncStatusEffects(target *engine.Character) {
	if target == nil {
		return
	}

	summaries := make([]events.EffectSummary, 0, len(target.Effects))
	for _, eff := range target.Effects {
		summaries = append(summaries, events.EffectSummary{
			StatusID: eff.StatusID,
			Duration: eff.Duration,
			Stacks:   eff.Stacks,
		})
	}

	b.bus.Publish(events.StatusChangedPayload{
		Character: refFor(target),
		Effects:   summaries,
	})
}

// PerformAutoAttack delegates an auto-attack resolution when the engine
// supports it, deriving action and damage events from the result.
func (b *Bridge) PerformAutoAttack(attacker, target *engine.Character) (*engine.AttackResult, error) {
	if b.attacker == nil {
		return nil, fmt.Errorf("engine does not support auto attacks")
	}

	result, err := b.attacker.PerformAutoAttack(attacker, target)
	if err != nil {
		return result, err
	}

	b.bus.Publish(events.CharacterActionPayload{
		Character: refFor(attacker),
		Action: events.ActionInfo{
			Type:   "auto_attack",
			Name:   "Attack",
			Target: refPtr(target),
		},
	})

	if result != nil && result.Damage != nil && result.Damage.ActualDamage > 0 {
		b.bus.Publish(events.DamagePayload{
			Character: refFor(target),
			Amount:    result.Damage.ActualDamage,
			NewHealth: result.Damage.NewHealth,
			MaxHealth: result.Damage.MaxHealth,
			Source:    refPtr(attacker),
		})
		if result.Damage.Killed {
			b.bus.Publish(events.DefeatPayload{
				Character: refFor(target),
				Source:    refPtr(attacker),
			})
		}
	}
	return result, nil
}
