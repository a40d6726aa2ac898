package engine

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ScriptedEngine is a deterministic CombatEngine implementation used by the
// demo host and tests. It applies damage, healing and status changes
// literally, with no randomness and no ability formulas.
type ScriptedEngine struct {
	logger *zap.Logger

	mu      sync.Mutex
	started bool
	ended   bool
	winner  string
	turn    int
	paused  bool
	speed   float64
	player  []*Character
	enemy   []*Character
}

// NewScriptedEngine creates a scripted engine.
func NewScriptedEngine(logger *zap.Logger) *ScriptedEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScriptedEngine{
		logger: logger,
		speed:  1.0,
	}
}

// StartBattle records the rosters and marks the battle active.
func (e *ScriptedEngine) StartBattle(player, enemy []*Character) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started && !e.ended {
		return fmt.Errorf("battle already in progress")
	}
	if len(player) == 0 || len(enemy) == 0 {
		return fmt.Errorf("both teams need at least one character")
	}

	e.started = true
	e.ended = false
	e.winner = ""
	e.turn = 0
	e.player = append([]*Character(nil), player...)
	e.enemy = append([]*Character(nil), enemy...)

	e.logger.Info("scripted engine started battle",
		zap.Int("player_count", len(player)),
		zap.Int("enemy_count", len(enemy)),
	)
	return nil
}

// EndBattle marks the battle finished with the given winner.
func (e *ScriptedEngine) EndBattle(winner string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return fmt.Errorf("no battle in progress")
	}
	e.ended = true
	e.winner = winner

	e.logger.Info("scripted engine ended battle", zap.String("winner", winner))
	return nil
}

// BeginTurn advances the turn counter.
func (e *ScriptedEngine) BeginTurn(turnNumber int, character *Character) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started || e.ended {
		return fmt.Errorf("no battle in progress")
	}
	e.turn = turnNumber

	name := ""
	if character != nil {
		name = character.Name
	}
	e.logger.Debug("scripted engine turn started",
		zap.Int("turn", turnNumber),
		zap.String("character", name),
	)
	return nil
}

// EndTurn completes the current turn.
func (e *ScriptedEngine) EndTurn(turnNumber int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started || e.ended {
		return fmt.Errorf("no battle in progress")
	}
	e.logger.Debug("scripted engine turn ended", zap.Int("turn", turnNumber))
	return nil
}

// ApplyActionEffect applies each component of the effect literally.
func (e *ScriptedEngine) ApplyActionEffect(effect *ActionEffect, caster, target *Character) (*ActionResult, error) {
	if effect == nil {
		return nil, fmt.Errorf("nil action effect")
	}
	if target == nil {
		return nil, fmt.Errorf("nil target")
	}

	result := &ActionResult{}
	if effect.Damage > 0 {
		dmg, err := e.ApplyDamage(target, effect.Damage, caster, effect.Ability)
		if err != nil {
			return nil, err
		}
		result.Damage = dmg
	}
	if effect.Healing > 0 {
		heal, err := e.ApplyHealing(target, effect.Healing, caster, effect.Ability)
		if err != nil {
			return nil, err
		}
		result.Heal = heal
	}
	if effect.StatusID != "" {
		applied, err := e.AddStatusEffect(target, effect.StatusID, caster, effect.Duration, effect.Stacks)
		if err != nil {
			return nil, err
		}
		result.StatusApplied = applied
	}
	return result, nil
}

// ApplyDamage subtracts health, clamped at zero.
func (e *ScriptedEngine) ApplyDamage(target *Character, amount int, source *Character, ability *Ability) (*DamageResult, error) {
	if target == nil {
		return nil, fmt.Errorf("nil target")
	}
	if amount < 0 {
		return nil, fmt.Errorf("negative damage %d", amount)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	actual := amount
	if actual > target.CurrentHP {
		actual = target.CurrentHP
	}
	target.CurrentHP -= actual

	return &DamageResult{
		ActualDamage: actual,
		NewHealth:    target.CurrentHP,
		MaxHealth:    target.MaxHP,
		Killed:       target.CurrentHP == 0 && actual > 0,
	}, nil
}

// ApplyHealing adds health, clamped at max.
func (e *ScriptedEngine) ApplyHealing(target *Character, amount int, source *Character, ability *Ability) (*HealResult, error) {
	if target == nil {
		return nil, fmt.Errorf("nil target")
	}
	if amount < 0 {
		return nil, fmt.Errorf("negative healing %d", amount)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	wasDown := target.CurrentHP == 0
	actual := amount
	if target.CurrentHP+actual > target.MaxHP {
		actual = target.MaxHP - target.CurrentHP
	}
	target.CurrentHP += actual

	return &HealResult{
		ActualHealing: actual,
		NewHealth:     target.CurrentHP,
		MaxHealth:     target.MaxHP,
		Revived:       wasDown && actual > 0,
	}, nil
}

// AddStatusEffect records the effect on the target, overwriting an existing
// instance with the same status id. Stacking math stays in the engine.
func (e *ScriptedEngine) AddStatusEffect(target *Character, statusID string, source *Character, duration, stacks int) (bool, error) {
	if target == nil {
		return false, fmt.Errorf("nil target")
	}
	if statusID == "" {
		return false, fmt.Errorf("empty status id")
	}
	if stacks < 1 {
		stacks = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	sourceID := ""
	if source != nil {
		sourceID = source.UniqueID
	}

	if existing := target.FindEffect(statusID); existing != nil {
		existing.Duration = duration
		existing.Stacks = stacks
		existing.SourceID = sourceID
		return true, nil
	}

	target.Effects = append(target.Effects, ActiveEffect{
		StatusID: statusID,
		Duration: duration,
		Stacks:   stacks,
		SourceID: sourceID,
	})
	return true, nil
}

// RemoveStatusEffect drops the effect from the target. Returns false when
// the effect was not present.
func (e *ScriptedEngine) RemoveStatusEffect(target *Character, statusID string) (bool, error) {
	if target == nil {
		return false, fmt.Errorf("nil target")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range target.Effects {
		if target.Effects[i].StatusID == statusID {
			target.Effects = append(target.Effects[:i], target.Effects[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// PerformAutoAttack resolves a fixed-strength basic attack.
func (e *ScriptedEngine) PerformAutoAttack(attacker, target *Character) (*AttackResult, error) {
	if attacker == nil || target == nil {
		return nil, fmt.Errorf("auto attack needs attacker and target")
	}
	if !attacker.Alive() {
		return nil, fmt.Errorf("%s cannot attack while defeated", attacker.Name)
	}

	// Scripted attacks always land for a tenth of the attacker's max HP,
	// minimum 1. Deterministic on purpose.
	amount := attacker.MaxHP / 10
	if amount < 1 {
		amount = 1
	}

	dmg, err := e.ApplyDamage(target, amount, attacker, nil)
	if err != nil {
		return nil, err
	}
	return &AttackResult{Target: target, Damage: dmg}, nil
}

// Pause suspends the scripted battle.
func (e *ScriptedEngine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = true
	e.logger.Info("scripted engine paused")
	return nil
}

// Resume continues a paused battle.
func (e *ScriptedEngine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = false
	e.logger.Info("scripted engine resumed")
	return nil
}

// SetSpeed adjusts the playback speed multiplier.
func (e *ScriptedEngine) SetSpeed(multiplier float64) error {
	if multiplier <= 0 {
		return fmt.Errorf("speed multiplier must be positive, got %v", multiplier)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.speed = multiplier
	e.logger.Info("scripted engine speed changed", zap.Float64("speed", multiplier))
	return nil
}

// Paused reports whether the engine is currently paused.
func (e *ScriptedEngine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Speed returns the current playback speed multiplier.
func (e *ScriptedEngine) Speed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}
