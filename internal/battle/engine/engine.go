package engine

// Ability describes the ability behind a damage or heal application.
type Ability struct {
	ID   string
	Name string
	Type string
}

// ActionEffect is one composite effect of a declared action: a damage
// component, a heal component, a status component, or any mix.
type ActionEffect struct {
	Name     string
	Damage   int
	Healing  int
	StatusID string
	Duration int
	Stacks   int
	Ability  *Ability
}

// DamageResult is the engine-native outcome of a damage application.
type DamageResult struct {
	ActualDamage int
	NewHealth    int
	MaxHealth    int
	Killed       bool
}

// HealResult is the engine-native outcome of a healing application.
type HealResult struct {
	ActualHealing int
	NewHealth     int
	MaxHealth     int
	Revived       bool
}

// ActionResult is the engine-native outcome of a composite action effect.
type ActionResult struct {
	Damage *DamageResult
	Heal   *HealResult
	// StatusApplied is true when the action's status component landed.
	StatusApplied bool
}

// AttackResult is the engine-native outcome of an auto-attack resolution.
type AttackResult struct {
	Target *Character
	Damage *DamageResult
}

// CombatEngine is the imperative combat API the bridge intercepts. The
// presentation layer reads result fields but never writes engine state.
type CombatEngine interface {
	StartBattle(player, enemy []*Character) error
	EndBattle(winner string) error

	BeginTurn(turnNumber int, character *Character) error
	EndTurn(turnNumber int) error

	ApplyActionEffect(effect *ActionEffect, caster, target *Character) (*ActionResult, error)
	ApplyDamage(target *Character, amount int, source *Character, ability *Ability) (*DamageResult, error)
	ApplyHealing(target *Character, amount int, source *Character, ability *Ability) (*HealResult, error)

	AddStatusEffect(target *Character, statusID string, source *Character, duration, stacks int) (bool, error)
	RemoveStatusEffect(target *Character, statusID string) (bool, error)

	Pause() error
	Resume() error
	SetSpeed(multiplier float64) error
}

// AutoAttacker is an optional engine capability. Engines built without
// auto-attack resolution simply do not implement it; the bridge detects the
// absence at setup and skips that interception.
type AutoAttacker interface {
	PerformAutoAttack(attacker, target *Character) (*AttackResult, error)
}
