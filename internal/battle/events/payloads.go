package events

import "fmt"

// Payload is implemented by every event payload variant. Each event type has
// exactly one payload shape; Validate is consulted by the bus in strict mode.
type Payload interface {
	EventType() EventType
	Validate() error
}

// CharacterRef identifies one battle participant. Different producers
// populate different subsets of the fields; the resolver tolerates any
// combination that uniquely matches a roster node. ID 0 means "not set"
// (participant ids are assigned starting at 1).
type CharacterRef struct {
	// Participant is the direct object identity, when the producer holds
	// it. Never serialized; the named fields carry the wire identity.
	Participant any `json:"-"`
	Name        string
	Team        string // "player" or "enemy"; empty means unknown
	ID          int
	UniqueID    string
}

// IsZero reports whether the reference carries no identifying data at all.
func (r CharacterRef) IsZero() bool {
	return r.Participant == nil && r.Name == "" && r.ID == 0 && r.UniqueID == ""
}

// CharacterSnapshot captures a participant's post-state at battle start.
type CharacterSnapshot struct {
	Ref           CharacterRef
	CurrentHealth int
	MaxHealth     int
}

// AbilityInfo describes the ability behind a damage/heal/action event.
type AbilityInfo struct {
	ID   string
	Name string
	Type string
}

// ActionInfo describes a declared character action.
type ActionInfo struct {
	Type   string
	Name   string
	Target *CharacterRef
}

// StatusInfo is the display snapshot of a status effect definition carried
// inside status events. It is intentionally minimal: name, description and
// type are all the visual layer needs.
type StatusInfo struct {
	ID          string
	Name        string
	Description string
	Type        string
}

// EffectSummary is one entry of a bulk status resync.
type EffectSummary struct {
	StatusID   string
	Duration   int
	Stacks     int
	Definition *StatusInfo
}

// BattleStartedPayload announces a new battle and its initial rosters.
type BattleStartedPayload struct {
	BattleID string
	Player   []CharacterSnapshot
	Enemy    []CharacterSnapshot
}

func (BattleStartedPayload) EventType() EventType { return EventBattleStarted }

func (p BattleStartedPayload) Validate() error {
	if len(p.Player) == 0 && len(p.Enemy) == 0 {
		return fmt.Errorf("battle started with empty rosters")
	}
	return nil
}

// BattleEndedPayload reports the final outcome.
type BattleEndedPayload struct {
	Winner    string // "player", "enemy" or "draw"
	TurnCount int
}

func (BattleEndedPayload) EventType() EventType { return EventBattleEnded }

func (p BattleEndedPayload) Validate() error {
	switch p.Winner {
	case "player", "enemy", "draw":
		return nil
	}
	return fmt.Errorf("invalid winner %q", p.Winner)
}

// TurnStartedPayload marks the start of a character's turn.
type TurnStartedPayload struct {
	TurnNumber int
	Character  CharacterRef
}

func (TurnStartedPayload) EventType() EventType { return EventTurnStarted }

func (p TurnStartedPayload) Validate() error {
	if p.TurnNumber < 1 {
		return fmt.Errorf("turn number %d out of range", p.TurnNumber)
	}
	return nil
}

// TurnEndedPayload marks the end of a turn.
type TurnEndedPayload struct {
	TurnNumber int
}

func (TurnEndedPayload) EventType() EventType { return EventTurnEnded }

func (p TurnEndedPayload) Validate() error {
	if p.TurnNumber < 1 {
		return fmt.Errorf("turn number %d out of range", p.TurnNumber)
	}
	return nil
}

// CharacterActionPayload announces the action a character is about to take.
type CharacterActionPayload struct {
	Character CharacterRef
	Action    ActionInfo
}

func (CharacterActionPayload) EventType() EventType { return EventCharacterAction }

func (p CharacterActionPayload) Validate() error {
	if p.Character.IsZero() {
		return fmt.Errorf("character action without character reference")
	}
	if p.Action.Type == "" {
		return fmt.Errorf("character action without action type")
	}
	return nil
}

// DamagePayload reports damage taken, with the absolute post-damage health
// so duplicate delivery cannot double-subtract.
type DamagePayload struct {
	Character CharacterRef
	Amount    int
	NewHealth int
	MaxHealth int
	Source    *CharacterRef
	Ability   *AbilityInfo
}

func (DamagePayload) EventType() EventType { return EventCharacterDamaged }

func (p DamagePayload) Validate() error {
	if p.Character.IsZero() {
		return fmt.Errorf("damage event without character reference")
	}
	if p.Amount < 0 {
		return fmt.Errorf("negative damage amount %d", p.Amount)
	}
	if p.NewHealth < 0 {
		return fmt.Errorf("negative new health %d", p.NewHealth)
	}
	return nil
}

// HealPayload reports healing received, with the absolute post-heal health.
type HealPayload struct {
	Character CharacterRef
	Amount    int
	NewHealth int
	MaxHealth int
	Source    *CharacterRef
	Ability   *AbilityInfo
}

func (HealPayload) EventType() EventType { return EventCharacterHealed }

func (p HealPayload) Validate() error {
	if p.Character.IsZero() {
		return fmt.Errorf("heal event without character reference")
	}
	if p.Amount < 0 {
		return fmt.Errorf("negative heal amount %d", p.Amount)
	}
	return nil
}

// DefeatPayload reports a character reaching zero health.
type DefeatPayload struct {
	Character CharacterRef
	Source    *CharacterRef
}

func (DefeatPayload) EventType() EventType { return EventCharacterDefeated }

func (p DefeatPayload) Validate() error {
	if p.Character.IsZero() {
		return fmt.Errorf("defeat event without character reference")
	}
	return nil
}

// RevivePayload reports a defeated character returning to the battle.
type RevivePayload struct {
	Character CharacterRef
	NewHealth int
}

func (RevivePayload) EventType() EventType { return EventCharacterRevived }

func (p RevivePayload) Validate() error {
	if p.Character.IsZero() {
		return fmt.Errorf("revive event without character reference")
	}
	return nil
}

// StatusAppliedPayload reports a status effect landing on a character.
// Duration 0 means "no duration badge", not expiry.
type StatusAppliedPayload struct {
	Character  CharacterRef
	StatusID   string
	Duration   int
	Stacks     int
	Source     *CharacterRef
	Definition *StatusInfo
}

func (StatusAppliedPayload) EventType() EventType { return EventStatusEffectApplied }

func (p StatusAppliedPayload) Validate() error {
	if p.Character.IsZero() {
		return fmt.Errorf("status applied without character reference")
	}
	if p.StatusID == "" {
		return fmt.Errorf("status applied without status id")
	}
	if p.Stacks < 1 {
		return fmt.Errorf("status applied with stacks %d", p.Stacks)
	}
	if p.Duration < 0 {
		return fmt.Errorf("status applied with negative duration %d", p.Duration)
	}
	return nil
}

// StatusUpdatedPayload partially updates an active status effect. Nil fields
// are left unchanged on the tracked instance.
type StatusUpdatedPayload struct {
	Character  CharacterRef
	StatusID   string
	Duration   *int
	Stacks     *int
	Definition *StatusInfo
}

func (StatusUpdatedPayload) EventType() EventType { return EventStatusEffectUpdated }

func (p StatusUpdatedPayload) Validate() error {
	if p.Character.IsZero() {
		return fmt.Errorf("status updated without character reference")
	}
	if p.StatusID == "" {
		return fmt.Errorf("status updated without status id")
	}
	if p.Stacks != nil && *p.Stacks < 1 {
		return fmt.Errorf("status updated with stacks %d", *p.Stacks)
	}
	if p.Duration != nil && *p.Duration < 0 {
		return fmt.Errorf("status updated with negative duration %d", *p.Duration)
	}
	return nil
}

// StatusRemovedPayload reports a status effect expiring or being dispelled.
type StatusRemovedPayload struct {
	Character CharacterRef
	StatusID  string
}

func (StatusRemovedPayload) EventType() EventType { return EventStatusEffectRemoved }

func (p StatusRemovedPayload) Validate() error {
	if p.Character.IsZero() {
		return fmt.Errorf("status removed without character reference")
	}
	if p.StatusID == "" {
		return fmt.Errorf("status removed without status id")
	}
	return nil
}

// StatusChangedPayload is the authoritative bulk replacement of a
// character's entire effect list.
type StatusChangedPayload struct {
	Character CharacterRef
	Effects   []EffectSummary
}

func (StatusChangedPayload) EventType() EventType { return EventStatusEffectsChanged }

func (p StatusChangedPayload) Validate() error {
	if p.Character.IsZero() {
		return fmt.Errorf("status bulk change without character reference")
	}
	for _, e := range p.Effects {
		if e.StatusID == "" {
			return fmt.Errorf("status bulk change with empty status id")
		}
	}
	return nil
}

// AbilityUsedPayload reports an ability activation.
type AbilityUsedPayload struct {
	Character CharacterRef
	Ability   AbilityInfo
	Target    *CharacterRef
}

func (AbilityUsedPayload) EventType() EventType { return EventAbilityUsed }

func (p AbilityUsedPayload) Validate() error {
	if p.Character.IsZero() {
		return fmt.Errorf("ability used without character reference")
	}
	if p.Ability.Name == "" {
		return fmt.Errorf("ability used without ability name")
	}
	return nil
}

// PassiveTriggeredPayload reports a passive ability firing.
type PassiveTriggeredPayload struct {
	Character   CharacterRef
	PassiveName string
	Description string
}

func (PassiveTriggeredPayload) EventType() EventType { return EventPassiveTriggered }

func (p PassiveTriggeredPayload) Validate() error {
	if p.Character.IsZero() {
		return fmt.Errorf("passive triggered without character reference")
	}
	if p.PassiveName == "" {
		return fmt.Errorf("passive triggered without passive name")
	}
	return nil
}

// UIInteractionPayload records a host UI control action for observability.
type UIInteractionPayload struct {
	Control string
	Detail  string
}

func (UIInteractionPayload) EventType() EventType { return EventUIInteraction }

func (p UIInteractionPayload) Validate() error {
	if p.Control == "" {
		return fmt.Errorf("ui interaction without control name")
	}
	return nil
}

// BattleLogPayload carries a human-readable log line.
type BattleLogPayload struct {
	Message string
	LogType string
}

func (BattleLogPayload) EventType() EventType { return EventBattleLog }

func (p BattleLogPayload) Validate() error {
	if p.Message == "" {
		return fmt.Errorf("battle log without message")
	}
	return nil
}
