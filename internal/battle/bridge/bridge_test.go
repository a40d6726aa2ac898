package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/duskhollow/battle-ui-go/internal/battle/engine"
	"github.com/duskhollow/battle-ui-go/internal/battle/events"
)

// collect gathers every published event of the given kinds in order.
func collect(bus *events.Bus, kinds ...events.EventType) *[]events.Event {
	var seen []events.Event
	for _, kind := range kinds {
		bus.Subscribe(kind, func(e events.Event) { seen = append(seen, e) })
	}
	return &seen
}

func newTestBridge(t *testing.T) (*Bridge, *events.Bus, *engine.ScriptedEngine) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	bus := events.NewBus(logger)
	bus.SetStrict(true)
	eng := engine.NewScriptedEngine(logger)
	br, err := New(eng, bus, logger)
	require.NoError(t, err)
	return br, bus, eng
}

func startDuel(t *testing.T, br *Bridge) (player, enemy *engine.Character) {
	t.Helper()
	player = engine.NewCharacter(1, "Lumina", engine.TeamPlayer, 85)
	enemy = engine.NewCharacter(2, "Vaelgor", engine.TeamEnemy, 90)
	require.NoError(t, br.StartBattle(
		[]*engine.Character{player},
		[]*engine.Character{enemy},
	))
	return player, enemy
}

func TestNewBridgeRequiresCollaborators(t *testing.T) {
	logger := zaptest.NewLogger(t)
	bus := events.NewBus(logger)

	_, err := New(nil, bus, logger)
	assert.Error(t, err)

	_, err = New(engine.NewScriptedEngine(logger), nil, logger)
	assert.Error(t, err)
}

func TestBridgeRewrapReturnsExistingBridge(t *testing.T) {
	br, bus, _ := newTestBridge(t)

	rewrapped, err := New(br, bus, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Same(t, br, rewrapped)
}

func TestBridgeRewrapDoesNotDoublePublish(t *testing.T) {
	br, bus, _ := newTestBridge(t)
	rewrapped, err := New(br, bus, zaptest.NewLogger(t))
	require.NoError(t, err)

	seen := collect(bus, events.EventCharacterDamaged)
	_, enemy := startDuel(t, rewrapped)

	_, err = rewrapped.ApplyDamage(enemy, 10, nil, nil)
	require.NoError(t, err)

	assert.Len(t, *seen, 1, "one engine call must publish exactly one damaged event")
}

func TestStartBattlePublishesRosters(t *testing.T) {
	br, bus, _ := newTestBridge(t)
	seen := collect(bus, events.EventBattleStarted)

	startDuel(t, br)

	require.Len(t, *seen, 1)
	payload := (*seen)[0].Payload.(events.BattleStartedPayload)
	assert.NotEmpty(t, payload.BattleID)
	require.Len(t, payload.Player, 1)
	require.Len(t, payload.Enemy, 1)
	assert.Equal(t, "Lumina", payload.Player[0].Ref.Name)
	assert.Equal(t, 85, payload.Player[0].MaxHealth)
	assert.Equal(t, br.BattleID(), payload.BattleID)
}

func TestApplyDamagePublishesAbsoluteHealth(t *testing.T) {
	br, bus, _ := newTestBridge(t)
	seen := collect(bus, events.EventCharacterDamaged)
	player, enemy := startDuel(t, br)

	result, err := br.ApplyDamage(enemy, 22, player, nil)
	require.NoError(t, err)
	assert.Equal(t, 22, result.ActualDamage)
	assert.Equal(t, 68, result.NewHealth)

	require.Len(t, *seen, 1)
	payload := (*seen)[0].Payload.(events.DamagePayload)
	assert.Equal(t, "Vaelgor", payload.Character.Name)
	assert.Equal(t, engine.TeamEnemy, payload.Character.Team)
	assert.Equal(t, 22, payload.Amount)
	assert.Equal(t, 68, payload.NewHealth)
	assert.Equal(t, 90, payload.MaxHealth)
	require.NotNil(t, payload.Source)
	assert.Equal(t, "Lumina", payload.Source.Name)
}

func TestLethalDamagePublishesDefeat(t *testing.T) {
	br, bus, _ := newTestBridge(t)
	damaged := collect(bus, events.EventCharacterDamaged)
	defeated := collect(bus, events.EventCharacterDefeated)
	player, enemy := startDuel(t, br)

	_, err := br.ApplyDamage(enemy, 500, player, nil)
	require.NoError(t, err)

	require.Len(t, *damaged, 1)
	assert.Equal(t, 0, (*damaged)[0].Payload.(events.DamagePayload).NewHealth)
	require.Len(t, *defeated, 1)
	assert.Equal(t, "Vaelgor", (*defeated)[0].Payload.(events.DefeatPayload).Character.Name)
}

func TestHealingPublishesHealAndRevive(t *testing.T) {
	br, bus, _ := newTestBridge(t)
	healed := collect(bus, events.EventCharacterHealed)
	revived := collect(bus, events.EventCharacterRevived)
	player, enemy := startDuel(t, br)

	_, err := br.ApplyDamage(player, 85, enemy, nil)
	require.NoError(t, err)
	require.False(t, player.Alive())

	_, err = br.ApplyHealing(player, 30, nil, nil)
	require.NoError(t, err)

	require.Len(t, *healed, 1)
	payload := (*healed)[0].Payload.(events.HealPayload)
	assert.Equal(t, 30, payload.Amount)
	assert.Equal(t, 30, payload.NewHealth)
	require.Len(t, *revived, 1)
}

func TestZeroEffectHealingPublishesNothing(t *testing.T) {
	br, bus, _ := newTestBridge(t)
	healed := collect(bus, events.EventCharacterHealed)
	player, _ := startDuel(t, br)

	// Already at full health; actual healing is zero.
	_, err := br.ApplyHealing(player, 10, nil, nil)
	require.NoError(t, err)

	assert.Empty(t, *healed)
}

func TestActionEffectDerivesEventsFromHealthDelta(t *testing.T) {
	br, bus, _ := newTestBridge(t)
	actions := collect(bus, events.EventCharacterAction)
	abilities := collect(bus, events.EventAbilityUsed)
	damaged := collect(bus, events.EventCharacterDamaged)
	player, enemy := startDuel(t, br)

	_, err := br.ApplyActionEffect(&engine.ActionEffect{
		Name:    "Radiant Lance",
		Damage:  22,
		Ability: &engine.Ability{ID: "radiant_lance", Name: "Radiant Lance", Type: "attack"},
	}, player, enemy)
	require.NoError(t, err)

	require.Len(t, *actions, 1)
	require.Len(t, *abilities, 1)
	require.Len(t, *damaged, 1)

	payload := (*damaged)[0].Payload.(events.DamagePayload)
	assert.Equal(t, 22, payload.Amount)
	assert.Equal(t, 68, payload.NewHealth)
	require.NotNil(t, payload.Ability)
	assert.Equal(t, "Radiant Lance", payload.Ability.Name)
}

func TestActionEffectStatusComponentPublishesApplied(t *testing.T) {
	br, bus, _ := newTestBridge(t)
	applied := collect(bus, events.EventStatusEffectApplied)
	player, enemy := startDuel(t, br)

	_, err := br.ApplyActionEffect(&engine.ActionEffect{
		Name:     "Ignite",
		StatusID: "status_burn",
		Duration: 3,
		Stacks:   2,
	}, player, enemy)
	require.NoError(t, err)

	require.Len(t, *applied, 1)
	payload := (*applied)[0].Payload.(events.StatusAppliedPayload)
	assert.Equal(t, "status_burn", payload.StatusID)
	assert.Equal(t, 3, payload.Duration)
	assert.Equal(t, 2, payload.Stacks)
}

func TestAddStatusEffectCanonicalShape(t *testing.T) {
	br, bus, _ := newTestBridge(t)
	applied := collect(bus, events.EventStatusEffectApplied)
	player, enemy := startDuel(t, br)

	ok, err := br.AddStatusEffect(enemy, "status_regen", player, 2, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, *applied, 1)
	payload := (*applied)[0].Payload.(events.StatusAppliedPayload)
	assert.Equal(t, 2, payload.Duration)
	assert.Equal(t, 1, payload.Stacks)
	require.NotNil(t, payload.Source)
	assert.Equal(t, "Lumina", payload.Source.Name)
}

func TestAddStatusEffectLegacyShape(t *testing.T) {
	br, bus, _ := newTestBridge(t)
	applied := collect(bus, events.EventStatusEffectApplied)
	_, enemy := startDuel(t, br)

	// Legacy callers pass a bare duration where the source belongs.
	ok, err := br.AddStatusEffectArgs(enemy, "status_regen", 2)
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, *applied, 1)
	payload := (*applied)[0].Payload.(events.StatusAppliedPayload)
	assert.Equal(t, 2, payload.Duration)
	assert.Equal(t, 1, payload.Stacks)
	assert.Nil(t, payload.Source)

	// The normalized call must reach the engine like the canonical one.
	eff := enemy.FindEffect("status_regen")
	require.NotNil(t, eff)
	assert.Equal(t, 2, eff.Duration)
	assert.Equal(t, 1, eff.Stacks)
}

func TestAddStatusEffectRejectsUnknownShape(t *testing.T) {
	br, _, _ := newTestBridge(t)
	_, enemy := startDuel(t, br)

	_, err := br.AddStatusEffectArgs(enemy, "status_burn", "not-a-source", "not-a-duration")
	assert.Error(t, err)

	_, err = br.AddStatusEffectArgs(enemy, "status_burn")
	assert.Error(t, err)
}

func TestRemoveStatusEffect(t *testing.T) {
	br, bus, _ := newTestBridge(t)
	removed := collect(bus, events.EventStatusEffectRemoved)
	_, enemy := startDuel(t, br)

	_, err := br.AddStatusEffect(enemy, "status_burn", nil, 3, 1)
	require.NoError(t, err)

	ok, err := br.RemoveStatusEffect(enemy, "status_burn")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, *removed, 1)

	// Removing an absent effect publishes nothing.
	ok, err = br.RemoveStatusEffect(enemy, "status_burn")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, *removed, 1)
}

func TestSyncStatusEffectsPublishesBulkSnapshot(t *testing.T) {
	br, bus, _ := newTestBridge(t)
	changed := collect(bus, events.EventStatusEffectsChanged)
	_, enemy := startDuel(t, br)

	_, err := br.AddStatusEffect(enemy, "status_burn", nil, 3, 1)
	require.NoError(t, err)
	_, err = br.AddStatusEffect(enemy, "status_def_down", nil, 2, 1)
	require.NoError(t, err)

	br.SyncStatusEffects(enemy)

	require.Len(t, *changed, 1)
	payload := (*changed)[0].Payload.(events.StatusChangedPayload)
	require.Len(t, payload.Effects, 2)
	assert.Equal(t, "status_burn", payload.Effects[0].StatusID)
}

func TestAutoAttackPublishesActionAndDamage(t *testing.T) {
	br, bus, _ := newTestBridge(t)
	actions := collect(bus, events.EventCharacterAction)
	damaged := collect(bus, events.EventCharacterDamaged)
	player, enemy := startDuel(t, br)

	result, err := br.PerformAutoAttack(player, enemy)
	require.NoError(t, err)
	require.NotNil(t, result.Damage)

	require.Len(t, *actions, 1)
	assert.Equal(t, "auto_attack", (*actions)[0].Payload.(events.CharacterActionPayload).Action.Type)
	require.Len(t, *damaged, 1)
	assert.Equal(t, result.Damage.NewHealth, (*damaged)[0].Payload.(events.DamagePayload).NewHealth)
}

// coreOnly narrows a scripted engine to the bare CombatEngine interface so
// the auto-attack capability is not visible to the bridge.
type coreOnly struct {
	engine.CombatEngine
}

func TestBridgeWithoutAutoAttackCapability(t *testing.T) {
	logger := zaptest.NewLogger(t)
	bus := events.NewBus(logger)
	eng := &coreOnly{CombatEngine: engine.NewScriptedEngine(logger)}

	br, err := New(eng, bus, logger)
	require.NoError(t, err)

	player := engine.NewCharacter(1, "Lumina", engine.TeamPlayer, 85)
	enemy := engine.NewCharacter(2, "Vaelgor", engine.TeamEnemy, 90)
	require.NoError(t, br.StartBattle([]*engine.Character{player}, []*engine.Character{enemy}))

	_, err = br.PerformAutoAttack(player, enemy)
	assert.Error(t, err)
}

func TestTurnLifecycleEvents(t *testing.T) {
	br, bus, _ := newTestBridge(t)
	started := collect(bus, events.EventTurnStarted)
	ended := collect(bus, events.EventTurnEnded)
	player, _ := startDuel(t, br)

	require.NoError(t, br.BeginTurn(1, player))
	require.NoError(t, br.EndTurn(1))

	require.Len(t, *started, 1)
	assert.Equal(t, 1, (*started)[0].Payload.(events.TurnStartedPayload).TurnNumber)
	assert.Equal(t, "Lumina", (*started)[0].Payload.(events.TurnStartedPayload).Character.Name)
	require.Len(t, *ended, 1)
}

func TestEndBattlePublishesWinnerAndTurnCount(t *testing.T) {
	br, bus, _ := newTestBridge(t)
	ended := collect(bus, events.EventBattleEnded)
	player, _ := startDuel(t, br)

	require.NoError(t, br.BeginTurn(1, player))
	require.NoError(t, br.EndTurn(1))
	require.NoError(t, br.BeginTurn(2, player))
	require.NoError(t, br.EndBattle("draw"))

	require.Len(t, *ended, 1)
	payload := (*ended)[0].Payload.(events.BattleEndedPayload)
	assert.Equal(t, "draw", payload.Winner)
	assert.Equal(t, 2, payload.TurnCount)
}

func TestControlsPublishUIInteraction(t *testing.T) {
	br, bus, eng := newTestBridge(t)
	ui := collect(bus, events.EventUIInteraction)
	startDuel(t, br)

	require.NoError(t, br.Pause())
	require.NoError(t, br.Resume())
	require.NoError(t, br.SetSpeed(2))

	require.Len(t, *ui, 3)
	assert.Equal(t, "pause", (*ui)[0].Payload.(events.UIInteractionPayload).Control)
	assert.Equal(t, "resume", (*ui)[1].Payload.(events.UIInteractionPayload).Control)
	speedPayload := (*ui)[2].Payload.(events.UIInteractionPayload)
	assert.Equal(t, "speed", speedPayload.Control)
	assert.Equal(t, "2x", speedPayload.Detail)
	assert.Equal(t, 2.0, eng.Speed())
}

func TestFailedControlPublishesNothing(t *testing.T) {
	br, bus, _ := newTestBridge(t)
	ui := collect(bus, events.EventUIInteraction)
	startDuel(t, br)

	assert.Error(t, br.SetSpeed(0))
	assert.Empty(t, *ui)
}
