package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/duskhollow/battle-ui-go/internal/battle/engine"
	"github.com/duskhollow/battle-ui-go/internal/battle/events"
	"github.com/duskhollow/battle-ui-go/internal/battle/status"
)

// fakeControls records which battle controls were pressed.
type fakeControls struct {
	paused  int
	resumed int
	speed   float64
}

func (f *fakeControls) Pause() error  { f.paused++; return nil }
func (f *fakeControls) Resume() error { f.resumed++; return nil }
func (f *fakeControls) SetSpeed(multiplier float64) error {
	f.speed = multiplier
	return nil
}

func newTestScene(t *testing.T) (*Scene, *events.Bus, *fakeControls) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	bus := events.NewBus(logger)
	controls := &fakeControls{}
	catalog := status.NewCatalog(logger)
	catalog.Register(status.Definition{ID: "status_burn", Name: "Burn", Type: "dot"})
	scene := NewScene(bus, controls, catalog, SceneConfig{MaxStatusSlots: 5, LogCapacity: 50}, logger)
	scene.Start()
	return scene, bus, controls
}

func refFor(c *engine.Character) events.CharacterRef {
	return events.CharacterRef{
		Participant: c,
		Name:        c.Name,
		Team:        c.Team,
		ID:          c.ID,
		UniqueID:    c.UniqueID,
	}
}

func startTestBattle(bus *events.Bus) (player, enemy *engine.Character) {
	player = engine.NewCharacter(1, "Lumina", engine.TeamPlayer, 85)
	enemy = engine.NewCharacter(2, "Vaelgor", engine.TeamEnemy, 90)
	bus.Publish(events.BattleStartedPayload{
		BattleID: "battle-1",
		Player: []events.CharacterSnapshot{
			{Ref: refFor(player), CurrentHealth: 85, MaxHealth: 85},
		},
		Enemy: []events.CharacterSnapshot{
			{Ref: refFor(enemy), CurrentHealth: 90, MaxHealth: 90},
		},
	})
	return player, enemy
}

func TestSceneBuildsRosterOnBattleStart(t *testing.T) {
	scene, bus, _ := newTestScene(t)

	startTestBattle(bus)

	assert.Equal(t, 2, scene.Roster().Size())
	assert.Len(t, scene.Roster().Team(engine.TeamPlayer), 1)
	assert.Len(t, scene.Roster().Team(engine.TeamEnemy), 1)
	assert.Equal(t, PanelRunning, scene.Panel().State())
	require.Equal(t, 1, scene.Log().Len())
	assert.Equal(t, "The battle begins!", scene.Log().Entries()[0].Message)
}

func TestSceneDamageUpdatesHealthAbsolutely(t *testing.T) {
	scene, bus, _ := newTestScene(t)
	player, enemy := startTestBattle(bus)

	payload := events.DamagePayload{
		Character: refFor(enemy),
		Amount:    22,
		NewHealth: 68,
		MaxHealth: 90,
		Source:    func() *events.CharacterRef { r := refFor(player); return &r }(),
	}
	bus.Publish(payload)

	node := scene.Roster().Resolve(enemy)
	require.NotNil(t, node)
	current, _ := node.Health()
	assert.Equal(t, 68, current)
	assert.Equal(t, "hit", node.Animator().Current())

	// Duplicate delivery of the same event leaves the bar where it is.
	bus.Publish(payload)
	current, _ = node.Health()
	assert.Equal(t, 68, current)

	entries := scene.Log().Entries()
	assert.Equal(t, "Lumina hits Vaelgor for 22 (68/90 HP).", entries[len(entries)-1].Message)
}

func TestSceneDefeatAndRevive(t *testing.T) {
	scene, bus, _ := newTestScene(t)
	_, enemy := startTestBattle(bus)

	bus.Publish(events.DamagePayload{Character: refFor(enemy), Amount: 90, NewHealth: 0, MaxHealth: 90})
	bus.Publish(events.DefeatPayload{Character: refFor(enemy)})

	node := scene.Roster().Resolve(enemy)
	require.NotNil(t, node)
	assert.True(t, node.Defeated())

	bus.Publish(events.RevivePayload{Character: refFor(enemy), NewHealth: 30})
	assert.False(t, node.Defeated())
	current, _ := node.Health()
	assert.Equal(t, 30, current)
}

func TestSceneTurnIndicatorFollowsTurns(t *testing.T) {
	scene, bus, _ := newTestScene(t)
	player, enemy := startTestBattle(bus)

	bus.Publish(events.TurnStartedPayload{TurnNumber: 1, Character: refFor(player)})
	playerNode := scene.Roster().Resolve(player)
	require.NotNil(t, playerNode)
	assert.True(t, playerNode.Highlighted())
	assert.Equal(t, 1, scene.Indicator().Turn())

	bus.Publish(events.CharacterActionPayload{
		Character: refFor(player),
		Action:    events.ActionInfo{Type: "effect", Name: "Radiant Lance"},
	})
	assert.Equal(t, "Radiant Lance", playerNode.ActionText())

	// The next turn moves the highlight; the previous holder is cleaned up.
	bus.Publish(events.TurnStartedPayload{TurnNumber: 2, Character: refFor(enemy)})
	assert.False(t, playerNode.Highlighted())
	assert.Empty(t, playerNode.ActionText())
	enemyNode := scene.Roster().Resolve(enemy)
	require.NotNil(t, enemyNode)
	assert.True(t, enemyNode.Highlighted())

	bus.Publish(events.TurnEndedPayload{TurnNumber: 2})
	assert.False(t, enemyNode.Highlighted())
}

func TestSceneStatusLifecycle(t *testing.T) {
	scene, bus, _ := newTestScene(t)
	_, enemy := startTestBattle(bus)
	node := scene.Roster().Resolve(enemy)
	require.NotNil(t, node)

	bus.Publish(events.StatusAppliedPayload{
		Character: refFor(enemy), StatusID: "status_burn", Duration: 3, Stacks: 1,
	})
	inst, ok := node.Status().Get("status_burn")
	require.True(t, ok)
	assert.Equal(t, "Burn", inst.Definition.Name)

	duration := 1
	bus.Publish(events.StatusUpdatedPayload{
		Character: refFor(enemy), StatusID: "status_burn", Duration: &duration,
	})
	inst, _ = node.Status().Get("status_burn")
	assert.Equal(t, 1, inst.Duration)

	bus.Publish(events.StatusRemovedPayload{Character: refFor(enemy), StatusID: "status_burn"})
	assert.Equal(t, 0, node.Status().Count())
	assert.Equal(t, "status_fade:status_burn", node.Animator().Current())
}

func TestSceneBulkStatusResync(t *testing.T) {
	scene, bus, _ := newTestScene(t)
	_, enemy := startTestBattle(bus)
	node := scene.Roster().Resolve(enemy)
	require.NotNil(t, node)

	bus.Publish(events.StatusAppliedPayload{
		Character: refFor(enemy), StatusID: "status_burn", Duration: 3, Stacks: 1,
	})
	bus.Publish(events.StatusChangedPayload{
		Character: refFor(enemy),
		Effects: []events.EffectSummary{
			{StatusID: "status_shield", Duration: 2, Stacks: 1},
		},
	})

	assert.Equal(t, 1, node.Status().Count())
	_, hasBurn := node.Status().Get("status_burn")
	assert.False(t, hasBurn)
	_, hasShield := node.Status().Get("status_shield")
	assert.True(t, hasShield)
}

func TestSceneUnresolvedReferenceOnlySkipsThatUpdate(t *testing.T) {
	scene, bus, _ := newTestScene(t)
	_, enemy := startTestBattle(bus)

	bus.Publish(events.DamagePayload{
		Character: events.CharacterRef{Name: "Nobody", ID: 99},
		Amount:    10, NewHealth: 50, MaxHealth: 60,
	})

	// The battle is unaffected: the enemy still resolves and takes damage.
	bus.Publish(events.DamagePayload{Character: refFor(enemy), Amount: 5, NewHealth: 85, MaxHealth: 90})
	node := scene.Roster().Resolve(enemy)
	require.NotNil(t, node)
	current, _ := node.Health()
	assert.Equal(t, 85, current)
}

func TestSceneBattleEndMovesPanelAndLogsOutcome(t *testing.T) {
	scene, bus, _ := newTestScene(t)
	startTestBattle(bus)

	bus.Publish(events.BattleEndedPayload{Winner: "player", TurnCount: 4})

	assert.True(t, scene.BattleOver())
	assert.Equal(t, PanelFinished, scene.Panel().State())
	entries := scene.Log().Entries()
	assert.Equal(t, "Victory!", entries[len(entries)-1].Message)
	assert.Nil(t, scene.Indicator().Active())
}

func TestScenePanelFollowsUIInteractionEvents(t *testing.T) {
	scene, bus, controls := newTestScene(t)
	startTestBattle(bus)

	require.NoError(t, scene.Panel().ClickPause())
	assert.Equal(t, 1, controls.paused)
	// The panel state waits for the confirming bus event.
	assert.Equal(t, PanelRunning, scene.Panel().State())

	bus.Publish(events.UIInteractionPayload{Control: "pause"})
	assert.Equal(t, PanelPaused, scene.Panel().State())

	assert.Error(t, scene.Panel().ClickPause(), "pause is not offered while paused")

	bus.Publish(events.UIInteractionPayload{Control: "speed", Detail: "2x"})
	assert.Equal(t, 2.0, scene.Panel().Speed())

	bus.Publish(events.UIInteractionPayload{Control: "resume"})
	assert.Equal(t, PanelRunning, scene.Panel().State())
}

func TestSceneTeardownLeavesNothingBehind(t *testing.T) {
	scene, bus, _ := newTestScene(t)
	_, enemy := startTestBattle(bus)
	bus.Publish(events.DamagePayload{Character: refFor(enemy), Amount: 5, NewHealth: 85, MaxHealth: 90})

	scene.Teardown()

	assert.Equal(t, 0, scene.Roster().Size())
	assert.Equal(t, 0, scene.Log().Len())
	assert.Equal(t, PanelIdle, scene.Panel().State())
	assert.False(t, scene.BattleOver())
	assert.Equal(t, 0, bus.ListenerCount(events.EventCharacterDamaged))

	// Publishing after teardown reaches no one and panics nothing.
	bus.Publish(events.DamagePayload{Character: refFor(enemy), Amount: 5, NewHealth: 80, MaxHealth: 90})
}

func TestSceneUpdateDrivesNodeAnimations(t *testing.T) {
	scene, bus, _ := newTestScene(t)
	_, enemy := startTestBattle(bus)
	bus.Publish(events.DamagePayload{Character: refFor(enemy), Amount: 5, NewHealth: 85, MaxHealth: 90})

	node := scene.Roster().Resolve(enemy)
	require.NotNil(t, node)
	require.True(t, node.Animator().Busy())

	scene.Update(time.Now().Add(time.Second))
	assert.False(t, node.Animator().Busy())
}
