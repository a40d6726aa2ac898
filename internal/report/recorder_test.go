package report

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/duskhollow/battle-ui-go/internal/battle/events"
)

// fakeRepository captures created reports and signals each write.
type fakeRepository struct {
	created chan *BattleReport
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{created: make(chan *BattleReport, 1)}
}

func (f *fakeRepository) Create(ctx context.Context, report *BattleReport) error {
	f.created <- report
	return nil
}

func waitForReport(t *testing.T, repo *fakeRepository) *BattleReport {
	t.Helper()
	select {
	case rep := <-repo.created:
		return rep
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for report persistence")
		return nil
	}
}

func playTestBattle(bus *events.Bus) {
	hero := events.CharacterRef{Name: "Lumina", Team: "player", ID: 1}
	foe := events.CharacterRef{Name: "Vaelgor", Team: "enemy", ID: 2}

	bus.Publish(events.BattleStartedPayload{
		BattleID: "battle-42",
		Player:   []events.CharacterSnapshot{{Ref: hero, CurrentHealth: 85, MaxHealth: 85}},
		Enemy:    []events.CharacterSnapshot{{Ref: foe, CurrentHealth: 90, MaxHealth: 90}},
	})
	bus.Publish(events.TurnStartedPayload{TurnNumber: 1, Character: hero})
	bus.Publish(events.DamagePayload{Character: foe, Amount: 22, NewHealth: 68, MaxHealth: 90, Source: &hero})
	bus.Publish(events.TurnEndedPayload{TurnNumber: 1})
	bus.Publish(events.BattleEndedPayload{Winner: "player", TurnCount: 1})
}

func TestRecorderPersistsOnBattleEnd(t *testing.T) {
	logger := zaptest.NewLogger(t)
	bus := events.NewBus(logger)
	repo := newFakeRepository()
	NewRecorder(repo, logger).Attach(bus)

	playTestBattle(bus)

	rep := waitForReport(t, repo)
	assert.Equal(t, "battle-42", rep.BattleID)
	assert.Equal(t, "player", rep.Winner)
	assert.Equal(t, 1, rep.TurnCount)
	assert.False(t, rep.StartedAt.IsZero())
	assert.False(t, rep.EndedAt.IsZero())

	var stream []recordedEvent
	require.NoError(t, json.Unmarshal(rep.Events, &stream))
	require.Len(t, stream, 5)
	assert.Equal(t, string(events.EventBattleStarted), stream[0].Type)
	assert.Equal(t, string(events.EventBattleEnded), stream[4].Type)

	var participants struct {
		Player []events.CharacterSnapshot `json:"player"`
		Enemy  []events.CharacterSnapshot `json:"enemy"`
	}
	require.NoError(t, json.Unmarshal(rep.Participants, &participants))
	require.Len(t, participants.Player, 1)
	assert.Equal(t, "Lumina", participants.Player[0].Ref.Name)
}

func TestRecorderResetsBetweenBattles(t *testing.T) {
	logger := zaptest.NewLogger(t)
	bus := events.NewBus(logger)
	repo := newFakeRepository()
	NewRecorder(repo, logger).Attach(bus)

	playTestBattle(bus)
	waitForReport(t, repo)

	hero := events.CharacterRef{Name: "Caste", Team: "player", ID: 3}
	foe := events.CharacterRef{Name: "Thorn", Team: "enemy", ID: 4}
	bus.Publish(events.BattleStartedPayload{
		BattleID: "battle-43",
		Player:   []events.CharacterSnapshot{{Ref: hero, CurrentHealth: 70, MaxHealth: 70}},
		Enemy:    []events.CharacterSnapshot{{Ref: foe, CurrentHealth: 60, MaxHealth: 60}},
	})
	bus.Publish(events.BattleEndedPayload{Winner: "enemy", TurnCount: 0})

	rep := waitForReport(t, repo)
	assert.Equal(t, "battle-43", rep.BattleID)
	assert.Equal(t, "enemy", rep.Winner)

	var stream []recordedEvent
	require.NoError(t, json.Unmarshal(rep.Events, &stream))
	assert.Len(t, stream, 2, "the previous battle's events must not leak into the next report")
}

func TestRecorderWithoutRepositoryIsInert(t *testing.T) {
	logger := zaptest.NewLogger(t)
	bus := events.NewBus(logger)
	NewRecorder(nil, logger).Attach(bus)

	// Must not panic, publish still succeeds.
	playTestBattle(bus)
}
