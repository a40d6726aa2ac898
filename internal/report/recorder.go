package report

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/duskhollow/battle-ui-go/internal/battle/events"
)

const persistTimeout = 10 * time.Second

// recordedEvent is one event as written into the report's event stream.
type recordedEvent struct {
	Type    string    `json:"type"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload"`
}

// Recorder accumulates the event stream of the battle in progress and
// persists a report when the battle ends. It is just another bus
// subscriber; recording failures never touch the battle itself.
type Recorder struct {
	logger *zap.Logger
	repo   Repository

	battleID     string
	startedAt    time.Time
	participants json.RawMessage
	recorded     []recordedEvent
}

// NewRecorder creates a recorder writing through the given repository.
func NewRecorder(repo Repository, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{logger: logger, repo: repo}
}

// Attach subscribes the recorder to every event kind.
func (r *Recorder) Attach(bus *events.Bus) {
	for _, kind := range events.AllTypes() {
		bus.Subscribe(kind, r.handle)
	}
}

func (r *Recorder) handle(event events.Event) {
	switch payload := event.Payload.(type) {
	case events.BattleStartedPayload:
		r.battleID = payload.BattleID
		r.startedAt = event.DispatchedAt
		r.recorded = r.recorded[:0]
		if data, err := json.Marshal(struct {
			Player []events.CharacterSnapshot `json:"player"`
			Enemy  []events.CharacterSnapshot `json:"enemy"`
		}{payload.Player, payload.Enemy}); err == nil {
			r.participants = data
		}
	}

	r.recorded = append(r.recorded, recordedEvent{
		Type:    string(event.Type),
		At:      event.DispatchedAt,
		Payload: event.Payload,
	})

	if payload, ok := event.Payload.(events.BattleEndedPayload); ok {
		r.persist(payload, event.DispatchedAt)
	}
}

func (r *Recorder) persist(outcome events.BattleEndedPayload, endedAt time.Time) {
	if r.repo == nil {
		return
	}

	eventData, err := json.Marshal(r.recorded)
	if err != nil {
		r.logger.Error("failed to marshal battle event stream", zap.Error(err))
		return
	}

	rep := &BattleReport{
		BattleID:     r.battleID,
		Winner:       outcome.Winner,
		TurnCount:    outcome.TurnCount,
		StartedAt:    r.startedAt,
		EndedAt:      endedAt,
		Participants: r.participants,
		Events:       eventData,
	}

	// Written off the publishing goroutine so a slow database cannot
	// stall the final events of the battle.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := r.repo.Create(ctx, rep); err != nil {
			r.logger.Error("failed to persist battle report",
				zap.String("battle_id", rep.BattleID),
				zap.Error(err),
			)
			return
		}
		r.logger.Info("battle report persisted",
			zap.String("battle_id", rep.BattleID),
			zap.String("winner", rep.Winner),
		)
	}()
}
