package status

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/duskhollow/battle-ui-go/internal/battle/events"
)

// Instance is the visual-side mirror of one applied status effect. Duration
// 0 means "display no duration badge"; expiry only ever arrives as a
// removal event.
type Instance struct {
	StatusID   string
	Definition Definition
	Duration   int
	Stacks     int
}

// Tracker keeps one character's displayed status effects consistent with
// the authoritative list the combat engine maintains. It mirrors the final
// numbers it is told; stacking math stays in the engine.
type Tracker struct {
	logger   *zap.Logger
	owner    string
	catalog  *Catalog
	maxSlots int
	active   []*Instance // ordered by application
}

// NewTracker creates a tracker for one character. maxSlots caps how many
// effects render individually before the overflow indicator kicks in.
func NewTracker(owner string, catalog *Catalog, maxSlots int, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalog == nil {
		catalog = NewCatalog(logger)
	}
	if maxSlots < 1 {
		maxSlots = 1
	}
	return &Tracker{
		logger:   logger,
		owner:    owner,
		catalog:  catalog,
		maxSlots: maxSlots,
	}
}

// resolveDefinition prefers the payload snapshot, then the catalog (which
// itself synthesizes for unknown ids).
func (t *Tracker) resolveDefinition(statusID string, snapshot *events.StatusInfo) Definition {
	if snapshot != nil && snapshot.Name != "" {
		return Definition{
			ID:          statusID,
			Name:        snapshot.Name,
			Description: snapshot.Description,
			Type:        snapshot.Type,
		}
	}
	return t.catalog.Lookup(statusID)
}

// Apply creates the instance, or overwrites duration/stacks/definition when
// the same status is already active. Re-application is an implicit update,
// never a duplicate.
func (t *Tracker) Apply(statusID string, duration, stacks int, snapshot *events.StatusInfo) {
	if statusID == "" {
		return
	}
	if stacks < 1 {
		stacks = 1
	}
	if duration < 0 {
		duration = 0
	}

	def := t.resolveDefinition(statusID, snapshot)
	if existing := t.find(statusID); existing != nil {
		existing.Duration = duration
		existing.Stacks = stacks
		existing.Definition = def
		return
	}

	t.active = append(t.active, &Instance{
		StatusID:   statusID,
		Definition: def,
		Duration:   duration,
		Stacks:     stacks,
	})
}

// Update merges the non-nil fields onto the existing instance. A missing
// instance is a warning, not an error: the update is dropped.
func (t *Tracker) Update(statusID string, duration, stacks *int, snapshot *events.StatusInfo) {
	existing := t.find(statusID)
	if existing == nil {
		t.logger.Warn("status update for untracked effect",
			zap.String("owner", t.owner),
			zap.String("status_id", statusID),
		)
		return
	}

	if duration != nil {
		d := *duration
		if d < 0 {
			d = 0
		}
		existing.Duration = d
	}
	if stacks != nil && *stacks >= 1 {
		existing.Stacks = *stacks
	}
	if snapshot != nil {
		existing.Definition = t.resolveDefinition(statusID, snapshot)
	}
}

// Remove destroys the instance. Returns false with a warning when it was
// not tracked.
func (t *Tracker) Remove(statusID string) bool {
	for i := range t.active {
		if t.active[i].StatusID == statusID {
			t.active = append(t.active[:i], t.active[i+1:]...)
			return true
		}
	}
	t.logger.Warn("status removal for untracked effect",
		zap.String("owner", t.owner),
		zap.String("status_id", statusID),
	)
	return false
}

// ReplaceAll discards every tracked instance and recreates the set from the
// authoritative list in one step.
func (t *Tracker) ReplaceAll(effects []events.EffectSummary) {
	t.active = t.active[:0]
	for _, eff := range effects {
		if eff.StatusID == "" {
			continue
		}
		t.Apply(eff.StatusID, eff.Duration, eff.Stacks, eff.Definition)
	}
}

// Clear drops every tracked instance without warnings. Used at teardown.
func (t *Tracker) Clear() {
	t.active = nil
}

func (t *Tracker) find(statusID string) *Instance {
	for _, inst := range t.active {
		if inst.StatusID == statusID {
			return inst
		}
	}
	return nil
}

// Get returns a copy of the tracked instance for the status id.
func (t *Tracker) Get(statusID string) (Instance, bool) {
	if inst := t.find(statusID); inst != nil {
		return *inst, true
	}
	return Instance{}, false
}

// Count returns the number of active instances.
func (t *Tracker) Count() int {
	return len(t.active)
}

// Active returns a copy of the tracked instances in application order.
func (t *Tracker) Active() []Instance {
	out := make([]Instance, 0, len(t.active))
	for _, inst := range t.active {
		out = append(out, *inst)
	}
	return out
}

// Display returns the instances to render individually plus an overflow
// label. With more active effects than slots, the first maxSlots-1 render
// individually and the rest collapse into a "+K more" indicator.
func (t *Tracker) Display() ([]Instance, string) {
	if len(t.active) <= t.maxSlots {
		return t.Active(), ""
	}

	visible := t.maxSlots - 1
	shown := make([]Instance, 0, visible)
	for _, inst := range t.active[:visible] {
		shown = append(shown, *inst)
	}
	return shown, fmt.Sprintf("+%d more", len(t.active)-visible)
}

// OverflowSummary returns the textual expansion of the collapsed effects,
// shown when the overflow indicator is interacted with.
func (t *Tracker) OverflowSummary() string {
	if len(t.active) <= t.maxSlots {
		return ""
	}

	var parts []string
	for _, inst := range t.active[t.maxSlots-1:] {
		part := inst.Definition.Name
		if inst.Stacks > 1 {
			part = fmt.Sprintf("%s x%d", part, inst.Stacks)
		}
		if inst.Duration > 0 {
			part = fmt.Sprintf("%s (%d turns)", part, inst.Duration)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}
