package view

import (
	"go.uber.org/zap"

	"github.com/duskhollow/battle-ui-go/internal/battle/engine"
	"github.com/duskhollow/battle-ui-go/internal/battle/events"
	"github.com/duskhollow/battle-ui-go/internal/battle/resolve"
	"github.com/duskhollow/battle-ui-go/internal/battle/status"
)

// Roster holds the visual nodes for both teams. It is populated once at
// battle start and read-only to subscribers and the resolver until
// teardown.
type Roster struct {
	logger *zap.Logger
	player []*CharacterNode
	enemy  []*CharacterNode
}

// NewRoster creates an empty roster.
func NewRoster(logger *zap.Logger) *Roster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roster{logger: logger}
}

// Populate builds the nodes for both teams from the battle-start snapshots.
// Any previous nodes are torn down first.
func (r *Roster) Populate(player, enemy []events.CharacterSnapshot, catalog *status.Catalog, maxStatusSlots int) {
	r.Clear()
	r.player = buildTeam(player, catalog, maxStatusSlots, r.logger)
	r.enemy = buildTeam(enemy, catalog, maxStatusSlots, r.logger)
}

func buildTeam(snapshots []events.CharacterSnapshot, catalog *status.Catalog, maxStatusSlots int, logger *zap.Logger) []*CharacterNode {
	nodes := make([]*CharacterNode, 0, len(snapshots))
	for _, snap := range snapshots {
		participant, _ := snap.Ref.Participant.(*engine.Character)
		node := NewCharacterNode(participant, snap.CurrentHealth, snap.MaxHealth, catalog, maxStatusSlots, logger)
		if participant == nil {
			// Bridge-constructed payloads always carry the object, but a
			// replayed event stream may not. Fall back to the ref fields.
			node.name = snap.Ref.Name
			node.id = snap.Ref.ID
			node.uniqueID = snap.Ref.UniqueID
			node.team = snap.Ref.Team
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// Nodes returns every node, player team first, as resolver input.
func (r *Roster) Nodes() []resolve.Node {
	out := make([]resolve.Node, 0, len(r.player)+len(r.enemy))
	for _, n := range r.player {
		out = append(out, n)
	}
	for _, n := range r.enemy {
		out = append(out, n)
	}
	return out
}

// Team returns the nodes for one team tag.
func (r *Roster) Team(team string) []*CharacterNode {
	switch team {
	case engine.TeamPlayer:
		return r.player
	case engine.TeamEnemy:
		return r.enemy
	default:
		return nil
	}
}

// Resolve finds the node for a participant reference, nil on a miss.
func (r *Roster) Resolve(ref any) *CharacterNode {
	node := resolve.Resolve(ref, r.Nodes())
	if node == nil {
		return nil
	}
	return node.(*CharacterNode)
}

// Size returns the total node count.
func (r *Roster) Size() int {
	return len(r.player) + len(r.enemy)
}

// Each invokes fn for every node.
func (r *Roster) Each(fn func(*CharacterNode)) {
	for _, n := range r.player {
		fn(n)
	}
	for _, n := range r.enemy {
		fn(n)
	}
}

// Clear tears down and drops every node.
func (r *Roster) Clear() {
	r.Each(func(n *CharacterNode) { n.Teardown() })
	r.player = nil
	r.enemy = nil
}
