// Package resolve locates the visual node for a loosely-typed participant
// reference. Different event producers disagree on which identifier they
// populate, so resolution is an ordered list of matchers tried in sequence
// against the active roster; the first hit wins and a miss is a tolerated
// nil, never an error.
package resolve

import (
	"strconv"
	"strings"

	"github.com/duskhollow/battle-ui-go/internal/battle/engine"
	"github.com/duskhollow/battle-ui-go/internal/battle/events"
)

// Node is the resolver's view of one participant's visual representation.
type Node interface {
	Participant() *engine.Character
	Name() string
	ID() int
	UniqueID() string
	Team() string
}

// matcher is one resolution tier. Returns nil when this tier has no match.
type matcher func(ref events.CharacterRef, roster []Node) Node

// matchers in resolution order. Each tier scans the whole roster before the
// next tier is tried.
var matchers = []matcher{
	matchIdentity,
	matchByID,
	matchByName,
	matchByUniqueID,
	matchByNameAndTeam,
}

// Resolve finds the node matching the reference, which may be an
// events.CharacterRef (or a pointer to one), a raw *engine.Character, a
// plain or team-prefixed composite string, or a positional roster index.
// Returns nil when nothing matches.
func Resolve(ref any, roster []Node) Node {
	if ref == nil || len(roster) == 0 {
		return nil
	}

	switch v := ref.(type) {
	case events.CharacterRef:
		return resolveRef(v, roster)
	case *events.CharacterRef:
		if v == nil {
			return nil
		}
		return resolveRef(*v, roster)
	case *engine.Character:
		if v == nil {
			return nil
		}
		return resolveRef(events.CharacterRef{
			Participant: v,
			Name:        v.Name,
			Team:        v.Team,
			ID:          v.ID,
			UniqueID:    v.UniqueID,
		}, roster)
	case string:
		return resolveString(v, roster)
	case int:
		if v < 0 || v >= len(roster) {
			return nil
		}
		return roster[v]
	default:
		return nil
	}
}

func resolveRef(ref events.CharacterRef, roster []Node) Node {
	for _, match := range matchers {
		if node := match(ref, roster); node != nil {
			return node
		}
	}
	return nil
}

// matchIdentity matches when the reference carries the same underlying
// participant object a node tracks.
func matchIdentity(ref events.CharacterRef, roster []Node) Node {
	participant, ok := ref.Participant.(*engine.Character)
	if !ok || participant == nil {
		return nil
	}
	for _, node := range roster {
		if node.Participant() == participant {
			return node
		}
	}
	return nil
}

func matchByID(ref events.CharacterRef, roster []Node) Node {
	if ref.ID == 0 {
		return nil
	}
	for _, node := range roster {
		if node.ID() == ref.ID {
			return node
		}
	}
	return nil
}

func matchByName(ref events.CharacterRef, roster []Node) Node {
	if ref.Name == "" {
		return nil
	}
	for _, node := range roster {
		if node.Name() == ref.Name {
			return node
		}
	}
	return nil
}

func matchByUniqueID(ref events.CharacterRef, roster []Node) Node {
	if ref.UniqueID == "" {
		return nil
	}
	for _, node := range roster {
		if node.UniqueID() == ref.UniqueID {
			return node
		}
	}
	return nil
}

// matchByNameAndTeam requires the team tag to agree with the roster
// partition: a "player" reference only matches player nodes.
func matchByNameAndTeam(ref events.CharacterRef, roster []Node) Node {
	if ref.Name == "" || ref.Team == "" {
		return nil
	}
	for _, node := range roster {
		if node.Name() == ref.Name && node.Team() == ref.Team {
			return node
		}
	}
	return nil
}

// resolveString tries an exact match against name, numeric id and unique
// id, then falls back to parsing a team-prefixed composite. A composite
// that fails within its named team partition is retried ignoring team.
func resolveString(s string, roster []Node) Node {
	if s == "" {
		return nil
	}

	for _, node := range roster {
		if node.Name() == s || node.UniqueID() == s || strconv.Itoa(node.ID()) == s {
			return node
		}
	}

	team, name, id, ok := parseComposite(s)
	if !ok {
		return nil
	}

	if node := matchComposite(roster, name, id, team); node != nil {
		return node
	}
	return matchComposite(roster, name, id, "")
}

func matchComposite(roster []Node, name string, id int, team string) Node {
	for _, node := range roster {
		if team != "" && node.Team() != team {
			continue
		}
		if node.Name() != name {
			continue
		}
		if id != 0 && node.ID() != id {
			continue
		}
		return node
	}
	return nil
}

// parseComposite splits a "team_name[_id]" composite string. The name part
// may itself contain underscores; a trailing numeric token is taken as the
// id.
func parseComposite(s string) (team, name string, id int, ok bool) {
	parts := strings.Split(s, "_")
	if len(parts) < 2 {
		return "", "", 0, false
	}

	team = parts[0]
	if team != engine.TeamPlayer && team != engine.TeamEnemy {
		return "", "", 0, false
	}
	parts = parts[1:]

	if len(parts) > 1 {
		if n, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			id = n
			parts = parts[:len(parts)-1]
		}
	}

	name = strings.Join(parts, "_")
	if name == "" {
		return "", "", 0, false
	}
	return team, name, id, true
}
