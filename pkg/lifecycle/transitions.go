// Package lifecycle holds the idea status transition table. Every operation
// that changes an idea's status asks this package first.
package lifecycle

import (
	"fmt"

	"brightideas/entities"
)

type Event string

const (
	StartRefinement Event = "start_refinement"
	PlanCreated     Event = "plan_created"
	Archive         Event = "archive"
	Restore         Event = "restore"
)

var allowed = map[entities.IdeaStatus][]entities.IdeaStatus{
	entities.IdeaCaptured: {entities.IdeaRefining, entities.IdeaPlanned, entities.IdeaArchived},
	entities.IdeaRefining: {entities.IdeaPlanned, entities.IdeaArchived},
	entities.IdeaPlanned:  {entities.IdeaRefining, entities.IdeaArchived},
	entities.IdeaArchived: {entities.IdeaCaptured},
}

// CanTransition reports whether from -> to is legal. Staying put is always legal.
func CanTransition(from, to entities.IdeaStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Targets lists the statuses reachable from s in one step.
func Targets(s entities.IdeaStatus) []entities.IdeaStatus {
	out := make([]entities.IdeaStatus, len(allowed[s]))
	copy(out, allowed[s])
	return out
}

// Next resolves the status an event leads to from current.
func Next(current entities.IdeaStatus, ev Event) (entities.IdeaStatus, error) {
	if !current.Valid() {
		return current, fmt.Errorf("unknown status %q", current)
	}
	var to entities.IdeaStatus
	switch ev {
	case StartRefinement:
		switch current {
		case entities.IdeaCaptured:
			to = entities.IdeaRefining
		case entities.IdeaArchived:
			return current, fmt.Errorf("idea is archived; restore it before refining")
		default:
			to = current
		}
	case PlanCreated:
		if current == entities.IdeaArchived {
			return current, fmt.Errorf("idea is archived; restore it before planning")
		}
		to = entities.IdeaPlanned
	case Archive:
		to = entities.IdeaArchived
	case Restore:
		if current != entities.IdeaArchived {
			return current, fmt.Errorf("only archived ideas can be restored (status is %s)", current)
		}
		to = entities.IdeaCaptured
	default:
		return current, fmt.Errorf("unknown event %q", ev)
	}
	if !CanTransition(current, to) {
		return current, fmt.Errorf("illegal transition %s -> %s", current, to)
	}
	return to, nil
}
