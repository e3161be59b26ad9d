package lifecycle

import (
	"testing"

	"brightideas/entities"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to entities.IdeaStatus
		want     bool
	}{
		{entities.IdeaCaptured, entities.IdeaRefining, true},
		{entities.IdeaCaptured, entities.IdeaPlanned, true},
		{entities.IdeaRefining, entities.IdeaPlanned, true},
		{entities.IdeaPlanned, entities.IdeaRefining, true},
		{entities.IdeaRefining, entities.IdeaCaptured, false},
		{entities.IdeaPlanned, entities.IdeaCaptured, false},
		{entities.IdeaArchived, entities.IdeaCaptured, true},
		{entities.IdeaArchived, entities.IdeaPlanned, false},
		{entities.IdeaArchived, entities.IdeaArchived, true},
		{entities.IdeaCaptured, "done", false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
	for _, s := range entities.IdeaStatuses {
		if s != entities.IdeaArchived && !CanTransition(s, entities.IdeaArchived) {
			t.Errorf("archive must be reachable from %s", s)
		}
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		from    entities.IdeaStatus
		ev      Event
		want    entities.IdeaStatus
		wantErr bool
	}{
		{"refine from captured", entities.IdeaCaptured, StartRefinement, entities.IdeaRefining, false},
		{"refine while refining", entities.IdeaRefining, StartRefinement, entities.IdeaRefining, false},
		{"refine planned keeps planned", entities.IdeaPlanned, StartRefinement, entities.IdeaPlanned, false},
		{"refine archived", entities.IdeaArchived, StartRefinement, "", true},
		{"plan from refining", entities.IdeaRefining, PlanCreated, entities.IdeaPlanned, false},
		{"plan from captured", entities.IdeaCaptured, PlanCreated, entities.IdeaPlanned, false},
		{"plan archived", entities.IdeaArchived, PlanCreated, "", true},
		{"archive planned", entities.IdeaPlanned, Archive, entities.IdeaArchived, false},
		{"restore archived", entities.IdeaArchived, Restore, entities.IdeaCaptured, false},
		{"restore captured", entities.IdeaCaptured, Restore, "", true},
		{"unknown event", entities.IdeaCaptured, Event("explode"), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.from, tt.ev)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Next() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNextAlwaysYieldsValidStatus(t *testing.T) {
	events := []Event{StartRefinement, PlanCreated, Archive, Restore}
	for _, s := range entities.IdeaStatuses {
		for _, ev := range events {
			got, err := Next(s, ev)
			if err != nil {
				if got != s {
					t.Errorf("rejected %s on %s changed status to %s", ev, s, got)
				}
				continue
			}
			if !got.Valid() {
				t.Errorf("Next(%s, %s) = %q", s, ev, got)
			}
		}
	}
}
