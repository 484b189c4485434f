package progression

import (
	"testing"

	contractx "github.com/tidyhive/success-coach/coach/contract"
)

func TestTrackStages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		affiliation contractx.AffiliationRole
		services    int
		wantStage   contractx.Stage
		wantLevel   int
		wantPct     int
	}{
		{"no affiliation", contractx.AffiliationNone, 0, contractx.StageSolo, 1, 25},
		{"member", contractx.AffiliationMember, 0, contractx.StageTeamMember, 2, 50},
		{"member with services stays member", contractx.AffiliationMember, 3, contractx.StageTeamMember, 2, 50},
		{"leader without services", contractx.AffiliationLeader, 0, contractx.StageTeamLeader, 3, 75},
		{"leader with services", contractx.AffiliationLeader, 2, contractx.StageServicesActive, 4, 100},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			state := Track(tc.affiliation, tc.services)
			if state.Stage != tc.wantStage {
				t.Fatalf("expected stage %s, got %s", tc.wantStage, state.Stage)
			}
			if state.Level != tc.wantLevel {
				t.Fatalf("expected level %d, got %d", tc.wantLevel, state.Level)
			}
			if state.Progress != tc.wantPct {
				t.Fatalf("expected progress %d, got %d", tc.wantPct, state.Progress)
			}
		})
	}
}

func TestTerminalStageHasNoNext(t *testing.T) {
	t.Parallel()

	state := Track(contractx.AffiliationLeader, 2)
	if state.NextStage != "" {
		t.Fatalf("terminal stage must carry no next stage, got %q", state.NextStage)
	}
	if state.NextAction != "" {
		t.Fatalf("terminal stage must carry no next action, got %q", state.NextAction)
	}
}

func TestNonTerminalStagesCarryNextAction(t *testing.T) {
	t.Parallel()

	for _, state := range []contractx.ProgressionState{
		Track(contractx.AffiliationNone, 0),
		Track(contractx.AffiliationMember, 0),
		Track(contractx.AffiliationLeader, 0),
	} {
		if state.NextStage == "" || state.NextAction == "" {
			t.Fatalf("stage %s must carry a next stage and action", state.Stage)
		}
	}
}

func TestProgressMonotonicInLevel(t *testing.T) {
	t.Parallel()

	ordered := []contractx.ProgressionState{
		Track(contractx.AffiliationNone, 0),
		Track(contractx.AffiliationMember, 0),
		Track(contractx.AffiliationLeader, 0),
		Track(contractx.AffiliationLeader, 1),
	}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Level <= ordered[i-1].Level {
			t.Fatalf("levels must strictly increase, got %d then %d", ordered[i-1].Level, ordered[i].Level)
		}
		if ordered[i].Progress < ordered[i-1].Progress {
			t.Fatalf("progress must not decrease, got %d then %d", ordered[i-1].Progress, ordered[i].Progress)
		}
	}
}

func TestTrackDeterministic(t *testing.T) {
	t.Parallel()

	a := Track(contractx.AffiliationLeader, 0)
	b := Track(contractx.AffiliationLeader, 0)
	if a != b {
		t.Fatal("identical inputs must yield identical states")
	}
}
