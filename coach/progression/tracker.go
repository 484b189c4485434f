// Package progression classifies an actor into one of four ordered
// business-maturity stages. The stage is always re-derived from affiliation
// and approved custom services; nothing here moves an actor backward.
package progression

import contractx "github.com/tidyhive/success-coach/coach/contract"

var stages = map[contractx.Stage]contractx.ProgressionState{
	contractx.StageSolo: {
		Stage:       contractx.StageSolo,
		Level:       1,
		DisplayName: "Solo Provider",
		Progress:    25,
		NextStage:   string(contractx.StageTeamMember),
		NextAction:  "Join a team to share bookings and learn from established providers.",
	},
	contractx.StageTeamMember: {
		Stage:       contractx.StageTeamMember,
		Level:       2,
		DisplayName: "Team Member",
		Progress:    50,
		NextStage:   string(contractx.StageTeamLeader),
		NextAction:  "Start your own team once you have a steady booking record.",
	},
	contractx.StageTeamLeader: {
		Stage:       contractx.StageTeamLeader,
		Level:       3,
		DisplayName: "Team Leader",
		Progress:    75,
		NextStage:   string(contractx.StageServicesActive),
		NextAction:  "Submit a custom service for approval to start selling your own offerings.",
	},
	contractx.StageServicesActive: {
		Stage:       contractx.StageServicesActive,
		Level:       4,
		DisplayName: "Active Services Business",
		Progress:    100,
	},
}

// Track classifies the actor. Pure lookup over (affiliation, approved
// service count); identical inputs always produce identical output.
func Track(affiliation contractx.AffiliationRole, approvedServices int) contractx.ProgressionState {
	switch {
	case affiliation == contractx.AffiliationLeader && approvedServices >= 1:
		return stages[contractx.StageServicesActive]
	case affiliation == contractx.AffiliationLeader:
		return stages[contractx.StageTeamLeader]
	case affiliation == contractx.AffiliationMember:
		return stages[contractx.StageTeamMember]
	default:
		return stages[contractx.StageSolo]
	}
}
