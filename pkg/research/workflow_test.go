package research

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/oncentra/registry/pkg/common/models"
)

func TestDetermineRequiredApprovalLevels(t *testing.T) {
	tests := []struct {
		name          string
		request       models.ResearchRequest
		collaborators int
		want          []string
	}{
		{
			name:    "minimal request only needs the center director",
			request: models.ResearchRequest{},
			want:    []string{models.ApprovalLevelCenterDirector},
		},
		{
			name:    "requested data adds the data steward",
			request: models.ResearchRequest{RequestedData: []string{"diagnosis", "stage"}},
			want: []string{
				models.ApprovalLevelCenterDirector,
				models.ApprovalLevelDataSteward,
			},
		},
		{
			name:    "confidentiality requirements add the privacy officer",
			request: models.ResearchRequest{ConfidentialityReqs: "strict"},
			want: []string{
				models.ApprovalLevelCenterDirector,
				models.ApprovalLevelPrivacyOfficer,
			},
		},
		{
			name:    "retention period alone adds the privacy officer",
			request: models.ResearchRequest{RetentionPeriodMonths: 12},
			want: []string{
				models.ApprovalLevelCenterDirector,
				models.ApprovalLevelPrivacyOfficer,
			},
		},
		{
			name:    "ethics flag adds the ethics committee",
			request: models.ResearchRequest{EthicsApprovalRequired: true},
			want: []string{
				models.ApprovalLevelCenterDirector,
				models.ApprovalLevelEthicsCommittee,
			},
		},
		{
			name:    "large sample adds the national admin",
			request: models.ResearchRequest{SampleSize: 1001},
			want: []string{
				models.ApprovalLevelCenterDirector,
				models.ApprovalLevelNationalAdmin,
			},
		},
		{
			name:    "sample at the boundary does not",
			request: models.ResearchRequest{SampleSize: 1000},
			want:    []string{models.ApprovalLevelCenterDirector},
		},
		{
			name:          "collaborators add the national admin",
			request:       models.ResearchRequest{},
			collaborators: 1,
			want: []string{
				models.ApprovalLevelCenterDirector,
				models.ApprovalLevelNationalAdmin,
			},
		},
		{
			name: "everything at once, in chain order",
			request: models.ResearchRequest{
				RequestedData:          []string{"diagnosis"},
				ConfidentialityReqs:    "strict",
				EthicsApprovalRequired: true,
				SampleSize:             5000,
			},
			collaborators: 2,
			want: []string{
				models.ApprovalLevelCenterDirector,
				models.ApprovalLevelDataSteward,
				models.ApprovalLevelPrivacyOfficer,
				models.ApprovalLevelEthicsCommittee,
				models.ApprovalLevelNationalAdmin,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetermineRequiredApprovalLevels(tt.request, tt.collaborators)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetermineRequiredApprovalLevelsStable(t *testing.T) {
	request := models.ResearchRequest{
		RequestedData:          []string{"diagnosis"},
		EthicsApprovalRequired: true,
		SampleSize:             2000,
	}
	first := DetermineRequiredApprovalLevels(request, 0)
	for i := 0; i < 20; i++ {
		if got := DetermineRequiredApprovalLevels(request, 0); !reflect.DeepEqual(got, first) {
			t.Fatalf("iteration %d: got %v, want %v", i, got, first)
		}
	}
}

func approvalWith(level, status string) models.ResearchApproval {
	return models.ResearchApproval{
		ID:        uuid.New(),
		RequestID: uuid.New(),
		Level:     level,
		Status:    status,
	}
}

func TestAggregateRequestStatus(t *testing.T) {
	required := []string{
		models.ApprovalLevelCenterDirector,
		models.ApprovalLevelDataSteward,
	}

	t.Run("any rejection rejects the request", func(t *testing.T) {
		approvals := []models.ResearchApproval{
			approvalWith(models.ApprovalLevelCenterDirector, models.ApprovalStatusApproved),
			approvalWith(models.ApprovalLevelDataSteward, models.ApprovalStatusRejected),
		}
		if got := AggregateRequestStatus(required, approvals); got != models.RequestStatusRejected {
			t.Errorf("got %s, want %s", got, models.RequestStatusRejected)
		}
	})

	t.Run("full coverage approves", func(t *testing.T) {
		approvals := []models.ResearchApproval{
			approvalWith(models.ApprovalLevelCenterDirector, models.ApprovalStatusApproved),
			approvalWith(models.ApprovalLevelDataSteward, models.ApprovalStatusApproved),
		}
		if got := AggregateRequestStatus(required, approvals); got != models.RequestStatusApproved {
			t.Errorf("got %s, want %s", got, models.RequestStatusApproved)
		}
	})

	t.Run("partial coverage stays under review", func(t *testing.T) {
		approvals := []models.ResearchApproval{
			approvalWith(models.ApprovalLevelCenterDirector, models.ApprovalStatusApproved),
			approvalWith(models.ApprovalLevelDataSteward, models.ApprovalStatusPending),
		}
		if got := AggregateRequestStatus(required, approvals); got != models.RequestStatusUnderReview {
			t.Errorf("got %s, want %s", got, models.RequestStatusUnderReview)
		}
	})

	t.Run("no approvals at all stays under review", func(t *testing.T) {
		if got := AggregateRequestStatus(required, nil); got != models.RequestStatusUnderReview {
			t.Errorf("got %s, want %s", got, models.RequestStatusUnderReview)
		}
	})

	t.Run("rejection wins over full coverage", func(t *testing.T) {
		approvals := []models.ResearchApproval{
			approvalWith(models.ApprovalLevelCenterDirector, models.ApprovalStatusApproved),
			approvalWith(models.ApprovalLevelDataSteward, models.ApprovalStatusApproved),
			approvalWith(models.ApprovalLevelPrivacyOfficer, models.ApprovalStatusRejected),
		}
		if got := AggregateRequestStatus(required, approvals); got != models.RequestStatusRejected {
			t.Errorf("got %s, want %s", got, models.RequestStatusRejected)
		}
	})
}
