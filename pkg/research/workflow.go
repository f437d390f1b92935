package research

import "github.com/oncentra/registry/pkg/common/models"

// approvalLevelOrder fixes the sign-off chain ordering. Determination is
// order-stable: the same request always yields the same sequence.
var approvalLevelOrder = []string{
	models.ApprovalLevelCenterDirector,
	models.ApprovalLevelDataSteward,
	models.ApprovalLevelPrivacyOfficer,
	models.ApprovalLevelEthicsCommittee,
	models.ApprovalLevelNationalAdmin,
}

// DetermineRequiredApprovalLevels computes the sign-off chain for a request.
// CENTER_DIRECTOR is always required; the other levels are triggered by what
// the request asks for. collaborators is the number of invited collaborators
// at determination time.
func DetermineRequiredApprovalLevels(req models.ResearchRequest, collaborators int) []string {
	required := map[string]bool{
		models.ApprovalLevelCenterDirector: true,
	}

	if len(req.RequestedData) > 0 {
		required[models.ApprovalLevelDataSteward] = true
	}
	if req.ConfidentialityReqs != "" || req.RetentionPeriodMonths > 0 {
		required[models.ApprovalLevelPrivacyOfficer] = true
	}
	if req.EthicsApprovalRequired {
		required[models.ApprovalLevelEthicsCommittee] = true
	}
	if req.SampleSize > 1000 || collaborators > 0 {
		required[models.ApprovalLevelNationalAdmin] = true
	}

	levels := make([]string, 0, len(required))
	for _, level := range approvalLevelOrder {
		if required[level] {
			levels = append(levels, level)
		}
	}
	return levels
}

// AggregateRequestStatus folds an approval set into the request status: any
// rejection rejects the request; full coverage of the required levels with
// approvals approves it; anything else stays under review.
func AggregateRequestStatus(requiredLevels []string, approvals []models.ResearchApproval) string {
	approvedByLevel := make(map[string]bool, len(approvals))
	for _, approval := range approvals {
		if approval.Status == models.ApprovalStatusRejected {
			return models.RequestStatusRejected
		}
		if approval.Status == models.ApprovalStatusApproved {
			approvedByLevel[approval.Level] = true
		}
	}

	for _, level := range requiredLevels {
		if !approvedByLevel[level] {
			return models.RequestStatusUnderReview
		}
	}
	return models.RequestStatusApproved
}
