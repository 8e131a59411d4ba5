package performance

const (
	ReviewCycleStatusDraft  = "draft"
	ReviewCycleStatusActive = "active"
	ReviewCycleStatusClosed = "closed"

	ReviewStatusDraft        = "draft"
	ReviewStatusSubmitted    = "submitted"
	ReviewStatusAcknowledged = "acknowledged"

	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"

	AppraisalStatusPending  = "pending"
	AppraisalStatusProposed = "proposed"
	AppraisalStatusApproved = "approved"
	AppraisalStatusRejected = "rejected"
)

var CycleStatuses = []string{ReviewCycleStatusDraft, ReviewCycleStatusActive, ReviewCycleStatusClosed}
