package shared

const (
	UserID   = "user_id"
	UserRole = "user_role"

	RoleMentor = "mentor"
	RoleMentee = "mentee"
	RoleAdmin  = "admin"

	StageOnboarding = "onboarding"
	StageMining     = "mining"
	StageStructure  = "structure"
	StageTraffic    = "traffic"
	StageScale      = "scale"

	DealStageOpen        = "OPEN"
	DealStagePitchSent   = "PITCH_SENT"
	DealStagePaymentSent = "PAYMENT_SENT"
	DealStagePaid        = "PAID"
	DealStageLost        = "LOST"

	ContentTypeVideo  = "video"
	ContentTypePdf    = "pdf"
	ContentTypeLink   = "link"
	ContentTypeForm   = "form"
	ContentTypeAction = "action"

	StepStatusDone      = "done"
	StepStatusSkipped   = "skipped"
	StepStatusLocked    = "locked"
	StepStatusAvailable = "available"

	TaskStatusOpen = "open"
	TaskStatusDone = "done"

	ChipStatusWarming = "warming"
	ChipStatusReady   = "ready"

	// ChipWarmupTargetDay is the warmup day at which a chip is considered
	// done warming and its owner gets notified.
	ChipWarmupTargetDay = 10

	PlanThreeMonths = "mentoria_3_meses"
	PlanSixMonths   = "mentoria_6_meses"

	BadgeJourneyStarted = "jornada_iniciada"

	// SigningBonusXP is awarded once when a won deal is converted into a mentee.
	SigningBonusXP = 100
)

// ProgramStages is the fixed ordered list of mentorship program stages.
var ProgramStages = []string{
	StageOnboarding,
	StageMining,
	StageStructure,
	StageTraffic,
	StageScale,
}

// NextStage returns the stage following the given one. The second return
// is false when the stage is unknown or already the last one.
func NextStage(stage string) (string, bool) {
	for i, s := range ProgramStages {
		if s == stage {
			if i+1 < len(ProgramStages) {
				return ProgramStages[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

// ValidContentType reports whether ct is one of the closed set of
// onboarding step content types.
func ValidContentType(ct string) bool {
	switch ct {
	case ContentTypeVideo, ContentTypePdf, ContentTypeLink, ContentTypeForm, ContentTypeAction:
		return true
	}
	return false
}
