package handlers

import (
	"github.com/apex-mentoria/apex_api/dto"
	"github.com/apex-mentoria/apex_api/model"
)

type ProgressionServiceInterface interface {
	EnrollMentee(req dto.EnrollMenteeRequest) (*model.Mentee, error)
	AddXP(menteeID string, amount int) (*dto.AddXPResponse, error)
	UnlockBadge(menteeID, badgeID string) error
	GetMenteeProgress(menteeID string) (*dto.MenteeProgressResponse, error)
	RegisterDeviceToken(menteeID, token string) error
}

type OnboardingServiceInterface interface {
	GetState(menteeID string) (*dto.OnboardingStateResponse, error)
	CompleteStep(menteeID, stepID string, formData map[string]interface{}) (*dto.OnboardingStateResponse, error)
	SkipStep(menteeID, stepID string) (*dto.OnboardingStateResponse, error)
	CreateStep(req dto.CreateStepRequest) (*dto.StepResponse, error)
	ListSteps() ([]dto.StepResponse, error)
}

type DealServiceInterface interface {
	CreateLead(req dto.CreateLeadRequest) (*dto.LeadResponse, error)
	ListLeads(limit int) ([]dto.LeadResponse, error)
	CreateDeal(req dto.CreateDealRequest) (*dto.DealResponse, error)
	GetDeal(dealID string) (*dto.DealResponse, error)
	ListDeals(stage string, limit int) ([]dto.DealResponse, error)
	UpdateContact(dealID string, req dto.UpdateDealContactRequest) (*dto.DealResponse, error)
	TransitionStage(dealID, target string) (*dto.DealResponse, error)
}

type OfferServiceInterface interface {
	CreateOffer(req dto.CreateOfferRequest) (*model.Offer, error)
	RecordDailyMeasurement(offerID string, req dto.RecordDailyStatRequest) (*dto.DailyStatResponse, error)
	GetLedger(offerID string) (*dto.OfferLedgerResponse, error)
}

type ReminderServiceInterface interface {
	CreateChip(ownerUserID string, req dto.CreateChipRequest) (*dto.ChipResponse, error)
	ListChips(ownerUserID string) ([]dto.ChipResponse, error)
	AdvanceChip(chipID string) (*dto.ChipResponse, error)
	MarkChipReady(chipID string) (*dto.ChipResponse, error)
	CreateTask(req dto.CreateTaskRequest) (*dto.TaskResponse, error)
	ListTasks(ownerID string, limit int) ([]dto.TaskResponse, error)
	CompleteTask(taskID string) (*dto.TaskResponse, error)
	RegisterUserDeviceToken(userID, token string) error
}

type MediaServiceInterface interface {
	CreateStepAssetUpload(stepID, filename string) (*dto.StepAssetUploadResponse, error)
	GetStepAssetURL(stepID string) (*dto.StepAssetURLResponse, error)
}

type JWTServiceInterface interface {
	GenerateTokenPair(userID, role string) (*dto.TokenPair, error)
}
