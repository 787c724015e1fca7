// services/media.go
package services

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/apex-mentoria/apex_api/dto"
	"github.com/apex-mentoria/apex_api/shared"
)

// MediaService manages step asset storage keys. Uploads go straight to
// object storage through presigned URLs; the API only records the key.
type MediaService struct {
	context.DefaultService

	sqlSvc   *SqlService
	minioSvc *MinIOService
}

const MEDIA_SVC = "media_svc"

const (
	uploadURLExpiry   = 15 * time.Minute
	downloadURLExpiry = time.Hour
)

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *MediaService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.minioSvc = svc.Service(MINIO_SVC).(*MinIOService)
	return nil
}

// CreateStepAssetUpload issues a presigned upload slot for a step's
// content file and records the resulting key on the step.
func (svc *MediaService) CreateStepAssetUpload(stepID, filename string) (*dto.StepAssetUploadResponse, error) {
	step, err := svc.sqlSvc.GetOnboardingStep(stepID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Onboarding step not found")
	}

	if step.ContentType != shared.ContentTypeVideo && step.ContentType != shared.ContentTypePdf {
		return nil, shared.NewBadRequestError(fmt.Errorf("content type %s", step.ContentType), "Only video and pdf steps carry uploaded assets")
	}

	key := stepAssetKey(stepID, filename)
	uploadURL, err := svc.minioSvc.GetUploadURL(key, uploadURLExpiry)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to create upload URL")
	}

	if step.AssetKey != "" && step.AssetKey != key {
		if err := svc.minioSvc.DeleteFile(step.AssetKey); err != nil {
			log.WithError(err).WithField("asset_key", step.AssetKey).Warn("Failed to remove replaced step asset")
		}
	}

	step.AssetKey = key
	if err := svc.sqlSvc.UpdateOnboardingStep(step); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"step_id":   stepID,
		"asset_key": key,
	}).Info("Step asset upload issued")

	return &dto.StepAssetUploadResponse{
		AssetKey:  key,
		UploadURL: uploadURL,
		ExpiresAt: time.Now().Add(uploadURLExpiry),
	}, nil
}

// GetStepAssetURL returns a short lived download URL for a step's asset.
func (svc *MediaService) GetStepAssetURL(stepID string) (*dto.StepAssetURLResponse, error) {
	step, err := svc.sqlSvc.GetOnboardingStep(stepID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Onboarding step not found")
	}
	if step.AssetKey == "" {
		return nil, shared.NewNotFoundError(fmt.Errorf("step %s", stepID), "Step has no asset")
	}

	url, err := svc.minioSvc.GetFileURL(step.AssetKey, downloadURLExpiry)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to create download URL")
	}

	return &dto.StepAssetURLResponse{
		AssetKey:  step.AssetKey,
		URL:       url,
		ExpiresAt: time.Now().Add(downloadURLExpiry),
	}, nil
}

func stepAssetKey(stepID, filename string) string {
	base := strings.ReplaceAll(path.Base(filename), " ", "_")
	return fmt.Sprintf("onboarding/%s/%s_%s", stepID, newID(), base)
}
