package seeders

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apex-mentoria/apex_api/model"
	"github.com/apex-mentoria/apex_api/shared"
)

// StepSeeder seeds the default onboarding step catalog
type StepSeeder struct {
	db *gorm.DB
}

func NewStepSeeder(db *gorm.DB) *StepSeeder {
	return &StepSeeder{db: db}
}

func (s *StepSeeder) SeedSteps() error {
	if err := s.db.AutoMigrate(&model.OnboardingStep{}); err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&model.OnboardingStep{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("Onboarding steps already seeded (%d rows), skipping", count)
		return nil
	}

	steps := []model.OnboardingStep{
		{
			Title:       "Vídeo de boas-vindas",
			Description: "Assista ao vídeo de boas-vindas do programa",
			StepOrder:   1,
			IsRequired:  true,
			XPReward:    50,
			ContentType: shared.ContentTypeVideo,
		},
		{
			Title:       "Formulário de perfil",
			Description: "Preencha o formulário com seus dados e objetivos",
			StepOrder:   2,
			IsRequired:  true,
			XPReward:    100,
			ContentType: shared.ContentTypeForm,
		},
		{
			Title:       "Guia do programa",
			Description: "Leia o PDF com as regras e o cronograma do programa",
			StepOrder:   3,
			IsRequired:  false,
			XPReward:    25,
			ContentType: shared.ContentTypePdf,
		},
		{
			Title:       "Entrar no grupo",
			Description: "Entre no grupo de alunos pelo link",
			StepOrder:   4,
			IsRequired:  true,
			XPReward:    50,
			ContentType: shared.ContentTypeLink,
		},
		{
			Title:       "Agendar primeira call",
			Description: "Agende sua primeira call de alinhamento com o mentor",
			StepOrder:   5,
			IsRequired:  false,
			XPReward:    75,
			ContentType: shared.ContentTypeAction,
		},
	}

	for i := range steps {
		id, _ := uuid.NewV7()
		steps[i].ID = id.String()
		steps[i].IsActive = true
	}

	if err := s.db.Create(&steps).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d onboarding steps", len(steps))
	return nil
}
