// services/http.go
package services

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	_ "github.com/apex-mentoria/apex_api/docs"
	"github.com/apex-mentoria/apex_api/services/handlers"
	"github.com/apex-mentoria/apex_api/shared"
)

// authProvider is satisfied by the auth middleware service; declared
// locally to keep the package dependency one-way.
type authProvider interface {
	RequiredAuth() fiber.Handler
	RequireRole(roles ...string) fiber.Handler
}

type HttpService struct {
	context.DefaultService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	progressionSvc := svc.Service(PROGRESSION_SVC).(*ProgressionService)
	onboardingSvc := svc.Service(ONBOARDING_SVC).(*OnboardingService)
	dealSvc := svc.Service(DEAL_SVC).(*DealService)
	offerSvc := svc.Service(OFFER_SVC).(*OfferService)
	reminderSvc := svc.Service(REMINDER_SVC).(*ReminderService)
	mediaSvc := svc.Service(MEDIA_SVC).(*MediaService)
	jwtSvc := svc.Service(JWT_SVC).(*JWTService)
	auth := svc.Service("auth").(authProvider)

	menteeHandler := handlers.NewMenteeHandler(progressionSvc)
	onboardingHandler := handlers.NewOnboardingHandler(onboardingSvc)
	dealHandler := handlers.NewDealHandler(dealSvc)
	offerHandler := handlers.NewOfferHandler(offerSvc)
	reminderHandler := handlers.NewReminderHandler(reminderSvc)
	mediaHandler := handlers.NewMediaHandler(mediaSvc)
	authHandler := handlers.NewAuthHandler(jwtSvc)

	app := fiber.New(fiber.Config{
		ErrorHandler: svc.errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	if monitoringSvc, ok := svc.Service(MONITORING_SVC).(*MonitoringService); ok {
		app.Use(MonitoringMiddleware(monitoringSvc))
	}

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", swagger.HandlerDefault)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)
	v1.Post("/auth/token", authHandler.IssueToken)

	mentees := v1.Group("/mentees", auth.RequiredAuth())
	mentees.Post("/", auth.RequireRole(shared.RoleMentor, shared.RoleAdmin), menteeHandler.EnrollMentee)
	mentees.Get("/:id/progress", menteeHandler.GetProgress)
	mentees.Post("/:id/xp", auth.RequireRole(shared.RoleMentor, shared.RoleAdmin), menteeHandler.AddXP)
	mentees.Post("/:id/badges", auth.RequireRole(shared.RoleMentor, shared.RoleAdmin), menteeHandler.UnlockBadge)
	mentees.Post("/:id/device-tokens", menteeHandler.RegisterDeviceToken)
	mentees.Get("/:id/onboarding", onboardingHandler.GetState)
	mentees.Post("/:id/onboarding/:stepId/complete", onboardingHandler.CompleteStep)
	mentees.Post("/:id/onboarding/:stepId/skip", onboardingHandler.SkipStep)

	onboarding := v1.Group("/onboarding", auth.RequiredAuth())
	onboarding.Get("/steps", onboardingHandler.ListSteps)
	onboarding.Post("/steps", auth.RequireRole(shared.RoleAdmin), onboardingHandler.CreateStep)
	onboarding.Post("/steps/:id/asset-upload", auth.RequireRole(shared.RoleAdmin), mediaHandler.CreateStepAssetUpload)
	onboarding.Get("/steps/:id/asset-url", mediaHandler.GetStepAssetURL)

	leads := v1.Group("/leads", auth.RequiredAuth(), auth.RequireRole(shared.RoleMentor, shared.RoleAdmin))
	leads.Post("/", dealHandler.CreateLead)
	leads.Get("/", dealHandler.ListLeads)

	deals := v1.Group("/deals", auth.RequiredAuth(), auth.RequireRole(shared.RoleMentor, shared.RoleAdmin))
	deals.Post("/", dealHandler.CreateDeal)
	deals.Get("/", dealHandler.ListDeals)
	deals.Get("/:id", dealHandler.GetDeal)
	deals.Put("/:id/contact", dealHandler.UpdateContact)
	deals.Post("/:id/stage", dealHandler.TransitionStage)

	offers := v1.Group("/offers", auth.RequiredAuth(), auth.RequireRole(shared.RoleMentor, shared.RoleAdmin))
	offers.Post("/", offerHandler.CreateOffer)
	offers.Post("/:id/stats", offerHandler.RecordDailyStat)
	offers.Get("/:id/ledger", offerHandler.GetLedger)

	chips := v1.Group("/chips", auth.RequiredAuth())
	chips.Post("/", reminderHandler.CreateChip)
	chips.Get("/", reminderHandler.ListChips)
	chips.Post("/:id/advance", reminderHandler.AdvanceChip)
	chips.Post("/:id/ready", reminderHandler.MarkChipReady)

	tasks := v1.Group("/tasks", auth.RequiredAuth())
	tasks.Post("/", reminderHandler.CreateTask)
	tasks.Get("/", reminderHandler.ListTasks)
	tasks.Post("/:id/complete", reminderHandler.CompleteTask)

	v1.Post("/users/device-tokens", auth.RequiredAuth(), reminderHandler.RegisterDeviceToken)

	app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	svc.server = app

	log.WithField("port", svc.port).Info("HTTP server started")
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}

func (svc *HttpService) errorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	if fiberErr, ok := err.(*fiber.Error); ok {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).Error("Unhandled request error")
	return shared.ResponseInternalError(c, err)
}
