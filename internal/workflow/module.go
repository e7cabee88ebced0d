// Package workflow provides the campaign ticket workflow bounded context:
// per-lead ticket orchestration, batch fan-out, and workflow id resolution.
package workflow

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	campaignrepo "campaign_bridge_backend/internal/campaign/repository"
	"campaign_bridge_backend/internal/workflow/handler"
	"campaign_bridge_backend/internal/workflow/repository"
	"campaign_bridge_backend/internal/workflow/service"
	"campaign_bridge_backend/platform/logger"
	"campaign_bridge_backend/platform/validator"
)

// Module is the workflow bounded context module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the workflow module. The remote collaborators are passed
// in by the composition root; the campaign version and workflow id stores
// are created here on the shared pool.
func NewModule(
	pool *pgxpool.Pool,
	companies service.CompanyDirectory,
	crmManager service.CRMManager,
	tickets service.Ticketing,
	dispatcher service.MessageDispatcher,
	events service.EventPublisher,
	enqueuer service.Enqueuer,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	svc := service.New(
		campaignrepo.New(pool),
		companies,
		crmManager,
		tickets,
		dispatcher,
		events,
		enqueuer,
		repository.New(pool),
		log,
	)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "workflow"
}

// Service returns the service layer, used by the queue worker.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts workflow routes on the provided group.
func (m *Module) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/campaigns/:id/dispatch", m.handler.Dispatch)
	g.POST("/workflows/resolve", m.handler.ResolveWorkflow)
}
