package service

import (
	"context"
	"sync"
	"time"

	campaignrepo "campaign_bridge_backend/internal/campaign/repository"
	"campaign_bridge_backend/internal/company"
	"campaign_bridge_backend/internal/crm"
	"campaign_bridge_backend/internal/messaging"
	"campaign_bridge_backend/internal/ticketing"
	"campaign_bridge_backend/internal/workflow/transport"
	"campaign_bridge_backend/platform/logger"
)

type statusUpdate struct {
	id     string
	status int
}

type fakeCampaigns struct {
	version campaignrepo.Version
	err     error
	updates []statusUpdate
}

func (f *fakeCampaigns) GetVersionByID(_ context.Context, _ string) (campaignrepo.Version, error) {
	if f.err != nil {
		return campaignrepo.Version{}, f.err
	}
	return f.version, nil
}

func (f *fakeCampaigns) UpdateVersionStatus(_ context.Context, id string, status int) error {
	f.updates = append(f.updates, statusUpdate{id: id, status: status})
	return nil
}

type fakeCompanies struct {
	company company.Company
	err     error
	calls   int
}

func (f *fakeCompanies) GetByToken(_ context.Context, _ string) (company.Company, error) {
	f.calls++
	if f.err != nil {
		return company.Company{}, f.err
	}
	return f.company, nil
}

type fakeCRM struct {
	template      crm.Template
	templateErr   error
	templateCalls int

	mu            sync.Mutex
	created       []crm.RecordInput
	idByTemplate  map[string]string
	errByTemplate map[string]error
}

func (f *fakeCRM) GetPrincipalTemplateByCustomer(_ context.Context, _, _ string) (crm.Template, error) {
	f.templateCalls++
	if f.templateErr != nil {
		return crm.Template{}, f.templateErr
	}
	return f.template, nil
}

func (f *fakeCRM) CreateSingleJSON(_ context.Context, _, _ string, in crm.RecordInput) (crm.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.errByTemplate[in.TemplateID]; err != nil {
		return crm.Record{}, err
	}

	f.created = append(f.created, in)
	id := f.idByTemplate[in.TemplateID]
	if id == "" {
		id = "rec-" + in.TemplateID
	}
	return crm.Record{ID: id}, nil
}

func (f *fakeCRM) recordsFor(template string) []crm.RecordInput {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []crm.RecordInput
	for _, in := range f.created {
		if in.TemplateID == template {
			out = append(out, in)
		}
	}
	return out
}

type linkCall struct {
	ticketID string
	template string
	table    string
	column   string
	crmID    string
}

type fakeTickets struct {
	ticket    ticketing.Ticket
	createErr error
	linkErr   error
	open      []ticketing.OpenTicket
	openErr   error

	createCalls int
	openCalls   int
	links       []linkCall
}

func (f *fakeTickets) CreateTicket(_ context.Context, _, _, _ string, _ ticketing.Descriptor) (ticketing.Ticket, error) {
	f.createCalls++
	if f.createErr != nil {
		return ticketing.Ticket{}, f.createErr
	}
	return f.ticket, nil
}

func (f *fakeTickets) LinkCustomer(_ context.Context, _, ticketID, template, table, column, crmID string) error {
	f.links = append(f.links, linkCall{
		ticketID: ticketID,
		template: template,
		table:    table,
		column:   column,
		crmID:    crmID,
	})
	return f.linkErr
}

func (f *fakeTickets) CheckOpenTickets(_ context.Context, _ string, _ int64) ([]ticketing.OpenTicket, error) {
	f.openCalls++
	if f.openErr != nil {
		return nil, f.openErr
	}
	return f.open, nil
}

type fakeDispatcher struct {
	mu       sync.Mutex
	payloads []messaging.Payload
	err      error
}

func (f *fakeDispatcher) SendMessage(_ context.Context, p messaging.Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, p)
	return f.err
}

func (f *fakeDispatcher) sent() []messaging.Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]messaging.Payload(nil), f.payloads...)
}

type publishedEvent struct {
	companyName string
	ticket      ticketing.Ticket
}

type fakeEvents struct {
	mu        sync.Mutex
	published []publishedEvent
	err       error
}

func (f *fakeEvents) PublishTicketCreated(_ context.Context, companyName string, ticket ticketing.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, publishedEvent{companyName: companyName, ticket: ticket})
	return f.err
}

func (f *fakeEvents) events() []publishedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]publishedEvent(nil), f.published...)
}

type fakeEnqueuer struct {
	mu        sync.Mutex
	created   []transport.CreateTicketData
	delayed   []time.Duration
	statuses  []transport.UpdateStatusData
	failLeads map[int64]error
	statusErr error

	// createdAtStatusEnqueue records how many per-lead items had been
	// enqueued when the status transition arrived.
	createdAtStatusEnqueue int
}

func (f *fakeEnqueuer) EnqueueCreateTicket(_ context.Context, data transport.CreateTicketData) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failLeads[data.CRM.IDCRM]; err != nil {
		return err
	}
	f.created = append(f.created, data)
	return nil
}

func (f *fakeEnqueuer) EnqueueCreateTicketDelayed(ctx context.Context, data transport.CreateTicketData, delay time.Duration) error {
	f.mu.Lock()
	f.delayed = append(f.delayed, delay)
	f.mu.Unlock()
	return f.EnqueueCreateTicket(ctx, data)
}

func (f *fakeEnqueuer) EnqueueStatusUpdate(_ context.Context, data transport.UpdateStatusData) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.statusErr != nil {
		return f.statusErr
	}
	f.createdAtStatusEnqueue = len(f.created)
	f.statuses = append(f.statuses, data)
	return nil
}

type fakeWorkflowIDs struct {
	ids       []int64
	getErr    error
	createErr error
	nextID    int64
	creates   int
}

func (f *fakeWorkflowIDs) GetWorkflowID(_ context.Context, _, _ string) ([]int64, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.ids, nil
}

func (f *fakeWorkflowIDs) CreateWorkflowID(_ context.Context, _, _ string) (int64, error) {
	f.creates++
	if f.createErr != nil {
		return 0, f.createErr
	}
	return f.nextID, nil
}

type testEnv struct {
	svc        *Service
	campaigns  *fakeCampaigns
	companies  *fakeCompanies
	crm        *fakeCRM
	tickets    *fakeTickets
	dispatcher *fakeDispatcher
	events     *fakeEvents
	enqueuer   *fakeEnqueuer
	workflows  *fakeWorkflowIDs
}

func newTestEnv() *testEnv {
	env := &testEnv{
		campaigns: &fakeCampaigns{
			version: campaignrepo.Version{
				ID:       "cv-1",
				IDStatus: campaignrepo.StatusActive,
				Name:     "Spring Launch",
				FirstMessage: []campaignrepo.FirstMessage{
					{IDChannel: ChannelWhatsApp, ChannelToken: "chan-token", IDBroker: 77, HSM: true},
				},
			},
		},
		companies: &fakeCompanies{
			company: company.Company{ID: 9, Name: "acme", Token: "acme-token"},
		},
		crm: &fakeCRM{
			template: crm.Template{ID: "tpl-main", Table: "customers"},
		},
		tickets: &fakeTickets{
			ticket: ticketing.Ticket{ID: "tick-1", IDSeq: 1001},
		},
		dispatcher: &fakeDispatcher{},
		events:     &fakeEvents{},
		enqueuer:   &fakeEnqueuer{},
		workflows:  &fakeWorkflowIDs{},
	}

	env.svc = New(
		env.campaigns,
		env.companies,
		env.crm,
		env.tickets,
		env.dispatcher,
		env.events,
		env.enqueuer,
		env.workflows,
		logger.New("development"),
	)

	return env
}

func baseTicketData() transport.CreateTicketData {
	return transport.CreateTicketData{
		Company:           "acme-token",
		TenantID:          "tenant-1",
		IDPhase:           "phase-1",
		IDCampaign:        "camp-1",
		IDCampaignVersion: "cv-1",
		IDWorkflow:        5,
		Name:              "Ada",
		Contact:           "+31612345678",
		CRM: transport.CRMDescriptor{
			Template: "tpl-main",
			Table:    "customers",
			Column:   "id",
			IDCRM:    321,
		},
		CampaignType: CampaignTypeCRM,
		CreatedBy:    42,
	}
}
