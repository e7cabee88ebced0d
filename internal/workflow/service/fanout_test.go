package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	campaignrepo "campaign_bridge_backend/internal/campaign/repository"
	"campaign_bridge_backend/internal/workflow/transport"
)

func baseFanOutInput(leads []transport.Lead) transport.FanOutInput {
	return transport.FanOutInput{
		Company:           "acme-token",
		TenantID:          "tenant-1",
		IDPhase:           "phase-1",
		IDCampaign:        "camp-1",
		IDCampaignVersion: "cv-1",
		IDWorkflow:        5,
		Leads:             leads,
		CampaignType:      CampaignTypeCRM,
		CreatedBy:         42,
	}
}

func TestFanOutEnqueuesOneItemPerLeadPlusFinish(t *testing.T) {
	env := newTestEnv()

	leads := make([]transport.Lead, 25)
	for i := range leads {
		leads[i] = transport.Lead{ID: int64(i + 1), Name: fmt.Sprintf("lead-%d", i+1), Contact: "+3160000000"}
	}

	resp, err := env.svc.SendQueueCreateTicket(context.Background(), baseFanOutInput(leads))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Enqueued != 25 {
		t.Fatalf("expected 25 enqueued, got %d", resp.Enqueued)
	}
	if len(env.enqueuer.created) != 25 {
		t.Fatalf("expected 25 work items, got %d", len(env.enqueuer.created))
	}
	if len(env.enqueuer.statuses) != 1 {
		t.Fatalf("expected exactly one finished transition, got %d", len(env.enqueuer.statuses))
	}
	if env.enqueuer.createdAtStatusEnqueue != 25 {
		t.Fatalf("finished transition enqueued after %d of 25 items", env.enqueuer.createdAtStatusEnqueue)
	}
	if env.crm.templateCalls != 1 {
		t.Fatalf("the principal template must be resolved once per batch, got %d lookups", env.crm.templateCalls)
	}

	status := env.enqueuer.statuses[0]
	if status.Status != campaignrepo.StatusFinished {
		t.Fatalf("expected finished status, got %d", status.Status)
	}
	if status.IDCampaignVersion != "cv-1" || status.Company != "acme-token" {
		t.Fatalf("unexpected status payload: %+v", status)
	}
}

func TestFanOutWorkItemsCarryLeadAndTemplate(t *testing.T) {
	env := newTestEnv()

	leads := []transport.Lead{
		{ID: 11, Name: "Ada", Contact: "+31611111111", Message: "hello"},
		{ID: 12, Name: "Grace", Contact: "+31622222222"},
	}

	if _, err := env.svc.SendQueueCreateTicket(context.Background(), baseFanOutInput(leads)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byID := map[int64]transport.CreateTicketData{}
	for _, item := range env.enqueuer.created {
		byID[item.CRM.IDCRM] = item
	}

	ada, ok := byID[11]
	if !ok {
		t.Fatal("missing work item for lead 11")
	}
	if ada.Name != "Ada" || ada.Contact != "+31611111111" {
		t.Fatalf("unexpected lead fields: %+v", ada)
	}
	if ada.CRM.Template != "tpl-main" || ada.CRM.Table != "customers" || ada.CRM.Column != "id" {
		t.Fatalf("unexpected CRM descriptor: %+v", ada.CRM)
	}
	if ada.Message == nil || ada.Message.Text != "hello" {
		t.Fatalf("lead message should become a message descriptor: %+v", ada.Message)
	}

	grace := byID[12]
	if grace.Message != nil {
		t.Fatal("leads without a message must not get a message descriptor")
	}
}

func TestFanOutAggregatesEnqueueFailures(t *testing.T) {
	env := newTestEnv()
	env.enqueuer.failLeads = map[int64]error{
		2: errors.New("broker unavailable"),
	}

	leads := []transport.Lead{
		{ID: 1, Name: "Ada", Contact: "+3161"},
		{ID: 2, Name: "Grace", Contact: "+3162"},
		{ID: 3, Name: "Edsger", Contact: "+3163"},
	}

	resp, err := env.svc.SendQueueCreateTicket(context.Background(), baseFanOutInput(leads))
	if err == nil {
		t.Fatal("expected aggregated enqueue failure")
	}

	if resp.Enqueued != 2 {
		t.Fatalf("expected 2 enqueued, got %d", resp.Enqueued)
	}
	if len(resp.Failed) != 1 || resp.Failed[0] != "Grace" {
		t.Fatalf("expected Grace to be reported failed, got %v", resp.Failed)
	}
	if len(env.enqueuer.statuses) != 1 {
		t.Fatal("the finished transition is still enqueued after partial failure")
	}
}

func TestFanOutTemplateLookupFailureAbortsBatch(t *testing.T) {
	env := newTestEnv()
	env.crm.templateErr = errors.New("crm down")

	leads := []transport.Lead{{ID: 1, Name: "Ada", Contact: "+3161"}}

	if _, err := env.svc.SendQueueCreateTicket(context.Background(), baseFanOutInput(leads)); err == nil {
		t.Fatal("expected template lookup failure to abort the batch")
	}
	if len(env.enqueuer.created) != 0 {
		t.Fatal("no work items without the principal template")
	}
	if len(env.enqueuer.statuses) != 0 {
		t.Fatal("no finished transition without the principal template")
	}
}

func TestFanOutDelayedDelivery(t *testing.T) {
	env := newTestEnv()

	in := baseFanOutInput([]transport.Lead{{ID: 1, Name: "Ada", Contact: "+3161"}})
	in.DelayMS = 1500

	if _, err := env.svc.SendQueueCreateTicket(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(env.enqueuer.delayed) != 1 {
		t.Fatalf("expected one delayed enqueue, got %d", len(env.enqueuer.delayed))
	}
	if env.enqueuer.delayed[0].Milliseconds() != 1500 {
		t.Fatalf("expected a 1500ms delay, got %s", env.enqueuer.delayed[0])
	}
}
