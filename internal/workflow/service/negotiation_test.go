package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"campaign_bridge_backend/internal/workflow/transport"
)

func negotiationWithChildren() transport.NegotiationData {
	return transport.NegotiationData{
		Main: transport.NegotiationMain{
			Template:      "tpl-neg",
			CustomerField: "id_customer",
			TicketField:   "id_ticket",
		},
		Children: []transport.NegotiationChild{
			{
				Template:        "tpl-products",
				Values:          map[string]any{"sku": "A-100"},
				ForeignKeyField: "id_negotiation",
			},
			{
				Template: "tpl-notes",
				Values:   map[string]any{"note": "initial contact"},
			},
		},
	}
}

func TestCreateNegotiationMapsIdentityFields(t *testing.T) {
	env := newTestEnv()

	result, err := env.svc.CreateNegotiation(context.Background(), "acme-token", "tenant-1", 321, 1001, transport.NegotiationData{
		Main: transport.NegotiationMain{Template: "tpl-neg", CustomerField: "id_customer", TicketField: "id_ticket"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mains := env.crm.recordsFor("tpl-neg")
	if len(mains) != 1 {
		t.Fatalf("expected one main record, got %d", len(mains))
	}
	if got := mains[0].Data["id_customer"]; got != int64(321) {
		t.Fatalf("expected CRM id under id_customer, got %v", got)
	}
	if got := mains[0].Data["id_ticket"]; got != int64(1001) {
		t.Fatalf("expected ticket sequence id under id_ticket, got %v", got)
	}
	if mains[0].CreatedBy != negotiationCreatedBy {
		t.Fatalf("negotiation records are system-created, got created_by %d", mains[0].CreatedBy)
	}
	if result.Main.ID != "rec-tpl-neg" {
		t.Fatalf("unexpected main record id %q", result.Main.ID)
	}
	if len(result.Children) != 0 {
		t.Fatal("no children requested, none expected")
	}
}

func TestCreateNegotiationInjectsForeignKeyIntoChildren(t *testing.T) {
	env := newTestEnv()
	env.crm.idByTemplate = map[string]string{"tpl-neg": "neg-42"}

	result, err := env.svc.CreateNegotiation(context.Background(), "acme-token", "tenant-1", 321, 1001, negotiationWithChildren())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Children) != 2 {
		t.Fatalf("expected 2 child records, got %d", len(result.Children))
	}

	products := env.crm.recordsFor("tpl-products")
	if len(products) != 1 {
		t.Fatalf("expected one product record, got %d", len(products))
	}
	if got := products[0].Data["id_negotiation"]; got != "neg-42" {
		t.Fatalf("expected main record id injected under id_negotiation, got %v", got)
	}
	if got := products[0].Data["sku"]; got != "A-100" {
		t.Fatalf("child values must be preserved, got %v", got)
	}

	notes := env.crm.recordsFor("tpl-notes")
	if len(notes) != 1 {
		t.Fatalf("expected one note record, got %d", len(notes))
	}
	if _, ok := notes[0].Data["id_negotiation"]; ok {
		t.Fatal("children without a foreign-key field must not be modified")
	}
}

func TestCreateNegotiationMainFailureAbortsChildren(t *testing.T) {
	env := newTestEnv()
	env.crm.errByTemplate = map[string]error{"tpl-neg": errors.New("crm rejected")}

	_, err := env.svc.CreateNegotiation(context.Background(), "acme-token", "tenant-1", 321, 1001, negotiationWithChildren())
	if err == nil {
		t.Fatal("expected main record failure")
	}
	if len(env.crm.recordsFor("tpl-products")) != 0 || len(env.crm.recordsFor("tpl-notes")) != 0 {
		t.Fatal("no child records without a main record")
	}
}

func TestCreateNegotiationCollectsChildFailures(t *testing.T) {
	env := newTestEnv()
	env.crm.errByTemplate = map[string]error{"tpl-products": errors.New("template mismatch")}

	result, err := env.svc.CreateNegotiation(context.Background(), "acme-token", "tenant-1", 321, 1001, negotiationWithChildren())
	if err == nil {
		t.Fatal("expected child failure to surface")
	}
	if !strings.Contains(err.Error(), "tpl-products") {
		t.Fatalf("failure should name the failing template, got %v", err)
	}

	if result.Main.ID == "" {
		t.Fatal("the main record is still returned alongside child failures")
	}
	if len(result.Children) != 1 {
		t.Fatalf("expected the surviving child record, got %d", len(result.Children))
	}
	if len(env.crm.recordsFor("tpl-notes")) != 1 {
		t.Fatal("sibling children are still attempted after a failure")
	}
}
