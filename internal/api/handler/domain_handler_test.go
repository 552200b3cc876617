package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
)

func TestDomainHandler_CreateReturnsID(t *testing.T) {
	var got ports.CreateDomainInput
	h := NewDomainHandler(&stubDomainService{create: func(projectID string, in ports.CreateDomainInput) (*domain.BusinessDomain, error) {
		if projectID != "p1" {
			t.Fatalf("unexpected project %q", projectID)
		}
		got = in
		return &domain.BusinessDomain{ID: "d1"}, nil
	}})

	body := `{"name":"Plomberie","competitors":["Alpha",{"name":"Beta","website":"https://beta.fr"},42]}`
	c, rec := newContext(t, request{method: http.MethodPost, target: "/api/projects/p1/domains", body: body, who: &owner,
		params: map[string]string{"id": "p1"}})
	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp idResponse
	decode(t, rec, &resp)
	if resp.ID != "d1" {
		t.Fatalf("expected id d1, got %q", resp.ID)
	}
	if got.Name != "Plomberie" || len(got.Competitors) != 2 || got.Competitors[1].Website != "https://beta.fr" {
		t.Fatalf("unexpected input %+v", got)
	}
}

func TestDomainHandler_UpdateDistinguishesNullNotes(t *testing.T) {
	var got ports.UpdateDomainInput
	h := NewDomainHandler(&stubDomainService{update: func(_, domainID string, in ports.UpdateDomainInput) (*domain.BusinessDomain, error) {
		got = in
		return &domain.BusinessDomain{ID: domainID}, nil
	}})
	params := map[string]string{"id": "p1", "domainId": "d1"}

	c, _ := newContext(t, request{method: http.MethodPatch, target: "/x", body: `{"notes":null}`, who: &owner, params: params})
	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Notes == nil || *got.Notes != "" {
		t.Fatalf("null notes must clear, got %v", got.Notes)
	}
	if got.Name != nil || got.Competitors != nil {
		t.Fatalf("absent fields must stay nil: %+v", got)
	}

	c, _ = newContext(t, request{method: http.MethodPatch, target: "/x", body: `{"name":"Chauffage"}`, who: &owner, params: params})
	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Notes != nil || got.Name == nil || *got.Name != "Chauffage" {
		t.Fatalf("unexpected input %+v", got)
	}
}

func TestDomainHandler_UpdateCompetitors(t *testing.T) {
	var got ports.UpdateDomainInput
	h := NewDomainHandler(&stubDomainService{update: func(_, domainID string, in ports.UpdateDomainInput) (*domain.BusinessDomain, error) {
		got = in
		return &domain.BusinessDomain{ID: domainID}, nil
	}})

	c, _ := newContext(t, request{method: http.MethodPatch, target: "/x", body: `{"competitors":[]}`, who: &owner,
		params: map[string]string{"id": "p1", "domainId": "d1"}})
	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Competitors == nil || len(*got.Competitors) != 0 {
		t.Fatalf("expected explicit empty list, got %v", got.Competitors)
	}
}

func TestDomainHandler_UpdateRejectsBadTypes(t *testing.T) {
	h := NewDomainHandler(&stubDomainService{})
	params := map[string]string{"id": "p1", "domainId": "d1"}

	for _, body := range []string{`{"notes":12}`, `{"competitors":"Alpha"}`} {
		c, _ := newContext(t, request{method: http.MethodPatch, target: "/x", body: body, who: &owner, params: params})
		if err := h.Update(c); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", body, err)
		}
	}
}

func TestDomainHandler_GetAndDelete(t *testing.T) {
	h := NewDomainHandler(&stubDomainService{
		get: func(_, domainID string) (*domain.BusinessDomain, error) {
			return nil, domain.ErrDomainNotFound
		},
		delete: func(projectID, domainID string) error {
			if projectID != "p1" || domainID != "d1" {
				t.Fatalf("unexpected ids %q/%q", projectID, domainID)
			}
			return nil
		},
	})
	params := map[string]string{"id": "p1", "domainId": "d1"}

	c, _ := newContext(t, request{method: http.MethodGet, target: "/x", who: &owner, params: params})
	if err := h.Get(c); !errors.Is(err, domain.ErrDomainNotFound) {
		t.Fatalf("expected ErrDomainNotFound, got %v", err)
	}

	c, rec := newContext(t, request{method: http.MethodDelete, target: "/x", who: &owner, params: params})
	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
