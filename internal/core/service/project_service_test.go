package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
)

func newProjectService(projects *stubProjectRepo) (*ProjectService, *stubDomainRepo, *stubAnalysisRepo) {
	domains := &stubDomainRepo{}
	analyses := &stubAnalysisRepo{}
	return NewProjectService(projects, domains, analyses, discardLogger), domains, analyses
}

func TestProjectService_Create(t *testing.T) {
	svc, _, _ := newProjectService(newStubProjectRepo())
	ctx := context.Background()

	p, err := svc.Create(ctx, owner, "  Acme  ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == "" || p.Name != "Acme" || p.OwnerID != owner.UserID {
		t.Fatalf("unexpected project: %+v", p)
	}

	for _, name := range []string{"", " a ", "é"} {
		if _, err := svc.Create(ctx, owner, name); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("Create(%q): expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestProjectService_List_OnlyOwn(t *testing.T) {
	other := ownedProject("p2")
	other.OwnerID = "someone-else"
	svc, _, _ := newProjectService(newStubProjectRepo(ownedProject("p1"), other))

	items, err := svc.List(context.Background(), owner)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].ID != "p1" {
		t.Fatalf("unexpected projects: %+v", items)
	}

	items, _ = svc.List(context.Background(), stranger)
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", items)
	}
}

func TestProjectService_Get_Access(t *testing.T) {
	svc, domains, _ := newProjectService(newStubProjectRepo(ownedProject("p1")))
	ctx := context.Background()
	_ = domains.Create(ctx, &domain.BusinessDomain{ProjectID: "p1", Name: "Retail"})

	detail, err := svc.Get(ctx, owner, "p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(detail.Domains) != 1 {
		t.Fatalf("expected 1 domain, got %d", len(detail.Domains))
	}
	if _, err := svc.Get(ctx, admin, "p1"); err != nil {
		t.Fatalf("admin Get: %v", err)
	}
	if _, err := svc.Get(ctx, stranger, "p1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(ctx, owner, "nope"); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestProjectService_Delete_Cascades(t *testing.T) {
	projects := newStubProjectRepo(ownedProject("p1"))
	svc, domains, analyses := newProjectService(projects)
	ctx := context.Background()

	if err := svc.Delete(ctx, admin, "p1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("non-owner delete: expected not found, got %v", err)
	}
	if err := svc.Delete(ctx, owner, "p1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := projects.FindByID(ctx, "p1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("project still present")
	}
	if !reflect.DeepEqual(domains.deletedProjects, []string{"p1"}) || !reflect.DeepEqual(analyses.deletedProjects, []string{"p1"}) {
		t.Fatalf("cascade missing: domains=%v analyses=%v", domains.deletedProjects, analyses.deletedProjects)
	}
}

func TestProjectService_UpdateBrand(t *testing.T) {
	p := ownedProject("p1")
	p.Description = "old"
	svc, _, _ := newProjectService(newStubProjectRepo(p))
	ctx := context.Background()

	city, empty, name := "  Paris ", "", "Acme Group"
	aliases := domain.ParseAliases(`["Acme", "ACM"]`)
	updated, err := svc.UpdateBrand(ctx, admin, "p1", ports.BrandPatch{
		Name:        &name,
		City:        &city,
		Description: &empty,
		Aliases:     &aliases,
	})
	if err != nil {
		t.Fatalf("UpdateBrand: %v", err)
	}
	if updated.Name != "Acme Group" || updated.City != "Paris" || updated.Description != "" {
		t.Fatalf("unexpected project: %+v", updated)
	}
	if !reflect.DeepEqual(updated.Aliases, []string{"Acme", "ACM"}) {
		t.Fatalf("unexpected aliases: %v", updated.Aliases)
	}
	if updated.WebsiteURL != "acme.fr" {
		t.Fatalf("untouched field changed: %q", updated.WebsiteURL)
	}

	if _, err := svc.UpdateBrand(ctx, stranger, "p1", ports.BrandPatch{City: &city}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	short := "x"
	if _, err := svc.UpdateBrand(ctx, owner, "p1", ports.BrandPatch{Name: &short}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
