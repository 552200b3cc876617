package service

import (
	"context"
	"reflect"
	"testing"
)

func TestRefreshService_Refresh(t *testing.T) {
	projects := newStubProjectRepo(ownedProject("p1"), ownedProject("p2"))
	q := &stubQueue{}
	svc := NewRefreshService(projects, q, discardLogger)

	n, err := svc.Refresh(context.Background(), []string{" p2 ", ""})
	if err != nil || n != 1 {
		t.Fatalf("Refresh = %d, %v", n, err)
	}
	if !reflect.DeepEqual(q.jobs, []string{"p2"}) {
		t.Fatalf("unexpected jobs: %v", q.jobs)
	}

	q.jobs = nil
	n, err = svc.Refresh(context.Background(), nil)
	if err != nil || n != 2 {
		t.Fatalf("Refresh all = %d, %v", n, err)
	}
	if !reflect.DeepEqual(q.jobs, []string{"p1", "p2"}) {
		t.Fatalf("unexpected jobs: %v", q.jobs)
	}

	q.full = true
	if n, _ := svc.Refresh(context.Background(), nil); n != 0 {
		t.Fatalf("expected nothing queued on a full queue, got %d", n)
	}
}
