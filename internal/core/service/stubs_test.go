package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	seq    int
	filter ports.UserFilter // last List filter
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("u%d", r.seq)
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, f ports.UserFilter) ([]*domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filter = f
	var out []*domain.User
	for _, u := range r.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(u.Email+" "+u.Name), strings.ToLower(f.Query)) {
			continue
		}
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) Count(_ context.Context, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if !u.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) Latest(_ context.Context, limit int) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubProjectRepo struct {
	mu       sync.Mutex
	projects map[string]*domain.Project
	seq      int
}

func newStubProjectRepo(projects ...*domain.Project) *stubProjectRepo {
	r := &stubProjectRepo{projects: make(map[string]*domain.Project)}
	for _, p := range projects {
		r.projects[p.ID] = p
	}
	return r
}

func (r *stubProjectRepo) Create(_ context.Context, p *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	p.ID = fmt.Sprintf("p%d", r.seq)
	clone := *p
	r.projects[p.ID] = &clone
	return nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProjectRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Project
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			clone := *p
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubProjectRepo) ListIDs(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.projects))
	for id := range r.projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *stubProjectRepo) Names(_ context.Context, ids []string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string)
	for _, id := range ids {
		if p, ok := r.projects[id]; ok {
			out[id] = p.Name
		}
	}
	return out, nil
}

func (r *stubProjectRepo) Update(_ context.Context, p *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	r.projects[p.ID] = &clone
	return nil
}

func (r *stubProjectRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.projects, id)
	return nil
}

func (r *stubProjectRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.projects)), nil
}

type stubDomainRepo struct {
	mu              sync.Mutex
	domains         []*domain.BusinessDomain
	seq             int
	deletedProjects []string
	coverage        []ports.DomainCoverage
}

func (r *stubDomainRepo) Create(_ context.Context, d *domain.BusinessDomain) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	d.ID = fmt.Sprintf("d%d", r.seq)
	clone := *d
	r.domains = append(r.domains, &clone)
	return nil
}

func (r *stubDomainRepo) FindByID(_ context.Context, projectID, domainID string) (*domain.BusinessDomain, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.domains {
		if d.ID == domainID && d.ProjectID == projectID {
			clone := *d
			return &clone, nil
		}
	}
	return nil, domain.ErrDomainNotFound
}

func (r *stubDomainRepo) ListByProject(_ context.Context, projectID string) ([]*domain.BusinessDomain, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.BusinessDomain
	for _, d := range r.domains {
		if d.ProjectID == projectID {
			clone := *d
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubDomainRepo) Update(_ context.Context, d *domain.BusinessDomain) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.domains {
		if existing.ID == d.ID {
			clone := *d
			r.domains[i] = &clone
			return nil
		}
	}
	return domain.ErrDomainNotFound
}

func (r *stubDomainRepo) Delete(_ context.Context, projectID, domainID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, d := range r.domains {
		if d.ID == domainID && d.ProjectID == projectID {
			r.domains = append(r.domains[:i], r.domains[i+1:]...)
			return nil
		}
	}
	return domain.ErrDomainNotFound
}

func (r *stubDomainRepo) DeleteByProject(_ context.Context, projectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletedProjects = append(r.deletedProjects, projectID)
	kept := r.domains[:0]
	for _, d := range r.domains {
		if d.ProjectID != projectID {
			kept = append(kept, d)
		}
	}
	r.domains = kept
	return nil
}

func (r *stubDomainRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.domains)), nil
}

func (r *stubDomainRepo) Coverage(_ context.Context) ([]ports.DomainCoverage, error) {
	return r.coverage, nil
}

type stubAnalysisRepo struct {
	mu              sync.Mutex
	runs            []*domain.ProjectAnalysis
	seq             int
	deletedProjects []string
}

func (r *stubAnalysisRepo) Create(_ context.Context, a *domain.ProjectAnalysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	a.ID = fmt.Sprintf("a%d", r.seq)
	clone := *a
	r.runs = append(r.runs, &clone)
	return nil
}

func (r *stubAnalysisRepo) FindByID(_ context.Context, projectID, id string) (*domain.ProjectAnalysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.runs {
		if a.ID == id && a.ProjectID == projectID {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrAnalysisNotFound
}

// ListByProject returns newest first, i.e. reverse insertion order.
func (r *stubAnalysisRepo) ListByProject(_ context.Context, projectID string, limit int) ([]*domain.ProjectAnalysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.ProjectAnalysis
	for i := len(r.runs) - 1; i >= 0; i-- {
		if r.runs[i].ProjectID == projectID {
			clone := *r.runs[i]
			out = append(out, &clone)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubAnalysisRepo) DeleteByProject(_ context.Context, projectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletedProjects = append(r.deletedProjects, projectID)
	return nil
}

func (r *stubAnalysisRepo) Count(_ context.Context, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.runs {
		if !a.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *stubAnalysisRepo) Latest(_ context.Context, limit int) ([]*domain.ProjectAnalysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.ProjectAnalysis
	for i := len(r.runs) - 1; i >= 0 && len(out) < limit; i-- {
		clone := *r.runs[i]
		out = append(out, &clone)
	}
	return out, nil
}

type stubKeyRepo struct {
	keys map[domain.Provider]*domain.LLMKey
}

func newStubKeyRepo() *stubKeyRepo {
	return &stubKeyRepo{keys: make(map[domain.Provider]*domain.LLMKey)}
}

func (r *stubKeyRepo) Upsert(_ context.Context, k *domain.LLMKey) error {
	clone := *k
	r.keys[k.Provider] = &clone
	return nil
}

func (r *stubKeyRepo) Find(_ context.Context, p domain.Provider) (*domain.LLMKey, error) {
	k, ok := r.keys[p]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *k
	return &clone, nil
}

func (r *stubKeyRepo) List(_ context.Context) ([]*domain.LLMKey, error) {
	var out []*domain.LLMKey
	for _, k := range r.keys {
		clone := *k
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out, nil
}

func (r *stubKeyRepo) Delete(_ context.Context, p domain.Provider) error {
	if _, ok := r.keys[p]; !ok {
		return domain.ErrNotFound
	}
	delete(r.keys, p)
	return nil
}

// ---------------------------------------------------------------------------
// Infrastructure stubs
// ---------------------------------------------------------------------------

// reverseBox "encrypts" by reversing the string so tests can inspect it.
type reverseBox struct {
	openErr error
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

func (b reverseBox) Seal(plain string) (ports.SealedKey, error) {
	return ports.SealedKey{Ciphertext: reverse(plain), IV: "iv", Tag: "tag"}, nil
}

func (b reverseBox) Open(s ports.SealedKey) (string, error) {
	if b.openErr != nil {
		return "", b.openErr
	}
	return reverse(s.Ciphertext), nil
}

type stubKeys struct {
	key string
	err error
}

func (k stubKeys) Resolve(context.Context, domain.Provider) (string, error) {
	return k.key, k.err
}

type stubLLM struct {
	mu       sync.Mutex
	provider domain.Provider
	// respond is called for every request in order.
	respond  func(n int, req ports.LLMRequest) (*ports.LLMResponse, error)
	requests []ports.LLMRequest
}

func (c *stubLLM) Provider() domain.Provider { return c.provider }

func (c *stubLLM) Generate(_ context.Context, _ string, req ports.LLMRequest) (*ports.LLMResponse, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	n := len(c.requests)
	c.mu.Unlock()
	return c.respond(n, req)
}

type stubClients struct {
	client ports.LLMClient
}

func (s stubClients) Client(domain.Provider) (ports.LLMClient, error) {
	if s.client == nil {
		return nil, fmt.Errorf("no client")
	}
	return s.client, nil
}

type stubLock struct {
	mu      sync.Mutex
	held    map[string]bool
	release int
}

func newStubLock() *stubLock { return &stubLock{held: make(map[string]bool)} }

func (l *stubLock) Acquire(_ context.Context, key string, _ time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, domain.ErrAnalysisRunning
	}
	l.held[key] = true
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
		l.release++
	}, nil
}

type stubCache struct {
	values map[string]any
}

func newStubCache() *stubCache { return &stubCache{values: make(map[string]any)} }

func (c *stubCache) Get(_ context.Context, key string, dst any) (bool, error) {
	v, ok := c.values[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *[]string:
		*d = v.([]string)
	case *ports.CompetitorSuggestions:
		*d = *v.(*ports.CompetitorSuggestions)
	}
	return true, nil
}

func (c *stubCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.values[key] = value
	return nil
}

type stubSessions struct {
	revoked map[string]time.Time
	err     error
}

func newStubSessions() *stubSessions { return &stubSessions{revoked: make(map[string]time.Time)} }

func (s *stubSessions) Revoke(_ context.Context, id string, until time.Time) error {
	if s.err != nil {
		return s.err
	}
	s.revoked[id] = until
	return nil
}

func (s *stubSessions) IsRevoked(_ context.Context, id string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.revoked[id]
	return ok, nil
}

type stubQueue struct {
	jobs []string
	full bool
}

func (q *stubQueue) Enqueue(id string) bool {
	if q.full {
		return false
	}
	q.jobs = append(q.jobs, id)
	return true
}

// ---------------------------------------------------------------------------
// Principals
// ---------------------------------------------------------------------------

var (
	owner    = domain.Principal{UserID: "owner", Role: domain.RoleUser}
	stranger = domain.Principal{UserID: "stranger", Role: domain.RoleAgency}
	admin    = domain.Principal{UserID: "admin", Role: domain.RoleAdmin}
)

func ownedProject(id string) *domain.Project {
	return &domain.Project{ID: id, OwnerID: owner.UserID, Name: "Acme", City: "Lyon", WebsiteURL: "acme.fr", CreatedAt: time.Now()}
}

func decodeJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return v
}
