package domain

import (
	"strings"
	"time"
)

// Project is a tracked brand owned by a user.
type Project struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	CountryCode string    `json:"countryCode"`
	City        string    `json:"city"`
	WebsiteURL  string    `json:"websiteUrl"`
	Description string    `json:"description"`
	Aliases     []string  `json:"aliases"`
	LogoURL     string    `json:"logoUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CanAccess reports whether p may read or edit the project.
// Owners and admins have access; everyone else does not.
func (pr *Project) CanAccess(p Principal) bool {
	return pr.OwnerID == p.UserID || p.IsAdmin()
}

// Competitor is one entry of a domain's competitor list.
type Competitor struct {
	Name    string `json:"name"`
	Website string `json:"website,omitempty"`
}

// BusinessDomain is an activity area under a project.
type BusinessDomain struct {
	ID          string       `json:"id"`
	ProjectID   string       `json:"projectId"`
	Name        string       `json:"name"`
	Notes       string       `json:"notes"`
	Competitors []Competitor `json:"competitors"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// CompetitorNames returns the trimmed, non-empty competitor names.
func (d *BusinessDomain) CompetitorNames() []string {
	names := make([]string, 0, len(d.Competitors))
	for _, c := range d.Competitors {
		if n := strings.TrimSpace(c.Name); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// CleanCompetitors trims entries and drops the ones without a name.
func CleanCompetitors(in []Competitor) []Competitor {
	out := make([]Competitor, 0, len(in))
	for _, c := range in {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		out = append(out, Competitor{Name: name, Website: strings.TrimSpace(c.Website)})
	}
	return out
}
