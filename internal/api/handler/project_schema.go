package handler

import (
	"encoding/json"
	"time"

	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
)

type createProjectRequest struct {
	Name string `json:"name"`
}

// projectResponse renders unset profile fields as null.
type projectResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	CountryCode *string   `json:"countryCode"`
	City        *string   `json:"city"`
	WebsiteURL  *string   `json:"websiteUrl"`
	Description *string   `json:"description"`
	Aliases     []string  `json:"aliases"`
	LogoURL     *string   `json:"logoUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toProjectResponse(p *domain.Project) projectResponse {
	aliases := p.Aliases
	if aliases == nil {
		aliases = []string{}
	}
	return projectResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		CountryCode: nullable(p.CountryCode),
		City:        nullable(p.City),
		WebsiteURL:  nullable(p.WebsiteURL),
		Description: nullable(p.Description),
		Aliases:     aliases,
		LogoURL:     nullable(p.LogoURL),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type projectDetailResponse struct {
	projectResponse
	Domains []*domain.BusinessDomain `json:"domains"`
}

// brandRequest is a partial profile update. An absent field is left alone
// and null clears it. aliases accepts an array, a JSON-array string or a
// plain string.
type brandRequest struct {
	Name        *string         `json:"name"`
	CountryCode json.RawMessage `json:"countryCode" swaggertype:"string"`
	City        json.RawMessage `json:"city" swaggertype:"string"`
	WebsiteURL  json.RawMessage `json:"websiteUrl" swaggertype:"string"`
	Description json.RawMessage `json:"description" swaggertype:"string"`
	Aliases     json.RawMessage `json:"aliases" swaggertype:"array,string"`
	LogoURL     json.RawMessage `json:"logoUrl" swaggertype:"string"`
}

func (r brandRequest) toPatch() (ports.BrandPatch, error) {
	patch := ports.BrandPatch{Name: r.Name}
	fields := []struct {
		name string
		raw  json.RawMessage
		dst  **string
	}{
		{"countryCode", r.CountryCode, &patch.CountryCode},
		{"city", r.City, &patch.City},
		{"websiteUrl", r.WebsiteURL, &patch.WebsiteURL},
		{"description", r.Description, &patch.Description},
		{"logoUrl", r.LogoURL, &patch.LogoURL},
	}
	for _, f := range fields {
		v, err := optionalString(f.raw, f.name)
		if err != nil {
			return ports.BrandPatch{}, err
		}
		*f.dst = v
	}
	if len(r.Aliases) > 0 {
		var v any
		if err := json.Unmarshal(r.Aliases, &v); err != nil {
			return ports.BrandPatch{}, domain.InvalidInput("aliases must be an array or a string")
		}
		aliases := domain.ParseAliases(v)
		patch.Aliases = &aliases
	}
	return patch, nil
}

// optionalString decodes a nullable string field. It returns nil when the
// field was absent and a pointer to "" when it was null.
func optionalString(raw json.RawMessage, field string) (*string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var v *string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, domain.InvalidInput(field + " must be a string or null")
	}
	if v == nil {
		empty := ""
		return &empty, nil
	}
	return v, nil
}

type createDomainRequest struct {
	Name        string `json:"name"`
	Notes       string `json:"notes"`
	Competitors []any  `json:"competitors" swaggertype:"array,object"`
}

// updateDomainRequest keeps notes and competitors raw so that an absent
// field and an explicit null can be told apart.
type updateDomainRequest struct {
	Name        *string         `json:"name"`
	Notes       json.RawMessage `json:"notes" swaggertype:"string"`
	Competitors json.RawMessage `json:"competitors" swaggertype:"array,object"`
}

func (r updateDomainRequest) toInput() (ports.UpdateDomainInput, error) {
	in := ports.UpdateDomainInput{Name: r.Name}
	notes, err := optionalString(r.Notes, "notes")
	if err != nil {
		return in, err
	}
	in.Notes = notes
	if len(r.Competitors) > 0 {
		var list []any
		if err := json.Unmarshal(r.Competitors, &list); err != nil {
			return in, domain.InvalidInput("competitors must be an array")
		}
		competitors := domain.ParseCompetitors(list)
		in.Competitors = &competitors
	}
	return in, nil
}
