package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
)

type DomainRepository struct {
	col *mongo.Collection
}

func NewDomainRepository(db *mongo.Database) *DomainRepository {
	return &DomainRepository{col: db.Collection(collectionDomains)}
}

var _ ports.DomainRepository = (*DomainRepository)(nil)

type competitorDoc struct {
	Name    string `bson:"name"`
	Website string `bson:"website,omitempty"`
}

type domainDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ProjectID   string             `bson:"project_id"`
	Name        string             `bson:"name"`
	Notes       string             `bson:"notes,omitempty"`
	Competitors []competitorDoc    `bson:"competitors"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func competitorDocs(in []domain.Competitor) []competitorDoc {
	out := make([]competitorDoc, 0, len(in))
	for _, c := range in {
		out = append(out, competitorDoc{Name: c.Name, Website: c.Website})
	}
	return out
}

func (d *domainDoc) toDomain() *domain.BusinessDomain {
	competitors := make([]domain.Competitor, 0, len(d.Competitors))
	for _, c := range d.Competitors {
		competitors = append(competitors, domain.Competitor{Name: c.Name, Website: c.Website})
	}
	return &domain.BusinessDomain{
		ID:          d.ID.Hex(),
		ProjectID:   d.ProjectID,
		Name:        d.Name,
		Notes:       d.Notes,
		Competitors: competitors,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (r *DomainRepository) Create(ctx context.Context, d *domain.BusinessDomain) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, domainDoc{
		ProjectID:   d.ProjectID,
		Name:        d.Name,
		Notes:       d.Notes,
		Competitors: competitorDocs(d.Competitors),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert domain: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		d.ID = oid.Hex()
	}
	return nil
}

// scoped matches a domain only under its own project.
func scoped(projectID, domainID string) (bson.M, error) {
	oid, err := objectID(domainID, domain.ErrDomainNotFound)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": oid, "project_id": projectID}, nil
}

func (r *DomainRepository) FindByID(ctx context.Context, projectID, domainID string) (*domain.BusinessDomain, error) {
	filter, err := scoped(projectID, domainID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc domainDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, notFoundOr(err, domain.ErrDomainNotFound)
	}
	return doc.toDomain(), nil
}

func (r *DomainRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.BusinessDomain, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find domains: %w", err)
	}
	var docs []domainDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode domains: %w", err)
	}
	out := make([]*domain.BusinessDomain, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *DomainRepository) Update(ctx context.Context, d *domain.BusinessDomain) error {
	filter, err := scoped(d.ProjectID, d.ID)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"name":        d.Name,
		"notes":       d.Notes,
		"competitors": competitorDocs(d.Competitors),
		"updated_at":  d.UpdatedAt.UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update domain: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrDomainNotFound
	}
	return nil
}

func (r *DomainRepository) Delete(ctx context.Context, projectID, domainID string) error {
	filter, err := scoped(projectID, domainID)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete domain: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrDomainNotFound
	}
	return nil
}

func (r *DomainRepository) DeleteByProject(ctx context.Context, projectID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"project_id": projectID}); err != nil {
		return fmt.Errorf("delete project domains: %w", err)
	}
	return nil
}

func (r *DomainRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.EstimatedDocumentCount(ctx)
}

// coveragePipeline joins each domain to its project name and counts its
// competitors, least covered first.
func coveragePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$addFields", Value: bson.M{
			"project_oid": bson.M{"$convert": bson.M{"input": "$project_id", "to": "objectId", "onError": nil}},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionProjects,
			"localField":   "project_oid",
			"foreignField": "_id",
			"as":           "project",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$project", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{
			"name":             1,
			"project_id":       1,
			"project_name":     bson.M{"$ifNull": bson.A{"$project.name", ""}},
			"competitor_count": bson.M{"$size": bson.M{"$ifNull": bson.A{"$competitors", bson.A{}}}},
			"updated_at":       1,
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "competitor_count", Value: 1}, {Key: "updated_at", Value: -1}}}},
	}
}

type coverageDoc struct {
	ID              primitive.ObjectID `bson:"_id"`
	Name            string             `bson:"name"`
	ProjectID       string             `bson:"project_id"`
	ProjectName     string             `bson:"project_name"`
	CompetitorCount int                `bson:"competitor_count"`
}

func (r *DomainRepository) Coverage(ctx context.Context) ([]ports.DomainCoverage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, coveragePipeline())
	if err != nil {
		return nil, fmt.Errorf("aggregate coverage: %w", err)
	}
	var docs []coverageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode coverage: %w", err)
	}
	out := make([]ports.DomainCoverage, 0, len(docs))
	for _, d := range docs {
		out = append(out, ports.DomainCoverage{
			ID:              d.ID.Hex(),
			Name:            d.Name,
			ProjectID:       d.ProjectID,
			ProjectName:     d.ProjectName,
			CompetitorCount: d.CompetitorCount,
		})
	}
	return out, nil
}
