package mongo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
	"github.com/zetruc/pulse/internal/core/report"
)

type AnalysisRepository struct {
	col *mongo.Collection
}

func NewAnalysisRepository(db *mongo.Database) *AnalysisRepository {
	return &AnalysisRepository{col: db.Collection(collectionAnalyses)}
}

var _ ports.AnalysisRepository = (*AnalysisRepository)(nil)

type analysisContextDoc struct {
	CompanyName string   `bson:"company_name"`
	City        string   `bson:"city,omitempty"`
	Website     string   `bson:"website,omitempty"`
	Competitors []string `bson:"competitors"`
}

// analysisDoc keeps the model payload as JSON text. Arbitrary decoded JSON
// does not survive a BSON round trip as plain maps and slices.
type analysisDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ProjectID string             `bson:"project_id"`
	Provider  string             `bson:"provider"`
	Model     string             `bson:"model"`
	Report    report.Report      `bson:"report"`
	RawJSON   string             `bson:"raw_json,omitempty"`
	RawText   string             `bson:"raw_text,omitempty"`
	Prompt    string             `bson:"prompt,omitempty"`
	Context   analysisContextDoc `bson:"context"`
	CreatedAt time.Time          `bson:"created_at"`
}

func newAnalysisDoc(a *domain.ProjectAnalysis) (analysisDoc, error) {
	doc := analysisDoc{
		ProjectID: a.ProjectID,
		Provider:  string(a.Provider),
		Model:     a.Model,
		Report:    a.Report,
		RawText:   a.RawText,
		Prompt:    a.Prompt,
		Context: analysisContextDoc{
			CompanyName: a.Context.CompanyName,
			City:        a.Context.City,
			Website:     a.Context.Website,
			Competitors: a.Context.Competitors,
		},
		CreatedAt: a.CreatedAt.UTC(),
	}
	if doc.Context.Competitors == nil {
		doc.Context.Competitors = []string{}
	}
	if a.Raw != nil {
		b, err := json.Marshal(a.Raw)
		if err != nil {
			return analysisDoc{}, fmt.Errorf("encode raw payload: %w", err)
		}
		doc.RawJSON = string(b)
	}
	return doc, nil
}

func (d *analysisDoc) toDomain() *domain.ProjectAnalysis {
	a := &domain.ProjectAnalysis{
		ID:        d.ID.Hex(),
		ProjectID: d.ProjectID,
		Provider:  domain.Provider(d.Provider),
		Model:     d.Model,
		Report:    d.Report,
		RawText:   d.RawText,
		Prompt:    d.Prompt,
		Context: domain.AnalysisContext{
			CompanyName: d.Context.CompanyName,
			City:        d.Context.City,
			Website:     d.Context.Website,
			Competitors: d.Context.Competitors,
		},
		CreatedAt: d.CreatedAt.UTC(),
	}
	if d.RawJSON != "" {
		var raw any
		if err := json.Unmarshal([]byte(d.RawJSON), &raw); err == nil {
			a.Raw = raw
		}
	}
	return a
}

func (r *AnalysisRepository) Create(ctx context.Context, a *domain.ProjectAnalysis) error {
	doc, err := newAnalysisDoc(a)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid.Hex()
	}
	return nil
}

func (r *AnalysisRepository) FindByID(ctx context.Context, projectID, analysisID string) (*domain.ProjectAnalysis, error) {
	oid, err := objectID(analysisID, domain.ErrAnalysisNotFound)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc analysisDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid, "project_id": projectID}).Decode(&doc); err != nil {
		return nil, notFoundOr(err, domain.ErrAnalysisNotFound)
	}
	return doc.toDomain(), nil
}

func (r *AnalysisRepository) ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.ProjectAnalysis, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{"project_id": projectID}, opts)
}

// Latest skips the heavy payload fields; callers only need summaries.
func (r *AnalysisRepository) Latest(ctx context.Context, limit int) ([]*domain.ProjectAnalysis, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"raw_json": 0, "raw_text": 0, "prompt": 0})
	return r.find(ctx, bson.M{}, opts)
}

func (r *AnalysisRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.ProjectAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find analyses: %w", err)
	}
	var docs []analysisDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode analyses: %w", err)
	}
	out := make([]*domain.ProjectAnalysis, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *AnalysisRepository) DeleteByProject(ctx context.Context, projectID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"project_id": projectID}); err != nil {
		return fmt.Errorf("delete project analyses: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) Count(ctx context.Context, since time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, sinceFilter(since))
}
