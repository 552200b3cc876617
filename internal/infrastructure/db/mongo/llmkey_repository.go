package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
)

type LLMKeyRepository struct {
	col *mongo.Collection
}

func NewLLMKeyRepository(db *mongo.Database) *LLMKeyRepository {
	return &LLMKeyRepository{col: db.Collection(collectionLLMKeys)}
}

var _ ports.LLMKeyRepository = (*LLMKeyRepository)(nil)

type llmKeyDoc struct {
	Provider      string    `bson:"provider"`
	KeyCiphertext string    `bson:"key_ciphertext"`
	KeyIV         string    `bson:"key_iv"`
	KeyTag        string    `bson:"key_tag"`
	Last4         string    `bson:"last4"`
	CreatedByID   string    `bson:"created_by_id"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func (d *llmKeyDoc) toDomain() *domain.LLMKey {
	return &domain.LLMKey{
		Provider:      domain.Provider(d.Provider),
		KeyCiphertext: d.KeyCiphertext,
		KeyIV:         d.KeyIV,
		KeyTag:        d.KeyTag,
		Last4:         d.Last4,
		CreatedByID:   d.CreatedByID,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

// Upsert replaces the key material of the provider. created_at and
// created_by_id are only written when the row is new.
func (r *LLMKeyRepository) Upsert(ctx context.Context, k *domain.LLMKey) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := llmKeyUpsert(k)
	_, err := r.col.UpdateOne(ctx, bson.M{"provider": string(k.Provider)}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert llm key: %w", err)
	}
	return nil
}

func llmKeyUpsert(k *domain.LLMKey) bson.M {
	return bson.M{
		"$set": bson.M{
			"key_ciphertext": k.KeyCiphertext,
			"key_iv":         k.KeyIV,
			"key_tag":        k.KeyTag,
			"last4":          k.Last4,
			"updated_at":     k.UpdatedAt.UTC(),
		},
		"$setOnInsert": bson.M{
			"created_by_id": k.CreatedByID,
			"created_at":    k.CreatedAt.UTC(),
		},
	}
}

func (r *LLMKeyRepository) Find(ctx context.Context, provider domain.Provider) (*domain.LLMKey, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc llmKeyDoc
	if err := r.col.FindOne(ctx, bson.M{"provider": string(provider)}).Decode(&doc); err != nil {
		return nil, notFoundOr(err, domain.ErrNotFound)
	}
	return doc.toDomain(), nil
}

func (r *LLMKeyRepository) List(ctx context.Context) ([]*domain.LLMKey, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "provider", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find llm keys: %w", err)
	}
	var docs []llmKeyDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode llm keys: %w", err)
	}
	out := make([]*domain.LLMKey, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *LLMKeyRepository) Delete(ctx context.Context, provider domain.Provider) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"provider": string(provider)})
	if err != nil {
		return fmt.Errorf("delete llm key: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
