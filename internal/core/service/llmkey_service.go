package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
)

// LLMKeyService stores provider keys encrypted and hands out clear keys to
// the services that call a provider.
type LLMKeyService struct {
	repo ports.LLMKeyRepository
	box  ports.KeyBox
	log  zerolog.Logger
}

func NewLLMKeyService(repo ports.LLMKeyRepository, box ports.KeyBox, log zerolog.Logger) *LLMKeyService {
	return &LLMKeyService{repo: repo, box: box, log: log}
}

func (s *LLMKeyService) List(ctx context.Context) ([]*domain.LLMKey, error) {
	keys, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if keys == nil {
		keys = []*domain.LLMKey{}
	}
	return keys, nil
}

// Save encrypts apiKey and replaces the stored key of provider.
func (s *LLMKeyService) Save(ctx context.Context, actor domain.Principal, provider domain.Provider, apiKey string) (*domain.LLMKey, error) {
	apiKey = strings.TrimSpace(apiKey)
	if provider == "" || apiKey == "" {
		return nil, domain.InvalidInput("provider and apiKey are required")
	}
	if !provider.Valid() {
		return nil, domain.InvalidInput("unknown provider")
	}

	sealed, err := s.box.Seal(apiKey)
	if err != nil {
		return nil, fmt.Errorf("encrypt key: %w", err)
	}

	now := time.Now().UTC()
	key := &domain.LLMKey{
		Provider:      provider,
		KeyCiphertext: sealed.Ciphertext,
		KeyIV:         sealed.IV,
		KeyTag:        sealed.Tag,
		Last4:         last4(apiKey),
		CreatedByID:   actor.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Upsert(ctx, key); err != nil {
		return nil, err
	}

	s.log.Info().Str("provider", string(provider)).Str("by", actor.UserID).Msg("llm key saved")
	return key, nil
}

// Delete removes the key of provider. Deleting a missing key succeeds.
func (s *LLMKeyService) Delete(ctx context.Context, provider domain.Provider) error {
	if !provider.Valid() {
		return domain.InvalidInput("unknown provider")
	}
	if err := s.repo.Delete(ctx, provider); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

// Resolve decrypts the key of provider. A key that cannot be decrypted, for
// instance after the encryption key was rotated, reads as missing.
func (s *LLMKeyService) Resolve(ctx context.Context, provider domain.Provider) (string, error) {
	key, err := s.repo.Find(ctx, provider)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.ErrLLMKeyMissing
	}
	if err != nil {
		return "", err
	}

	plain, err := s.box.Open(ports.SealedKey{Ciphertext: key.KeyCiphertext, IV: key.KeyIV, Tag: key.KeyTag})
	if err != nil {
		s.log.Warn().Err(err).Str("provider", string(provider)).Msg("stored llm key could not be decrypted")
		return "", domain.ErrLLMKeyMissing
	}
	return plain, nil
}

func last4(s string) string {
	r := []rune(s)
	if len(r) <= 4 {
		return s
	}
	return string(r[len(r)-4:])
}
