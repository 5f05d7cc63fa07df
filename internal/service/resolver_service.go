package service

import (
	"context"
	"errors"

	"github.com/caremesh/chat-service/internal/domain"
	"github.com/caremesh/chat-service/internal/repository"
)

// ResolverService определяет, какому из раздельных хранилищ аккаунтов
// принадлежит идентификатор. Пространства id не пересекаются, поэтому
// достаточно опросить реализации по порядку: максимум два точечных запроса.
type ResolverService struct {
	lookups []repository.AccountLookup
}

func NewResolverService(lookups ...repository.AccountLookup) *ResolverService {
	return &ResolverService{lookups: lookups}
}

func (s *ResolverService) Resolve(ctx context.Context, id string) (*domain.Account, error) {
	id = domain.NormalizeID(id)
	if id == "" {
		return nil, repository.ErrInvalidInput
	}

	for _, l := range s.lookups {
		acc, err := l.Lookup(ctx, id)
		if err == nil {
			return acc, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	return nil, repository.ErrNotFound
}
