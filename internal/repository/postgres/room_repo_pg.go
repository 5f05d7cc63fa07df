package postgres

import (
	"context"
	"errors"

	"github.com/caremesh/chat-service/internal/domain"
	"github.com/caremesh/chat-service/internal/repository"
	"github.com/caremesh/chat-service/internal/repository/queries"

	"github.com/jackc/pgx/v5"
)

type RoomRepo struct {
	q querier
}

// NewRoomRepoFromPool - конструктор от пула (*pgxpool.Pool)
func NewRoomRepoFromPool(q querier) *RoomRepo {
	return &RoomRepo{q: q}
}

// NewRoomRepoFromTx - конструктор от транзакции (pgx.Tx), для составных операций
func NewRoomRepoFromTx(tx pgx.Tx) *RoomRepo {
	return &RoomRepo{q: tx}
}

// Create вставляет комнату под уникальным индексом по pair_key.
// ON CONFLICT DO NOTHING не возвращает строку при гонке — тогда ErrAlreadyExists,
// и вызывающий повторяет поиск по ключу.
func (r *RoomRepo) Create(ctx context.Context, room *domain.Room) error {
	err := r.q.QueryRow(ctx, queries.QueryCreateRoom,
		room.PairKey,
		room.A.ID, room.A.Role,
		room.B.ID, room.B.Role,
	).Scan(&room.ID, &room.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrAlreadyExists
		}
		return mapPgError(err)
	}

	return nil
}

func (r *RoomRepo) GetByPairKey(ctx context.Context, key string) (*domain.Room, error) {
	return r.getOne(ctx, queries.QueryGetRoomByPairKey, key)
}

func (r *RoomRepo) Get(ctx context.Context, id string) (*domain.Room, error) {
	return r.getOne(ctx, queries.QueryGetRoom, id)
}

func (r *RoomRepo) getOne(ctx context.Context, sql string, arg any) (*domain.Room, error) {
	var rm domain.Room
	err := r.q.QueryRow(ctx, sql, arg).Scan(
		&rm.ID, &rm.PairKey,
		&rm.A.ID, &rm.A.Role,
		&rm.B.ID, &rm.B.Role,
		&rm.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, mapPgError(err)
	}

	return &rm, nil
}
