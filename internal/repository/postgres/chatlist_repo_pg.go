package postgres

import (
	"context"

	"github.com/caremesh/chat-service/internal/domain"
	"github.com/caremesh/chat-service/internal/repository/queries"

	"github.com/jackc/pgx/v5"
)

type ChatListRepo struct {
	q querier
}

func NewChatListRepoFromPool(q querier) *ChatListRepo {
	return &ChatListRepo{q: q}
}

func NewChatListRepoFromTx(tx pgx.Tx) *ChatListRepo {
	return &ChatListRepo{q: tx}
}

// Touch — upsert по (owner_id, room_id): дубликат записи для одной пары
// (владелец, комната) невозможен, конфликт переходит в UPDATE.
func (r *ChatListRepo) Touch(ctx context.Context, e *domain.ChatListEntry) error {
	_, err := r.q.Exec(ctx, queries.QueryTouchChatList,
		e.OwnerID, e.OwnerRole,
		e.PeerID, e.PeerRole,
		e.RoomID, e.LastMessageID, e.UpdatedAt,
	)
	if err != nil {
		return mapPgError(err)
	}

	return nil
}

func (r *ChatListRepo) ListForOwner(ctx context.Context, ownerID string) ([]domain.EnrichedChatListEntry, error) {
	rows, err := r.q.Query(ctx, queries.QueryListChatsForOwner, ownerID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	out := make([]domain.EnrichedChatListEntry, 0, 16)
	for rows.Next() {
		var (
			e        domain.EnrichedChatListEntry
			peerRole string
		)
		if err := rows.Scan(
			&e.OwnerID, &e.OwnerRole, &e.PeerID, &e.PeerRole, &e.RoomID,
			&e.LastMessageID, &e.UpdatedAt,
			&e.Peer.Name, &e.Peer.AvatarURL, &peerRole,
			&e.LastMessageBody,
		); err != nil {
			return nil, err
		}
		e.Peer.Role = domain.Role(peerRole)
		out = append(out, e)
	}

	return out, rows.Err()
}
