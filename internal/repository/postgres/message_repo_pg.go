package postgres

import (
	"context"

	"github.com/caremesh/chat-service/internal/domain"
	"github.com/caremesh/chat-service/internal/repository"
	"github.com/caremesh/chat-service/internal/repository/queries"

	"github.com/jackc/pgx/v5"
)

type MessageRepo struct {
	q querier
}

func NewMessageRepoFromPool(q querier) *MessageRepo {
	return &MessageRepo{q: q}
}

func NewMessageRepoFromTx(tx pgx.Tx) *MessageRepo {
	return &MessageRepo{q: tx}
}

// Append — единственный способ записи; sender_role/receiver_role фиксируются
// из результата резолва этой отправки и дальше не пересчитываются.
func (r *MessageRepo) Append(ctx context.Context, m *domain.Message) error {
	docs := m.Documents
	if docs == nil {
		docs = []string{}
	}
	err := r.q.QueryRow(ctx, queries.QueryAppendMessage,
		m.RoomID,
		m.SenderID, m.ReceiverID,
		m.SenderRole, m.ReceiverRole,
		m.Body, docs,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return mapPgError(err)
	}

	return nil
}

func (r *MessageRepo) FetchPage(ctx context.Context, roomID string, page, limit int) ([]domain.EnrichedMessage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	rows, err := r.q.Query(ctx, queries.QueryFetchMessagePage, roomID, limit, offset)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	out := make([]domain.EnrichedMessage, 0, limit)
	for rows.Next() {
		var (
			em           domain.EnrichedMessage
			senderRole   string
			receiverRole string
		)
		if err := rows.Scan(
			&em.ID, &em.RoomID, &em.SenderID, &em.ReceiverID,
			&em.SenderRole, &em.ReceiverRole,
			&em.Body, &em.Documents, &em.IsRead, &em.Reactions, &em.CreatedAt,
			&em.Sender.Name, &em.Sender.AvatarURL, &senderRole,
			&em.Receiver.Name, &em.Receiver.AvatarURL, &receiverRole,
		); err != nil {
			return nil, err
		}
		em.Sender.Role = domain.Role(senderRole)
		em.Receiver.Role = domain.Role(receiverRole)
		out = append(out, em)
	}

	return out, rows.Err()
}

func (r *MessageRepo) MarkRead(ctx context.Context, roomID, readerID string) (int64, error) {
	tag, err := r.q.Exec(ctx, queries.QueryMarkMessagesRead, roomID, readerID)
	if err != nil {
		return 0, mapPgError(err)
	}

	return tag.RowsAffected(), nil
}

func (r *MessageRepo) AddReaction(ctx context.Context, messageID, reaction string) error {
	tag, err := r.q.Exec(ctx, queries.QueryAddReaction, messageID, reaction)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
