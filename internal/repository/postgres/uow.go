package postgres

import (
	"context"

	"github.com/caremesh/chat-service/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// unitOfWork — репозитории поверх одной pgx.Tx.
type unitOfWork struct {
	rooms    *RoomRepo
	messages *MessageRepo
	chatList *ChatListRepo
}

func (u *unitOfWork) Rooms() repository.RoomRepository { return u.rooms }
func (u *unitOfWork) Messages() repository.MessageRepository { return u.messages }
func (u *unitOfWork) ChatList() repository.ChatListRepository { return u.chatList }

type TxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

// WithinTx выполняет fn в одной транзакции. Ровно один Commit или Rollback:
// ошибка fn (или паника через defer) откатывает все записи разом —
// частично закоммиченной отправки не бывает.
func (m *TxManager) WithinTx(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	uow := &unitOfWork{
		rooms:    NewRoomRepoFromTx(tx),
		messages: NewMessageRepoFromTx(tx),
		chatList: NewChatListRepoFromTx(tx),
	}
	if err := fn(uow); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

var _ repository.TxRunner = (*TxManager)(nil)
