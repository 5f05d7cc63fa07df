package repository

import (
	"context"

	"github.com/caremesh/chat-service/internal/domain"
)

// AccountLookup — capability-интерфейс точечного поиска аккаунта в одном
// из двух раздельных хранилищ (пациенты, врачи). Единой таблицы аккаунтов
// нет, поэтому резолвер опрашивает реализации по очереди.
type AccountLookup interface {
	Role() domain.Role
	Lookup(ctx context.Context, id string) (*domain.Account, error)
}

type RoomRepository interface {
	// Create заполняет ID и CreatedAt; при гонке по pair_key — ErrAlreadyExists.
	Create(ctx context.Context, room *domain.Room) error
	GetByPairKey(ctx context.Context, key string) (*domain.Room, error)
	Get(ctx context.Context, id string) (*domain.Room, error)
}

type MessageRepository interface {
	// Append заполняет ID и CreatedAt.
	Append(ctx context.Context, m *domain.Message) error
	// FetchPage — страницы по (page-1)*limit, created_at ASC, с актуальными
	// display-данными обеих сторон.
	FetchPage(ctx context.Context, roomID string, page, limit int) ([]domain.EnrichedMessage, error)
	// MarkRead помечает прочитанными сообщения, адресованные readerID.
	MarkRead(ctx context.Context, roomID, readerID string) (int64, error)
	AddReaction(ctx context.Context, messageID, reaction string) error
}

type ChatListRepository interface {
	// Touch — upsert по (owner_id, room_id): создать при первом сообщении,
	// дальше только обновлять last_message_id/updated_at.
	Touch(ctx context.Context, e *domain.ChatListEntry) error
	ListForOwner(ctx context.Context, ownerID string) ([]domain.EnrichedChatListEntry, error)
}

// UnitOfWork — репозитории, привязанные к одной транзакции.
// Все записи одной логической отправки идут через один UnitOfWork.
type UnitOfWork interface {
	Rooms() RoomRepository
	Messages() MessageRepository
	ChatList() ChatListRepository
}

// TxRunner выполняет fn в транзакции: ровно один commit или rollback на границе.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(uow UnitOfWork) error) error
}
