package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caremesh/chat-service/internal/domain"
	"github.com/caremesh/chat-service/internal/repository"
)

// todo: вынести в конфиг
const maxBodyLen = 4000

// Notifier получает уже закоммиченные сообщения (ws-рассылка, kafka).
// Ошибки нотификации не влияют на результат отправки.
type Notifier interface {
	MessageCreated(ctx context.Context, m *domain.Message) error
}

// ChatService — координатор отправки: резолв участников, резолв комнаты,
// append сообщения и два upsert-а инбокса как одна атомарная единица.
type ChatService struct {
	resolver *ResolverService
	rooms    *RoomService
	tx       repository.TxRunner

	// pool-репозитории для чтений вне транзакции
	msgRepo  repository.MessageRepository
	listRepo repository.ChatListRepository

	notifiers []Notifier
	now       func() time.Time
}

func NewChatService(
	resolver *ResolverService,
	rooms *RoomService,
	tx repository.TxRunner,
	msgRepo repository.MessageRepository,
	listRepo repository.ChatListRepository,
	now func() time.Time,
) *ChatService {
	if now == nil {
		now = time.Now
	}

	return &ChatService{
		resolver: resolver,
		rooms:    rooms,
		tx:       tx,
		msgRepo:  msgRepo,
		listRepo: listRepo,
		now:      now,
	}
}

func (s *ChatService) AddNotifier(n Notifier) {
	if n != nil {
		s.notifiers = append(s.notifiers, n)
	}
}

// Send выполняет одну логическую отправку.
// Validating -> ResolvingParticipants -> ResolvingRoom -> Persisting;
// четыре записи (комната при первом контакте, сообщение, два входа инбокса)
// коммитятся все разом или не видны вовсе.
func (s *ChatService) Send(ctx context.Context, senderID, receiverID, body string, documents []string) (*domain.Message, error) {
	senderID = domain.NormalizeID(senderID)
	receiverID = domain.NormalizeID(receiverID)
	body = strings.TrimSpace(body)
	if senderID == "" || receiverID == "" || body == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(body) > maxBodyLen {
		return nil, domain.ErrInvalidInput
	}

	sender, err := s.resolver.Resolve(ctx, senderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrSenderNotFound
		}
		return nil, fmt.Errorf("resolve sender: %w", err)
	}
	receiver, err := s.resolver.Resolve(ctx, receiverID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrReceiverNotFound
		}
		return nil, fmt.Errorf("resolve receiver: %w", err)
	}

	msg := &domain.Message{
		SenderID:     sender.ID,
		ReceiverID:   receiver.ID,
		SenderRole:   sender.Role, // роль фиксируется на момент этой отправки
		ReceiverRole: receiver.Role,
		Body:         body,
		Documents:    documents,
	}

	err = s.tx.WithinTx(ctx, func(uow repository.UnitOfWork) error {
		room, err := s.rooms.ResolveOrCreate(ctx, uow, sender.Participant(), receiver.Participant())
		if err != nil {
			return err
		}
		msg.RoomID = room.ID

		if err := uow.Messages().Append(ctx, msg); err != nil {
			return fmt.Errorf("messages.Append: %w", err)
		}

		at := msg.CreatedAt
		if at.IsZero() {
			at = s.now()
		}
		for _, entry := range []*domain.ChatListEntry{
			{
				OwnerID: sender.ID, OwnerRole: sender.Role,
				PeerID: receiver.ID, PeerRole: receiver.Role,
				RoomID: room.ID, LastMessageID: msg.ID, UpdatedAt: at,
			},
			{
				OwnerID: receiver.ID, OwnerRole: receiver.Role,
				PeerID: sender.ID, PeerRole: sender.Role,
				RoomID: room.ID, LastMessageID: msg.ID, UpdatedAt: at,
			},
		} {
			if err := uow.ChatList().Touch(ctx, entry); err != nil {
				return fmt.Errorf("chatList.Touch: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// после коммита: best-effort рассылка
	for _, n := range s.notifiers {
		if err := n.MessageCreated(ctx, msg); err != nil {
			slog.Warn("chat.send.notify failed", slog.Any("err", err))
		}
	}

	return msg, nil
}

// History отдаёт страницу истории комнаты. Запрашивающий обязан быть одним
// из двух участников; чтения не транзакционные и не блокируют отправки.
func (s *ChatService) History(ctx context.Context, roomID, requesterID string, page, limit int) ([]domain.EnrichedMessage, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(domain.NormalizeID(requesterID)) {
		return nil, domain.ErrUnauthorized
	}

	return s.msgRepo.FetchPage(ctx, roomID, page, limit)
}

// Inbox — записи инбокса владельца, updated_at DESC.
func (s *ChatService) Inbox(ctx context.Context, ownerID string) ([]domain.EnrichedChatListEntry, error) {
	ownerID = domain.NormalizeID(ownerID)
	if ownerID == "" {
		return nil, domain.ErrInvalidInput
	}

	return s.listRepo.ListForOwner(ctx, ownerID)
}

// MarkRead помечает прочитанными сообщения комнаты, адресованные читателю.
func (s *ChatService) MarkRead(ctx context.Context, roomID, readerID string) (int64, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return 0, err
	}
	readerID = domain.NormalizeID(readerID)
	if !room.HasParticipant(readerID) {
		return 0, domain.ErrUnauthorized
	}

	return s.msgRepo.MarkRead(ctx, roomID, readerID)
}

// React добавляет реакцию к сообщению.
func (s *ChatService) React(ctx context.Context, messageID, reaction string) error {
	reaction = strings.TrimSpace(reaction)
	if messageID == "" || reaction == "" {
		return domain.ErrInvalidInput
	}

	err := s.msgRepo.AddReaction(ctx, messageID, reaction)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrMessageNotFound
		}
		return err
	}

	return nil
}
