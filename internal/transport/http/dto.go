package http

import (
	"time"

	"github.com/caremesh/chat-service/internal/domain"
)

// Единая форма ответа наружу: {"success":true,"data":...} либо
// {"success":false,"message":"..."}.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type SendMessageRequest struct {
	ReceiverID string   `json:"receiver_id"`
	Body       string   `json:"body"`
	Documents  []string `json:"documents,omitempty"`
}

type ReactionRequest struct {
	Reaction string `json:"reaction"`
}

type PartyInfo struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
	Role   string  `json:"role"`
}

type MessageItem struct {
	ID           string     `json:"id"`
	RoomID       string     `json:"room_id"`
	SenderID     string     `json:"sender_id"`
	ReceiverID   string     `json:"receiver_id"`
	SenderRole   string     `json:"sender_role"`
	ReceiverRole string     `json:"receiver_role"`
	Body         string     `json:"body"`
	Documents    []string   `json:"documents"`
	IsRead       bool       `json:"is_read"`
	Reactions    []string   `json:"reactions"`
	CreatedAt    time.Time  `json:"created_at"`
	Sender       *PartyInfo `json:"sender,omitempty"`
	Receiver     *PartyInfo `json:"receiver,omitempty"`
}

type ChatListItem struct {
	RoomID          string    `json:"room_id"`
	PeerID          string    `json:"peer_id"`
	Peer            PartyInfo `json:"peer"`
	LastMessageID   string    `json:"last_message_id"`
	LastMessageBody string    `json:"last_message_body"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type MarkReadResponse struct {
	Marked int64 `json:"marked"`
}

func toMessageItem(m *domain.Message) MessageItem {
	docs := m.Documents
	if docs == nil {
		docs = []string{}
	}
	reactions := m.Reactions
	if reactions == nil {
		reactions = []string{}
	}

	return MessageItem{
		ID:           m.ID,
		RoomID:       m.RoomID,
		SenderID:     m.SenderID,
		ReceiverID:   m.ReceiverID,
		SenderRole:   string(m.SenderRole),
		ReceiverRole: string(m.ReceiverRole),
		Body:         m.Body,
		Documents:    docs,
		IsRead:       m.IsRead,
		Reactions:    reactions,
		CreatedAt:    m.CreatedAt.Truncate(time.Millisecond),
	}
}

func toEnrichedItem(em domain.EnrichedMessage) MessageItem {
	item := toMessageItem(&em.Message)
	item.Sender = &PartyInfo{
		Name:   em.Sender.Name,
		Avatar: em.Sender.AvatarURL,
		Role:   string(em.Sender.Role),
	}
	item.Receiver = &PartyInfo{
		Name:   em.Receiver.Name,
		Avatar: em.Receiver.AvatarURL,
		Role:   string(em.Receiver.Role),
	}

	return item
}

func toChatListItem(e domain.EnrichedChatListEntry) ChatListItem {
	return ChatListItem{
		RoomID: e.RoomID,
		PeerID: e.PeerID,
		Peer: PartyInfo{
			Name:   e.Peer.Name,
			Avatar: e.Peer.AvatarURL,
			Role:   string(e.Peer.Role),
		},
		LastMessageID:   e.LastMessageID,
		LastMessageBody: e.LastMessageBody,
		UpdatedAt:       e.UpdatedAt.Truncate(time.Millisecond),
	}
}
