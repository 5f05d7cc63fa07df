package domain

import "time"

// Message — append-only запись в истории комнаты.
// После записи изменяемы только IsRead и Reactions.
// SenderRole/ReceiverRole фиксируются в момент отправки и никогда
// не пересчитываются: смена типа аккаунта не переписывает историю.
type Message struct {
	ID           string    `db:"id"`
	RoomID       string    `db:"room_id"`
	SenderID     string    `db:"sender_id"`
	ReceiverID   string    `db:"receiver_id"`
	SenderRole   Role      `db:"sender_role"`
	ReceiverRole Role      `db:"receiver_role"`
	Body         string    `db:"body"`
	Documents    []string  `db:"documents"`
	IsRead       bool      `db:"is_read"`
	Reactions    []string  `db:"reactions"`
	CreatedAt    time.Time `db:"created_at"`
}

// DisplayInfo — текущие display-атрибуты участника, подтягиваются
// join-ом при чтении (в отличие от исторической роли в самой записи).
type DisplayInfo struct {
	Name      *string
	AvatarURL *string
	Role      Role
}

// EnrichedMessage — сообщение плюс актуальные данные обеих сторон.
type EnrichedMessage struct {
	Message
	Sender   DisplayInfo
	Receiver DisplayInfo
}

// ChatListEntry — денормализованный указатель владельца на последнее
// сообщение в одной комнате. Ровно одна запись на (owner, room).
type ChatListEntry struct {
	OwnerID       string    `db:"owner_id"`
	OwnerRole     Role      `db:"owner_role"`
	PeerID        string    `db:"peer_id"`
	PeerRole      Role      `db:"peer_role"`
	RoomID        string    `db:"room_id"`
	LastMessageID string    `db:"last_message_id"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// EnrichedChatListEntry — запись инбокса с актуальными данными собеседника
// и телом последнего сообщения.
type EnrichedChatListEntry struct {
	ChatListEntry
	Peer            DisplayInfo
	LastMessageBody string
}
