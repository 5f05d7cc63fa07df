package domain

import (
	"strings"
	"time"
)

// Room — единственный диалог между ровно двумя участниками.
// После создания не изменяется и не удаляется.
type Room struct {
	ID        string `db:"id"`
	PairKey   string `db:"pair_key"`
	A         Participant
	B         Participant
	CreatedAt time.Time `db:"created_at"`
}

// канонический порядок пары: сортировка по (role, id)
func pairLess(a, b Participant) bool {
	if a.Role != b.Role {
		return a.Role < b.Role
	}
	return a.ID < b.ID
}

// PairKey — канонический ключ пары, не зависящий от порядка аргументов.
// Хранится в rooms.pair_key под уникальным индексом — это и есть
// точка дедупликации комнат.
func PairKey(a, b Participant) string {
	if pairLess(b, a) {
		a, b = b, a
	}

	var sb strings.Builder
	sb.WriteString(string(a.Role))
	sb.WriteByte(':')
	sb.WriteString(a.ID)
	sb.WriteByte('|')
	sb.WriteString(string(b.Role))
	sb.WriteByte(':')
	sb.WriteString(b.ID)
	return sb.String()
}

// NewRoom валидирует пару и нормализует её в канонический порядок.
func NewRoom(a, b Participant) (*Room, error) {
	if a.ID == "" || b.ID == "" || !ValidRole(a.Role) || !ValidRole(b.Role) {
		return nil, ErrInvalidParticipants
	}
	if a.ID == b.ID && a.Role == b.Role {
		return nil, ErrInvalidParticipants
	}

	if pairLess(b, a) {
		a, b = b, a
	}
	return &Room{PairKey: PairKey(a, b), A: a, B: b}, nil
}

// HasParticipant — проверка членства для авторизации чтения истории.
func (r *Room) HasParticipant(id string) bool {
	return r.A.ID == id || r.B.ID == id
}

// Peer возвращает собеседника для заданного участника комнаты.
func (r *Room) Peer(id string) (Participant, bool) {
	switch id {
	case r.A.ID:
		return r.B, true
	case r.B.ID:
		return r.A, true
	}
	return Participant{}, false
}
