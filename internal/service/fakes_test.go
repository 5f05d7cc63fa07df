package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/caremesh/chat-service/internal/domain"
	"github.com/caremesh/chat-service/internal/repository"
)

// In-memory хранилище с клонированием на транзакцию: commit заменяет
// состояние целиком, ошибка fn оставляет исходное нетронутым.

type memStore struct {
	rooms      map[string]*domain.Room
	roomsByKey map[string]*domain.Room
	messages   []*domain.Message
	chatList   map[string]*domain.ChatListEntry // owner|room
	seq        int
	clock      time.Time
}

func newMemStore() *memStore {
	return &memStore{
		rooms:      map[string]*domain.Room{},
		roomsByKey: map[string]*domain.Room{},
		chatList:   map[string]*domain.ChatListEntry{},
		clock:      time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	c.seq = s.seq
	c.clock = s.clock
	for id, r := range s.rooms {
		cp := *r
		c.rooms[id] = &cp
		c.roomsByKey[cp.PairKey] = &cp
	}
	for _, m := range s.messages {
		cp := *m
		c.messages = append(c.messages, &cp)
	}
	for k, e := range s.chatList {
		cp := *e
		c.chatList[k] = &cp
	}
	return c
}

// --- repos ---

type memRooms struct{ s *memStore }

func (r *memRooms) Create(_ context.Context, room *domain.Room) error {
	if _, ok := r.s.roomsByKey[room.PairKey]; ok {
		return repository.ErrAlreadyExists
	}
	room.ID = r.s.nextID("room")
	room.CreatedAt = r.s.tick()
	cp := *room
	r.s.rooms[cp.ID] = &cp
	r.s.roomsByKey[cp.PairKey] = &cp
	return nil
}

func (r *memRooms) GetByPairKey(_ context.Context, key string) (*domain.Room, error) {
	rm, ok := r.s.roomsByKey[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *rm
	return &cp, nil
}

func (r *memRooms) Get(_ context.Context, id string) (*domain.Room, error) {
	rm, ok := r.s.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *rm
	return &cp, nil
}

type memMessages struct{ s *memStore }

func (r *memMessages) Append(_ context.Context, m *domain.Message) error {
	m.ID = r.s.nextID("m")
	m.CreatedAt = r.s.tick()
	cp := *m
	r.s.messages = append(r.s.messages, &cp)
	return nil
}

// то же окно, что и OFFSET (page-1)*limit LIMIT limit в SQL
func (r *memMessages) FetchPage(_ context.Context, roomID string, page, limit int) ([]domain.EnrichedMessage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}

	var all []*domain.Message
	for _, m := range r.s.messages {
		if m.RoomID == roomID {
			all = append(all, m)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })

	start := (page - 1) * limit
	if start >= len(all) {
		return []domain.EnrichedMessage{}, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}

	out := make([]domain.EnrichedMessage, 0, end-start)
	for _, m := range all[start:end] {
		out = append(out, domain.EnrichedMessage{Message: *m})
	}
	return out, nil
}

func (r *memMessages) MarkRead(_ context.Context, roomID, readerID string) (int64, error) {
	var n int64
	for _, m := range r.s.messages {
		if m.RoomID == roomID && m.ReceiverID == readerID && !m.IsRead {
			m.IsRead = true
			n++
		}
	}
	return n, nil
}

func (r *memMessages) AddReaction(_ context.Context, messageID, reaction string) error {
	for _, m := range r.s.messages {
		if m.ID == messageID {
			m.Reactions = append(m.Reactions, reaction)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memChatList struct {
	s         *memStore
	failTouch bool // для проверки отката
}

func (r *memChatList) Touch(_ context.Context, e *domain.ChatListEntry) error {
	if r.failTouch {
		return errors.New("induced touch failure")
	}
	key := e.OwnerID + "|" + e.RoomID
	if cur, ok := r.s.chatList[key]; ok {
		cur.LastMessageID = e.LastMessageID
		cur.UpdatedAt = e.UpdatedAt
		return nil
	}
	cp := *e
	r.s.chatList[key] = &cp
	return nil
}

func (r *memChatList) ListForOwner(_ context.Context, ownerID string) ([]domain.EnrichedChatListEntry, error) {
	var out []domain.EnrichedChatListEntry
	for _, e := range r.s.chatList {
		if e.OwnerID == ownerID {
			out = append(out, domain.EnrichedChatListEntry{ChatListEntry: *e})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// --- uow ---

type memUoW struct {
	rooms    repository.RoomRepository
	messages repository.MessageRepository
	chatList repository.ChatListRepository
}

func (u *memUoW) Rooms() repository.RoomRepository        { return u.rooms }
func (u *memUoW) Messages() repository.MessageRepository  { return u.messages }
func (u *memUoW) ChatList() repository.ChatListRepository { return u.chatList }

type memTxRunner struct {
	s         *memStore
	failTouch bool
}

func (t *memTxRunner) WithinTx(_ context.Context, fn func(uow repository.UnitOfWork) error) error {
	work := t.s.clone()
	uow := &memUoW{
		rooms:    &memRooms{s: work},
		messages: &memMessages{s: work},
		chatList: &memChatList{s: work, failTouch: t.failTouch},
	}
	if err := fn(uow); err != nil {
		return err
	}
	*t.s = *work // commit
	return nil
}

// --- account lookups ---

type memLookup struct {
	role domain.Role
	accs map[string]*domain.Account
	err  error // перекрывает поиск, если задана
}

func (l *memLookup) Role() domain.Role { return l.role }

func (l *memLookup) Lookup(_ context.Context, id string) (*domain.Account, error) {
	if l.err != nil {
		return nil, l.err
	}
	acc, ok := l.accs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func strPtr(s string) *string { return &s }

func newLookup(role domain.Role, ids ...string) *memLookup {
	l := &memLookup{role: role, accs: map[string]*domain.Account{}}
	for _, id := range ids {
		l.accs[id] = &domain.Account{ID: id, Role: role, DisplayName: strPtr("name-" + id)}
	}
	return l
}

// newChatEnv собирает сервис с общим in-memory хранилищем.
func newChatEnv(failTouch bool, patients, clinicians []string) (*ChatService, *memStore) {
	store := newMemStore()
	resolver := NewResolverService(
		newLookup(domain.RolePatient, patients...),
		newLookup(domain.RoleClinician, clinicians...),
	)
	roomSvc := NewRoomService(&memRooms{s: store})
	tx := &memTxRunner{s: store, failTouch: failTouch}
	svc := NewChatService(resolver, roomSvc, tx, &memMessages{s: store}, &memChatList{s: store}, nil)
	return svc, store
}
