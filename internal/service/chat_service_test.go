package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/caremesh/chat-service/internal/domain"
)

func TestSend_EndToEnd(t *testing.T) {
	svc, store := newChatEnv(false, []string{"u1"}, []string{"d1"})
	ctx := context.Background()

	m1, err := svc.Send(ctx, "u1", "d1", "hi", nil)
	if err != nil {
		t.Fatalf("first send: %v", err)
	}
	if m1.RoomID == "" || m1.ID == "" {
		t.Fatalf("message not filled: %+v", m1)
	}
	if m1.SenderRole != domain.RolePatient || m1.ReceiverRole != domain.RoleClinician {
		t.Fatalf("roles not captured at send time: %+v", m1)
	}
	if len(store.rooms) != 1 {
		t.Fatalf("expected 1 room, got %d", len(store.rooms))
	}

	// обе записи инбокса указывают на m1
	for _, owner := range []string{"u1", "d1"} {
		e, ok := store.chatList[owner+"|"+m1.RoomID]
		if !ok {
			t.Fatalf("chat list entry missing for %s", owner)
		}
		if e.LastMessageID != m1.ID {
			t.Fatalf("entry for %s points to %s, want %s", owner, e.LastMessageID, m1.ID)
		}
	}
	firstUpdated := store.chatList["u1|"+m1.RoomID].UpdatedAt

	// повторная отправка: без второй комнаты, обе записи обновлены на m2
	m2, err := svc.Send(ctx, "u1", "d1", "how are you", nil)
	if err != nil {
		t.Fatalf("second send: %v", err)
	}
	if m2.RoomID != m1.RoomID {
		t.Fatalf("second room created: %s vs %s", m2.RoomID, m1.RoomID)
	}
	if len(store.rooms) != 1 {
		t.Fatalf("expected 1 room after second send, got %d", len(store.rooms))
	}
	for _, owner := range []string{"u1", "d1"} {
		e := store.chatList[owner+"|"+m1.RoomID]
		if e.LastMessageID != m2.ID {
			t.Fatalf("entry for %s not updated: %s", owner, e.LastMessageID)
		}
		if !e.UpdatedAt.After(firstUpdated) {
			t.Fatalf("updatedAt not advanced for %s", owner)
		}
	}
	if len(store.chatList) != 2 {
		t.Fatalf("expected exactly 2 chat list entries, got %d", len(store.chatList))
	}
}

func TestSend_DirectionIndependent(t *testing.T) {
	svc, store := newChatEnv(false, []string{"u1"}, []string{"d1"})
	ctx := context.Background()

	m1, err := svc.Send(ctx, "u1", "d1", "hello doctor", nil)
	if err != nil {
		t.Fatalf("patient->clinician: %v", err)
	}
	m2, err := svc.Send(ctx, "d1", "u1", "hello patient", nil)
	if err != nil {
		t.Fatalf("clinician->patient: %v", err)
	}

	if m1.RoomID != m2.RoomID {
		t.Fatalf("reverse direction resolved another room: %s vs %s", m1.RoomID, m2.RoomID)
	}
	if len(store.rooms) != 1 {
		t.Fatalf("expected 1 room, got %d", len(store.rooms))
	}
}

func TestSend_ReceiverNotFound_NothingPersisted(t *testing.T) {
	svc, store := newChatEnv(false, []string{"u1"}, []string{"d1"})

	_, err := svc.Send(context.Background(), "u1", "ghost", "hi", nil)
	if !errors.Is(err, domain.ErrReceiverNotFound) {
		t.Fatalf("expected ErrReceiverNotFound, got %v", err)
	}

	if len(store.rooms) != 0 || len(store.messages) != 0 || len(store.chatList) != 0 {
		t.Fatalf("partial persistence after failed send: rooms=%d messages=%d chatList=%d",
			len(store.rooms), len(store.messages), len(store.chatList))
	}
}

func TestSend_SenderNotFound(t *testing.T) {
	svc, _ := newChatEnv(false, nil, []string{"d1"})

	_, err := svc.Send(context.Background(), "ghost", "d1", "hi", nil)
	if !errors.Is(err, domain.ErrSenderNotFound) {
		t.Fatalf("expected ErrSenderNotFound, got %v", err)
	}
}

func TestSend_RollbackOnTouchFailure(t *testing.T) {
	svc, store := newChatEnv(true, []string{"u1"}, []string{"d1"})

	_, err := svc.Send(context.Background(), "u1", "d1", "hi", nil)
	if err == nil {
		t.Fatal("expected induced failure")
	}

	// вся единица откатилась: ни комнаты, ни сообщения, ни записей инбокса
	if len(store.rooms) != 0 || len(store.messages) != 0 || len(store.chatList) != 0 {
		t.Fatalf("partial persistence after rollback: rooms=%d messages=%d chatList=%d",
			len(store.rooms), len(store.messages), len(store.chatList))
	}
}

func TestSend_InvalidInput(t *testing.T) {
	svc, _ := newChatEnv(false, []string{"u1"}, []string{"d1"})
	ctx := context.Background()

	cases := []struct {
		name                   string
		sender, receiver, body string
	}{
		{"empty body", "u1", "d1", "   "},
		{"empty sender", "", "d1", "hi"},
		{"empty receiver", "u1", "", "hi"},
	}
	for _, tc := range cases {
		if _, err := svc.Send(ctx, tc.sender, tc.receiver, tc.body, nil); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestSend_SelfMessageRejected(t *testing.T) {
	svc, _ := newChatEnv(false, []string{"u1"}, nil)

	_, err := svc.Send(context.Background(), "u1", "u1", "hi", nil)
	if !errors.Is(err, domain.ErrInvalidParticipants) {
		t.Fatalf("expected ErrInvalidParticipants, got %v", err)
	}
}

func TestHistory_PaginationReconstructsSequence(t *testing.T) {
	svc, _ := newChatEnv(false, []string{"u1"}, []string{"d1"})
	ctx := context.Background()

	var roomID string
	want := make([]string, 0, 6)
	for i := 1; i <= 6; i++ {
		m, err := svc.Send(ctx, "u1", "d1", fmt.Sprintf("msg %d", i), nil)
		if err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
		roomID = m.RoomID
		want = append(want, m.ID)
	}

	var got []string
	for page := 1; page <= 3; page++ {
		items, err := svc.History(ctx, roomID, "u1", page, 2)
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		if len(items) != 2 {
			t.Fatalf("page %d: expected 2 items, got %d", page, len(items))
		}
		for _, it := range items {
			got = append(got, it.ID)
		}
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order broken at %d: got %v want %v", i, got, want)
		}
	}

	// за последней страницей пусто
	items, err := svc.History(ctx, roomID, "u1", 4, 2)
	if err != nil {
		t.Fatalf("page 4: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty page, got %d items", len(items))
	}
}

func TestHistory_Unauthorized(t *testing.T) {
	svc, _ := newChatEnv(false, []string{"u1", "u2"}, []string{"d1"})
	ctx := context.Background()

	m, err := svc.Send(ctx, "u1", "d1", "private", nil)
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if _, err := svc.History(ctx, m.RoomID, "u2", 1, 50); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestHistory_RoomNotFound(t *testing.T) {
	svc, _ := newChatEnv(false, []string{"u1"}, nil)

	if _, err := svc.History(context.Background(), "nope", "u1", 1, 50); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestInbox_OrderedByUpdatedAtDesc(t *testing.T) {
	svc, _ := newChatEnv(false, []string{"u1"}, []string{"d1", "d2"})
	ctx := context.Background()

	if _, err := svc.Send(ctx, "u1", "d1", "first", nil); err != nil {
		t.Fatalf("send d1: %v", err)
	}
	m2, err := svc.Send(ctx, "u1", "d2", "second", nil)
	if err != nil {
		t.Fatalf("send d2: %v", err)
	}

	entries, err := svc.Inbox(ctx, "u1")
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].RoomID != m2.RoomID {
		t.Fatalf("freshest conversation not first: %+v", entries[0])
	}
}

func TestMarkRead(t *testing.T) {
	svc, store := newChatEnv(false, []string{"u1"}, []string{"d1"})
	ctx := context.Background()

	m, err := svc.Send(ctx, "u1", "d1", "read me", nil)
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	n, err := svc.MarkRead(ctx, m.RoomID, "d1")
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 marked, got %d", n)
	}
	if !store.messages[0].IsRead {
		t.Fatal("message not marked read")
	}

	// чужим нельзя
	if _, err := svc.MarkRead(ctx, m.RoomID, "stranger"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestReact(t *testing.T) {
	svc, store := newChatEnv(false, []string{"u1"}, []string{"d1"})
	ctx := context.Background()

	m, err := svc.Send(ctx, "u1", "d1", "hi", nil)
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if err := svc.React(ctx, m.ID, "👍"); err != nil {
		t.Fatalf("react: %v", err)
	}
	if len(store.messages[0].Reactions) != 1 {
		t.Fatalf("reaction not stored: %+v", store.messages[0].Reactions)
	}

	if err := svc.React(ctx, "nope", "👍"); !errors.Is(err, domain.ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}

type countingNotifier struct {
	got []*domain.Message
}

func (n *countingNotifier) MessageCreated(_ context.Context, m *domain.Message) error {
	n.got = append(n.got, m)
	return nil
}

func TestSend_NotifiersCalledAfterCommit(t *testing.T) {
	svc, _ := newChatEnv(false, []string{"u1"}, []string{"d1"})
	notifier := &countingNotifier{}
	svc.AddNotifier(notifier)

	m, err := svc.Send(context.Background(), "u1", "d1", "hi", nil)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(notifier.got) != 1 || notifier.got[0].ID != m.ID {
		t.Fatalf("notifier not called with committed message: %+v", notifier.got)
	}

	// при отказе отправки нотификаций нет
	if _, err := svc.Send(context.Background(), "u1", "ghost", "hi", nil); err == nil {
		t.Fatal("expected failure")
	}
	if len(notifier.got) != 1 {
		t.Fatalf("notifier called on failed send: %d", len(notifier.got))
	}
}
