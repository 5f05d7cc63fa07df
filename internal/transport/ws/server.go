package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/caremesh/chat-service/internal/domain"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type ChatSvc interface {
	Send(ctx context.Context, senderID, receiverID, body string, documents []string) (*domain.Message, error)
}

type Server struct {
	upgrader websocket.Upgrader
	hub      *Hub
	chatSvc  ChatSvc

	pingEvery time.Duration
}

func NewServer(hub *Hub, chat ChatSvc) *Server {
	return &Server{
		hub:     hub,
		chatSvc: chat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery: 15 * time.Second,
	}
}

// MessageCreated — реализация service.Notifier: закоммиченное сообщение
// уходит во все открытые сессии обеих сторон.
func (s *Server) MessageCreated(_ context.Context, m *domain.Message) error {
	out := Message{
		Type: TypeChat,
		Payload: ChatPayload{
			ReceiverID: m.ReceiverID,
			Message:    m.Body,
			Documents:  m.Documents,
			MsgID:      m.ID,
			RoomID:     m.RoomID,
			SenderID:   m.SenderID,
			SenderRole: string(m.SenderRole),
			TSUnix:     m.CreatedAt.Unix(),
		},
	}
	s.hub.SendToUser(m.ReceiverID, out)
	s.hub.SendToUser(m.SenderID, out)

	return nil
}

// WS endpoint: GET /ws/chat?access_token=...&user_id=...
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	accessToken := strings.TrimSpace(q.Get("access_token"))
	userID := strings.TrimSpace(q.Get("user_id"))
	if accessToken == "" {
		http.Error(w, "missing access_token", http.StatusUnauthorized)
		return
	}
	if _, err := uuid.Parse(userID); err != nil {
		http.Error(w, "invalid user_id", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		http.Error(w, "upgrade failed", http.StatusBadRequest)
		return
	}

	c := newWsConn(conn, userID)
	s.hub.Add(c)

	go s.writeLoop(r.Context(), c)
	s.readLoop(r.Context(), c)

	s.hub.Remove(c)

	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "user", userID, "err", err)
	}
}

func (s *Server) readLoop(ctx context.Context, c *wsConn) {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(1 << 20)
	c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case TypeChat:
			var p ChatPayload
			if decode(msg.Payload, &p) != nil {
				continue
			}
			text := strings.TrimSpace(p.Message)
			if text == "" {
				continue
			}

			// Отправка идёт через координатор: рассылку обеим сторонам
			// делает Notifier после коммита, здесь только ACK отправителю.
			saved, err := s.chatSvc.Send(ctx, c.userID, p.ReceiverID, text, p.Documents)
			if err != nil {
				slog.Warn("ws chat send failed", "user", c.userID, "err", err)
				_ = c.Send(Message{
					Type:    TypeError,
					Payload: ErrorPayload{Message: "message not delivered"},
				})
				continue
			}

			_ = c.Send(Message{
				Type:    TypeChatAck,
				Payload: ChatAckPayload{MsgID: saved.ID, RoomID: saved.RoomID},
			})
		default:
			// ignore
		}
	}
}

func (s *Server) writeLoop(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		}
	}
}

// --- helpers ---

func decode(payload interface{}, dst interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, dst)
}

type wsConn struct {
	conn   *websocket.Conn
	userID string
	sendMu chan struct{}
	closed chan struct{}
}

func newWsConn(c *websocket.Conn, userID string) *wsConn {
	return &wsConn{
		conn:   c,
		userID: userID,
		sendMu: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) Send(msg Message) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return c.conn.WriteJSON(msg)
}

func (c *wsConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}

	return c.conn.Close()
}

func (c *wsConn) UserID() string { return c.userID }
