package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/caremesh/chat-service/internal/domain"
	httpmw "github.com/caremesh/chat-service/internal/transport/http/middleware"
	"github.com/caremesh/chat-service/pkg/httputil"

	"github.com/go-chi/chi/v5"
)

type ChatSvc interface {
	Send(ctx context.Context, senderID, receiverID, body string, documents []string) (*domain.Message, error)
	History(ctx context.Context, roomID, requesterID string, page, limit int) ([]domain.EnrichedMessage, error)
	Inbox(ctx context.Context, ownerID string) ([]domain.EnrichedChatListEntry, error)
	MarkRead(ctx context.Context, roomID, readerID string) (int64, error)
	React(ctx context.Context, messageID, reaction string) error
}

type Handler struct {
	chatSvc ChatSvc
}

func NewHandler(chat ChatSvc) *Handler {
	return &Handler{chatSvc: chat}
}

func ok(w http.ResponseWriter, status int, data any) {
	httputil.JSON(w, status, Envelope{Success: true, Data: data})
}

func fail(w http.ResponseWriter, status int, msg string) {
	httputil.JSON(w, status, Envelope{Success: false, Message: msg})
}

// failErr переводит ошибку доменной таксономии в статус и текст.
func failErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		fail(w, http.StatusBadRequest, "Invalid input.")
	case errors.Is(err, domain.ErrSenderNotFound):
		fail(w, http.StatusNotFound, "Sender not found.")
	case errors.Is(err, domain.ErrReceiverNotFound):
		fail(w, http.StatusNotFound, "Receiver not found.")
	case errors.Is(err, domain.ErrInvalidParticipants):
		fail(w, http.StatusBadRequest, "Invalid participants.")
	case errors.Is(err, domain.ErrRoomConflict):
		fail(w, http.StatusConflict, "Could not resolve conversation.")
	case errors.Is(err, domain.ErrRoomNotFound):
		fail(w, http.StatusNotFound, "Room not found.")
	case errors.Is(err, domain.ErrMessageNotFound):
		fail(w, http.StatusNotFound, "Message not found.")
	case errors.Is(err, domain.ErrUnauthorized):
		fail(w, http.StatusForbidden, "Not a participant of this conversation.")
	default:
		slog.Error("handler."+op+":", slog.Any("err", err))
		fail(w, http.StatusInternalServerError, "Something went wrong.")
	}
}

// POST /messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	senderID := httpmw.UserIDFromCtx(r.Context())
	if senderID == "" {
		fail(w, http.StatusUnauthorized, "missing user id")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("handler.SendMessage.Decode:", slog.Any("err", err))
		fail(w, http.StatusBadRequest, "Invalid input.")
		return
	}

	msg, err := h.chatSvc.Send(r.Context(), senderID, req.ReceiverID, req.Body, req.Documents)
	if err != nil {
		failErr(w, "SendMessage", err)
		return
	}

	ok(w, http.StatusCreated, toMessageItem(msg))
}

// GET /rooms/{id}/messages?page=&limit=
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	requesterID := httpmw.UserIDFromCtx(r.Context())
	if requesterID == "" {
		fail(w, http.StatusUnauthorized, "missing user id")
		return
	}

	page := 1
	if s := r.URL.Query().Get("page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			page = n
		}
	}
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}

	items, err := h.chatSvc.History(r.Context(), roomID, requesterID, page, limit)
	if err != nil {
		failErr(w, "GetMessages", err)
		return
	}

	out := make([]MessageItem, 0, len(items))
	for _, em := range items {
		out = append(out, toEnrichedItem(em))
	}

	ok(w, http.StatusOK, out)
}

// GET /chats
func (h *Handler) GetChatList(w http.ResponseWriter, r *http.Request) {
	ownerID := httpmw.UserIDFromCtx(r.Context())
	if ownerID == "" {
		fail(w, http.StatusUnauthorized, "missing user id")
		return
	}

	entries, err := h.chatSvc.Inbox(r.Context(), ownerID)
	if err != nil {
		failErr(w, "GetChatList", err)
		return
	}

	out := make([]ChatListItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, toChatListItem(e))
	}

	ok(w, http.StatusOK, out)
}

// POST /rooms/{id}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	readerID := httpmw.UserIDFromCtx(r.Context())
	if readerID == "" {
		fail(w, http.StatusUnauthorized, "missing user id")
		return
	}

	n, err := h.chatSvc.MarkRead(r.Context(), roomID, readerID)
	if err != nil {
		failErr(w, "MarkRead", err)
		return
	}

	ok(w, http.StatusOK, MarkReadResponse{Marked: n})
}

// POST /messages/{id}/reactions
func (h *Handler) AddReaction(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "id")
	userID := httpmw.UserIDFromCtx(r.Context())
	if userID == "" {
		fail(w, http.StatusUnauthorized, "missing user id")
		return
	}

	var req ReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("handler.AddReaction.Decode:", slog.Any("err", err))
		fail(w, http.StatusBadRequest, "Invalid input.")
		return
	}

	if err := h.chatSvc.React(r.Context(), messageID, req.Reaction); err != nil {
		failErr(w, "AddReaction", err)
		return
	}

	ok(w, http.StatusOK, nil)
}
