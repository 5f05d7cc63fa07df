package http

import (
	"net/http"
	"time"

	httpmw "github.com/caremesh/chat-service/internal/transport/http/middleware"
	"github.com/caremesh/chat-service/internal/transport/ws"
	"github.com/caremesh/chat-service/pkg/httputil"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(h *Handler, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(httputil.MiddlewareRequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)
	r.Use(httputil.MiddlewareLogging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID", httputil.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// WS endpoint
	r.Get("/ws/chat", wsServer.HandleWS)

	// Все маршруты требуют access_token и user_id
	r.Group(func(pr chi.Router) {
		pr.Use(httpmw.AuthMiddleware)
		pr.Use(middlewareChi.Timeout(30 * time.Second))

		pr.Post("/messages", h.SendMessage)
		pr.Post("/messages/{id}/reactions", h.AddReaction)

		pr.Route("/rooms/{id}", func(rr chi.Router) {
			rr.Get("/messages", h.GetMessages)
			rr.Post("/read", h.MarkRead)
		})

		pr.Get("/chats", h.GetChatList)
	})

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
