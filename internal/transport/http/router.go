package http

import (
	"net/http"
	"time"

	"github.com/hackz-app/relay-service/internal/metrics"
	httpmw "github.com/hackz-app/relay-service/internal/transport/http/middleware"
	"github.com/hackz-app/relay-service/internal/transport/ws"
	"github.com/hackz-app/relay-service/pkg/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)
	r.Use(httputil.MiddlewareRequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-User-Id", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(httpmw.MetricsMiddleware)
	r.Use(httputil.MiddlewareLogging)

	// WS endpoint for signaling subscriptions
	r.Get("/ws/signal/{roomID}", wsServer.HandleSignal)

	// RPC surface; every call carries the externally issued token
	r.Group(func(pr chi.Router) {
		pr.Use(httpmw.AuthMiddleware)
		pr.Use(middlewareChi.Timeout(30 * time.Second))

		pr.Route("/rpc", func(rp chi.Router) {
			rp.Post("/room.create", h.CreateRoom)
			rp.Post("/room.join", h.JoinRoom)
			rp.Post("/room.send", h.Send)
			rp.Post("/room.poll", h.Poll)
			rp.Post("/room.heartbeat", h.Heartbeat)
			rp.Post("/room.disconnect", h.Disconnect)
			rp.Post("/room.broadcast", h.Broadcast)
			rp.Post("/room.sendToSession", h.SendToSession)

			rp.Post("/signal.create", h.SignalCreate)
			rp.Post("/signal.join", h.SignalJoin)
			rp.Post("/signal.send", h.SignalSend)
			rp.Post("/signal.close", h.SignalClose)

			rp.Get("/presence.get", h.PresenceGet)
			rp.Post("/presence.set", h.PresenceSet)
			rp.Post("/presence.clear", h.PresenceClear)
		})
	})

	// ops
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}
