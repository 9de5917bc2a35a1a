package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/hyperr-assistant/internal/handler/chat"
	"github.com/zhouzirui/hyperr-assistant/internal/handler/ws"
	middlewarePkg "github.com/zhouzirui/hyperr-assistant/internal/middleware"
	chatService "github.com/zhouzirui/hyperr-assistant/internal/service/chat"
	"github.com/zhouzirui/hyperr-assistant/pkg/utils"
)

// NewRouter wires HTTP routes to core services. indexFile is served at "/".
func NewRouter(chatSvc *chatService.Service, indexFile string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, indexFile)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	chat.New(chatSvc).RegisterRoutes(r)
	ws.New(chatSvc).RegisterRoutes(r)

	return r
}
