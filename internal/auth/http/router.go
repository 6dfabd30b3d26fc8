package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/opustack/gatekey/internal/auth/service"
	"github.com/opustack/gatekey/internal/auth/store"
	"github.com/opustack/gatekey/pkg/httpx"
	"github.com/opustack/gatekey/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store
	redis *redis.Client

	LoginService  *service.LoginService
	ChooseService *service.MFAChooseService
	UserService   *service.UserService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	rdb *redis.Client,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		redis:        rdb,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		httpx.TracingMiddleware("gatekey"),
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	loginHandler := &LoginHandler{LoginService: r.LoginService}
	chooseHandler := &ChooseHandler{ChooseService: r.ChooseService}

	r.Mux.HandleFunc("POST /v1/auth/login", loginHandler.HandleLogin)
	r.Mux.HandleFunc("POST /v1/auth/mfa/choose", chooseHandler.HandleChoose)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	r.Mux.HandleFunc("POST /v1/users", h.HandleCreate)
	r.Mux.HandleFunc("GET /v1/users", h.HandleList)
	r.Mux.HandleFunc("PATCH /v1/users/{id}", h.HandleUpdate)
	r.Mux.HandleFunc("POST /v1/users/{id}/mfa", h.HandleEnroll)
}

func (r *Router) registerSystem() {
	r.Mux.HandleFunc("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.HandleFunc("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.redis))
}
