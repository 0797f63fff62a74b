package wire

import (
	"net/http"
	"time"

	"hotel-reservation/internal/adaptor"
	"hotel-reservation/internal/data/repository"
	"hotel-reservation/internal/usecase"
	"hotel-reservation/pkg/middleware"
	"hotel-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the router and the services behind it.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds handlers and routes on top of the given services.
func Wiring(
	repo *repository.Repository,
	service *usecase.Service,
	idempotency middleware.IdempotencyStore,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	handler := adaptor.NewHandler(service, config, logger)
	router := setupRouter(handler, repo, idempotency, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

// guards bundles the auth middleware shared by every route group.
type guards struct {
	auth        func(http.Handler) http.Handler
	optional    func(http.Handler) http.Handler
	admin       func(http.Handler) http.Handler
	superAdmin  func(http.Handler) http.Handler
	idempotency func(http.Handler) http.Handler
}

func newGuards(repo *repository.Repository, idempotency middleware.IdempotencyStore, config *utils.Config, logger *zap.Logger) guards {
	cookie := config.Session.CookieName
	return guards{
		auth:        middleware.AuthSession(repo.Session, repo.User, cookie, logger),
		optional:    middleware.OptionalSession(repo.Session, repo.User, cookie, logger),
		admin:       middleware.Admin(logger),
		superAdmin:  middleware.SuperAdmin(logger),
		idempotency: middleware.Idempotency(idempotency),
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	idempotency middleware.IdempotencyStore,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	timeout := time.Duration(config.App.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// Apply global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))
	r.Use(chimiddleware.Timeout(timeout))

	g := newGuards(repo, idempotency, config, logger)

	wireAuth(r, handler.Auth, g)
	wireUser(r, handler.User, g)
	wireRoom(r, handler.Room)
	wireBooking(r, handler.Booking, g)
	wirePayment(r, handler.Payment, g)
	wireAdmin(r, handler, g)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
