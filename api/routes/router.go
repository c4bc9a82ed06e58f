package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/flickly-backend/api/controllers"
	"github.com/angelmondragon/flickly-backend/api/middleware"
	"github.com/angelmondragon/flickly-backend/api/responses"
	"github.com/angelmondragon/flickly-backend/internal/auth"
	"github.com/angelmondragon/flickly-backend/internal/genres"
	"github.com/angelmondragon/flickly-backend/internal/movies"
	"github.com/angelmondragon/flickly-backend/internal/users"
	"github.com/angelmondragon/flickly-backend/pkg/config"
	"github.com/angelmondragon/flickly-backend/pkg/db"
	"github.com/angelmondragon/flickly-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/flickly-backend/pkg/errors"
	"github.com/angelmondragon/flickly-backend/pkg/logger"
	"github.com/angelmondragon/flickly-backend/pkg/metrics"
	"github.com/angelmondragon/flickly-backend/pkg/redis"
)

// NewRouter assembles the HTTP surface. redisClient may be nil, in which case
// rate limiting is disabled. reg backs both the HTTP metrics and /metrics.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	reg *prometheus.Registry,
	authService auth.Service,
	movieService movies.Service,
	genreService genres.Service,
	userService users.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(metrics.NewHTTPMetrics(reg)),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "Route not found"))
	})

	var limiter middleware.RateLimitStore
	readiness := map[string]controllers.Pinger{"database": dbP}
	if redisClient != nil {
		limiter = redisClient
		readiness["redis"] = redisClient
	}

	limits := cfg.RateLimit
	authLimit := middleware.RateLimit(
		middleware.NewRateLimitPolicy("auth", limits.AuthWindow, limits.AuthIPLimit).WithSubjectLimit(limits.AuthSubjectLimit),
		limiter, logg)
	searchLimit := middleware.RateLimit(middleware.NewRateLimitPolicy("search", limits.SearchWindow, limits.SearchIPLimit), limiter, logg)
	detailLimit := middleware.RateLimit(middleware.NewRateLimitPolicy("detail", limits.DetailWindow, limits.DetailIPLimit), limiter, logg)
	defaultLimit := middleware.RateLimit(middleware.NewRateLimitPolicy("default", limits.DefaultWindow, limits.DefaultIPLimit), limiter, logg)

	requireAuth := middleware.Auth(authService, logg)
	adminOnly := middleware.RequireRole(enums.UserRoleAdmin, logg)
	selfOrAdmin := middleware.SelfOrAdmin("id", logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(cfg.App.Env, readiness, logg))
	})

	if reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(authLimit).Post("/register", controllers.AuthRegister(authService, logg))
			r.With(authLimit).Post("/login", controllers.AuthLogin(authService, logg))
			r.With(defaultLimit, requireAuth).Get("/me", controllers.AuthMe(userService, logg))
		})

		r.Route("/movies", func(r chi.Router) {
			r.With(searchLimit).Get("/", controllers.MoviesList(movieService, logg))
			r.With(detailLimit).Get("/{id}", controllers.MovieDetail(movieService, logg))
			r.With(detailLimit).Get("/{id}/trailer", controllers.MovieTrailer(movieService, logg))
		})

		r.With(defaultLimit).Get("/genres", controllers.GenresList(genreService, logg))

		r.Route("/users", func(r chi.Router) {
			r.Use(defaultLimit, requireAuth)

			r.With(adminOnly).Post("/", controllers.UsersCreate(userService, logg))
			r.With(adminOnly).Get("/", controllers.UsersList(userService, logg))

			r.Route("/{id}", func(r chi.Router) {
				r.With(adminOnly).Patch("/restore", controllers.UsersRestore(userService, logg))

				r.Group(func(r chi.Router) {
					r.Use(selfOrAdmin)
					r.Get("/", controllers.UsersGet(userService, logg))
					r.Patch("/", controllers.UsersUpdate(userService, logg))
					r.Delete("/", controllers.UsersDelete(userService, logg))
					r.Patch("/password", controllers.UsersUpdatePassword(userService, logg))

					r.Get("/favorites", controllers.FavoritesList(userService, logg))
					r.Post("/favorites/{movieId}", controllers.FavoritesAdd(userService, logg))
					r.Delete("/favorites/{movieId}", controllers.FavoritesRemove(userService, logg))
				})
			})
		})
	})

	return r
}
