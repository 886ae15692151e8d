// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	approvalsfeature "github.com/dalemusser/ideahub/internal/app/features/approvals"
	articlesfeature "github.com/dalemusser/ideahub/internal/app/features/articles"
	auditlogfeature "github.com/dalemusser/ideahub/internal/app/features/auditlog"
	errorsfeature "github.com/dalemusser/ideahub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/ideahub/internal/app/features/health"
	loginfeature "github.com/dalemusser/ideahub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/ideahub/internal/app/features/logout"
	profilefeature "github.com/dalemusser/ideahub/internal/app/features/profile"
	registerfeature "github.com/dalemusser/ideahub/internal/app/features/register"
	systemusersfeature "github.com/dalemusser/ideahub/internal/app/features/systemusers"
	userinfofeature "github.com/dalemusser/ideahub/internal/app/features/userinfo"
	userstore "github.com/dalemusser/ideahub/internal/app/store/users"
	"github.com/dalemusser/ideahub/internal/app/system/auditlog"
	"github.com/dalemusser/ideahub/internal/app/system/auth"
	"github.com/dalemusser/ideahub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. IdeaHub applies request-id, recovery,
// audit metadata and session middleware, then mounts the JSON feature
// routers: health, auth, articles, admin and profile.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain,
		appCfg.SessionMaxAge, secure, userstore.NewFetcher(deps.IdeaHubMongoDatabase), logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	svc := newServices(appCfg, deps, logger)
	return newRouter(routerDeps{
		Sessions:  sessionMgr,
		Services:  svc,
		DB:        healthfeature.MongoPinger(deps.IdeaHubMongoClient),
		RateLimit: deps.RateLimit,
		Local:     deps.LocalImages != nil,
		LocalPath: appCfg.StorageLocalPath,
		LocalURL:  appCfg.StorageLocalURL,
	}, logger), nil
}

// routerDeps is everything newRouter mounts. It is separate from DBDeps so
// the route table can be built in tests without Mongo.
type routerDeps struct {
	Sessions  *auth.SessionManager
	Services  services
	DB        healthfeature.Pinger
	RateLimit ratelimit.Backend
	Local     bool
	LocalPath string
	LocalURL  string
}

func newRouter(d routerDeps, logger *zap.Logger) chi.Router {
	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()
	sm := d.Sessions
	audit := d.Services.Audit

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(auditlog.Middleware)

	// Global auth middleware: restores the signed-in user for every request.
	r.Use(sm.LoadSession)

	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(d.DB, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Locally stored article images
	if d.Local {
		r.Handle(d.LocalURL+"/*", fileserver.Handler(d.LocalURL, d.LocalPath))
	}

	limit := func(route string) func(http.Handler) http.Handler {
		return ratelimit.Middleware(d.RateLimit, route, func(req *http.Request) {
			audit.RateLimited(req.Context(), route)
		}, logger)
	}

	// Authentication
	r.Route("/auth", func(ar chi.Router) {
		loginHandler := loginfeature.NewHandler(d.Services.Accounts, errLog, logger)
		ar.Mount("/login", loginfeature.Routes(loginHandler, limit("login")))

		registerHandler := registerfeature.NewHandler(d.Services.Accounts, errLog, logger)
		ar.Mount("/register", registerfeature.Routes(registerHandler, limit("register")))

		logoutHandler := logoutfeature.NewHandler(d.Services.Accounts, logger)
		ar.Mount("/logout", logoutfeature.Routes(logoutHandler))

		meHandler := userinfofeature.NewHandler()
		ar.With(sm.RequireSignedIn).Mount("/me", userinfofeature.Routes(meHandler))
	})

	// Articles
	articlesHandler := articlesfeature.NewHandler(d.Services.Articles, errLog, logger)
	r.Mount("/articles", articlesfeature.Routes(articlesHandler, sm))

	// Administration
	r.Route("/admin", func(ad chi.Router) {
		ad.Use(sm.RequireAdmin)

		approvalsHandler := approvalsfeature.NewHandler(d.Services.Accounts, errLog, logger)
		ad.Mount("/requests", approvalsfeature.Routes(approvalsHandler))

		usersHandler := systemusersfeature.NewHandler(d.Services.Accounts, errLog, logger)
		ad.Mount("/users", systemusersfeature.Routes(usersHandler))

		ad.Mount("/articles", articlesfeature.AdminRoutes(articlesHandler))

		auditHandler := auditlogfeature.NewHandler(d.Services.AuditEvents, d.Services.Users, errLog, logger)
		ad.Mount("/audit", auditlogfeature.Routes(auditHandler))
	})

	// Profile
	profileHandler := profilefeature.NewHandler(d.Services.Profiles, errLog, logger)
	r.With(sm.RequireSignedIn).Mount("/profile", profilefeature.Routes(profileHandler))

	return r
}
