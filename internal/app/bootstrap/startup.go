// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	auditlogfeature "github.com/dalemusser/ideahub/internal/app/features/auditlog"
	"github.com/dalemusser/ideahub/internal/app/services/accounts"
	articlesvc "github.com/dalemusser/ideahub/internal/app/services/articles"
	"github.com/dalemusser/ideahub/internal/app/services/profiles"
	approvalstore "github.com/dalemusser/ideahub/internal/app/store/approvals"
	articlestore "github.com/dalemusser/ideahub/internal/app/store/articles"
	auditstore "github.com/dalemusser/ideahub/internal/app/store/audit"
	profilestore "github.com/dalemusser/ideahub/internal/app/store/profiles"
	userstore "github.com/dalemusser/ideahub/internal/app/store/users"
	"github.com/dalemusser/ideahub/internal/app/system/auditlog"
	"github.com/dalemusser/ideahub/internal/app/system/timeouts"
	"github.com/dalemusser/ideahub/internal/app/system/txn"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// services bundles the managers shared by Startup and BuildHandler.
type services struct {
	Audit    *auditlog.Logger
	Accounts *accounts.Manager
	Articles *articlesvc.Manager
	Profiles *profiles.Service

	// AuditEvents and Users back the admin audit log view.
	AuditEvents auditlogfeature.EventSource
	Users       auditlogfeature.UserLookup
}

func newServices(appCfg AppConfig, deps DBDeps, logger *zap.Logger) services {
	db := deps.IdeaHubMongoDatabase
	users := userstore.New(db)
	profs := profilestore.New(db)

	events := auditstore.New(db)
	audit := auditlog.New(events, logger, auditlog.Config{
		Auth:    appCfg.AuditLogAuth,
		Admin:   appCfg.AuditLogAdmin,
		Content: appCfg.AuditLogContent,
	})

	acct := accounts.New(users, approvalstore.New(db), profs, deps.Notifications, audit, logger)
	acct.Tx = txn.Runner{DB: db, Log: logger}
	acct.BcryptCost = appCfg.BcryptCost
	acct.NotifyEmail = appCfg.AdminNotifyEmail

	arts := articlesvc.New(articlestore.New(db), users, deps.Images, audit, logger)
	arts.PageSize = appCfg.ArticlesPageSize

	prof := profiles.New(users, profs, logger)
	prof.BcryptCost = appCfg.BcryptCost

	return services{
		Audit:       audit,
		Accounts:    acct,
		Articles:    arts,
		Profiles:    prof,
		AuditEvents: events,
		Users:       users,
	}
}

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built: timeout
// overrides, the notification worker, and the bootstrap admin account.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	deps.Notifications.Start()

	if appCfg.BootstrapAdminEmail == "" {
		return nil
	}
	svc := newServices(appCfg, deps, logger)
	created, err := svc.Accounts.EnsureAdmin(ctx, appCfg.BootstrapAdminEmail, appCfg.BootstrapAdminPassword, appCfg.BootstrapAdminName)
	if err != nil {
		logger.Error("bootstrap admin failed", zap.String("email", appCfg.BootstrapAdminEmail), zap.Error(err))
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	logger.Info("bootstrap admin ready", zap.String("email", appCfg.BootstrapAdminEmail), zap.Bool("created", created))
	return nil
}
