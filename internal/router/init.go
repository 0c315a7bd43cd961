package router

import (
	"context"

	"github.com/oksasatya/placement-portal/internal/application"
	"github.com/oksasatya/placement-portal/internal/container"
	handlers "github.com/oksasatya/placement-portal/internal/interface/http"
	"github.com/oksasatya/placement-portal/internal/router/modules"
)

// Services are the application services built from the container.
type Services struct {
	Guard    *application.Guard
	Auth     *application.AuthService
	Accounts *application.AccountService
	Profiles *application.ProfileService
	Jobs     *application.JobService
	Apps     *application.ApplicationService
	Stats    *application.StatisticsService
}

func buildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	store := container.GetStore()
	blobs := container.GetBlobs()
	mail := container.GetDispatcher()

	return Services{
		Guard:    application.NewGuard(container.GetJWT()),
		Auth:     application.NewAuthService(store, container.GetJWT(), mail, cfg, logger),
		Accounts: application.NewAccountService(store, mail, cfg, logger),
		Profiles: application.NewProfileService(store, blobs, cfg, logger),
		Jobs:     application.NewJobService(store, container.GetJobIndex(), logger),
		Apps:     application.NewApplicationService(store, blobs, cfg, logger),
		Stats:    application.NewStatisticsService(store, container.GetRedis(), cfg.StatsCacheTTL, logger),
	}
}

func healthChecks() map[string]handlers.Check {
	checks := map[string]handlers.Check{}
	if pool := container.GetPGPool(); pool != nil {
		checks["postgres"] = pool.Ping
	}
	if rdb := container.GetRedis(); rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}

// InitModules builds every service and handler from the container and adds
// the feature modules to r. Call it once during startup, after the
// container is populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	svc := buildServices()

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, cfg.CookieDomain, cfg.CookieSecure)))
	r.Add(modules.NewJobsModule(handlers.NewJobsHandler(svc.Jobs), handlers.NewHealthHandler(healthChecks())))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(svc.Accounts), svc.Guard))
	r.Add(modules.NewOfficerModule(handlers.NewOfficerHandler(svc.Accounts, svc.Stats), svc.Guard))
	r.Add(modules.NewRecruiterModule(handlers.NewRecruiterHandler(svc.Profiles, svc.Jobs, svc.Apps), svc.Guard))
	r.Add(modules.NewStudentModule(handlers.NewStudentHandler(svc.Profiles, svc.Apps, cfg.ResumeMaxBytes), svc.Guard))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
