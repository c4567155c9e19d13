package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	common_api "firm-crm/internal/common/api"
	"firm-crm/internal/config"
	"firm-crm/internal/database"
	"firm-crm/internal/features/audit"
	"firm-crm/internal/features/automation"
	"firm-crm/internal/features/client"
	cron_feature "firm-crm/internal/features/cron"
	"firm-crm/internal/features/email"
	"firm-crm/internal/features/lead"
	"firm-crm/internal/features/notification"
	"firm-crm/internal/features/system"
	"firm-crm/internal/features/task"
	"firm-crm/internal/logger"
	"firm-crm/internal/middleware"
	"firm-crm/pkg/lock"

	_ "firm-crm/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
				msg = e.Message
			} else {
				logger.Error("unhandled request error", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{
				"error": msg,
			})
		},
	})

	app.Use(middleware.CORSMiddleware(cfg))
	app.Use(middleware.ActorMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, logger *zap.Logger) {
	logger.Info("registering routes", zap.Int("count", len(routes)))
	for _, route := range routes {
		logger.Debug("setting up route", zap.String("route", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				logger.Info("http server listening", zap.String("addr", port))
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, leadRepo lead.LeadRepository, automationRepo automation.AutomationRepository, runRepo automation.RunRepository, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				// Use a background context with timeout for index creation
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := leadRepo.EnsureIndexes(ctx); err != nil {
					logger.Warn("failed to ensure lead indexes", zap.Error(err))
				}
				if err := automationRepo.EnsureIndexes(ctx); err != nil {
					logger.Warn("failed to ensure automation indexes", zap.Error(err))
				}
				if err := runRepo.EnsureIndexes(ctx); err != nil {
					logger.Warn("failed to ensure automation run indexes", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

// NewLocker picks the Redis lock when Redis is enabled so replicas share it.
func NewLocker(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) lock.Locker {
	var locker lock.Locker
	if cfg.Redis.Enabled {
		locker = lock.NewRedisLocker(lock.RedisOptions{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.RunLockTTL,
		}, logger)
		logger.Info("using redis run lock", zap.String("address", cfg.Redis.Address))
	} else {
		locker = lock.NewLocalLocker()
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return locker.Close()
		},
	})
	return locker
}

// NewHub creates the websocket hub and disconnects subscribers on shutdown.
func NewHub(lc fx.Lifecycle, logger *zap.Logger) *system.Hub {
	hub := system.NewHub(logger)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			hub.Close()
			return nil
		},
	})
	return hub
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			NewFiberServer,
			NewLocker,
			NewHub,

			// Repositories
			lead.NewLeadRepository,
			client.NewClientRepository,
			task.NewTaskRepository,
			email.NewEmailRepository,
			notification.NewNotificationRepository,
			audit.NewAuditRepository,
			automation.NewAutomationRepository,
			automation.NewRunRepository,

			// Services
			audit.NewAuditService,
			lead.NewLeadService,
			client.NewClientService,
			task.NewTaskService,
			email.NewEmailService,
			notification.NewNotificationService,
			automation.NewActionExecutor,
			automation.NewAutomationService,
			cron_feature.NewCronService,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(s automation.AutomationService) lead.AutomationTrigger { return s },
			func(s automation.AutomationService) client.AutomationTrigger { return s },
			func(h *system.Hub) notification.Broadcaster { return h },

			// Controllers
			lead.NewLeadController,
			client.NewClientController,
			task.NewTaskController,
			email.NewEmailController,
			notification.NewNotificationController,
			audit.NewAuditController,
			automation.NewAutomationController,
			cron_feature.NewCronController,
			system.NewWebSocketController,

			// API Routes
			AsRoute(lead.NewLeadApi),
			AsRoute(client.NewClientApi),
			AsRoute(task.NewTaskApi),
			AsRoute(email.NewEmailApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(automation.NewAutomationApi),
			AsRoute(cron_feature.NewCronApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
			AsRoute(system.NewWebSocketApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, cronService cron_feature.CronService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return cronService.InitializeScheduler(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return cronService.StopScheduler()
					},
				})
			},
			InitializeIndexes,
		),
	)

	app.Run()
}
