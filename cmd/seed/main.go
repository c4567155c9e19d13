package main

import (
	"context"
	"flag"
	"time"

	"firm-crm/internal/config"
	"firm-crm/internal/database"
	"firm-crm/internal/features/automation"
	"firm-crm/internal/features/client"
	"firm-crm/internal/features/lead"
	"firm-crm/internal/logger"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var seedPath = flag.String("file", "seed.yaml", "path to the YAML seed file")

// Seed loads the YAML file and inserts its automations, leads and clients.
// Leads go straight to the repository so seeding does not fire automations.
func Seed(
	lc fx.Lifecycle,
	automationRepo automation.AutomationRepository,
	leadRepo lead.LeadRepository,
	clientRepo client.ClientRepository,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
				defer cancel()

				logger.Info("starting database seeding", zap.String("file", *seedPath))
				file, err := LoadSeedFile(*seedPath)
				if err != nil {
					logger.Error("failed to load seed file", zap.Error(err))
					return
				}

				automations, err := file.ToAutomations()
				if err != nil {
					logger.Error("invalid automation in seed file", zap.Error(err))
					return
				}
				leads, err := file.ToLeads(time.Now().UTC())
				if err != nil {
					logger.Error("invalid lead in seed file", zap.Error(err))
					return
				}
				clients, err := file.ToClients()
				if err != nil {
					logger.Error("invalid client in seed file", zap.Error(err))
					return
				}

				for i := range automations {
					if err := automationRepo.Create(ctx, &automations[i]); err != nil {
						logger.Error("failed to seed automation", zap.String("name", automations[i].Name), zap.Error(err))
						continue
					}
					logger.Info("automation created", zap.String("name", automations[i].Name), zap.String("id", automations[i].ID.Hex()))
				}
				for i := range leads {
					if err := leadRepo.Create(ctx, &leads[i]); err != nil {
						logger.Error("failed to seed lead", zap.String("name", leads[i].Name), zap.Error(err))
					}
				}
				for i := range clients {
					if err := clientRepo.Create(ctx, &clients[i]); err != nil {
						logger.Error("failed to seed client", zap.String("name", clients[i].Name), zap.Error(err))
					}
				}

				logger.Info("seeding completed",
					zap.Int("automations", len(automations)),
					zap.Int("leads", len(leads)),
					zap.Int("clients", len(clients)))
			}()
			return nil
		},
	})
}

func main() {
	flag.Parse()

	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			automation.NewAutomationRepository,
			lead.NewLeadRepository,
			client.NewClientRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
