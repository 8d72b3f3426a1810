package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jhoicas/inmobiliaria-api/internal/application/audit"
	"github.com/jhoicas/inmobiliaria-api/internal/application/auth"
	"github.com/jhoicas/inmobiliaria-api/internal/application/usecase"
	"github.com/jhoicas/inmobiliaria-api/internal/infrastructure/mongodb"
	httpRouter "github.com/jhoicas/inmobiliaria-api/internal/interfaces/http"
	"github.com/jhoicas/inmobiliaria-api/pkg/config"
	"github.com/jhoicas/inmobiliaria-api/pkg/logger"
	"github.com/jhoicas/inmobiliaria-api/pkg/ratelimit"
)

func main() {
	startedAt := time.Now()

	// un JWT_SECRET ausente falla aquí, nunca por petición
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	client, db, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a MongoDB")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	userRepo := mongodb.NewUserRepository(db)
	buildingRepo := mongodb.NewBuildingRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)

	idxCtx, cancelIdx := context.WithTimeout(ctx, 30*time.Second)
	defer cancelIdx()
	for _, ensure := range []func(context.Context) error{
		userRepo.EnsureIndexes, buildingRepo.EnsureIndexes, auditRepo.EnsureIndexes,
	} {
		if err := ensure(idxCtx); err != nil {
			log.Fatal().Err(err).Msg("crear índices")
		}
	}

	if created, err := auth.EnsureSuperAdmin(ctx, userRepo, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("seed de super_admin")
	} else if created {
		log.Info().Str("email", cfg.Seed.AdminEmail).Msg("super_admin inicial creado")
	}

	recorder := audit.NewRecorder(auditRepo, log)
	limiter := ratelimit.New(cfg.RateLimit.LoginLimit,
		time.Duration(cfg.RateLimit.LoginWindowMS)*time.Millisecond)

	authUC := auth.NewAuthUseCase(userRepo, limiter, recorder, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.ExpMinutes,
	})
	userUC := usecase.NewUserUseCase(userRepo, recorder)
	buildingUC := usecase.NewBuildingUseCase(buildingRepo, recorder)

	health := httpRouter.NewHealthHandler(
		httpRouter.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}),
		startedAt, log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inmobiliaria API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		UserUC:     userUC,
		BuildingUC: buildingUC,
		Health:     health,
		Recorder:   recorder,
		Log:        log,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
