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
	"github.com/shopspring/decimal"

	_ "github.com/jhoicas/sippa-api/docs"
	"github.com/jhoicas/sippa-api/internal/application/auth"
	"github.com/jhoicas/sippa-api/internal/application/catalog"
	"github.com/jhoicas/sippa-api/internal/application/conversion"
	"github.com/jhoicas/sippa-api/internal/application/orders"
	"github.com/jhoicas/sippa-api/internal/application/quotation"
	"github.com/jhoicas/sippa-api/internal/domain/pricing"
	infraexport "github.com/jhoicas/sippa-api/internal/infrastructure/export"
	"github.com/jhoicas/sippa-api/internal/infrastructure/local"
	infrapdf "github.com/jhoicas/sippa-api/internal/infrastructure/pdf"
	"github.com/jhoicas/sippa-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/sippa-api/internal/interfaces/http"
	"github.com/jhoicas/sippa-api/pkg/config"
	"github.com/jhoicas/sippa-api/pkg/logger"
)

// @title                       Sippa API
// @version                     1.0
// @description                 Catálogo de ingredientes, cotizaciones y agenda de pedidos para catering.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	marginPercent, err := decimal.NewFromString(cfg.Quotation.MarginPercent)
	if err != nil {
		log.Fatal().Err(err).Str("valor", cfg.Quotation.MarginPercent).Msg("QUOTATION_MARGIN_PERCENT inválido")
	}
	defaultMode, err := pricing.ParseMode(cfg.Quotation.PricingMode, marginPercent)
	if err != nil {
		log.Fatal().Err(err).Str("modo", cfg.Quotation.PricingMode).Msg("QUOTATION_PRICING_MODE inválido")
	}

	// El pool es perezoso: sin backend la app arranca y solo queda el login offline.
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de PostgreSQL")
	}
	defer pool.Close()

	probe := postgres.NewProbe(pool, cfg.DB.ProbeTimeout)
	if cfg.DB.AutoMigrate {
		if !probe.IsOnline(ctx) {
			log.Warn().Msg("backend no disponible, se omiten las migraciones")
		} else if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		} else {
			log.Info().Msg("migraciones aplicadas")
		}
	}

	credentials, err := local.Open(cfg.Local.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Local.DBPath).Msg("almacén local de credenciales")
	}
	defer credentials.Close()

	ingredientRepo := postgres.NewIngredientRepository(pool)
	unitRepo := postgres.NewUnitRepository(pool)
	quotationRepo := postgres.NewQuotationRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	roles := catalog.NewRoleResolver(profileRepo, log)
	catalogUC := catalog.NewCatalogUseCase(ingredientRepo, unitRepo, roles)
	quotationUC := quotation.NewQuotationUseCase(quotationRepo, catalogUC, cfg.Quotation.HouseClientID, defaultMode, log)
	pdfUC := quotation.NewPDFUseCase(quotationUC, infrapdf.NewMarotoPDFGenerator(cfg.App.Name))
	conversionUC := conversion.NewConversionUseCase(clientRepo, orderRepo, txRunner, log)
	clientUC := orders.NewClientUseCase(clientRepo)
	orderUC := orders.NewOrderUseCase(orderRepo, clientRepo, infraexport.NewAgendaXLSX(), log)

	authUC := auth.NewAuthUseCase(userRepo, profileRepo)
	gate := auth.NewGate(probe, authUC, credentials, roles, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Sippa API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		Gate:         gate,
		Probe:        probe,
		Roles:        roles,
		CatalogUC:    catalogUC,
		QuotationUC:  quotationUC,
		PDFUC:        pdfUC,
		ConversionUC: conversionUC,
		ClientUC:     clientUC,
		OrderUC:      orderUC,
		JWTSecret:    cfg.JWT.Secret,
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
