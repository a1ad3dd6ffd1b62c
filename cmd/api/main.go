package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/heptiolabs/healthcheck"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	_ "github.com/jhoicas/workbench-api/docs"
	"github.com/jhoicas/workbench-api/internal/application/hid"
	"github.com/jhoicas/workbench-api/internal/application/usecase"
	"github.com/jhoicas/workbench-api/internal/application/workbench"
	"github.com/jhoicas/workbench-api/internal/domain/composition"
	"github.com/jhoicas/workbench-api/internal/domain/entity"
	"github.com/jhoicas/workbench-api/internal/domain/repository"
	"github.com/jhoicas/workbench-api/internal/infrastructure/buildtracker"
	"github.com/jhoicas/workbench-api/internal/infrastructure/cache"
	"github.com/jhoicas/workbench-api/internal/infrastructure/catalog"
	"github.com/jhoicas/workbench-api/internal/infrastructure/ipfs"
	"github.com/jhoicas/workbench-api/internal/infrastructure/labels"
	"github.com/jhoicas/workbench-api/internal/infrastructure/memory"
	"github.com/jhoicas/workbench-api/internal/infrastructure/metrics"
	infraMQTT "github.com/jhoicas/workbench-api/internal/infrastructure/mqtt"
	"github.com/jhoicas/workbench-api/internal/infrastructure/passport"
	infrapdf "github.com/jhoicas/workbench-api/internal/infrastructure/pdf"
	"github.com/jhoicas/workbench-api/internal/infrastructure/postgres"
	"github.com/jhoicas/workbench-api/internal/infrastructure/printer"
	"github.com/jhoicas/workbench-api/internal/infrastructure/robonomics"
	httpRouter "github.com/jhoicas/workbench-api/internal/interfaces/http"
	"github.com/jhoicas/workbench-api/pkg/config"
	"github.com/jhoicas/workbench-api/pkg/logger"
)

const (
	printerTimeout    = 10 * time.Second
	ipfsTimeout       = 60 * time.Second
	ledgerTimeout     = 2 * time.Minute
	ledgerAttempt     = 20 * time.Second
	ledgerMaxRetries  = 5
	shutdownTimeout   = 30 * time.Second
	goroutineCeiling  = 1000
	readinessDeadline = time.Second
)

// stores repositorios según STORAGE_DRIVER.
type stores struct {
	units     repository.UnitRepository
	schemas   repository.SchemaRepository
	employees repository.EmployeeRepository
	lookup    composition.UnitLookup
	pool      *pgxpool.Pool // nil con el driver memory
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	switch cfg.App.StorageDriver {
	case "memory":
		store := memory.New()
		if cfg.App.CatalogFile != "" {
			cat, err := catalog.Load(cfg.App.CatalogFile)
			if err != nil {
				return nil, err
			}
			if err := store.Seed(cat); err != nil {
				return nil, err
			}
			log.Info().Str("file", cfg.App.CatalogFile).
				Int("employees", len(cat.Employees)).
				Int("schemas", len(cat.Schemas)).
				Msg("catálogo cargado en memoria")
		}
		return &stores{units: store, schemas: store, employees: store, lookup: store}, nil
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		units := postgres.NewUnitRepository(pool)
		return &stores{
			units:     units,
			schemas:   postgres.NewSchemaRepository(pool),
			employees: postgres.NewEmployeeRepository(pool),
			lookup:    units,
			pool:      pool,
		}, nil
	}
}

// serverConfig sin WriteTimeout: fasthttp lo aplica a la conexión entera y cortaría
// /api/workbench/status/stream. Las llamadas salientes quedan acotadas por sus propios clientes.
func serverConfig(cfg *config.Config) fiber.Config {
	return fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: 0,
		IdleTimeout:  time.Second * 60,
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:       cfg.App.Env,
		Level:     cfg.App.LogLevel,
		Workbench: cfg.Workbench.Number,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando estación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	schemas := cache.NewSchemaRepository(st.schemas, cfg.Cache.SchemaTTL)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	stationMetrics := metrics.New(reg)

	deps := workbench.Deps{
		Units:   st.units,
		Schemas: schemas,
		Tracker: buildtracker.New(buildtracker.Config{
			StartURI:       cfg.BusinessLogic.StartURI,
			ManualInputURI: cfg.BusinessLogic.ManualInputURI,
			StopURI:        cfg.BusinessLogic.StopURI,
			Timeout:        cfg.BusinessLogic.Timeout,
		}, nil),
		Certificates: passport.NewYAMLBuilder(st.lookup, cfg.App.LabelsDir),
		Metrics:      stationMetrics,
		Log:          log,
	}
	if cfg.IPFS.Enable {
		deps.Publisher = ipfs.New(cfg.IPFS.URL, ipfsTimeout)
	}
	if cfg.Robonomics.EnableDatalog {
		deps.Ledger = robonomics.New(robonomics.Config{
			URL:             cfg.Robonomics.URL,
			Timeout:         ledgerAttempt,
			MaxRetries:      ledgerMaxRetries,
			InitialInterval: time.Second,
		})
	}
	if cfg.Printer.Enable {
		deps.Printer = printer.New(cfg.Printer.URL, printerTimeout)
		deps.Labels = labels.New(cfg.App.LabelsDir)
	}

	var dummy *entity.Employee
	if !cfg.Workbench.Login {
		if dummy, err = entity.ParseDummyEmployee(cfg.Workbench.DummyEmployee); err != nil {
			log.Fatal().Err(err).Msg("WORKBENCH_DUMMY_EMPLOYEE")
		}
	}

	station, err := workbench.New(workbench.Config{
		Number:        cfg.Workbench.Number,
		Login:         cfg.Workbench.Login,
		DummyEmployee: dummy,
		Printer: workbench.PrinterPolicy{
			Enable:                  cfg.Printer.Enable,
			PrintBarcode:            cfg.Printer.PrintBarcode,
			PrintQR:                 cfg.Printer.PrintQR,
			PrintQROnlyForComposite: cfg.Printer.PrintQROnlyForComposite,
			PrintSecurityTag:        cfg.Printer.PrintSecurityTag,
			SecurityTagAddTimestamp: cfg.Printer.SecurityTagAddTimestamp,
		},
		PublishEnabled: cfg.IPFS.Enable,
		LedgerEnabled:  cfg.Robonomics.EnableDatalog,
		LedgerTimeout:  ledgerTimeout,
	}, deps)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar estación")
	}

	dispatcher := hid.NewDispatcher(station, st.units, st.employees, log)
	passportDocs := passport.NewYAMLBuilder(st.lookup, cfg.App.LabelsDir)

	health := healthcheck.NewHandler()
	health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(goroutineCeiling))
	if st.pool != nil {
		pool := st.pool
		health.AddReadinessCheck("database", healthcheck.Timeout(func() error {
			return pool.Ping(context.Background())
		}, readinessDeadline))
	}

	g, gctx := errgroup.WithContext(ctx)

	var bridge *infraMQTT.Bridge
	if cfg.MQTT.Enable {
		bridge, err = infraMQTT.Connect(infraMQTT.Config{
			Broker:      cfg.MQTT.Broker,
			ClientID:    cfg.MQTT.ClientID,
			Username:    cfg.MQTT.Username,
			Password:    cfg.MQTT.Password,
			TopicPrefix: cfg.MQTT.TopicPrefix,
			Workbench:   cfg.Workbench.Number,
		}, dispatcher.Handle, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión MQTT")
		}
		health.AddReadinessCheck("mqtt", bridge.Check)

		// termina al cerrarse el hub, después de publicar el AWAIT_LOGIN del apagado
		initial, sub := station.Subscribe()
		g.Go(func() error { return bridge.RunStatus(context.Background(), initial, sub) })
	}

	app := fiber.New(serverConfig(cfg))
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Workbench API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "workbench": cfg.Workbench.Number})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Workbench:  station,
		HID:        dispatcher,
		SchemaUC:   usecase.NewSchemaUseCase(schemas),
		UnitUC:     usecase.NewUnitUseCase(st.units, infrapdf.NewMarotoPassportGenerator(passportDocs)),
		EmployeeUC: usecase.NewEmployeeUseCase(st.employees),
		HIDSecret:  cfg.HID.JWTSecret,
		Log:        log,
		Health:     health,
		Gatherer:   reg,
	})

	g.Go(func() error {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			return err
		}
		return nil
	})

	<-gctx.Done()
	if errors.Is(ctx.Err(), context.Canceled) {
		log.Info().Msg("señal de apagado recibida, drenando estación...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// primero la estación: cierra el hub y con él los streams SSE y el puente MQTT
	station.Shutdown(shutdownCtx)

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if bridge != nil {
		bridge.Close()
	}
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("servicio finalizado con error")
	}

	if st.pool != nil {
		st.pool.Close()
	}

	log.Info().Msg("estación detenida")
	if ctx.Err() == nil {
		// el servidor cayó sin señal de apagado
		os.Exit(1)
	}
}
