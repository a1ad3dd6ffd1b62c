package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/workbench-api/internal/application/hid"
	"github.com/jhoicas/workbench-api/internal/application/usecase"
	"github.com/jhoicas/workbench-api/internal/application/workbench"
	"github.com/jhoicas/workbench-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Workbench  *workbench.Workbench
	HID        *hid.Dispatcher
	SchemaUC   *usecase.SchemaUseCase
	UnitUC     *usecase.UnitUseCase
	EmployeeUC *usecase.EmployeeUseCase
	HIDSecret  string // vacío => eventos HID sin token
	Log        *logger.Logger

	// opcionales
	Health   healthcheck.Handler
	Gatherer prometheus.Gatherer
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Health != nil {
		app.Get("/live", adaptor.HTTPHandlerFunc(deps.Health.LiveEndpoint))
		app.Get("/ready", adaptor.HTTPHandlerFunc(deps.Health.ReadyEndpoint))
	}
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	number := deps.Workbench.Number()

	// Employee
	employees := api.Group("/employee")
	employeeHandler := NewEmployeeHandler(deps.EmployeeUC, deps.Workbench, deps.HID)
	employees.Post("/info", employeeHandler.Info)
	employees.Post("/log-in", employeeHandler.LogIn)
	employees.Post("/login-creds", employeeHandler.LogInCreds)
	employees.Post("/log-out", employeeHandler.LogOut)
	employees.Post("/handle-rfid-event", HIDAuth(deps.HIDSecret, number, hid.SenderRFID), employeeHandler.HandleRFIDEvent)

	// Workbench
	wb := api.Group("/workbench")
	workbenchHandler := NewWorkbenchHandler(deps.Workbench, deps.SchemaUC, deps.HID)
	wb.Get("/status", workbenchHandler.Status)
	wb.Get("/status/stream", NewStatusStream(deps.Workbench, deps.Log).Handle)
	wb.Post("/assign-unit/:internal_id", workbenchHandler.AssignUnit)
	wb.Post("/remove-unit", workbenchHandler.RemoveUnit)
	wb.Post("/start-operation", workbenchHandler.StartOperation)
	wb.Post("/end-operation", workbenchHandler.EndOperation)
	wb.Get("/production-schemas/names", workbenchHandler.SchemaNames)
	wb.Get("/production-schemas/:schema_id", workbenchHandler.Schema)
	wb.Post("/handle-barcode-event", HIDAuth(deps.HIDSecret, number, hid.SenderBarcode), workbenchHandler.HandleBarcodeEvent)

	// Unit
	units := api.Group("/unit")
	unitHandler := NewUnitHandler(deps.UnitUC, deps.Workbench)
	units.Post("/new/:schema_id", unitHandler.Create)
	units.Get("/pending_revision", unitHandler.PendingRevision)
	units.Post("/upload", unitHandler.Upload)
	units.Post("/assign-component/:internal_id", unitHandler.AssignComponent)
	units.Get("/:internal_id/info", unitHandler.Info)
	units.Get("/:internal_id/passport.pdf", unitHandler.PassportPDF)
}
