package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/workbench-api/internal/application/dto"
	"github.com/jhoicas/workbench-api/internal/application/hid"
	"github.com/jhoicas/workbench-api/internal/application/usecase"
	"github.com/jhoicas/workbench-api/internal/application/workbench"
	"github.com/jhoicas/workbench-api/internal/domain"
)

// WorkbenchHandler operaciones de la estación.
type WorkbenchHandler struct {
	station *workbench.Workbench
	schemas *usecase.SchemaUseCase
	hid     *hid.Dispatcher
}

// NewWorkbenchHandler construye el handler.
func NewWorkbenchHandler(station *workbench.Workbench, schemas *usecase.SchemaUseCase, dispatcher *hid.Dispatcher) *WorkbenchHandler {
	return &WorkbenchHandler{station: station, schemas: schemas, hid: dispatcher}
}

// Status godoc
// @Summary      Estado actual de la estación
// @Description  Preferir /api/workbench/status/stream.
// @Tags         workbench
// @Produce      json
// @Success      200  {object}  dto.WorkbenchStatusResponse
// @Router       /api/workbench/status [get]
func (h *WorkbenchHandler) Status(c *fiber.Ctx) error {
	return c.JSON(dto.FromStatus(h.station.Status()))
}

// AssignUnit godoc
// @Summary      Asignar unidad a la estación
// @Tags         workbench
// @Produce      json
// @Param        internal_id  path  string  true  "Código interno de la unidad"
// @Success      200  {object}  dto.GenericResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/workbench/assign-unit/{internal_id} [post]
func (h *WorkbenchHandler) AssignUnit(c *fiber.Ctx) error {
	id := c.Params("internal_id")
	if err := h.station.AssignUnitByInternalID(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(fmt.Sprintf("Unit %s has been assigned", id)))
}

// RemoveUnit godoc
// @Summary      Retirar la unidad de la estación
// @Tags         workbench
// @Produce      json
// @Success      200  {object}  dto.GenericResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/workbench/remove-unit [post]
func (h *WorkbenchHandler) RemoveUnit(c *fiber.Ctx) error {
	if err := h.station.RemoveUnit(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Unit has been removed"))
}

// StartOperation godoc
// @Summary      Iniciar la etapa pendiente
// @Description  504 con la guía del servicio de seguimiento cuando pide entrada manual;
// @Description  se reintenta enviando manual_input.
// @Tags         workbench
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartOperationRequest  true  "Datos de la etapa"
// @Success      200  {object}  dto.GenericResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Failure      504  {object}  object
// @Router       /api/workbench/start-operation [post]
func (h *WorkbenchHandler) StartOperation(c *fiber.Ctx) error {
	var in dto.StartOperationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	var manual *workbench.ManualInput
	if in.ManualInput != nil {
		manual = &workbench.ManualInput{LicensePlate: in.ManualInput.LicensePlate, Weight: in.ManualInput.Weight}
	}
	if err := h.station.StartOperation(c.UserContext(), in.WorkbenchDetails.AdditionalInfo, manual); err != nil {
		return respondError(c, err)
	}
	detail := "Started operation"
	if u := h.station.CurrentUnit(); u != nil {
		if st := u.NextPendingStage(); st != nil {
			detail = fmt.Sprintf("Started operation '%s' on Unit %s", st.Name, u.InternalID)
		}
	}
	return c.JSON(dto.OK(detail))
}

// EndOperation godoc
// @Summary      Terminar la etapa en curso
// @Tags         workbench
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EndOperationRequest  false  "Datos de cierre"
// @Success      200  {object}  dto.GenericResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/workbench/end-operation [post]
func (h *WorkbenchHandler) EndOperation(c *fiber.Ctx) error {
	var in dto.EndOperationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	err := h.station.EndOperation(c.UserContext(), workbench.EndOperationInput{
		StageData:      in.StageData,
		AdditionalInfo: in.AdditionalInfo,
		Premature:      in.PrematureEnding,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(fmt.Sprintf("Ended current operation on unit %s", h.station.Status().UnitInternalID)))
}

// SchemaNames godoc
// @Summary      Catálogo de esquemas para el operario en sesión
// @Tags         workbench
// @Produce      json
// @Success      200  {object}  dto.SchemasListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/workbench/production-schemas/names [get]
func (h *WorkbenchHandler) SchemaNames(c *fiber.Ctx) error {
	employee := h.station.Status().Employee
	if employee == nil {
		return respondError(c, fmt.Errorf("no hay operario autenticado: %w", domain.ErrStateForbidden))
	}
	list, err := h.schemas.ListForPosition(c.UserContext(), employee.Position)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SchemasListResponse{
		GenericResponse:  dto.OK(fmt.Sprintf("Gathered %d schemas", countEntries(list))),
		AvailableSchemas: list,
	})
}

func countEntries(list []dto.SchemaListEntry) int {
	n := 0
	for _, e := range list {
		n += 1 + countEntries(e.IncludedSchemas)
	}
	return n
}

// Schema godoc
// @Summary      Esquema de producción por ID
// @Tags         workbench
// @Produce      json
// @Param        schema_id  path  string  true  "ID del esquema"
// @Success      200  {object}  dto.SchemaEnvelope
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/workbench/production-schemas/{schema_id} [get]
func (h *WorkbenchHandler) Schema(c *fiber.Ctx) error {
	out, err := h.schemas.Get(c.UserContext(), c.Params("schema_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SchemaEnvelope{
		GenericResponse:  dto.OK("Found schema " + out.SchemaID),
		ProductionSchema: *out,
	})
}

// HandleBarcodeEvent godoc
// @Summary      Evento del lector de código de barras
// @Tags         workbench
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.HidEvent  true  "Evento HID"
// @Success      200  {object}  dto.GenericResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/workbench/handle-barcode-event [post]
func (h *WorkbenchHandler) HandleBarcodeEvent(c *fiber.Ctx) error {
	var ev dto.HidEvent
	if err := c.BodyParser(&ev); err != nil {
		return badBody(c)
	}
	if err := h.hid.HandleBarcode(c.UserContext(), hid.Event{Sender: ev.Name, String: ev.String}); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Hid event has been handled as expected"))
}
