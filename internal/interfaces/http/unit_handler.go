package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/workbench-api/internal/application/dto"
	"github.com/jhoicas/workbench-api/internal/application/usecase"
	"github.com/jhoicas/workbench-api/internal/application/workbench"
	"github.com/jhoicas/workbench-api/internal/domain"
	"github.com/jhoicas/workbench-api/internal/domain/state"
)

// UnitHandler unidades: creación, consulta y pasaporte.
type UnitHandler struct {
	uc      *usecase.UnitUseCase
	station *workbench.Workbench
}

// NewUnitHandler construye el handler.
func NewUnitHandler(uc *usecase.UnitUseCase, station *workbench.Workbench) *UnitHandler {
	return &UnitHandler{uc: uc, station: station}
}

// Create godoc
// @Summary      Crear unidad de un esquema
// @Tags         unit
// @Produce      json
// @Param        schema_id  path  string  true  "ID del esquema"
// @Success      200  {object}  dto.UnitResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/unit/new/{schema_id} [post]
func (h *UnitHandler) Create(c *fiber.Ctx) error {
	unit, err := h.station.CreateUnit(c.UserContext(), c.Params("schema_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.UnitResponse{GenericResponse: dto.OK("New unit created successfully"), UnitInternalID: unit.InternalID})
}

// Info godoc
// @Summary      Resumen de la unidad
// @Tags         unit
// @Produce      json
// @Param        internal_id  path  string  true  "Código interno"
// @Success      200  {object}  dto.UnitInfoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/unit/{internal_id}/info [get]
func (h *UnitHandler) Info(c *fiber.Ctx) error {
	out, err := h.uc.Info(c.UserContext(), c.Params("internal_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PassportPDF godoc
// @Summary      Pasaporte de la unidad en PDF
// @Tags         unit
// @Produce      application/pdf
// @Param        internal_id  path  string  true  "Código interno"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/unit/{internal_id}/passport.pdf [get]
func (h *UnitHandler) PassportPDF(c *fiber.Ctx) error {
	id := c.Params("internal_id")
	pdf, err := h.uc.PassportPDF(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="passport-%s.pdf"`, id))
	return c.Send(pdf)
}

// PendingRevision godoc
// @Summary      Unidades esperando revisión
// @Tags         unit
// @Produce      json
// @Success      200  {object}  dto.PendingUnitsResponse
// @Router       /api/unit/pending_revision [get]
func (h *UnitHandler) PendingRevision(c *fiber.Ctx) error {
	units, err := h.uc.PendingRevision(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PendingUnitsResponse{
		GenericResponse: dto.OK(fmt.Sprintf("%d units awaiting revision.", len(units))),
		Units:           units,
	})
}

// Upload godoc
// @Summary      Generar y publicar el pasaporte de la unidad en la estación
// @Tags         unit
// @Produce      json
// @Success      200  {object}  dto.GenericResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/unit/upload [post]
func (h *UnitHandler) Upload(c *fiber.Ctx) error {
	st := h.station.Status()
	if !st.EmployeeLoggedIn {
		return respondError(c, fmt.Errorf("no hay operario autenticado en la estación: %w", domain.ErrStateForbidden))
	}
	if err := h.station.UploadUnitPassport(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Uploaded data for unit " + st.UnitInternalID))
}

// AssignComponent godoc
// @Summary      Asignar componente a la unidad compuesta
// @Tags         unit
// @Produce      json
// @Param        internal_id  path  string  true  "Código interno del componente"
// @Success      200  {object}  dto.GenericResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/unit/assign-component/{internal_id} [post]
func (h *UnitHandler) AssignComponent(c *fiber.Ctx) error {
	if cur := h.station.Status().State; cur != state.GatherComponents {
		return respondError(c, fmt.Errorf("los componentes solo se asignan en %s, estado actual %s: %w",
			state.GatherComponents, cur, domain.ErrStateForbidden))
	}
	if err := h.station.AssignComponentByInternalID(c.UserContext(), c.Params("internal_id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Component has been assigned"))
}
