package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/workbench-api/internal/application/dto"
	"github.com/jhoicas/workbench-api/internal/application/hid"
	"github.com/jhoicas/workbench-api/internal/application/usecase"
	"github.com/jhoicas/workbench-api/internal/application/workbench"
	"github.com/jhoicas/workbench-api/internal/domain/entity"
)

// EmployeeHandler sesión del operario en la estación.
type EmployeeHandler struct {
	uc      *usecase.EmployeeUseCase
	station *workbench.Workbench
	hid     *hid.Dispatcher
}

// NewEmployeeHandler construye el handler.
func NewEmployeeHandler(uc *usecase.EmployeeUseCase, station *workbench.Workbench, dispatcher *hid.Dispatcher) *EmployeeHandler {
	return &EmployeeHandler{uc: uc, station: station, hid: dispatcher}
}

func cardID(c *fiber.Ctx) (string, bool) {
	var in dto.EmployeeIDRequest
	if err := c.BodyParser(&in); err != nil || in.CardID == "" {
		return "", false
	}
	return in.CardID, true
}

// Info godoc
// @Summary      Datos del operario por tarjeta
// @Tags         employee
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EmployeeIDRequest  true  "Tarjeta RFID"
// @Success      200   {object}  dto.EmployeeResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/employee/info [post]
func (h *EmployeeHandler) Info(c *fiber.Ctx) error {
	card, ok := cardID(c)
	if !ok {
		return badBody(c)
	}
	e, err := h.uc.ByCard(c.UserContext(), card)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.EmployeeResponse{GenericResponse: dto.OK("Employee retrieved successfully"), EmployeeData: dto.FromEmployee(e)})
}

// LogIn godoc
// @Summary      Iniciar sesión con tarjeta
// @Tags         employee
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EmployeeIDRequest  true  "Tarjeta RFID"
// @Success      200   {object}  dto.EmployeeResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/employee/log-in [post]
func (h *EmployeeHandler) LogIn(c *fiber.Ctx) error {
	card, ok := cardID(c)
	if !ok {
		return badBody(c)
	}
	e, err := h.uc.ByCard(c.UserContext(), card)
	if err != nil {
		return respondError(c, err)
	}
	return h.logIn(c, e)
}

// LogInCreds godoc
// @Summary      Iniciar sesión con usuario y contraseña
// @Tags         employee
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EmployeeCredsRequest  true  "Credenciales"
// @Success      200   {object}  dto.EmployeeResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/employee/login-creds [post]
func (h *EmployeeHandler) LogInCreds(c *fiber.Ctx) error {
	var in dto.EmployeeCredsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Username == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "employee_username y employee_password son requeridos"})
	}
	e, err := h.uc.Authenticate(c.UserContext(), in.Username, in.Password)
	if err != nil {
		return respondError(c, err)
	}
	return h.logIn(c, e)
}

func (h *EmployeeHandler) logIn(c *fiber.Ctx, e *entity.Employee) error {
	if err := h.station.LogIn(c.UserContext(), e); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.EmployeeResponse{GenericResponse: dto.OK("Employee logged in successfully"), EmployeeData: dto.FromEmployee(e)})
}

// LogOut godoc
// @Summary      Cerrar sesión
// @Tags         employee
// @Produce      json
// @Success      200  {object}  dto.GenericResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/employee/log-out [post]
func (h *EmployeeHandler) LogOut(c *fiber.Ctx) error {
	if err := h.station.LogOut(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Employee logged out successfully"))
}

// HandleRFIDEvent godoc
// @Summary      Evento del lector RFID
// @Tags         employee
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.HidEvent  true  "Evento HID"
// @Success      200   {object}  dto.GenericResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/employee/handle-rfid-event [post]
func (h *EmployeeHandler) HandleRFIDEvent(c *fiber.Ctx) error {
	var ev dto.HidEvent
	if err := c.BodyParser(&ev); err != nil {
		return badBody(c)
	}
	if err := h.hid.HandleRFID(c.UserContext(), hid.Event{Sender: ev.Name, String: ev.String}); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Hid event has been handled as expected"))
}
