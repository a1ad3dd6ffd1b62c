package dto

import "github.com/jhoicas/workbench-api/internal/domain/entity"

// EmployeeIDRequest identificación por tarjeta.
type EmployeeIDRequest struct {
	CardID string `json:"employee_rfid_card_no" validate:"required"`
}

// EmployeeCredsRequest identificación por usuario y contraseña.
type EmployeeCredsRequest struct {
	Username string `json:"employee_username" validate:"required"`
	Password string `json:"employee_password" validate:"required"`
}

// EmployeeWCardModel operario con tarjeta (sin contraseña).
type EmployeeWCardModel struct {
	Name       string `json:"name"`
	Position   string `json:"position"`
	RFIDCardID string `json:"rfid_card_id"`
	Username   string `json:"username,omitempty"`
}

// EmployeeResponse salida de info y login.
type EmployeeResponse struct {
	GenericResponse
	EmployeeData *EmployeeWCardModel `json:"employee_data"`
}

// FromEmployee nunca expone PasswordHash.
func FromEmployee(e *entity.Employee) *EmployeeWCardModel {
	if e == nil {
		return nil
	}
	return &EmployeeWCardModel{Name: e.Name, Position: e.Position, RFIDCardID: e.RFIDCardID, Username: e.Username}
}
