package dto

import (
	"github.com/jhoicas/workbench-api/internal/application/workbench"
)

// EmployeeModel datos públicos del operario.
type EmployeeModel struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

// WorkbenchStatusResponse instantánea del estado de la estación (también por SSE y MQTT).
type WorkbenchStatusResponse struct {
	Workbench        int                `json:"workbench_no"`
	State            string             `json:"state"`
	EmployeeLoggedIn bool               `json:"employee_logged_in"`
	Employee         *EmployeeModel     `json:"employee"`
	OperationOngoing bool               `json:"operation_ongoing"`
	UnitInternalID   *string            `json:"unit_internal_id"`
	UnitStatus       *string            `json:"unit_status"`
	UnitBiography    []string           `json:"unit_biography"`
	UnitComponents   map[string]*string `json:"unit_components"`
}

// FromStatus convierte la instantánea; los campos de unidad quedan en null sin unidad.
func FromStatus(s workbench.Status) WorkbenchStatusResponse {
	out := WorkbenchStatusResponse{
		Workbench:        s.Workbench,
		State:            string(s.State),
		EmployeeLoggedIn: s.EmployeeLoggedIn,
		OperationOngoing: s.OperationOngoing,
	}
	if s.Employee != nil {
		out.Employee = &EmployeeModel{Name: s.Employee.Name, Position: s.Employee.Position}
	}
	if s.HasUnit() {
		id, st := s.UnitInternalID, string(s.UnitStatus)
		out.UnitInternalID = &id
		out.UnitStatus = &st
		out.UnitBiography = s.UnitBiography
		out.UnitComponents = s.UnitComponents
	}
	return out
}

// WorkbenchExtraDetails datos adicionales al iniciar una etapa.
type WorkbenchExtraDetails struct {
	AdditionalInfo map[string]string `json:"additional_info"`
}

// ManualInputRequest datos digitados por el operario.
type ManualInputRequest struct {
	LicensePlate string `json:"license_plate,omitempty"`
	Weight       string `json:"weight,omitempty"`
}

// StartOperationRequest cuerpo de start-operation; manual_input solo tras un 504.
type StartOperationRequest struct {
	WorkbenchDetails WorkbenchExtraDetails `json:"workbench_details"`
	ManualInput      *ManualInputRequest   `json:"manual_input,omitempty"`
}

// EndOperationRequest cuerpo de end-operation.
type EndOperationRequest struct {
	StageData       map[string]any    `json:"stage_data,omitempty"`
	AdditionalInfo  map[string]string `json:"additional_info,omitempty"`
	PrematureEnding bool              `json:"premature_ending"`
}

// HidEvent evento del demonio de lectores.
type HidEvent struct {
	String    string         `json:"string"`
	Name      string         `json:"name"`
	Timestamp float64        `json:"timestamp,omitempty"`
	Info      map[string]any `json:"info,omitempty"`
}
