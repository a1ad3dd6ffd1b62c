package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrForbidden           = errors.New("acceso denegado")
	ErrStateForbidden      = errors.New("transición de estado no permitida")
	ErrPrecondition        = errors.New("precondición no satisfecha")
	ErrExternalService     = errors.New("fallo en servicio externo")
	ErrNoMatchingComponent = errors.New("la unidad no contiene componentes en los estados permitidos")
	ErrDataIntegrity       = errors.New("integridad de datos comprometida")
)

// ManualInputNeededError no es un fallo: el servicio de seguimiento pide datos
// manuales al operador. Guidance es el cuerpo de la respuesta tal cual llegó.
type ManualInputNeededError struct {
	Guidance json.RawMessage
}

func (e *ManualInputNeededError) Error() string {
	return "el servicio de seguimiento requiere entrada manual"
}

// ExternalServiceError respuesta no exitosa de un colaborador HTTP.
type ExternalServiceError struct {
	Service    string
	StatusCode int
	Detail     string
}

func (e *ExternalServiceError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Service, e.Detail)
	}
	return fmt.Sprintf("%s respondió %d: %s", e.Service, e.StatusCode, e.Detail)
}

// Unwrap permite errors.Is(err, ErrExternalService).
func (e *ExternalServiceError) Unwrap() error { return ErrExternalService }
