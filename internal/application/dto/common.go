package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GenericResponse respuesta simple de las operaciones de la estación.
type GenericResponse struct {
	StatusCode int    `json:"status_code"`
	Detail     string `json:"detail,omitempty"`
}

// OK respuesta 200 con detalle.
func OK(detail string) GenericResponse {
	return GenericResponse{StatusCode: 200, Detail: detail}
}
