package entity

import (
	"fmt"
	"strings"
)

// Employee operario identificado por su tarjeta RFID. Inmutable una vez cargado.
type Employee struct {
	RFIDCardID   string
	Name         string
	Position     string
	Username     string
	PasswordHash string // bcrypt; nunca se serializa hacia afuera
}

// ParseDummyEmployee construye el operario por defecto de estaciones sin login
// a partir de "tarjeta nombre cargo" (separado por espacios).
func ParseDummyEmployee(raw string) (*Employee, error) {
	parts := strings.Fields(raw)
	if len(parts) != 3 {
		return nil, fmt.Errorf("operario por defecto %q: se esperan 3 campos, hay %d", raw, len(parts))
	}
	return &Employee{RFIDCardID: parts[0], Name: parts[1], Position: parts[2]}, nil
}
