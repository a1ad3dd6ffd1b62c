package repository

import (
	"context"

	"github.com/jhoicas/workbench-api/internal/domain/entity"
)

// EmployeeRepository puerto de lectura de operarios.
type EmployeeRepository interface {
	GetByCardID(ctx context.Context, cardID string) (*entity.Employee, error)
	GetByUsername(ctx context.Context, username string) (*entity.Employee, error)
}
