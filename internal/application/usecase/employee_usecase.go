package usecase

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/workbench-api/internal/domain"
	"github.com/jhoicas/workbench-api/internal/domain/entity"
	"github.com/jhoicas/workbench-api/internal/domain/repository"
)

// EmployeeUseCase identificación de operarios.
type EmployeeUseCase struct {
	repo repository.EmployeeRepository
}

// NewEmployeeUseCase construye el caso de uso.
func NewEmployeeUseCase(repo repository.EmployeeRepository) *EmployeeUseCase {
	return &EmployeeUseCase{repo: repo}
}

// ByCard operario por tarjeta RFID.
func (uc *EmployeeUseCase) ByCard(ctx context.Context, cardID string) (*entity.Employee, error) {
	return uc.repo.GetByCardID(ctx, cardID)
}

// Authenticate valida usuario y contraseña con bcrypt. Usuario inexistente y
// contraseña errónea devuelven el mismo ErrForbidden.
func (uc *EmployeeUseCase) Authenticate(ctx context.Context, username, password string) (*entity.Employee, error) {
	e, err := uc.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("credenciales inválidas: %w", domain.ErrForbidden)
		}
		return nil, err
	}
	if e.PasswordHash == "" {
		return nil, fmt.Errorf("operario %s sin contraseña: %w", username, domain.ErrForbidden)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("credenciales inválidas: %w", domain.ErrForbidden)
	}
	return e, nil
}
