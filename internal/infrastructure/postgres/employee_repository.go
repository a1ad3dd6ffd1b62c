package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/workbench-api/internal/domain"
	"github.com/jhoicas/workbench-api/internal/domain/entity"
	"github.com/jhoicas/workbench-api/internal/domain/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

// EmployeeRepo operarios en PostgreSQL.
type EmployeeRepo struct {
	q Querier
}

// NewEmployeeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEmployeeRepository(q Querier) *EmployeeRepo {
	return &EmployeeRepo{q: q}
}

const employeeColumns = `rfid_card_id, name, position, username, password_hash`

func scanEmployee(row pgxScanner) (*entity.Employee, error) {
	var (
		e              entity.Employee
		username, hash *string
	)
	if err := row.Scan(&e.RFIDCardID, &e.Name, &e.Position, &username, &hash); err != nil {
		return nil, err
	}
	e.Username = fromNull(username)
	e.PasswordHash = fromNull(hash)
	return &e, nil
}

// GetByCardID obtiene un operario por el número de su tarjeta RFID.
func (r *EmployeeRepo) GetByCardID(ctx context.Context, cardID string) (*entity.Employee, error) {
	e, err := scanEmployee(r.q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE rfid_card_id = $1`, cardID))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("operario con tarjeta %s: %w", cardID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

// GetByUsername obtiene un operario por usuario (login con credenciales).
func (r *EmployeeRepo) GetByUsername(ctx context.Context, username string) (*entity.Employee, error) {
	e, err := scanEmployee(r.q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE username = $1`, username))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("operario %s: %w", username, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get employee by username: %w", err)
	}
	return e, nil
}

// Upsert inserta o reemplaza un operario (carga del catálogo).
func (r *EmployeeRepo) Upsert(ctx context.Context, e *entity.Employee) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO employees (`+employeeColumns+`) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (rfid_card_id) DO UPDATE SET
			name = EXCLUDED.name, position = EXCLUDED.position,
			username = EXCLUDED.username, password_hash = EXCLUDED.password_hash`,
		e.RFIDCardID, e.Name, e.Position, nullIfEmpty(e.Username), nullIfEmpty(e.PasswordHash),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("usuario %s duplicado: %w", e.Username, domain.ErrInvalidInput)
		}
		return fmt.Errorf("upsert employee: %w", err)
	}
	return nil
}
