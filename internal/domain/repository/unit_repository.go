package repository

import (
	"context"

	"github.com/jhoicas/workbench-api/internal/domain/entity"
)

// Campos de Unit que admiten actualización puntual vía UpdateField.
const (
	UnitFieldOperationStages    = "operation_stages"
	UnitFieldCertificateCID     = "certificate_ipfs_cid"
	UnitFieldCertificateLink    = "certificate_ipfs_link"
	UnitFieldCertificateTxnHash = "certificate_txn_hash"
	UnitFieldStatus             = "status"
)

// UnitSummary entrada liviana de listados por estado.
type UnitSummary struct {
	InternalID string
	UnitName   string
}

// UnitRepository define el puerto de persistencia para Unit (DIP).
// Las búsquedas sin resultado devuelven un error que envuelve domain.ErrNotFound.
type UnitRepository interface {
	GetByUUID(ctx context.Context, uuid string) (*entity.Unit, error)
	GetByInternalID(ctx context.Context, internalID string) (*entity.Unit, error)
	// Save inserta o actualiza la unidad. Con includeComponents también enlaza
	// cada componente a la unidad padre (featured_in_int_id).
	Save(ctx context.Context, unit *entity.Unit, includeComponents bool) error
	UpdateField(ctx context.Context, uuid, field string, value any) error
	ListByStatus(ctx context.Context, status entity.UnitStatus) ([]UnitSummary, error)
}
