package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/workbench-api/internal/domain"
	"github.com/jhoicas/workbench-api/internal/domain/entity"
	"github.com/jhoicas/workbench-api/internal/domain/repository"
)

var _ repository.UnitRepository = (*UnitRepo)(nil)

// UnitRepo implementación de UnitRepository sobre PostgreSQL (usable con pool o tx).
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

// stageDoc forma JSON de una etapa dentro de units.operation_stages.
type stageDoc struct {
	Name             string            `json:"name"`
	ParentUnitUUID   string            `json:"parent_unit_uuid"`
	Number           int               `json:"number"`
	EmployeeName     string            `json:"employee_name,omitempty"`
	SessionStartTime *time.Time        `json:"session_start_time,omitempty"`
	SessionEndTime   *time.Time        `json:"session_end_time,omitempty"`
	VideoHashes      []string          `json:"video_hashes,omitempty"`
	AdditionalInfo   map[string]string `json:"additional_info,omitempty"`
	Completed        bool              `json:"completed"`
	EndedPrematurely bool              `json:"ended_prematurely"`
	StageData        map[string]any    `json:"stage_data,omitempty"`
}

func encodeStages(stages []entity.ProductionStage) ([]byte, error) {
	docs := make([]stageDoc, 0, len(stages))
	for _, s := range stages {
		docs = append(docs, stageDoc(s))
	}
	return json.Marshal(docs)
}

func decodeStages(raw []byte) ([]entity.ProductionStage, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var docs []stageDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}
	stages := make([]entity.ProductionStage, 0, len(docs))
	for _, d := range docs {
		stages = append(stages, entity.ProductionStage(d))
	}
	return stages, nil
}

const unitColumns = `uuid, internal_id, schema_id, unit_name, status, operation_stages, components_ids,
	featured_in_int_id, certificate_ipfs_cid, certificate_ipfs_link, certificate_txn_hash,
	serial_number, creation_time`

func scanUnit(row pgxScanner) (*entity.Unit, error) {
	var (
		u                                  entity.Unit
		status                             string
		stagesRaw, componentsRaw           []byte
		featured, cid, link, txn, serialNo *string
	)
	if err := row.Scan(&u.UUID, &u.InternalID, &u.SchemaID, &u.SchemaName, &status, &stagesRaw, &componentsRaw,
		&featured, &cid, &link, &txn, &serialNo, &u.CreationTime); err != nil {
		return nil, err
	}
	st, err := entity.ParseUnitStatus(status)
	if err != nil {
		return nil, fmt.Errorf("unidad %s: %w", u.UUID, domain.ErrDataIntegrity)
	}
	u.Status = st
	if u.OperationStages, err = decodeStages(stagesRaw); err != nil {
		return nil, fmt.Errorf("etapas de %s: %w", u.UUID, err)
	}
	if len(componentsRaw) > 0 {
		if err := json.Unmarshal(componentsRaw, &u.ComponentsIDs); err != nil {
			return nil, fmt.Errorf("componentes de %s: %w", u.UUID, err)
		}
	}
	u.FeaturedInIntID = fromNull(featured)
	u.CertificateIPFSCID = fromNull(cid)
	u.CertificateIPFSLink = fromNull(link)
	u.CertificateTxnHash = fromNull(txn)
	u.SerialNumber = fromNull(serialNo)
	return &u, nil
}

// GetByUUID obtiene una unidad por UUID.
func (r *UnitRepo) GetByUUID(ctx context.Context, uuid string) (*entity.Unit, error) {
	u, err := scanUnit(r.q.QueryRow(ctx, `SELECT `+unitColumns+` FROM units WHERE uuid = $1`, uuid))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("unidad %s: %w", uuid, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return u, nil
}

// GetByInternalID obtiene una unidad por su código EAN-13.
func (r *UnitRepo) GetByInternalID(ctx context.Context, internalID string) (*entity.Unit, error) {
	u, err := scanUnit(r.q.QueryRow(ctx, `SELECT `+unitColumns+` FROM units WHERE internal_id = $1`, internalID))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("unidad %s: %w", internalID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get unit by internal id: %w", err)
	}
	return u, nil
}

// Save upsert de la unidad. Un hash de transacción ya guardado no se pisa con vacío:
// la notarización escribe en paralelo con el guardado final del pasaporte.
// Sin includeComponents la lista de componentes almacenada se conserva.
func (r *UnitRepo) Save(ctx context.Context, unit *entity.Unit, includeComponents bool) error {
	stages, err := encodeStages(unit.OperationStages)
	if err != nil {
		return fmt.Errorf("encode stages: %w", err)
	}
	var components []byte
	if unit.ComponentsIDs != nil {
		if components, err = json.Marshal(unit.ComponentsIDs); err != nil {
			return fmt.Errorf("encode components: %w", err)
		}
	}
	created := unit.CreationTime
	if created.IsZero() {
		created = time.Now().UTC()
	}

	tx, err := r.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO units (` + unitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (uuid) DO UPDATE SET
			schema_id = EXCLUDED.schema_id,
			unit_name = EXCLUDED.unit_name,
			status = EXCLUDED.status,
			operation_stages = EXCLUDED.operation_stages,
			components_ids = CASE WHEN $14 THEN EXCLUDED.components_ids ELSE units.components_ids END,
			featured_in_int_id = COALESCE(EXCLUDED.featured_in_int_id, units.featured_in_int_id),
			certificate_ipfs_cid = COALESCE(EXCLUDED.certificate_ipfs_cid, units.certificate_ipfs_cid),
			certificate_ipfs_link = COALESCE(EXCLUDED.certificate_ipfs_link, units.certificate_ipfs_link),
			certificate_txn_hash = COALESCE(EXCLUDED.certificate_txn_hash, units.certificate_txn_hash),
			serial_number = COALESCE(EXCLUDED.serial_number, units.serial_number)`
	_, err = tx.Exec(ctx, query,
		unit.UUID, unit.InternalID, unit.SchemaID, unit.SchemaName, string(unit.Status), stages, components,
		nullIfEmpty(unit.FeaturedInIntID), nullIfEmpty(unit.CertificateIPFSCID), nullIfEmpty(unit.CertificateIPFSLink),
		nullIfEmpty(unit.CertificateTxnHash), nullIfEmpty(unit.SerialNumber), created,
		includeComponents,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return fmt.Errorf("internal_id %s duplicado: %w", unit.InternalID, domain.ErrDataIntegrity)
		case isForeignKeyViolation(err):
			return fmt.Errorf("esquema %s: %w", unit.SchemaID, domain.ErrNotFound)
		}
		return fmt.Errorf("upsert unit: %w", err)
	}

	if includeComponents && len(unit.ComponentsIDs) > 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE units SET featured_in_int_id = $1 WHERE uuid = ANY($2)`,
			unit.InternalID, unit.ComponentsIDs,
		); err != nil {
			return fmt.Errorf("link components: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// unitFieldColumns campos actualizables; el nombre del campo es también la columna.
var unitFieldColumns = map[string]bool{
	repository.UnitFieldOperationStages:    true,
	repository.UnitFieldCertificateCID:     true,
	repository.UnitFieldCertificateLink:    true,
	repository.UnitFieldCertificateTxnHash: true,
	repository.UnitFieldStatus:             true,
}

// fieldValue convierte el valor de dominio al parámetro SQL de la columna.
func fieldValue(field string, value any) (any, error) {
	switch v := value.(type) {
	case []entity.ProductionStage:
		if field != repository.UnitFieldOperationStages {
			break
		}
		return encodeStages(v)
	case entity.UnitStatus:
		if field != repository.UnitFieldStatus {
			break
		}
		return string(v), nil
	case string:
		if field == repository.UnitFieldOperationStages {
			break
		}
		if field == repository.UnitFieldStatus {
			if _, err := entity.ParseUnitStatus(v); err != nil {
				return nil, err
			}
		}
		return v, nil
	}
	return nil, fmt.Errorf("valor %T para %s: %w", value, field, domain.ErrInvalidInput)
}

// UpdateField actualiza una sola columna de la unidad.
func (r *UnitRepo) UpdateField(ctx context.Context, uuid, field string, value any) error {
	if !unitFieldColumns[field] {
		return fmt.Errorf("campo %q no actualizable: %w", field, domain.ErrInvalidInput)
	}
	arg, err := fieldValue(field, value)
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx, `UPDATE units SET `+field+` = $2 WHERE uuid = $1`, uuid, arg)
	if err != nil {
		return fmt.Errorf("update unit %s: %w", field, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("unidad %s: %w", uuid, domain.ErrNotFound)
	}
	return nil
}

// ListByStatus unidades en el estado dado, las más antiguas primero.
func (r *UnitRepo) ListByStatus(ctx context.Context, status entity.UnitStatus) ([]repository.UnitSummary, error) {
	rows, err := r.q.Query(ctx,
		`SELECT internal_id, unit_name FROM units WHERE status = $1 ORDER BY creation_time`, string(status))
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()
	var list []repository.UnitSummary
	for rows.Next() {
		var s repository.UnitSummary
		if err := rows.Scan(&s.InternalID, &s.UnitName); err != nil {
			return nil, fmt.Errorf("scan unit summary: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
