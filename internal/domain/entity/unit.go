package entity

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/boombuler/barcode/ean"

	"github.com/jhoicas/workbench-api/internal/domain"
)

// UnitStatus estado de la unidad en su ciclo de vida.
type UnitStatus string

const (
	UnitStatusProduction UnitStatus = "production"
	UnitStatusBuilt      UnitStatus = "built"
	UnitStatusRevision   UnitStatus = "revision"
	UnitStatusFinalized  UnitStatus = "finalized" // pasaporte publicado
)

// ParseUnitStatus valida un estado recibido desde almacenamiento o API.
func ParseUnitStatus(s string) (UnitStatus, error) {
	switch st := UnitStatus(strings.ToLower(s)); st {
	case UnitStatusProduction, UnitStatusBuilt, UnitStatusRevision, UnitStatusFinalized:
		return st, nil
	}
	return "", fmt.Errorf("estado de unidad %q: %w", s, domain.ErrInvalidInput)
}

// Unit artículo físico rastreado durante la producción, posiblemente compuesto de otras unidades.
// El orden de OperationStages se fija al crear la unidad.
type Unit struct {
	UUID                string
	InternalID          string // EAN-13 derivado del UUID
	SchemaID            string
	SchemaName          string
	Status              UnitStatus
	OperationStages     []ProductionStage
	ComponentsIDs       []string // UUIDs de componentes
	FeaturedInIntID     string   // internal_id de la unidad padre
	CertificateIPFSCID  string
	CertificateIPFSLink string
	CertificateTxnHash  string
	SerialNumber        string
	CreationTime        time.Time
}

// NewUnit construye una unidad desde su esquema. Los componentes deben pertenecer
// a la lista de componentes requeridos del esquema.
func NewUnit(schema *ProductionSchema, uuid string, components []*Unit, now time.Time) (*Unit, error) {
	internalID, err := InternalIDFromUUID(uuid)
	if err != nil {
		return nil, err
	}
	u := &Unit{
		UUID:         uuid,
		InternalID:   internalID,
		SchemaID:     schema.SchemaID,
		SchemaName:   schema.SchemaName,
		Status:       UnitStatusProduction,
		CreationTime: now,
	}
	for i, st := range schema.SchemaStages {
		u.OperationStages = append(u.OperationStages, ProductionStage{
			Name:           st.Name,
			ParentUnitUUID: uuid,
			Number:         i,
		})
	}
	if len(u.OperationStages) == 0 {
		u.Status = UnitStatusBuilt
	}
	for _, c := range components {
		if !schema.RequiresComponent(c.SchemaID) {
			return nil, fmt.Errorf("componente %s (esquema %s) no pertenece al esquema %s: %w",
				c.InternalID, c.SchemaID, schema.SchemaID, domain.ErrInvalidInput)
		}
		u.ComponentsIDs = append(u.ComponentsIDs, c.UUID)
	}
	return u, nil
}

// InternalIDFromUUID toma los 12 primeros dígitos decimales del UUID (hex) y
// devuelve el código EAN-13 completo con dígito de control.
func InternalIDFromUUID(uuid string) (string, error) {
	n, ok := new(big.Int).SetString(strings.ReplaceAll(uuid, "-", ""), 16)
	if !ok {
		return "", fmt.Errorf("uuid %q no es hexadecimal: %w", uuid, domain.ErrInvalidInput)
	}
	digits := n.String()
	if len(digits) < 12 {
		return "", fmt.Errorf("uuid %q demasiado corto para EAN-13: %w", uuid, domain.ErrInvalidInput)
	}
	code, err := ean.Encode(digits[:12])
	if err != nil {
		return "", fmt.Errorf("ean13: %w", err)
	}
	return code.Content(), nil
}

// NextPendingStage etapa incompleta de menor número, o nil si no queda trabajo.
func (u *Unit) NextPendingStage() *ProductionStage {
	var next *ProductionStage
	for i := range u.OperationStages {
		st := &u.OperationStages[i]
		if st.Completed {
			continue
		}
		if next == nil || st.Number < next.Number {
			next = st
		}
	}
	return next
}

// HasPublishMetadata indica si el pasaporte ya fue publicado o notarizado.
func (u *Unit) HasPublishMetadata() bool {
	return u.CertificateIPFSCID != "" || u.CertificateTxnHash != ""
}

// Biography nombres de todas las etapas en orden.
func (u *Unit) Biography() []string {
	names := make([]string, 0, len(u.OperationStages))
	for _, st := range u.OperationStages {
		names = append(names, st.Name)
	}
	return names
}

// StartStage registra operario, hora de inicio y datos adicionales en la etapa pendiente.
func (u *Unit) StartStage(employee *Employee, info map[string]string, at time.Time) error {
	st := u.NextPendingStage()
	if st == nil {
		return fmt.Errorf("unidad %s sin etapas pendientes: %w", u.InternalID, domain.ErrPrecondition)
	}
	if employee != nil {
		st.EmployeeName = employee.Name
	}
	start := at
	st.SessionStartTime = &start
	if len(info) > 0 {
		st.AdditionalInfo = mergeInfo(st.AdditionalInfo, info)
	}
	return nil
}

// EndStageInput datos para cerrar la etapa en curso.
type EndStageInput struct {
	VideoHashes    []string
	AdditionalInfo map[string]string
	StageData      map[string]any
	Premature      bool
	At             time.Time
}

// EndStage completa la etapa pendiente. Si termina prematuramente se inserta una copia
// pendiente justo después para rehacer el trabajo. Sin etapas pendientes la unidad queda Built.
func (u *Unit) EndStage(in EndStageInput) error {
	st := u.NextPendingStage()
	if st == nil {
		return fmt.Errorf("unidad %s sin etapas pendientes: %w", u.InternalID, domain.ErrPrecondition)
	}
	end := in.At
	st.SessionEndTime = &end
	st.Completed = true
	st.EndedPrematurely = in.Premature
	st.VideoHashes = append(st.VideoHashes, in.VideoHashes...)
	if len(in.AdditionalInfo) > 0 {
		st.AdditionalInfo = mergeInfo(st.AdditionalInfo, in.AdditionalInfo)
	}
	st.MergeStageData(in.StageData)

	if in.Premature {
		u.insertRetry(st.Number, ProductionStage{
			Name:           st.Name,
			ParentUnitUUID: st.ParentUnitUUID,
		})
	}

	if u.NextPendingStage() == nil && (u.Status == UnitStatusProduction || u.Status == UnitStatusRevision) {
		u.Status = UnitStatusBuilt
	}
	return nil
}

// insertRetry inserta stage después de la etapa número after y renumera las siguientes.
func (u *Unit) insertRetry(after int, stage ProductionStage) {
	idx := len(u.OperationStages)
	for i, st := range u.OperationStages {
		if st.Number == after {
			idx = i + 1
			break
		}
	}
	stages := make([]ProductionStage, 0, len(u.OperationStages)+1)
	stages = append(stages, u.OperationStages[:idx]...)
	stages = append(stages, stage)
	stages = append(stages, u.OperationStages[idx:]...)
	for i := range stages {
		stages[i].Number = i
	}
	u.OperationStages = stages
}

// Finalize marca la unidad como finalizada tras publicar el pasaporte.
func (u *Unit) Finalize() {
	if u.Status == UnitStatusBuilt {
		u.Status = UnitStatusFinalized
	}
}

func mergeInfo(dst, src map[string]string) map[string]string {
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
