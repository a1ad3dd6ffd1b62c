package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/workbench-api/internal/application/dto"
	"github.com/jhoicas/workbench-api/internal/domain"
	"github.com/jhoicas/workbench-api/internal/domain/entity"
	"github.com/jhoicas/workbench-api/internal/domain/repository"
)

// PassportPDFGenerator genera la versión imprimible del pasaporte.
type PassportPDFGenerator interface {
	GeneratePassportPDF(ctx context.Context, unit *entity.Unit) ([]byte, error)
}

// UnitUseCase consultas de unidades fuera del flujo de la estación.
type UnitUseCase struct {
	repo repository.UnitRepository
	pdf  PassportPDFGenerator
}

// NewUnitUseCase pdf puede ser nil si no se sirve el PDF.
func NewUnitUseCase(repo repository.UnitRepository, pdf PassportPDFGenerator) *UnitUseCase {
	return &UnitUseCase{repo: repo, pdf: pdf}
}

// Info resumen de la unidad: etapas completas y pendientes.
func (uc *UnitUseCase) Info(ctx context.Context, internalID string) (*dto.UnitInfoResponse, error) {
	u, err := uc.repo.GetByInternalID(ctx, internalID)
	if err != nil {
		return nil, err
	}
	out := &dto.UnitInfoResponse{
		GenericResponse: dto.OK("Unit data retrieved successfully"),
		UnitInternalID:  u.InternalID,
		UnitStatus:      string(u.Status),
		StagesCompleted: []dto.BiographyStage{},
		StagesPending:   []dto.BiographyStage{},
		SchemaID:        u.SchemaID,
	}
	for _, st := range u.OperationStages {
		b := dto.BiographyStage{StageName: st.Name}
		if st.Completed {
			out.StagesCompleted = append(out.StagesCompleted, b)
		} else {
			out.StagesPending = append(out.StagesPending, b)
		}
	}
	if len(u.ComponentsIDs) > 0 {
		out.UnitComponents = u.ComponentsIDs
	}
	return out, nil
}

// PendingRevision unidades en revisión, más antiguas primero.
func (uc *UnitUseCase) PendingRevision(ctx context.Context) ([]dto.PendingUnit, error) {
	list, err := uc.repo.ListByStatus(ctx, entity.UnitStatusRevision)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PendingUnit, 0, len(list))
	for _, s := range list {
		out = append(out, dto.PendingUnit{UnitInternalID: s.InternalID, UnitName: s.UnitName})
	}
	return out, nil
}

// PassportPDF PDF del pasaporte de la unidad.
func (uc *UnitUseCase) PassportPDF(ctx context.Context, internalID string) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("PDF de pasaportes deshabilitado: %w", domain.ErrPrecondition)
	}
	u, err := uc.repo.GetByInternalID(ctx, internalID)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GeneratePassportPDF(ctx, u)
}
