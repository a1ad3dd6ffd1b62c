package workbench

import (
	"context"
	"fmt"

	"github.com/jhoicas/workbench-api/internal/domain"
	"github.com/jhoicas/workbench-api/internal/domain/entity"
	"github.com/jhoicas/workbench-api/internal/domain/repository"
)

// UploadUnitPassport genera y publica el pasaporte de la unidad en la estación.
//
// Fallar al imprimir el QR aborta la operación: solo queda en almacenamiento el CID ya
// escrito. Fallar al imprimir el sello de seguridad se registra y no se propaga.
func (w *Workbench) UploadUnitPassport(ctx context.Context) error {
	w.opMu.Lock()
	defer w.opMu.Unlock()

	employee, session := w.fields()
	if session == nil {
		return fmt.Errorf("no hay unidad asignada: %w", domain.ErrPrecondition)
	}
	if employee == nil {
		return fmt.Errorf("no hay operario autenticado: %w", domain.ErrPrecondition)
	}
	unit, schema := session.Unit(), session.Schema()

	passportPath, err := w.deps.Certificates.Build(ctx, unit)
	if err != nil {
		return fmt.Errorf("construir pasaporte de %s: %w", unit.InternalID, err)
	}
	defer w.discard(passportPath)

	p := w.cfg.Printer
	printQR := p.Enable && p.PrintQR &&
		(!p.PrintQROnlyForComposite || schema.IsComposite() || !schema.IsAComponent())

	if w.cfg.PublishEnabled {
		res, err := w.deps.Publisher.Publish(ctx, employee.RFIDCardID, passportPath)
		if err != nil {
			w.deps.Metrics.ExternalFailure("ipfs")
			return fmt.Errorf("publicar pasaporte de %s: %w", unit.InternalID, err)
		}
		if err := w.deps.Units.UpdateField(ctx, unit.UUID, repository.UnitFieldCertificateCID, res.CID); err != nil {
			return fmt.Errorf("guardar cid de %s: %w", unit.InternalID, err)
		}
		w.mu.Lock()
		unit.CertificateIPFSCID = res.CID
		unit.CertificateIPFSLink = res.Link
		w.mu.Unlock()
		w.log.Info().Str("unit", unit.InternalID).Str("cid", res.CID).Msg("pasaporte publicado")

		if printQR {
			if err := w.printPassportQR(ctx, unit, schema, res.Link); err != nil {
				w.log.Error().Err(err).Str("unit", unit.InternalID).Msg("no se imprimió el QR; pasaporte no guardado")
				return err
			}
		}
	}

	if p.Enable && p.PrintSecurityTag {
		if err := w.printSecurityTag(ctx, employee); err != nil {
			w.log.Error().Err(err).Str("unit", unit.InternalID).Msg("no se imprimió el sello de seguridad")
		}
	}

	if w.cfg.LedgerEnabled && unit.CertificateIPFSCID != "" {
		w.notarize(unit.UUID, unit.InternalID, unit.CertificateIPFSCID)
	}

	w.mu.Lock()
	prevStatus := unit.Status
	if unit.CertificateIPFSCID != "" {
		unit.Finalize()
	}
	w.mu.Unlock()

	if err := w.deps.Units.Save(ctx, unit, true); err != nil {
		w.mu.Lock()
		unit.Status = prevStatus
		w.mu.Unlock()
		return fmt.Errorf("guardar unidad %s: %w", unit.InternalID, err)
	}
	w.notify()
	w.deps.Metrics.PassportGenerated(unit)
	return nil
}

func (w *Workbench) printPassportQR(ctx context.Context, unit *entity.Unit, schema *entity.ProductionSchema, link string) error {
	annotation := fmt.Sprintf("%s (ID: %s).", unit.SchemaName, unit.InternalID)
	if schema.IsAComponent() {
		parent, err := w.deps.Schemas.GetByID(ctx, schema.ParentSchemaID)
		if err != nil {
			return fmt.Errorf("esquema padre %s: %w", schema.ParentSchemaID, err)
		}
		annotation = fmt.Sprintf("%s. %s", parent.SchemaName, annotation)
	}
	path, err := w.deps.Labels.PassportQR(ctx, link)
	if err != nil {
		return fmt.Errorf("generar QR: %w", err)
	}
	defer w.discard(path)
	if err := w.deps.Printer.PrintImage(ctx, path, annotation); err != nil {
		w.deps.Metrics.ExternalFailure("printer")
		return fmt.Errorf("imprimir QR de %s: %w", unit.InternalID, err)
	}
	return nil
}

func (w *Workbench) printSecurityTag(ctx context.Context, employee *entity.Employee) error {
	path, err := w.deps.Labels.SealTag(ctx, w.cfg.Printer.SecurityTagAddTimestamp)
	if err != nil {
		return fmt.Errorf("generar sello: %w", err)
	}
	defer w.discard(path)
	if err := w.deps.Printer.PrintImage(ctx, path, employee.RFIDCardID); err != nil {
		w.deps.Metrics.ExternalFailure("printer")
		return fmt.Errorf("imprimir sello: %w", err)
	}
	return nil
}

// notarize publica el CID en el ledger sin bloquear y guarda el hash de la transacción.
func (w *Workbench) notarize(unitUUID, internalID, cid string) {
	w.bg.Add(1)
	go func() {
		defer w.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), w.cfg.LedgerTimeout)
		defer cancel()

		txHash, err := w.deps.Ledger.Post(ctx, cid, internalID)
		if err != nil {
			w.deps.Metrics.ExternalFailure("robonomics")
			w.log.Error().Err(err).Str("unit", internalID).Msg("no se pudo notarizar el pasaporte")
			return
		}
		if err := w.deps.Units.UpdateField(ctx, unitUUID, repository.UnitFieldCertificateTxnHash, txHash); err != nil {
			w.log.Error().Err(err).Str("unit", internalID).Msg("no se pudo guardar el hash de la transacción")
			return
		}
		w.log.Info().Str("unit", internalID).Str("txn", txHash).Msg("pasaporte notarizado")
	}()
}

// WaitBackground espera las notarizaciones en curso o hasta que ctx expire.
func (w *Workbench) WaitBackground(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		w.bg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
