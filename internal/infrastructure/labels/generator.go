// Package labels genera las imágenes PNG que imprime la estación: código de barras
// de la unidad, QR del pasaporte y sello de seguridad.
package labels

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/qr"

	"github.com/jhoicas/workbench-api/internal/application/workbench"
)

var _ workbench.LabelMaker = (*Generator)(nil)

// Tamaños en píxeles para la impresora de 62 mm.
const (
	barcodeWidth  = 400
	barcodeHeight = 150
	qrSize        = 300
	sealWidth     = 500
	sealHeight    = 120
)

// Generator escribe cada etiqueta en un archivo temporal de Dir.
type Generator struct {
	Dir string // vacío => os.TempDir()
	Now func() time.Time
}

func New(dir string) *Generator {
	return &Generator{Dir: dir, Now: time.Now}
}

// UnitBarcode EAN-13 con el internal_id de la unidad.
func (g *Generator) UnitBarcode(_ context.Context, internalID string) (string, error) {
	code, err := ean.Encode(internalID)
	if err != nil {
		return "", fmt.Errorf("labels: ean13 %q: %w", internalID, err)
	}
	return g.write("barcode-"+internalID, code, barcodeWidth, barcodeHeight)
}

// PassportQR QR con el enlace público del pasaporte.
func (g *Generator) PassportQR(_ context.Context, link string) (string, error) {
	code, err := qr.Encode(link, qr.M, qr.Auto)
	if err != nil {
		return "", fmt.Errorf("labels: qr: %w", err)
	}
	return g.write("qr", code, qrSize, qrSize)
}

// SealTag sello para el empaque; con marca de tiempo cuando se pide.
func (g *Generator) SealTag(_ context.Context, withTimestamp bool) (string, error) {
	content := "SEAL"
	if withTimestamp {
		content = "SEAL " + g.Now().Format("2006-01-02 15:04")
	}
	code, err := code128.Encode(content)
	if err != nil {
		return "", fmt.Errorf("labels: sello: %w", err)
	}
	return g.write("seal", code, sealWidth, sealHeight)
}

func (g *Generator) write(prefix string, code barcode.Barcode, w, h int) (string, error) {
	scaled, err := barcode.Scale(code, w, h)
	if err != nil {
		return "", fmt.Errorf("labels: escalar %s: %w", prefix, err)
	}
	f, err := os.CreateTemp(g.Dir, prefix+"-*.png")
	if err != nil {
		return "", fmt.Errorf("labels: crear archivo: %w", err)
	}
	if err := png.Encode(f, scaled); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("labels: png: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
