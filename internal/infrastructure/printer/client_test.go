package printer_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/workbench-api/internal/domain"
	"github.com/jhoicas/workbench-api/internal/infrastructure/printer"
)

func label(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "barcode.png")
	require.NoError(t, os.WriteFile(p, []byte{0x89, 'P', 'N', 'G'}, 0o600))
	return p
}

func TestPrintImage_EnviaImagenYAnotacion(t *testing.T) {
	var annotation, filename string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/print_image", r.URL.Path)
		annotation = r.FormValue("annotation")
		if _, hdr, err := r.FormFile("image_file"); assert.NoError(t, err) {
			filename = hdr.Filename
		}
	}))
	defer srv.Close()

	err := printer.New(srv.URL, time.Second).PrintImage(context.Background(), label(t), "Bicicleta. Cuadro.")

	require.NoError(t, err)
	assert.Equal(t, "Bicicleta. Cuadro.", annotation)
	assert.Equal(t, "barcode.png", filename)
}

func TestPrintImage_ImpresoraCaida(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := printer.New(srv.URL, time.Second).PrintImage(context.Background(), label(t), "")

	var ext *domain.ExternalServiceError
	require.ErrorAs(t, err, &ext)
	assert.Equal(t, http.StatusInternalServerError, ext.StatusCode)
}
