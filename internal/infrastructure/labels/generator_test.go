package labels_test

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/workbench-api/internal/domain/entity"
	"github.com/jhoicas/workbench-api/internal/infrastructure/labels"
)

func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestUnitBarcode_PNGEnDirectorio(t *testing.T) {
	dir := t.TempDir()
	id, err := entity.InternalIDFromUUID("3f2b9c6e4a1d4e0f8b7a6c5d4e3f2a1b")
	require.NoError(t, err)

	path, err := labels.New(dir).UnitBarcode(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "barcode-"+id))
	w, h := decodeSize(t, path)
	assert.Equal(t, 400, w)
	assert.Equal(t, 150, h)
}

func TestUnitBarcode_DigitoDeControlInvalido(t *testing.T) {
	_, err := labels.New(t.TempDir()).UnitBarcode(context.Background(), "4006381333932")
	assert.Error(t, err)
}

func TestPassportQR(t *testing.T) {
	path, err := labels.New(t.TempDir()).PassportQR(context.Background(), "https://gw/ipfs/QmPassport")
	require.NoError(t, err)
	w, h := decodeSize(t, path)
	assert.Equal(t, w, h)
}

func TestSealTag_ConYSinMarcaDeTiempo(t *testing.T) {
	g := labels.New(t.TempDir())
	g.Now = func() time.Time { return time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC) }

	for _, ts := range []bool{true, false} {
		path, err := g.SealTag(context.Background(), ts)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(filepath.Base(path), "seal-"))
	}
}
