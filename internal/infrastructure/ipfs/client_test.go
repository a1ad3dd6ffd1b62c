package ipfs_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/workbench-api/internal/domain"
	"github.com/jhoicas/workbench-api/internal/infrastructure/ipfs"
)

func passportFile(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "passport.yaml")
	require.NoError(t, os.WriteFile(p, []byte("unit: x\n"), 0o600))
	return p
}

func TestPublish_EnviaArchivoConTarjeta(t *testing.T) {
	var gotAuth, gotName, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/publish-to-ipfs/upload-file", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		f, hdr, err := r.FormFile("file_data")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		gotName = hdr.Filename
		b, _ := io.ReadAll(f)
		gotBody = string(b)
		_, _ = w.Write([]byte(`{"ipfs_cid":"QmX","ipfs_link":"https://gw/QmX"}`))
	}))
	defer srv.Close()

	res, err := ipfs.New(srv.URL+"/", time.Second).Publish(context.Background(), "0008368511", passportFile(t))

	require.NoError(t, err)
	assert.Equal(t, "QmX", res.CID)
	assert.Equal(t, "https://gw/QmX", res.Link)
	assert.Equal(t, "0008368511", gotAuth)
	assert.Equal(t, "passport.yaml", gotName)
	assert.Equal(t, "unit: x\n", gotBody)
}

func TestPublish_CodigoNoExitoso(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "sin permiso", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := ipfs.New(srv.URL, time.Second).Publish(context.Background(), "1", passportFile(t))

	var ext *domain.ExternalServiceError
	require.ErrorAs(t, err, &ext)
	assert.Equal(t, http.StatusUnauthorized, ext.StatusCode)
	assert.ErrorIs(t, err, domain.ErrExternalService)
}

func TestPublish_ArchivoInexistente(t *testing.T) {
	_, err := ipfs.New("http://127.0.0.1:1", time.Second).Publish(context.Background(), "1", "/no/existe.yaml")
	assert.ErrorIs(t, err, domain.ErrExternalService)
}

func TestPublish_RespuestaSinCID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := ipfs.New(srv.URL, time.Second).Publish(context.Background(), "1", passportFile(t))
	assert.ErrorIs(t, err, domain.ErrExternalService)
}
