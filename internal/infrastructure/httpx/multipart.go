// Package httpx utilidades compartidas por los clientes HTTP de colaboradores.
package httpx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// MaxBody tope de lectura de respuestas de los colaboradores.
const MaxBody = 1 << 20

// Upload archivo y campos de texto para un POST multipart.
type Upload struct {
	URL       string
	FileField string
	FilePath  string
	Fields    map[string]string
	Header    http.Header
}

// Response código y cuerpo (recortado a MaxBody).
type Response struct {
	StatusCode int
	Body       []byte
}

// OK indica un 2xx.
func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// PostFile envía el archivo en un cuerpo multipart/form-data.
func PostFile(ctx context.Context, client *http.Client, up Upload) (*Response, error) {
	f, err := os.Open(up.FilePath)
	if err != nil {
		return nil, fmt.Errorf("abrir %s: %w", up.FilePath, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range up.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("campo %s: %w", k, err)
		}
	}
	part, err := w.CreateFormFile(up.FileField, filepath.Base(up.FilePath))
	if err != nil {
		return nil, fmt.Errorf("crear parte: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("copiar %s: %w", up.FilePath, err)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, up.URL, &buf)
	if err != nil {
		return nil, fmt.Errorf("crear request: %w", err)
	}
	for k, vs := range up.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return Do(client, req)
}

// Do ejecuta req y lee el cuerpo completo (hasta MaxBody).
func Do(client *http.Client, req *http.Request) (*Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxBody))
	if err != nil {
		return nil, fmt.Errorf("leer respuesta: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: raw}, nil
}
