// Package printer cliente del servicio de impresión de etiquetas.
package printer

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/workbench-api/internal/application/workbench"
	"github.com/jhoicas/workbench-api/internal/domain"
	"github.com/jhoicas/workbench-api/internal/infrastructure/httpx"
)

var _ workbench.Printer = (*Client)(nil)

const serviceName = "printer"

// Client envía imágenes a la impresora térmica de la estación.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// PrintImage imprime la imagen; annotation va como texto al pie cuando no está vacía.
func (c *Client) PrintImage(ctx context.Context, imagePath, annotation string) error {
	fields := map[string]string{}
	if annotation != "" {
		fields["annotation"] = annotation
	}
	resp, err := httpx.PostFile(ctx, c.httpClient, httpx.Upload{
		URL:       c.baseURL + "/print_image",
		FileField: "image_file",
		FilePath:  imagePath,
		Fields:    fields,
	})
	if err != nil {
		return &domain.ExternalServiceError{Service: serviceName, Detail: err.Error()}
	}
	if !resp.OK() {
		return &domain.ExternalServiceError{Service: serviceName, StatusCode: resp.StatusCode, Detail: string(resp.Body)}
	}
	return nil
}
