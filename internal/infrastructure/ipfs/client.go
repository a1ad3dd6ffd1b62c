// Package ipfs publica pasaportes a través de la pasarela IPFS de la planta.
package ipfs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/workbench-api/internal/application/workbench"
	"github.com/jhoicas/workbench-api/internal/domain"
	"github.com/jhoicas/workbench-api/internal/infrastructure/httpx"
)

var _ workbench.Publisher = (*Client)(nil)

const (
	serviceName = "ipfs-gateway"
	uploadPath  = "/publish-to-ipfs/upload-file"
)

// Client cliente de la pasarela. La pasarela autentica con la tarjeta RFID del operario.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New baseURL sin barra final, p. ej. http://127.0.0.1:8082.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type uploadResponse struct {
	CID  string `json:"ipfs_cid"`
	Link string `json:"ipfs_link"`
}

// Publish sube el archivo y devuelve su CID y enlace público.
func (c *Client) Publish(ctx context.Context, ownerCardID, filePath string) (*workbench.PublishResult, error) {
	resp, err := httpx.PostFile(ctx, c.httpClient, httpx.Upload{
		URL:       c.baseURL + uploadPath,
		FileField: "file_data",
		FilePath:  filePath,
		Header:    http.Header{"Authorization": []string{ownerCardID}},
	})
	if err != nil {
		return nil, &domain.ExternalServiceError{Service: serviceName, Detail: err.Error()}
	}
	if !resp.OK() {
		return nil, &domain.ExternalServiceError{Service: serviceName, StatusCode: resp.StatusCode, Detail: string(resp.Body)}
	}

	var out uploadResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("ipfs: respuesta inválida: %w", err)
	}
	if out.CID == "" {
		return nil, &domain.ExternalServiceError{Service: serviceName, StatusCode: resp.StatusCode, Detail: "respuesta sin ipfs_cid"}
	}
	return &workbench.PublishResult{CID: out.CID, Link: out.Link}, nil
}
