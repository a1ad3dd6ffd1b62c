// Package robonomics notariza el CID del pasaporte en el datalog de Robonomics
// a través del servicio puente de la planta.
package robonomics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/jhoicas/workbench-api/internal/application/workbench"
	"github.com/jhoicas/workbench-api/internal/domain"
	"github.com/jhoicas/workbench-api/internal/infrastructure/httpx"
)

var _ workbench.Ledger = (*Client)(nil)

const serviceName = "robonomics"

// Config reintentos del envío. Los 4xx no se reintentan.
type Config struct {
	URL             string
	Timeout         time.Duration // por intento
	MaxRetries      uint64
	InitialInterval time.Duration
}

// Client escritor del datalog.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// New aplica valores por defecto a los campos vacíos.
func New(cfg Config) *Client {
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = time.Second
	}
	return &Client{cfg: cfg, httpClient: &http.Client{Timeout: cfg.Timeout}}
}

type datalogRequest struct {
	CID            string `json:"ipfs_cid"`
	UnitInternalID string `json:"unit_internal_id"`
}

type datalogResponse struct {
	TxHash string `json:"tx_hash"`
}

// Post publica el registro y devuelve el hash de la transacción.
func (c *Client) Post(ctx context.Context, cid, unitInternalID string) (string, error) {
	payload, err := json.Marshal(datalogRequest{CID: cid, UnitInternalID: unitInternalID})
	if err != nil {
		return "", err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.cfg.InitialInterval
	b := backoff.WithContext(backoff.WithMaxRetries(policy, c.cfg.MaxRetries), ctx)

	return backoff.RetryWithData(func() (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL+"/datalog", bytes.NewReader(payload))
		if err != nil {
			return "", backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := httpx.Do(c.httpClient, req)
		if err != nil {
			return "", &domain.ExternalServiceError{Service: serviceName, Detail: err.Error()}
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return "", backoff.Permanent(&domain.ExternalServiceError{Service: serviceName, StatusCode: resp.StatusCode, Detail: string(resp.Body)})
		}
		if !resp.OK() {
			return "", &domain.ExternalServiceError{Service: serviceName, StatusCode: resp.StatusCode, Detail: string(resp.Body)}
		}

		var out datalogResponse
		if err := json.Unmarshal(resp.Body, &out); err != nil {
			return "", backoff.Permanent(fmt.Errorf("robonomics: respuesta inválida: %w", err))
		}
		return out.TxHash, nil
	}, b)
}
