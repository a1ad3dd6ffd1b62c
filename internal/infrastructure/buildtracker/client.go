// Package buildtracker cliente HTTP del servicio de seguimiento de fabricación
// (cámaras y sensores que registran cada etapa).
package buildtracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/workbench-api/internal/application/workbench"
)

var _ workbench.BuildTracker = (*Client)(nil)

// maxBody tope de lectura de respuestas; la guía de entrada manual es pequeña.
const maxBody = 1 << 20

// Config URIs del servicio.
type Config struct {
	StartURI       string
	ManualInputURI string
	StopURI        string
	Timeout        time.Duration
}

// Client transporte puro: devuelve código y cuerpo sin interpretarlos.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// New construye el cliente. httpClient nil => uno propio con cfg.Timeout.
func New(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

// ── Cuerpo del inicio ─────────────────────────────────────────────────────────

type stageDoc struct {
	Name            string   `json:"name"`
	Type            string   `json:"type,omitempty"`
	Description     string   `json:"description,omitempty"`
	Equipment       []string `json:"equipment,omitempty"`
	Workplace       string   `json:"workplace,omitempty"`
	DurationSeconds *int     `json:"duration_seconds,omitempty"`
}

// startBody el servicio espera el esquema completo más el contexto de la estación.
type startBody struct {
	SchemaID            string            `json:"schema_id"`
	SchemaName          string            `json:"unit_name"`
	SchemaType          string            `json:"schema_type,omitempty"`
	ParentSchemaID      string            `json:"parent_schema_id,omitempty"`
	ComponentsSchemaIDs []string          `json:"required_components_schema_ids"`
	ProductionStages    []stageDoc        `json:"production_stages"`
	ERPMetadata         map[string]string `json:"erp_metadata,omitempty"`
	UnitInternalID      string            `json:"unit_internal_id"`
	StageName           string            `json:"stage_name"`
	Workbench           int               `json:"workbench_no"`
}

func newStartBody(req workbench.StartRequest) startBody {
	b := startBody{
		UnitInternalID: req.UnitInternalID,
		StageName:      req.StageName,
		Workbench:      req.Workbench,
	}
	if s := req.Schema; s != nil {
		b.SchemaID = s.SchemaID
		b.SchemaName = s.SchemaName
		b.SchemaType = s.SchemaType
		b.ParentSchemaID = s.ParentSchemaID
		b.ComponentsSchemaIDs = s.ComponentsSchemaIDs
		b.ERPMetadata = s.ERPMetadata
		b.ProductionStages = make([]stageDoc, 0, len(s.SchemaStages))
		for _, st := range s.SchemaStages {
			b.ProductionStages = append(b.ProductionStages, stageDoc(st))
		}
	}
	return b
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// Start pide iniciar el seguimiento de la etapa.
func (c *Client) Start(ctx context.Context, req workbench.StartRequest) (*workbench.TrackerResponse, error) {
	return c.postJSON(ctx, c.cfg.StartURI, newStartBody(req))
}

// ManualInput reenvía los datos que el operario digitó.
func (c *Client) ManualInput(ctx context.Context, in workbench.ManualInput) (*workbench.TrackerResponse, error) {
	return c.postJSON(ctx, c.cfg.ManualInputURI, in)
}

// Stop detiene el seguimiento; el servicio responde con la referencia del video.
func (c *Client) Stop(ctx context.Context) (*workbench.TrackerResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.StopURI, nil)
	if err != nil {
		return nil, fmt.Errorf("buildtracker: crear request: %w", err)
	}
	return c.do(req)
}

func (c *Client) postJSON(ctx context.Context, uri string, payload any) (*workbench.TrackerResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("buildtracker: serializar request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("buildtracker: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*workbench.TrackerResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, fmt.Errorf("buildtracker: timeout o cancelación: %w", ctxErr)
		}
		return nil, fmt.Errorf("buildtracker: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("buildtracker: leer respuesta: %w", err)
	}
	return &workbench.TrackerResponse{StatusCode: resp.StatusCode, Body: raw}, nil
}
