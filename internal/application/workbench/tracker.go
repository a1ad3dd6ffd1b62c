package workbench

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jhoicas/workbench-api/internal/domain"
)

const trackerService = "business-logic"

// StopResult datos devueltos al detener el seguimiento.
type StopResult struct {
	ArtifactCID  string
	ArtifactLink string
	Extra        map[string]any
}

// transportFailure convierte un error de transporte (timeout incluido) en fallo externo.
func transportFailure(service string, err error) error {
	return &domain.ExternalServiceError{Service: service, Detail: err.Error()}
}

func unexpectedStatus(service string, resp *TrackerResponse) error {
	return &domain.ExternalServiceError{
		Service:    service,
		StatusCode: resp.StatusCode,
		Detail:     string(bytes.TrimSpace(resp.Body)),
	}
}

// decideStart 200 es éxito; 504 significa que el servicio pide entrada manual y
// devuelve su guía sin tocarla; cualquier otro código es fallo.
func decideStart(resp *TrackerResponse, err error) error {
	if err != nil {
		return transportFailure(trackerService, err)
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusGatewayTimeout:
		return &domain.ManualInputNeededError{Guidance: json.RawMessage(bytes.Clone(resp.Body))}
	default:
		return unexpectedStatus(trackerService, resp)
	}
}

// decideManualInput solo 200 es éxito.
func decideManualInput(resp *TrackerResponse, err error) error {
	if err != nil {
		return transportFailure(trackerService, err)
	}
	if resp.StatusCode != http.StatusOK {
		return unexpectedStatus(trackerService, resp)
	}
	return nil
}

// decideStop 200 con cuerpo JSON objeto (o vacío). ipfs_cid e ipfs_link se separan
// del resto de campos.
func decideStop(resp *TrackerResponse, err error) (*StopResult, error) {
	if err != nil {
		return nil, transportFailure(trackerService, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, unexpectedStatus(trackerService, resp)
	}
	out := &StopResult{}
	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 {
		return out, nil
	}
	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &domain.ExternalServiceError{
			Service:    trackerService,
			StatusCode: resp.StatusCode,
			Detail:     fmt.Sprintf("respuesta de stop no es un objeto JSON: %v", err),
		}
	}
	if cid, ok := data["ipfs_cid"].(string); ok {
		out.ArtifactCID = cid
	}
	if link, ok := data["ipfs_link"].(string); ok {
		out.ArtifactLink = link
	}
	delete(data, "ipfs_cid")
	delete(data, "ipfs_link")
	if len(data) > 0 {
		out.Extra = data
	}
	return out, nil
}
