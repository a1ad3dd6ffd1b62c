package workbench

import (
	"context"

	"github.com/jhoicas/workbench-api/internal/domain/entity"
	"github.com/jhoicas/workbench-api/internal/domain/state"
)

// TrackerResponse respuesta cruda del servicio de seguimiento. La interpretación
// (éxito, guía de entrada manual o fallo) vive en tracker.go.
type TrackerResponse struct {
	StatusCode int
	Body       []byte
}

// StartRequest datos enviados al iniciar el seguimiento de una etapa.
type StartRequest struct {
	Schema         *entity.ProductionSchema
	UnitInternalID string
	StageName      string
	Workbench      int
}

// ManualInput datos que el operario digita cuando el servicio no puede medirlos.
type ManualInput struct {
	LicensePlate string `json:"license_plate,omitempty"`
	Weight       string `json:"weight,omitempty"`
}

// BuildTracker transporte hacia el servicio de seguimiento de fabricación.
// Un error solo indica fallo de transporte (incluido timeout).
type BuildTracker interface {
	Start(ctx context.Context, req StartRequest) (*TrackerResponse, error)
	ManualInput(ctx context.Context, in ManualInput) (*TrackerResponse, error)
	Stop(ctx context.Context) (*TrackerResponse, error)
}

// PublishResult referencia devuelta por el almacén direccionado por contenido.
type PublishResult struct {
	CID  string
	Link string
}

// Publisher publica un archivo a nombre del operario (tarjeta RFID).
type Publisher interface {
	Publish(ctx context.Context, ownerCardID, filePath string) (*PublishResult, error)
}

// Ledger notarización pública de la referencia del pasaporte.
type Ledger interface {
	Post(ctx context.Context, cid, unitInternalID string) (txHash string, err error)
}

// Printer impresora de etiquetas.
type Printer interface {
	PrintImage(ctx context.Context, imagePath, annotation string) error
}

// LabelMaker genera imágenes de etiquetas en archivos temporales; quien llama los borra.
type LabelMaker interface {
	UnitBarcode(ctx context.Context, internalID string) (string, error)
	PassportQR(ctx context.Context, link string) (string, error)
	SealTag(ctx context.Context, withTimestamp bool) (string, error)
}

// CertificateBuilder arma el documento del pasaporte de la unidad y devuelve su ruta.
type CertificateBuilder interface {
	Build(ctx context.Context, unit *entity.Unit) (string, error)
}

// Metrics contadores de la estación.
type Metrics interface {
	Transition(from, to state.State)
	LoggedIn(employee *entity.Employee)
	LoggedOut(employee *entity.Employee)
	UnitCreated(unit *entity.Unit)
	OperationStarted(unit *entity.Unit)
	OperationEnded(unit *entity.Unit, premature bool)
	PassportGenerated(unit *entity.Unit)
	ExternalFailure(service string)
}

// NopMetrics implementación vacía.
type NopMetrics struct{}

func (NopMetrics) Transition(state.State, state.State) {}
func (NopMetrics) LoggedIn(*entity.Employee) {}
func (NopMetrics) LoggedOut(*entity.Employee) {}
func (NopMetrics) UnitCreated(*entity.Unit) {}
func (NopMetrics) OperationStarted(*entity.Unit) {}
func (NopMetrics) OperationEnded(*entity.Unit, bool) {}
func (NopMetrics) PassportGenerated(*entity.Unit) {}
func (NopMetrics) ExternalFailure(string) {}
