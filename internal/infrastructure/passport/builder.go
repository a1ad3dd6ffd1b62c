// Package passport arma el pasaporte de la unidad en YAML: biografía de etapas y,
// para unidades compuestas, el pasaporte anidado de cada componente.
package passport

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jhoicas/workbench-api/internal/application/workbench"
	"github.com/jhoicas/workbench-api/internal/domain/composition"
	"github.com/jhoicas/workbench-api/internal/domain/entity"
)

var _ workbench.CertificateBuilder = (*YAMLBuilder)(nil)

const timeLayout = "02-01-2006 15:04:05"

// YAMLBuilder escribe el pasaporte en un archivo temporal de Dir.
type YAMLBuilder struct {
	Units composition.UnitLookup
	Dir   string
}

func NewYAMLBuilder(units composition.UnitLookup, dir string) *YAMLBuilder {
	return &YAMLBuilder{Units: units, Dir: dir}
}

// Document forma serializada del pasaporte.
type Document struct {
	UUID         string     `yaml:"uuid"`
	InternalID   string     `yaml:"internal_id"`
	Model        string     `yaml:"modelo"`
	SerialNumber string     `yaml:"numero_serie,omitempty"`
	CreatedAt    string     `yaml:"fecha_creacion"`
	TotalTime    string     `yaml:"tiempo_total,omitempty"`
	Stages       []Stage    `yaml:"etapas,omitempty"`
	Components   []Document `yaml:"componentes,omitempty"`
}

// Stage etapa tal como aparece en el pasaporte.
type Stage struct {
	Name           string            `yaml:"nombre"`
	Employee       string            `yaml:"operario,omitempty"`
	Start          string            `yaml:"inicio,omitempty"`
	End            string            `yaml:"fin,omitempty"`
	Duration       string            `yaml:"duracion,omitempty"`
	Premature      bool              `yaml:"terminada_prematuramente,omitempty"`
	Videos         []string          `yaml:"videos,omitempty"`
	AdditionalInfo map[string]string `yaml:"datos_adicionales,omitempty"`
	StageData      map[string]any    `yaml:"datos_etapa,omitempty"`
}

// Build genera el documento del árbol completo y devuelve la ruta del archivo.
func (b *YAMLBuilder) Build(ctx context.Context, unit *entity.Unit) (string, error) {
	doc, err := b.Document(ctx, unit)
	if err != nil {
		return "", err
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("passport: yaml: %w", err)
	}

	f, err := os.CreateTemp(b.Dir, "passport-"+unit.InternalID+"-*.yaml")
	if err != nil {
		return "", fmt.Errorf("passport: crear archivo: %w", err)
	}
	if _, err := f.Write(out); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("passport: escribir: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// Document construye el pasaporte en memoria. Los componentes se resuelven con Units;
// un UUID repetido en el árbol corta la construcción con ErrDataIntegrity.
func (b *YAMLBuilder) Document(ctx context.Context, unit *entity.Unit) (*Document, error) {
	byUUID := map[string]*entity.Unit{}
	err := composition.Walk(ctx, b.Units, unit, func(u *entity.Unit) bool {
		byUUID[u.UUID] = u
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("passport: %w", err)
	}
	doc := document(unit, byUUID)
	return &doc, nil
}

func document(u *entity.Unit, byUUID map[string]*entity.Unit) Document {
	d := Document{
		UUID:         u.UUID,
		InternalID:   u.InternalID,
		Model:        u.SchemaName,
		SerialNumber: u.SerialNumber,
		CreatedAt:    u.CreationTime.Format(timeLayout),
	}
	var total time.Duration
	for _, st := range u.OperationStages {
		s := Stage{
			Name:           st.Name,
			Employee:       st.EmployeeName,
			Premature:      st.EndedPrematurely,
			Videos:         st.VideoHashes,
			AdditionalInfo: st.AdditionalInfo,
			StageData:      st.StageData,
		}
		if st.SessionStartTime != nil {
			s.Start = st.SessionStartTime.Format(timeLayout)
		}
		if st.SessionEndTime != nil {
			s.End = st.SessionEndTime.Format(timeLayout)
		}
		if st.SessionStartTime != nil && st.SessionEndTime != nil {
			dur := st.SessionEndTime.Sub(*st.SessionStartTime)
			s.Duration = dur.Round(time.Second).String()
			total += dur
		}
		d.Stages = append(d.Stages, s)
	}
	if total > 0 {
		d.TotalTime = total.Round(time.Second).String()
	}
	for _, id := range u.ComponentsIDs {
		if c, ok := byUUID[id]; ok {
			d.Components = append(d.Components, document(c, byUUID))
		}
	}
	return d
}
