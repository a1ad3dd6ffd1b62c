// Package catalog lee el catálogo YAML de esquemas y operarios con el que se
// siembra el almacenamiento (comando seed y driver en memoria).
package catalog

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/workbench-api/internal/domain/entity"
)

// File forma del archivo de catálogo.
type File struct {
	Employees []Employee `yaml:"employees"`
	Schemas   []Schema   `yaml:"schemas"`
}

// Employee operario. Password en claro se convierte a hash bcrypt al cargar.
type Employee struct {
	RFIDCardID   string `yaml:"rfid_card_id"`
	Name         string `yaml:"name"`
	Position     string `yaml:"position"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"password_hash"`
}

// Stage etapa declarada en un esquema.
type Stage struct {
	Name            string   `yaml:"name"`
	Type            string   `yaml:"type"`
	Description     string   `yaml:"description"`
	Equipment       []string `yaml:"equipment"`
	Workplace       string   `yaml:"workplace"`
	DurationSeconds *int     `yaml:"duration_seconds"`
}

// Schema esquema de producción. Components ausente => no compuesto.
type Schema struct {
	ID               string            `yaml:"schema_id"`
	Name             string            `yaml:"schema_name"`
	PrintName        string            `yaml:"schema_print_name"`
	Type             string            `yaml:"schema_type"`
	Parent           string            `yaml:"parent_schema_id"`
	Components       *[]string         `yaml:"required_components_schema_ids"`
	Stages           []Stage           `yaml:"production_stages"`
	ERPMetadata      map[string]string `yaml:"erp_metadata"`
	AllowedPositions []string          `yaml:"allowed_positions"`
}

// Catalog entidades listas para guardar.
type Catalog struct {
	Employees []*entity.Employee
	Schemas   []*entity.ProductionSchema
}

// Parse decodifica y valida un catálogo.
func Parse(data []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("catalog: archivo vacío")
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	return f.build()
}

// Load lee el catálogo desde disco.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (f File) build() (*Catalog, error) {
	out := &Catalog{}
	cards := map[string]bool{}
	for _, e := range f.Employees {
		if e.RFIDCardID == "" || e.Name == "" {
			return nil, fmt.Errorf("catalog: operario sin tarjeta o nombre")
		}
		if cards[e.RFIDCardID] {
			return nil, fmt.Errorf("catalog: tarjeta %s repetida", e.RFIDCardID)
		}
		cards[e.RFIDCardID] = true
		hash := e.PasswordHash
		if hash == "" && e.Password != "" {
			b, err := bcrypt.GenerateFromPassword([]byte(e.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("catalog: hash de %s: %w", e.Name, err)
			}
			hash = string(b)
		}
		out.Employees = append(out.Employees, &entity.Employee{
			RFIDCardID:   e.RFIDCardID,
			Name:         e.Name,
			Position:     e.Position,
			Username:     e.Username,
			PasswordHash: hash,
		})
	}

	ids := map[string]bool{}
	for _, s := range f.Schemas {
		if s.ID == "" || s.Name == "" {
			return nil, fmt.Errorf("catalog: esquema sin id o nombre")
		}
		if ids[s.ID] {
			return nil, fmt.Errorf("catalog: esquema %s repetido", s.ID)
		}
		ids[s.ID] = true
		schema := &entity.ProductionSchema{
			SchemaID:         s.ID,
			SchemaName:       s.Name,
			SchemaPrintName:  s.PrintName,
			SchemaType:       s.Type,
			ParentSchemaID:   s.Parent,
			ERPMetadata:      s.ERPMetadata,
			AllowedPositions: s.AllowedPositions,
		}
		if s.Components != nil {
			schema.ComponentsSchemaIDs = append([]string{}, *s.Components...)
		}
		for _, st := range s.Stages {
			schema.SchemaStages = append(schema.SchemaStages, entity.SchemaStage(st))
		}
		out.Schemas = append(out.Schemas, schema)
	}

	for _, s := range out.Schemas {
		for _, c := range s.ComponentsSchemaIDs {
			if !ids[c] {
				return nil, fmt.Errorf("catalog: %s requiere esquema desconocido %s", s.SchemaID, c)
			}
		}
		if s.ParentSchemaID != "" && !ids[s.ParentSchemaID] {
			return nil, fmt.Errorf("catalog: %s tiene padre desconocido %s", s.SchemaID, s.ParentSchemaID)
		}
	}
	return out, nil
}
