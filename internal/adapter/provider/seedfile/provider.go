// Package seedfile loads a catalog from a JSON or YAML document.
package seedfile

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/domain"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/platform/logger"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.schema.json
var catalogSchema string

const schemaURL = "mem://catalog-service/catalog.schema.json"

var schema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, strings.NewReader(catalogSchema)); err != nil {
		panic(fmt.Sprintf("seedfile: add schema resource: %v", err))
	}
	return compiler.MustCompile(schemaURL)
}

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromName picks the decoder from a file or object name.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("seedfile: unsupported catalog format %q", name)
	}
}

// Decode parses a catalog document. JSON documents are checked against the
// embedded schema first; both formats then go through Catalog.Validate.
func Decode(data []byte, format Format) (*domain.Catalog, error) {
	var c domain.Catalog
	switch format {
	case FormatJSON:
		var doc interface{}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("seedfile: catalog is not valid JSON: %w", err)
		}
		if err := schema.Validate(doc); err != nil {
			return nil, fmt.Errorf("seedfile: schema validation failed: %w", err)
		}
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("seedfile: decode catalog: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("seedfile: decode catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("seedfile: unsupported catalog format %q", format)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Provider reads the catalog from a file on every Load.
type Provider struct {
	path   string
	logger *logger.Logger
}

func NewProvider(path string, log *logger.Logger) *Provider {
	return &Provider{path: path, logger: log.Named("seedfile")}
}

func (p *Provider) Load(ctx context.Context) (*domain.Catalog, error) {
	format, err := FormatFromName(p.path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("seedfile: read %s: %w", p.path, err)
	}
	c, err := Decode(data, format)
	if err != nil {
		p.logger.Error("catalog file rejected", zap.String("path", p.path), zap.Error(err))
		return nil, err
	}
	p.logger.Info("catalog loaded",
		zap.String("path", p.path),
		zap.Int("listings", len(c.Listings)),
		zap.Int("agents", len(c.Agents)),
	)
	return c, nil
}
