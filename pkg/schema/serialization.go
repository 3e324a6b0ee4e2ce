package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a form document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath infers the document format from a file extension.
// Anything other than .json is treated as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Load reads a form document from disk and validates its integrity.
func Load(path string) (Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Form{}, fmt.Errorf("failed to read form schema: %w", err)
	}
	form, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return Form{}, fmt.Errorf("%s: %w", path, err)
	}
	return form, nil
}

// Parse decodes a form document and validates its integrity.
// Both formats are first decoded into a generic map and then mapped onto Form,
// so YAML and JSON documents accept exactly the same keys.
func Parse(data []byte, format Format) (Form, error) {
	var raw map[string]any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return Form{}, fmt.Errorf("failed to parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Form{}, fmt.Errorf("failed to parse yaml: %w", err)
		}
	}
	if raw == nil {
		return Form{}, fmt.Errorf("empty form document")
	}

	form, err := Decode(raw)
	if err != nil {
		return Form{}, err
	}
	if err := form.Validate(); err != nil {
		return Form{}, err
	}
	return form, nil
}

// Decode maps a generic document onto a Form without validating it.
// Unknown keys are rejected so typos in rule names surface early.
func Decode(raw map[string]any) (Form, error) {
	var form Form
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &form,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return Form{}, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return Form{}, fmt.Errorf("failed to decode form: %w", err)
	}
	return form, nil
}

// Marshal encodes the form in the requested format.
func Marshal(form Form, format Format) ([]byte, error) {
	if format == FormatJSON {
		return json.MarshalIndent(form, "", "  ")
	}
	return yaml.Marshal(form)
}
