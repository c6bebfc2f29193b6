// Package dataset loads holiday rule sets.
//
// A dataset is a document of the form {"holidays": [...]} in JSON or YAML.
// The Namibian public holidays ship embedded and are used when no source
// is configured.
package dataset

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/holiday-widget/internal/calendar"
)

//go:embed namibia.json
var namibiaJSON []byte

// document is the on-disk shape of a dataset.
type document struct {
	Holidays []calendar.HolidayRule `json:"holidays" yaml:"holidays"`
}

// Format identifies how a dataset is encoded.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Default returns the embedded Namibian rule set.
func Default() ([]calendar.HolidayRule, error) {
	return Decode(namibiaJSON, FormatJSON)
}

// Load reads rules from source, which may be empty (embedded default),
// a file path, or an http(s) URL. YAML is chosen by a .yaml/.yml suffix.
func Load(ctx context.Context, source string) ([]calendar.HolidayRule, error) {
	if source == "" {
		return Default()
	}

	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = fetch(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("read holiday dataset %s: %w", source, err)
	}

	return Decode(data, formatOf(source))
}

// Decode parses and validates a dataset.
func Decode(data []byte, format Format) ([]calendar.HolidayRule, error) {
	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse holiday dataset: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse holiday dataset: %w", err)
		}
	}

	if err := calendar.ValidateRules(doc.Holidays); err != nil {
		return nil, fmt.Errorf("invalid holiday dataset: %w", err)
	}
	return doc.Holidays, nil
}

// Encode writes rules in the given format.
func Encode(w io.Writer, rules []calendar.HolidayRule, format Format) error {
	doc := document{Holidays: rules}
	if format == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode holiday dataset: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode holiday dataset: %w", err)
	}
	return nil
}

func formatOf(source string) Format {
	// Strip any query string so URLs like holidays.yaml?v=2 still match.
	if i := strings.IndexByte(source, '?'); i >= 0 {
		source = source[:i]
	}
	switch strings.ToLower(filepath.Ext(source)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
