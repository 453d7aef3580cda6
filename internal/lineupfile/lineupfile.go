// Package lineupfile reads event lineups from YAML or JSON files.
//
// A file holds either a single lineup at the top level:
//
//	event_id: spring-live
//	bands:
//	  - id: b1
//	    name: Opening Act
//
// or several under a lineups key:
//
//	lineups:
//	  - event_id: spring-live
//	    bands: [...]
package lineupfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/okian/stageorder/internal/domain/model"
)

// ErrEmpty is returned when a file holds no lineup.
var ErrEmpty = errors.New("lineup file holds no lineup")

type document struct {
	Lineups      []model.Lineup `yaml:"lineups"`
	model.Lineup `yaml:",inline"`
}

// Load reads every lineup from path. JSON is accepted since it parses as YAML.
func Load(path string) ([]model.Lineup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lineupfile: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	lineups, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("lineupfile: %s: %w", path, err)
	}
	return lineups, nil
}

// Decode parses one document from r.
func Decode(r io.Reader) ([]model.Lineup, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("parse: %w", err)
	}

	out := doc.Lineups
	if len(doc.Lineup.Bands) > 0 {
		out = append([]model.Lineup{doc.Lineup}, out...)
	}
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

// Encode writes lineups in the multi-lineup YAML form.
func Encode(w io.Writer, lineups []model.Lineup) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	doc := struct {
		Lineups []model.Lineup `yaml:"lineups"`
	}{Lineups: lineups}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("lineupfile: encode: %w", err)
	}
	return enc.Close()
}
