package recommend

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// LoadTable decodes and validates a YAML rule table. Unknown keys are rejected.
func LoadTable(r io.Reader) (Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var t Table
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, errors.New("rule table is empty")
		}
		return Table{}, fmt.Errorf("decode rule table: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// EncodeTable writes t as YAML in the layout LoadTable reads.
func EncodeTable(w io.Writer, t Table) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode rule table: %w", err)
	}
	return enc.Close()
}
