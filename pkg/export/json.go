package export

import (
	"encoding/json"
	"fmt"

	"github.com/Echo-Logic-Interactive/typedict/pkg/schema"
)

// SchemaDocument is the JSON export form of one schema.
type SchemaDocument struct {
	Name   string             `json:"name"`
	Fields []schema.FieldInfo `json:"fields"`
}

// JSON renders schemas as an indented JSON document, one entry per schema
// in the order given. Suitable for feeding external tooling.
func JSON(schemas ...*schema.Schema) ([]byte, error) {
	docs := make([]SchemaDocument, 0, len(schemas))
	for _, s := range schemas {
		if s == nil {
			return nil, fmt.Errorf("cannot export a nil schema")
		}
		docs = append(docs, SchemaDocument{
			Name:   s.Name(),
			Fields: s.Describe(),
		})
	}

	out, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schemas: %w", err)
	}
	return append(out, '\n'), nil
}
