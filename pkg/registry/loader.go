package registry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Echo-Logic-Interactive/typedict/pkg/diag"
	"github.com/Echo-Logic-Interactive/typedict/pkg/schema"
)

// Schema definition files are YAML documents of the form:
//
//	schemas:
//	  RPlayer:
//	    description: Player character
//	    fields:
//	      name: String
//	      level: int
//	      health: float?
//
// Parsing walks the raw yaml.Node tree instead of decoding into maps, for
// two reasons: field declaration order must survive (Go maps would lose
// it), and every diagnostic needs the source line and column.

// FileResult is the outcome of parsing one schema definition file.
type FileResult struct {
	// Path is the parsed file.
	Path string

	// Schemas holds every schema that parsed cleanly, in file order.
	Schemas []*schema.Schema

	// Diagnostics collects the problems found. A file can yield both
	// schemas and diagnostics when only some blocks are broken.
	Diagnostics *diag.List
}

// ParseFile reads and parses a schema definition file.
// I/O failures return an error; definition problems land in Diagnostics.
func ParseFile(path string) (*FileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %q: %w", path, err)
	}
	return ParseBytes(data, path)
}

// ParseBytes parses schema definitions from raw YAML.
func ParseBytes(data []byte, sourcePath string) (*FileResult, error) {
	result := &FileResult{
		Path:        sourcePath,
		Diagnostics: diag.NewList(),
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		d := diag.New(diag.KindSyntax, diag.SeverityError, fmt.Sprintf("invalid YAML: %v", err))
		d.Location = diag.Location{File: sourcePath, Line: 1, Column: 1}
		result.Diagnostics.Add(d)
		return result, nil
	}
	if len(root.Content) == 0 {
		return result, nil
	}

	doc := root.Content[0]
	schemasNode := mappingValue(doc, "schemas")
	if schemasNode == nil {
		d := diag.New(diag.KindSyntax, diag.SeverityError, "missing top-level 'schemas' mapping")
		d.Location = nodeLocation(doc, sourcePath)
		result.Diagnostics.Add(d)
		return result, nil
	}

	for i := 0; i+1 < len(schemasNode.Content); i += 2 {
		nameNode := schemasNode.Content[i]
		bodyNode := schemasNode.Content[i+1]
		if s, ok := parseSchemaBlock(nameNode, bodyNode, sourcePath, result.Diagnostics); ok {
			result.Schemas = append(result.Schemas, s)
		}
	}

	return result, nil
}

// parseSchemaBlock parses one named schema block. It reports every broken
// field rather than stopping at the first, so lint output is complete.
func parseSchemaBlock(nameNode, body *yaml.Node, sourcePath string, diags *diag.List) (*schema.Schema, bool) {
	name := nameNode.Value

	fieldsNode := mappingValue(body, "fields")
	if fieldsNode == nil || len(fieldsNode.Content) == 0 {
		d := diag.New(diag.KindEmptySchema, diag.SeverityError,
			fmt.Sprintf("schema %q declares no fields", name))
		d.Schema = name
		d.Location = nodeLocation(nameNode, sourcePath)
		diags.Add(d)
		return nil, false
	}

	var fields []schema.Field
	seen := make(map[string]bool)
	broken := false

	for i := 0; i+1 < len(fieldsNode.Content); i += 2 {
		keyNode := fieldsNode.Content[i]
		valNode := fieldsNode.Content[i+1]
		fieldName := keyNode.Value
		descriptor := schema.Descriptor(valNode.Value)

		if seen[fieldName] {
			d := diag.New(diag.KindSyntax, diag.SeverityError,
				fmt.Sprintf("schema %q declares field %q twice", name, fieldName))
			d.Schema = name
			d.Field = fieldName
			d.Location = nodeLocation(keyNode, sourcePath)
			diags.Add(d)
			broken = true
			continue
		}
		seen[fieldName] = true

		if _, err := schema.Parse(descriptor); err != nil {
			d := diag.New(diag.KindMalformedDescriptor, diag.SeverityError, err.Error())
			d.Schema = name
			d.Field = fieldName
			d.Expected = string(descriptor)
			d.Location = nodeLocation(valNode, sourcePath)
			diags.Add(d)
			broken = true
			continue
		}

		fields = append(fields, schema.Field{Name: fieldName, Descriptor: descriptor})
	}

	if broken {
		return nil, false
	}

	s, err := schema.New(name, fields...)
	if err != nil {
		d := diag.New(diag.KindSyntax, diag.SeverityError, err.Error())
		d.Schema = name
		d.Location = nodeLocation(nameNode, sourcePath)
		diags.Add(d)
		return nil, false
	}
	return s, true
}

// LoadFile parses a schema file and registers every clean schema.
// It returns the number registered; definition problems become the error.
func LoadFile(path string, reg Registry) (int, error) {
	result, err := ParseFile(path)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, s := range result.Schemas {
		if err := reg.Register(s); err != nil {
			return count, err
		}
		count++
	}
	return count, result.Diagnostics.ToError()
}

// LoadDir discovers schema definition files (*.yaml, *.yml) in a directory
// and registers their schemas. Files are loaded in sorted order so later
// files win on name collisions deterministically.
func LoadDir(dir string, reg Registry, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return 0, fmt.Errorf("failed to list schema files: %w", err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	total := 0
	for _, file := range files {
		count, err := LoadFile(file, reg)
		total += count
		if err != nil {
			logger.Warn("schema file has problems",
				"file", file,
				"registered", count,
				"error", err,
			)
			continue
		}
		logger.Debug("schema file loaded", "file", file, "registered", count)
	}
	return total, nil
}

// mappingValue returns the value node for a key in a YAML mapping node.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// nodeLocation extracts the source location of a YAML node.
func nodeLocation(node *yaml.Node, sourcePath string) diag.Location {
	if node == nil {
		return diag.Location{File: sourcePath}
	}
	return diag.Location{File: sourcePath, Line: node.Line, Column: node.Column}
}
