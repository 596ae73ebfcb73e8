package spec

import (
	_ "embed"

	goyaml "github.com/goccy/go-yaml"
)

//go:embed stdlib.yaml
var stdlibYAML []byte

// TypeCatalog is the standard library of argument types jobs are
// validated against. The engine only cares whether a name exists in the
// catalogue (for UnknownType checks); the deeper semantics of a type are
// advisory documentation for workflow authors.
type TypeCatalog map[string]TypeDef

// TypeDef documents one catalogue entry.
type TypeDef struct {
	Description string `yaml:"description"`
}

type stdlibFile struct {
	Types map[string]TypeDef `yaml:"types"`
}

// LoadStandardLibrary parses the engine's embedded type catalogue. It
// never fails on a well-formed build; an error return exists only to
// surface a corrupt embed during development.
func LoadStandardLibrary() (TypeCatalog, error) {
	var f stdlibFile
	if err := goyaml.Unmarshal(stdlibYAML, &f); err != nil {
		return nil, err
	}
	return TypeCatalog(f.Types), nil
}

// Has reports whether name is a known type.
func (c TypeCatalog) Has(name string) bool {
	_, ok := c[name]
	return ok
}
