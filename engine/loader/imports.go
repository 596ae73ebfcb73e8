package loader

import (
	"os"
	"path/filepath"

	goyaml "github.com/goccy/go-yaml"

	"github.com/rosflow/engine/engine/core"
	"github.com/rosflow/engine/engine/merge"
)

// resolveImports walks raw["import"] (a list of module names), merges
// each resolved module's tree into raw in order, and deletes the
// `import` key once done. For each module it searches libraryPaths in
// order and reads the first match; no match on any path is a
// ResolveError.
func resolveImports(raw map[string]any, libraryPaths []string) (map[string]any, error) {
	imports, ok := raw["import"].([]any)
	if !ok || len(imports) == 0 {
		delete(raw, "import")
		return raw, nil
	}
	for _, im := range imports {
		name, ok := im.(string)
		if !ok {
			continue
		}
		mod, err := loadModule(name, libraryPaths)
		if err != nil {
			return nil, err
		}
		raw = merge.Merge(raw, mod, mergeOpts).(map[string]any)
	}
	delete(raw, "import")
	return raw, nil
}

func loadModule(name string, libraryPaths []string) (map[string]any, error) {
	for _, dir := range libraryPaths {
		path := filepath.Join(dir, name+".yaml")
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var mod map[string]any
		if err := goyaml.Unmarshal(data, &mod); err != nil {
			return nil, &core.ParseError{Reason: "malformed module " + name + ": " + err.Error()}
		}
		return mod, nil
	}
	return nil, &core.ResolveError{Module: name, Paths: libraryPaths}
}
