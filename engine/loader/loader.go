// Package loader implements the document loader (spec §4.1): parsing
// workflow YAML, resolving `import` chains against a set of library
// search paths, and merging template bodies into the jobs that extend
// them.
package loader

import (
	"fmt"

	goyaml "github.com/goccy/go-yaml"

	"github.com/rosflow/engine/engine/core"
	"github.com/rosflow/engine/engine/merge"
	"github.com/rosflow/engine/engine/spec"
)

// skip-on-deep-merge keys: present on both sides of a merge, the
// target's original value wins. `doc` is the human-readable description
// field attached to jobs/templates/modules.
var skipKeys = map[string]bool{"doc": true}

// Keys whose value is always replaced outright rather than recursively
// merged or concatenated, even when both sides are maps/lists.
var overwriteKeys = map[string]bool{}

var mergeOpts = merge.Options{SkipKeys: skipKeys, OverwriteKeys: overwriteKeys}

// Options configures Load.
type Options struct {
	// LibraryPaths are searched, in order, for each `import` module.
	LibraryPaths []string
}

// Load parses a workflow document's text, resolves its import chain, and
// merges template bodies into the jobs that reference them, returning an
// immutable spec.Document ready for validation.
func Load(text []byte, opts Options) (*spec.Document, error) {
	raw, err := decode(text)
	if err != nil {
		return nil, err
	}
	return build(raw, opts)
}

func decode(text []byte) (map[string]any, error) {
	var raw map[string]any
	if err := goyaml.Unmarshal(text, &raw); err != nil {
		return nil, &core.ParseError{Reason: fmt.Sprintf("malformed workflow document: %s", err)}
	}
	return raw, nil
}

func build(raw map[string]any, opts Options) (*spec.Document, error) {
	raw, err := resolveImports(raw, opts.LibraryPaths)
	if err != nil {
		return nil, err
	}
	mergeTemplates(raw)

	catalog, err := spec.LoadStandardLibrary()
	if err != nil {
		return nil, fmt.Errorf("loading standard library: %w", err)
	}

	doc := &spec.Document{
		Info:     parseInfo(raw),
		Workflow: parseWorkflow(raw),
		Types:    catalog,
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func parseInfo(raw map[string]any) spec.Info {
	info := spec.Info{Version: spec.SupportedVersion}
	m, ok := raw["info"].(map[string]any)
	if !ok {
		return info
	}
	if v, ok := m["version"].(string); ok {
		info.Version = v
	}
	if v, ok := m["title"].(string); ok {
		info.Title = v
	}
	if v, ok := m["description"].(string); ok {
		info.Description = v
	}
	return info
}

func parseWorkflow(raw map[string]any) map[string]*spec.Job {
	out := map[string]*spec.Job{}
	wf, ok := raw["workflow"].(map[string]any)
	if !ok {
		return out
	}
	for name, body := range wf {
		jm, ok := body.(map[string]any)
		if !ok {
			continue
		}
		out[name] = parseJob(name, jm)
	}
	return out
}

func parseJob(name string, jm map[string]any) *spec.Job {
	job := &spec.Job{Name: name}
	if code, ok := jm["code"].(string); ok {
		job.Code = code
	}
	if args, ok := jm["args"].(map[string]any); ok {
		job.Args = make(map[string]spec.ValueExpr, len(args))
		for k, v := range args {
			job.Args[k] = spec.ParseValueExpr(v)
		}
	}
	if meta, ok := jm["meta"].(map[string]any); ok {
		job.Meta = parseMeta(meta)
	}
	return job
}

func parseMeta(meta map[string]any) map[string]spec.OperatorSignature {
	out := make(map[string]spec.OperatorSignature, len(meta))
	for op, variant := range meta {
		vm, ok := variant.(map[string]any)
		if !ok {
			continue
		}
		argsRaw, _ := vm["args"].(map[string]any)
		sig := make(spec.OperatorSignature, len(argsRaw))
		for argName, argSpec := range argsRaw {
			am, ok := argSpec.(map[string]any)
			if !ok {
				continue
			}
			meta := spec.ArgMeta{}
			if t, ok := am["type"].(string); ok {
				meta.Type = t
			}
			if r, ok := am["required"].(bool); ok {
				meta.Required = r
			}
			sig[argName] = meta
		}
		out[op] = sig
	}
	return out
}
