// Package spec holds the workflow document's data model: the parsed
// (but not yet planned) tree produced by the loader, plus the standard
// library type catalogue the validator checks job arguments against.
package spec

import "fmt"

// Info carries the document's descriptive metadata.
type Info struct {
	Version     string `json:"version" yaml:"version"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// SupportedVersion is the major.minor.patch this engine understands.
// Older or newer documents are rejected at load time.
const SupportedVersion = "1.0.0"

// ArgMeta describes one formal argument of an operator variant.
type ArgMeta struct {
	Type     string `json:"type" yaml:"type"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// OperatorSignature maps argument name to its ArgMeta, for one operator
// variant (`op`).
type OperatorSignature map[string]ArgMeta

// Job is a single named step: it invokes Code (an operator name or
// template name it extends) with Args, and declares optional Meta
// signatures used by the type validator.
type Job struct {
	Name string                       `json:"-" yaml:"-"`
	Code string                       `json:"code" yaml:"code"`
	Args map[string]ValueExpr         `json:"args,omitempty" yaml:"args,omitempty"`
	Meta map[string]OperatorSignature `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// OpName returns the inner operator variant this job invokes: the value
// of its `op` argument, defaulting to "main" when absent.
func (j *Job) OpName() string {
	if arg, ok := j.Args["op"]; ok && arg.Kind == ExprLit {
		if s, ok := arg.Lit.(string); ok && s != "" {
			return s
		}
	}
	return "main"
}

// Signature returns the ArgMeta signature declared for this job's active
// operator variant, or nil if none was declared.
func (j *Job) Signature() OperatorSignature {
	if j.Meta == nil {
		return nil
	}
	return j.Meta[j.OpName()]
}

// Document is the fully loaded (imports resolved, templates merged) but
// not yet validated/planned workflow document.
type Document struct {
	Info     Info
	Workflow map[string]*Job
	Types    TypeCatalog
}

// Validate enforces the document-level invariants from spec §3: a known
// version, and a non-empty workflow.
func (d *Document) Validate() error {
	if d.Info.Version != SupportedVersion {
		return &ParseErrorVersion{Got: d.Info.Version, Want: SupportedVersion}
	}
	if len(d.Workflow) == 0 {
		return fmt.Errorf("workflow must declare at least one job")
	}
	return nil
}

// ParseErrorVersion reports a document whose declared version doesn't
// match the version this engine understands.
type ParseErrorVersion struct {
	Got  string
	Want string
}

func (e *ParseErrorVersion) Error() string {
	return fmt.Sprintf("unsupported workflow version %q (want %q)", e.Got, e.Want)
}

// TerminalJob is the conventional name of the job whose result the whole
// workflow resolves to.
const TerminalJob = "return"
