// Package core holds types shared across every engine package: the error
// taxonomy, run identifiers, and the canonical JSON encoding (and its
// sha256 fingerprint) used for cached values.
package core

import "fmt"

// ParseError reports a malformed workflow document.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse error: %s", e.Reason) }

// ResolveError reports a module import that could not be found on any
// configured library search path.
type ResolveError struct {
	Module string
	Paths  []string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("could not resolve import %q on paths %v", e.Module, e.Paths)
}

// UnknownType reports a formal argument type absent from the type catalogue.
type UnknownType struct {
	Type string
	Job  string
}

func (e *UnknownType) Error() string {
	return fmt.Sprintf("unknown type %q referenced in job %q", e.Type, e.Job)
}

// MissingRequiredArg reports a required argument absent from a job's args.
type MissingRequiredArg struct {
	Arg string
	Job string
}

func (e *MissingRequiredArg) Error() string {
	return fmt.Sprintf("required argument %q not present in job %q", e.Arg, e.Job)
}

// ValidationFailed aggregates every UnknownType / MissingRequiredArg found
// while validating a workflow plan. A non-empty ValidationFailed aborts
// plan construction.
type ValidationFailed struct {
	Issues []error
}

func (e *ValidationFailed) Error() string {
	return fmt.Sprintf("validation failed with %d issue(s): %s", len(e.Issues), e.Issues[0])
}

func (e *ValidationFailed) Unwrap() []error { return e.Issues }

// PlanError reports a structural defect in the plan: a missing terminal
// job, or a cycle (see CycleDetected).
type PlanError struct {
	Reason string
}

func (e *PlanError) Error() string { return fmt.Sprintf("plan error: %s", e.Reason) }

// CycleDetected reports a cycle found while linearising the job DAG.
type CycleDetected struct {
	Cycle []string
}

func (e *CycleDetected) Error() string {
	return fmt.Sprintf("cycle detected among jobs: %v", e.Cycle)
}

// UndefinedVariable reports a `$name` reference that resolves to neither a
// workflow input nor a completed job at resolve time.
type UndefinedVariable struct {
	Name string
}

func (e *UndefinedVariable) Error() string {
	return fmt.Sprintf("referenced undefined variable: %s", e.Name)
}

// BadExpression reports a malformed selection or declarative query string.
type BadExpression struct {
	Text string
}

func (e *BadExpression) Error() string {
	return fmt.Sprintf("incorrectly formatted expression: %q", e.Text)
}

// UpstreamError reports a non-200/202 response from an HTTP operator.
// Message, when non-empty, is a best-effort human-readable field lifted
// out of Body (an "error", "message", or "detail" key) without a full
// JSON decode.
type UpstreamError struct {
	Status  int
	Body    string
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream error: status=%d message=%s", e.Status, e.Message)
	}
	return fmt.Sprintf("upstream error: status=%d body=%s", e.Status, e.Body)
}

// OperatorError wraps an error an operator itself raised.
type OperatorError struct {
	Code  string
	Cause error
}

func (e *OperatorError) Error() string {
	return fmt.Sprintf("operator %q failed: %s", e.Code, e.Cause)
}

func (e *OperatorError) Unwrap() error { return e.Cause }

// CapabilityError reports a graph/cache/http capability failure the engine
// cannot recover from.
type CapabilityError struct {
	Capability string
	Cause      error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("capability %q failed: %s", e.Capability, e.Cause)
}

func (e *CapabilityError) Unwrap() error { return e.Cause }
