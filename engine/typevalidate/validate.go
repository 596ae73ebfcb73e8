// Package typevalidate checks a loaded document's jobs against the
// standard library type catalogue (spec §4.2): every declared operator
// signature must name a known type, and every required argument must be
// present in the job's actual args.
package typevalidate

import (
	"sort"

	"github.com/rosflow/engine/engine/core"
	"github.com/rosflow/engine/engine/spec"
)

// Validate checks every job in doc.Workflow against doc.Types and
// returns a single *core.ValidationFailed aggregating all issues found,
// or nil if the document is clean.
func Validate(doc *spec.Document) error {
	var issues []error

	names := make([]string, 0, len(doc.Workflow))
	for name := range doc.Workflow {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		issues = append(issues, validateJob(doc, doc.Workflow[name])...)
	}
	if len(issues) == 0 {
		return nil
	}
	return &core.ValidationFailed{Issues: issues}
}

func validateJob(doc *spec.Document, job *spec.Job) []error {
	sig := job.Signature()
	if sig == nil {
		return nil
	}

	argNames := make([]string, 0, len(sig))
	for arg := range sig {
		argNames = append(argNames, arg)
	}
	sort.Strings(argNames)

	var issues []error
	for _, arg := range argNames {
		meta := sig[arg]
		if !doc.Types.Has(meta.Type) {
			issues = append(issues, &core.UnknownType{Type: meta.Type, Job: job.Name})
		}
		if meta.Required {
			if _, ok := job.Args[arg]; !ok {
				issues = append(issues, &core.MissingRequiredArg{Arg: arg, Job: job.Name})
			}
		}
	}
	return issues
}
