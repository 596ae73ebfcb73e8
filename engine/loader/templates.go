package loader

import "github.com/rosflow/engine/engine/merge"

// mergeTemplates folds each job's extended template body into the job
// itself: a job whose `code` names a key in raw["templates"] inherits
// that template's fields. The template is the merge src and the job the
// merge dst, so where both set the same scalar the template's value
// replaces the job's (skip keys such as `doc` keep the job's value);
// fields only the job sets are kept.
func mergeTemplates(raw map[string]any) {
	templates, ok := raw["templates"].(map[string]any)
	if !ok || len(templates) == 0 {
		return
	}
	wf, ok := raw["workflow"].(map[string]any)
	if !ok {
		return
	}
	for name, body := range wf {
		jm, ok := body.(map[string]any)
		if !ok {
			continue
		}
		code, ok := jm["code"].(string)
		if !ok {
			continue
		}
		tmpl, ok := templates[code].(map[string]any)
		if !ok {
			continue
		}
		wf[name] = merge.Merge(jm, tmpl, mergeOpts)
	}
}
