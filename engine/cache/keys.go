// Package cache implements the Result Cache capability (spec §4.7):
// content-addressed storage of job results, keyed so that a second run
// of an unchanged workflow performs zero additional operator
// invocations. It ships four capability.Cache implementations: an
// in-memory map, a bounded LRU, a local file store guarded by an
// advisory lock, and a Redis-backed store for networked deployments.
package cache

import "fmt"

// RunKey is the per-run memoisation key template: `<runId>.<jobName>.res`.
func RunKey(runID, jobName string) string {
	return fmt.Sprintf("%s.%s.res", runID, jobName)
}

// RouterKey is the operator-router memoisation key template:
// `<jobName>-<operatorCode>` or `<jobName>-<operatorCode>_<opName>` when
// opName is not the default "main" variant.
func RouterKey(jobName, operatorCode, opName string) string {
	if opName == "" || opName == "main" {
		return fmt.Sprintf("%s-%s", jobName, operatorCode)
	}
	return fmt.Sprintf("%s-%s_%s", jobName, operatorCode, opName)
}
