// Package capability defines the narrow interfaces the engine depends
// on for everything outside its own scope (spec §6): the shared graph
// store, the result cache, outbound HTTP, the scheduling clock, and
// extension operators. Concrete implementations live outside the
// engine; any type satisfying one of these interfaces is acceptable.
package capability

import "context"

// GraphStore is the shared labelled property graph every job result
// is folded into. Implementations must be safe for concurrent use and
// every upsert must be idempotent.
type GraphStore interface {
	UpsertNode(ctx context.Context, label string, props map[string]any) error
	UpsertEdge(ctx context.Context, subject, predicate, object string, props map[string]any) error
	Query(ctx context.Context, text string) ([]map[string]any, error)
	DeleteAll(ctx context.Context) error
}

// Cache is the content-addressed result store backing at-most-once
// job memoisation. Keys are ASCII; values are opaque bytes.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// HTTPResponse is the normalised result of an Http call.
type HTTPResponse struct {
	Status int
	Body   []byte
}

// Http is the outbound transport used by HTTP-backed operators. It
// must follow redirects and enforce its own timeout.
type Http interface {
	Get(ctx context.Context, url string, headers map[string]string) (HTTPResponse, error)
	Post(ctx context.Context, url string, body any, headers map[string]string) (HTTPResponse, error)
}

// Clock abstracts time so operator-level delays can be controlled in
// tests. The executor does not call it.
type Clock interface {
	Now() int64
	Sleep(ctx context.Context, ms int64)
}

// Operator is a single invocable step. It receives a resolved Event and
// returns a result fragment (an arbitrary JSON-shaped tree, spec §3) or
// a recoverable error.
type Operator interface {
	Invoke(ctx context.Context, event Event) (any, error)
}

// Event is everything an Operator needs: run-scoped facade access, the
// job's identity, its resolved node, the inner operator variant, and
// its already-resolved arguments.
type Event struct {
	Workflow     Facade
	JobName      string
	Node         map[string]any
	OpName       string
	ResolvedArgs map[string]any
}

// Facade is the subset of the workflow facade's surface operators are
// allowed to see: result lookup and capability access. Defined here (rather than imported from the workflow
// package) to avoid an import cycle between the router/operators and
// the facade that constructs them.
type Facade interface {
	Result(jobName string) (any, bool)
	Graph() GraphStore
	Cache() Cache
	HTTPClient() Http
	ClockSource() Clock
}

// Plugin surfaces extension operators registered outside the engine.
type Plugin interface {
	Name() string
	Workflows() []string
	Libraries() []string
	Instantiate(libraryName string) (Operator, error)
}
