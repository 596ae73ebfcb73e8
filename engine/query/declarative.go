package query

import (
	"strconv"
	"strings"

	"github.com/rosflow/engine/engine/core"
)

// Statement is either a SetStatement or a SelectStatement, the two
// productions of the declarative query grammar.
type Statement interface {
	isStatement()
}

// SetStatement binds a variable in a statement-local context:
// `SET <name> = <scalar>`.
type SetStatement struct {
	Name  string
	Value any
}

func (*SetStatement) isStatement() {}

// Predicate is one `WHERE` clause term: `<concept> <op> <value>`.
type Predicate struct {
	Left  string
	Op    string
	Right any
}

var predicateOps = []string{"<=", ">=", "!=", "=", "<", ">", "in"}

// SelectStatement describes a typed knowledge-graph question:
// `SELECT <c1>-><c2>->… FROM $<service> WHERE <pred> [AND <pred>]*
// SET '<path>' AS <name>`.
type SelectStatement struct {
	Concepts   []string
	Service    string
	Where      []Predicate
	OutputPath string
	OutputName string
}

func (*SelectStatement) isStatement() {}

// Parse parses one statement of the declarative query language.
func Parse(text string) (Statement, error) {
	text = strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(strings.ToUpper(text), "SET ") && !strings.Contains(strings.ToUpper(text), "FROM"):
		return parseSet(text)
	case strings.HasPrefix(strings.ToUpper(text), "SELECT "):
		return parseSelect(text)
	default:
		return nil, &core.BadExpression{Text: text}
	}
}

func parseSet(text string) (*SetStatement, error) {
	body := strings.TrimSpace(text[len("SET "):])
	parts := strings.SplitN(body, "=", 2)
	if len(parts) != 2 {
		return nil, &core.BadExpression{Text: text}
	}
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return nil, &core.BadExpression{Text: text}
	}
	return &SetStatement{Name: name, Value: parseScalar(strings.TrimSpace(parts[1]))}, nil
}

// parseSelect parses:
//
//	SELECT c1->c2->c3 FROM $svc WHERE c1 = 'x' AND c2 > 3 SET 'path' AS out
func parseSelect(text string) (*SelectStatement, error) {
	rest := strings.TrimSpace(text[len("SELECT "):])

	fromIdx := findKeyword(rest, "FROM")
	if fromIdx < 0 {
		return nil, &core.BadExpression{Text: text}
	}
	chain := strings.TrimSpace(rest[:fromIdx])
	concepts := splitConceptChain(chain)
	if len(concepts) == 0 {
		return nil, &core.BadExpression{Text: text}
	}
	rest = strings.TrimSpace(rest[fromIdx+len("FROM"):])

	whereIdx := findKeyword(rest, "WHERE")
	var service, whereAndSet string
	if whereIdx < 0 {
		service = strings.TrimSpace(rest)
	} else {
		service = strings.TrimSpace(rest[:whereIdx])
		whereAndSet = strings.TrimSpace(rest[whereIdx+len("WHERE"):])
	}
	service = strings.TrimPrefix(service, "$")
	if service == "" {
		return nil, &core.BadExpression{Text: text}
	}

	stmt := &SelectStatement{Concepts: concepts, Service: service}

	if whereAndSet == "" {
		return stmt, nil
	}

	setIdx := findKeyword(whereAndSet, "SET")
	whereClause := whereAndSet
	var outputClause string
	if setIdx >= 0 {
		whereClause = strings.TrimSpace(whereAndSet[:setIdx])
		outputClause = strings.TrimSpace(whereAndSet[setIdx+len("SET"):])
	}

	preds, err := parsePredicates(whereClause)
	if err != nil {
		return nil, err
	}
	stmt.Where = preds

	if outputClause != "" {
		path, name, err := parseOutputBinding(outputClause)
		if err != nil {
			return nil, err
		}
		stmt.OutputPath = path
		stmt.OutputName = name
	}
	return stmt, nil
}

func splitConceptChain(chain string) []string {
	parts := strings.Split(chain, "->")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parsePredicates(clause string) ([]Predicate, error) {
	if clause == "" {
		return nil, nil
	}
	var preds []Predicate
	for _, term := range splitOnKeyword(clause, "AND") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		pred, err := parsePredicate(term)
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)
	}
	return preds, nil
}

func parsePredicate(term string) (Predicate, error) {
	for _, op := range predicateOps {
		idx := strings.Index(term, op)
		if idx < 0 {
			continue
		}
		// Guard against matching the "=" inside "<=", ">=", "!=".
		if op == "=" && idx > 0 && (term[idx-1] == '<' || term[idx-1] == '>' || term[idx-1] == '!') {
			continue
		}
		left := strings.TrimSpace(term[:idx])
		right := strings.TrimSpace(term[idx+len(op):])
		if left == "" || right == "" {
			continue
		}
		return Predicate{Left: left, Op: op, Right: parseScalar(right)}, nil
	}
	return Predicate{}, &core.BadExpression{Text: term}
}

func parseOutputBinding(clause string) (path, name string, err error) {
	asIdx := findKeyword(clause, "AS")
	if asIdx < 0 {
		return "", "", &core.BadExpression{Text: clause}
	}
	path = strings.Trim(strings.TrimSpace(clause[:asIdx]), "'\"")
	name = strings.TrimSpace(clause[asIdx+len("AS"):])
	if path == "" || name == "" {
		return "", "", &core.BadExpression{Text: clause}
	}
	return path, name, nil
}

// findKeyword finds the first case-insensitive, word-boundary
// occurrence of keyword in text, or -1.
func findKeyword(text, keyword string) int {
	upper := strings.ToUpper(text)
	kw := strings.ToUpper(keyword)
	for i := 0; i+len(kw) <= len(upper); i++ {
		if upper[i:i+len(kw)] != kw {
			continue
		}
		if i > 0 && !isBoundary(text[i-1]) {
			continue
		}
		end := i + len(kw)
		if end < len(text) && !isBoundary(text[end]) {
			continue
		}
		return i
	}
	return -1
}

func isBoundary(b byte) bool {
	return b == ' ' || b == '\t' || b == '\''
}

// splitOnKeyword splits text on every top-level occurrence of keyword.
func splitOnKeyword(text, keyword string) []string {
	var parts []string
	for {
		idx := findKeyword(text, keyword)
		if idx < 0 {
			parts = append(parts, text)
			return parts
		}
		parts = append(parts, text[:idx])
		text = text[idx+len(keyword):]
	}
}

func parseScalar(s string) any {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
