package query

// QuestionNode is one concept position in a generated question graph.
type QuestionNode struct {
	Concept string
	Value   any
}

// QuestionEdge connects two adjacent concept positions.
type QuestionEdge struct {
	Source int
	Target int
}

// QuestionGraph is one concrete instantiation of a SelectStatement's
// concept chain, bound to a single combination of candidate values.
type QuestionGraph struct {
	Nodes []QuestionNode
	Edges []QuestionEdge
}

// Questions enumerates the cartesian product of candidate values for
// each concept position named in stmt.Where, emitting one QuestionGraph
// per combination. A concept with no matching predicate is left
// unconstrained (a single nil-valued candidate).
func Questions(stmt *SelectStatement) []QuestionGraph {
	candidates := make([][]any, len(stmt.Concepts))
	for i, concept := range stmt.Concepts {
		var values []any
		for _, pred := range stmt.Where {
			if pred.Left == concept {
				values = append(values, pred.Right)
			}
		}
		if len(values) == 0 {
			values = []any{nil}
		}
		candidates[i] = values
	}

	var graphs []QuestionGraph
	combine(candidates, 0, make([]any, len(candidates)), func(combo []any) {
		graphs = append(graphs, buildGraph(stmt.Concepts, combo))
	})
	return graphs
}

func combine(candidates [][]any, pos int, acc []any, emit func([]any)) {
	if pos == len(candidates) {
		combo := make([]any, len(acc))
		copy(combo, acc)
		emit(combo)
		return
	}
	for _, v := range candidates[pos] {
		acc[pos] = v
		combine(candidates, pos+1, acc, emit)
	}
}

func buildGraph(concepts []string, values []any) QuestionGraph {
	g := QuestionGraph{Nodes: make([]QuestionNode, len(concepts))}
	for i, c := range concepts {
		g.Nodes[i] = QuestionNode{Concept: c, Value: values[i]}
	}
	for i := 0; i+1 < len(concepts); i++ {
		g.Edges = append(g.Edges, QuestionEdge{Source: i, Target: i + 1})
	}
	return g
}
