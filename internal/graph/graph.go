// Package graph links the composables of a project by their calls so content
// emission can be propagated from callees to callers.
package graph

import (
	"fmt"
	"sort"

	"composelint/internal/compose"
	"composelint/internal/extractor"
	"composelint/internal/syntax"
)

// Node represents a composable in the call graph.
type Node struct {
	Symbol   *Symbol
	Function *syntax.Function
}

// Edge represents a directed relationship between two nodes.
type Edge struct {
	From string // caller symbol ID
	To   string // callee symbol ID
	Kind RelationKind
}

// Graph manages composables and the calls between them.
type Graph struct {
	Nodes map[string]*Node
	Edges []Edge
	Files []*extractor.SourceFile

	// Name -> []ID and Package.Name -> []ID
	nameIndex map[string][]string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes:     make(map[string]*Node),
		Edges:     []Edge{},
		nameIndex: make(map[string][]string),
	}
}

// SymbolID identifies fn within file.
func SymbolID(file *extractor.SourceFile, fn *syntax.Function) string {
	return fmt.Sprintf("%s:%s:%d", file.Path, fn.Name, fn.Line)
}

// AddFile records file and adds its unit-returning composables as nodes.
func (g *Graph) AddFile(file *extractor.SourceFile) {
	if file == nil {
		return
	}
	g.Files = append(g.Files, file)
	for _, fn := range file.Functions {
		if !fn.Composable || (fn.ReturnType != "" && fn.ReturnType != "Unit") {
			continue
		}
		sym := &Symbol{
			ID:        SymbolID(file, fn),
			Name:      fn.Name,
			Package:   file.Package,
			Filepath:  file.Path,
			StartLine: fn.Line,
			EndLine:   fn.EndLine,
		}
		g.Nodes[sym.ID] = &Node{Symbol: sym, Function: fn}
		g.nameIndex[sym.Name] = append(g.nameIndex[sym.Name], sym.ID)
		if sym.Package != "" {
			key := sym.Package + "." + sym.Name
			g.nameIndex[key] = append(g.nameIndex[key], sym.ID)
		}
	}
}

// LinkCalls resolves the content candidates of every composable body to
// project composables.
func (g *Graph) LinkCalls() {
	g.Edges = []Edge{} // Reset edges

	for _, id := range g.sortedIDs() {
		node := g.Nodes[id]
		seen := make(map[string]bool)
		for _, call := range compose.ContentCandidates(node.Function.Body) {
			for _, target := range g.resolveTarget(call.Callee(), node.Symbol.Package) {
				if seen[target] {
					continue
				}
				seen[target] = true
				g.Edges = append(g.Edges, Edge{From: id, To: target, Kind: RelationCalls})
			}
		}
	}
}

// resolveTarget finds potential target IDs for a callee name, preferring the
// caller's own package.
func (g *Graph) resolveTarget(name, sourcePackage string) []string {
	if name == "" {
		return nil
	}
	if sourcePackage != "" {
		if ids, ok := g.nameIndex[sourcePackage+"."+name]; ok {
			return ids
		}
	}
	return g.nameIndex[name]
}

// GetDependents returns all nodes that call the given node.
func (g *Graph) GetDependents(id string) []*Node {
	var deps []*Node
	for _, edge := range g.Edges {
		if edge.To == id {
			if node, ok := g.Nodes[edge.From]; ok {
				deps = append(deps, node)
			}
		}
	}
	return deps
}

// ContentEmitters returns, in lexical order, the names of project composables
// that emit content either directly (given provided) or by calling another
// project composable that does. LinkCalls must have run.
func (g *Graph) ContentEmitters(provided compose.NameSet) []string {
	emitting := make(map[string]bool)
	var queue []string
	for _, id := range g.sortedIDs() {
		if compose.EmitsContent(g.Nodes[id].Function, provided) {
			emitting[id] = true
			queue = append(queue, id)
		}
	}

	dependents := make(map[string][]string)
	for _, e := range g.Edges {
		dependents[e.To] = append(dependents[e.To], e.From)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, caller := range dependents[id] {
			if !emitting[caller] {
				emitting[caller] = true
				queue = append(queue, caller)
			}
		}
	}

	names := compose.NewNameSet()
	for id := range emitting {
		names[g.Nodes[id].Symbol.Name] = struct{}{}
	}
	return names.Sorted()
}

// CallerFiles returns, in lexical order, the files holding a direct caller of
// a composable named in names.
func (g *Graph) CallerFiles(names []string) []string {
	wanted := compose.NewNameSet(names...)
	files := compose.NewNameSet()
	for _, id := range g.sortedIDs() {
		if !wanted.Has(g.Nodes[id].Symbol.Name) {
			continue
		}
		for _, caller := range g.GetDependents(id) {
			files[caller.Symbol.Filepath] = struct{}{}
		}
	}
	return files.Sorted()
}

func (g *Graph) sortedIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
