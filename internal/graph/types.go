package graph

type RelationKind string

const (
	// RelationCalls links a composable to a project composable it calls
	// outside any non-emitter subtree.
	RelationCalls RelationKind = "calls"
)

// Symbol is the graph-domain node payload.
type Symbol struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Package   string `json:"package"`
	Filepath  string `json:"filepath"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}
