package ast

// Module represents one shader: an ordered list of function declarations.
// The full WGSL declaration grammar is out of scope here; reduction jobs
// carry already-built trees, and functions are the only container the
// mutation markers need.
type Module struct {
	Functions []*FunctionDecl
}

// FunctionDecl represents a function declaration.
type FunctionDecl struct {
	Name       string
	Params     []Param
	ReturnType string // WGSL syntax, empty for void
	Body       *CompoundStmt
}

func (*FunctionDecl) isNode() {}

// Param represents a function parameter with its WGSL type syntax.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
