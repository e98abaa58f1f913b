// Package decl reads declaration manifests: TOML files that describe a KPL
// program as the sequence of blocks and declarations a parser would feed
// into the symbol table.
package decl

// Manifest is one program.
type Manifest struct {
	// File is the path the manifest was read from.
	File    string `toml:"-"`
	Program Block  `toml:"program"`
}

// Block is a program, function or procedure. Returns and Params are only
// meaningful for routines.
type Block struct {
	Name       string     `toml:"name"`
	Returns    string     `toml:"returns"`
	Params     []Param    `toml:"params"`
	Consts     []Const    `toml:"consts"`
	Types      []TypeDecl `toml:"types"`
	Vars       []Var      `toml:"vars"`
	Functions  []Block    `toml:"functions"`
	Procedures []Block    `toml:"procedures"`
	Uses       []string   `toml:"uses"`
	Body       Body       `toml:"body"`
}

// Param is a formal parameter. Mode is "value" (default) or "var".
type Param struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
	Mode string `toml:"mode"`
}

// Const binds a name to exactly one of an integer, a character or another
// constant.
type Const struct {
	Name string `toml:"name"`
	Int  *int   `toml:"int"`
	Char string `toml:"char"`
	Ref  string `toml:"ref"`
}

type TypeDecl struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
}

type Var struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
}

// Body lists what the statements of a block reference.
type Body struct {
	Uses       []string `toml:"uses"`
	Assigns    []Assign `toml:"assigns"`
	Calls      []Call   `toml:"calls"`
	Conditions []string `toml:"conditions"`
}

// Assign is "target := source"; source is an operand or "a op b".
type Assign struct {
	Target string `toml:"target"`
	Source string `toml:"source"`
}

// Call is a procedure call statement or a function call expression.
type Call struct {
	Callee string   `toml:"callee"`
	Args   []string `toml:"args"`
}

// ByReference reports whether the parameter is declared with VAR.
func (p Param) ByReference() bool {
	return p.Mode == "var"
}

// AllUses returns block-level and body-level uses in that order.
func (b *Block) AllUses() []string {
	if len(b.Body.Uses) == 0 {
		return b.Uses
	}
	out := make([]string, 0, len(b.Uses)+len(b.Body.Uses))
	out = append(out, b.Uses...)
	return append(out, b.Body.Uses...)
}

// Walk visits b and every nested routine in declaration order, functions
// before procedures. path is the dotted block path of each visited block.
func (b *Block) Walk(path string, visit func(path string, blk *Block) bool) {
	if path == "" {
		path = b.Name
	}
	if !visit(path, b) {
		return
	}
	for i := range b.Functions {
		fn := &b.Functions[i]
		fn.Walk(path+"."+fn.Name, visit)
	}
	for i := range b.Procedures {
		proc := &b.Procedures[i]
		proc.Walk(path+"."+proc.Name, visit)
	}
}
