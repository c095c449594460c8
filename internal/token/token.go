package token

// Type identifies the category of a token.
type Type string

// Token carries the lexical item along with its source position.
type Token struct {
	Type    Type
	Literal string
	Pos     Position
	Length  int
}

// Position describes a byte offset and 1-based column.
type Position struct {
	Offset int
	Column int
}

const (
	Error Type = "ERROR"
	EOF   Type = "EOF"

	Ident Type = "IDENT"

	// operators
	Xor   Type = "XOR"
	Xnor  Type = "XNOR"
	Or    Type = "OR"
	Nor   Type = "NOR"
	And   Type = "AND"
	Nand  Type = "NAND"
	Not   Type = "NOT"
	Imply Type = "IMPLY"

	// delimiters
	LParen Type = "LPAREN"
	RParen Type = "RPAREN"
)

// keywords is checked in order by exact, case-sensitive comparison.
var keywords = []struct {
	word string
	typ  Type
}{
	{"XOR", Xor},
	{"XNOR", Xnor},
	{"OR", Or},
	{"NOR", Nor},
	{"AND", And},
	{"NAND", Nand},
	{"NOT", Not},
	{"IMPLY", Imply},
}

// LookupIdent returns the keyword token type or Ident.
func LookupIdent(ident string) Type {
	for _, kw := range keywords {
		if kw.word == ident {
			return kw.typ
		}
	}
	return Ident
}
