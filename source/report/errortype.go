package report

import (
	"github.com/tim-hardcastle/Pipefish/source/token"
	"github.com/tim-hardcastle/Pipefish/source/values"
)

// The 'error' type.
type Error struct {
	ErrorId string
	Message string
	Args    []any
	Values  []values.Value
	Trace   []*token.Token
	Token   *token.Token
}

func (e *Error) AddToTrace(tok *token.Token) {
	e.Trace = append(e.Trace, tok)
}
