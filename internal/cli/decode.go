package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mitranim/ckq"
)

// decodeValue parses a JSON document into values supported by ckq.EscapeValue.
// Integral numbers become int64, other numbers float64.
func decodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var val any
	if err := dec.Decode(&val); err != nil {
		return nil, fmt.Errorf("invalid JSON value: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON value: unexpected data after the value")
	}
	return convertNumbers(val)
}

func convertNumbers(src any) (any, error) {
	switch val := src.(type) {
	case json.Number:
		if !strings.ContainsAny(string(val), ".eE") {
			if num, err := val.Int64(); err == nil {
				return num, nil
			}
		}
		num, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %s: %w", val, err)
		}
		return num, nil

	case []any:
		for ind, elem := range val {
			conv, err := convertNumbers(elem)
			if err != nil {
				return nil, err
			}
			val[ind] = conv
		}
		return val, nil

	case map[string]any:
		for key, elem := range val {
			conv, err := convertNumbers(elem)
			if err != nil {
				return nil, err
			}
			val[key] = conv
		}
		return val, nil

	default:
		return val, nil
	}
}

/*
jsonNode is the JSON form of a syntax tree:

	{"value": <json>}                      Value
	{"identifier": "name"}                 Identifier
	{"func": "name", "args": [<node>...]}  Call with a raw function name
	{"call": "name", "args": [<node>...]}  Call with a quoted identifier
	{"initial": "select"}                  Initial
	{"base": <node>, "keyword": "kw"}      SimpleClause
	{"base": <node>, "args": [<node>...]}  ListClause

Exactly one form must be used per object, and "args" or "keyword" only
where shown.
*/
type jsonNode struct {
	Value      json.RawMessage `json:"value"`
	Identifier *string         `json:"identifier"`
	Func       *string         `json:"func"`
	Call       *string         `json:"call"`
	Initial    *string         `json:"initial"`
	Base       *jsonNode       `json:"base"`
	Keyword    *string         `json:"keyword"`
	Args       []jsonNode      `json:"args"`
}

func decodeNode(data []byte) (ckq.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var src jsonNode
	if err := dec.Decode(&src); err != nil {
		return nil, fmt.Errorf("invalid JSON tree: %w", err)
	}
	return src.node("$")
}

func (n *jsonNode) node(path string) (ckq.Node, error) {
	forms := 0
	for _, present := range []bool{
		n.Value != nil, n.Identifier != nil, n.Func != nil,
		n.Call != nil, n.Initial != nil, n.Base != nil,
	} {
		if present {
			forms++
		}
	}
	if forms != 1 {
		return nil, fmt.Errorf("%s: expected exactly one of value, identifier, func, call, initial, base", path)
	}
	if n.Keyword != nil && n.Base == nil {
		return nil, fmt.Errorf("%s: keyword is only allowed with base", path)
	}
	if n.Args != nil && n.Func == nil && n.Call == nil && n.Base == nil {
		return nil, fmt.Errorf("%s: args are only allowed with func, call or base", path)
	}

	switch {
	case n.Value != nil:
		val, err := decodeValue(n.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return ckq.Value{val}, nil

	case n.Identifier != nil:
		return ckq.Identifier(*n.Identifier), nil

	case n.Func != nil:
		args, err := nodeArgs(n.Args, path)
		return ckq.Call{Func: ckq.Raw(*n.Func), Args: args}, err

	case n.Call != nil:
		args, err := nodeArgs(n.Args, path)
		return ckq.Call{Func: ckq.Identifier(*n.Call), Args: args}, err

	case n.Initial != nil:
		kw, err := ckq.ParseKeyword(*n.Initial)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return ckq.Initial(kw), nil
	}

	base, err := n.Base.node(path + ".base")
	if err != nil {
		return nil, err
	}

	if n.Keyword != nil {
		if n.Args != nil {
			return nil, fmt.Errorf("%s: a clause has either keyword or args", path)
		}
		kw, err := ckq.ParseKeyword(*n.Keyword)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return ckq.SimpleClause{Base: base, Keyword: kw}, nil
	}

	args, err := nodeArgs(n.Args, path)
	return ckq.ListClause{Base: base, Args: args}, err
}

func nodeArgs(src []jsonNode, path string) ([]any, error) {
	out := make([]any, 0, len(src))
	for ind := range src {
		node, err := src[ind].node(fmt.Sprintf("%s.args[%d]", path, ind))
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}
