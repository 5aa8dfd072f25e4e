package tex

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-latex/latex"
	"github.com/go-latex/latex/ast"
	"github.com/npillmayer/mathtags/mml"
)

// ErrNotAFragment is returned for sources the fragment parser cannot handle.
var ErrNotAFragment = errors.New("not a text fragment")

// FragmentParser parses a small piece of TeX source into a node.
// local holds options local to this parse and may be nil.
type FragmentParser interface {
	ParseFragment(src string, local map[string]interface{}) (*mml.Node, error)
}

// TextParser parses fragments of the form \text{...} into mtext nodes.
// This is all the tagging machinery needs for typesetting tag content.
type TextParser struct {
	Factory mml.Factory // if nil, mml.DefaultFactory is used
}

var _ FragmentParser = TextParser{}

const textMacro = `\text`

// ParseFragment parses a \text{...} group. The argument is run through a
// LaTeX tokenizer and flattened into a single mtext node; if the tokenizer
// rejects the argument or loses characters of it, the raw argument
// characters are used.
// Local option "mathvariant", if set, is copied to the mtext node.
func (tp TextParser) ParseFragment(src string, local map[string]interface{}) (*mml.Node, error) {
	arg, err := textArgument(src)
	if err != nil {
		return nil, err
	}
	raw := unescape(arg)
	text, err := flatten(arg)
	if err != nil {
		tracer().Debugf("cannot tokenize tag text %q, using raw text: %v", arg, err)
		text = raw
	} else if text != raw {
		// the tokenizer works in math mode and swallows e.g. comments (%)
		tracer().Debugf("tokenizer changed tag text %q to %q, using raw text", raw, text)
		text = raw
	}
	f := tp.Factory
	if f == nil {
		f = mml.DefaultFactory{}
	}
	attrs := map[string]interface{}{}
	if v, ok := local["mathvariant"]; ok {
		attrs["mathvariant"] = v
	}
	node, err := f.CreateNode(mml.KindText, nil, attrs)
	if err != nil {
		return nil, err
	}
	return node.SetText(text), nil
}

// textArgument extracts the argument of \text{...}, honoring nested and
// escaped braces.
func textArgument(src string) (string, error) {
	s := strings.TrimSpace(src)
	if !strings.HasPrefix(s, textMacro) {
		return "", fmt.Errorf("%w: %q", ErrNotAFragment, src)
	}
	s = strings.TrimLeft(s[len(textMacro):], " ")
	if !strings.HasPrefix(s, "{") {
		return "", fmt.Errorf("%w: missing argument in %q", ErrNotAFragment, src)
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++ // skip escaped character
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				if strings.TrimSpace(s[i+1:]) != "" {
					return "", fmt.Errorf("%w: trailing input in %q", ErrNotAFragment, src)
				}
				return s[1:i], nil
			}
		}
	}
	return "", fmt.Errorf("%w: unbalanced braces in %q", ErrNotAFragment, src)
}

// flatten tokenizes text-mode LaTeX and concatenates the text of the
// resulting nodes.
func flatten(arg string) (text string, err error) {
	if arg == "" {
		return "", nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tokenizer failed: %v", r)
		}
	}()
	node, err := latex.ParseExpr(arg)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := collectText(&b, node); err != nil {
		return "", err
	}
	return b.String(), nil
}

func collectText(b *strings.Builder, node ast.Node) error {
	switch n := node.(type) {
	case nil:
	case ast.List:
		for _, x := range n {
			if err := collectText(b, x); err != nil {
				return err
			}
		}
	case *ast.Word:
		b.WriteString(n.Text)
	case *ast.Literal:
		b.WriteString(n.Text)
	case *ast.Symbol:
		b.WriteString(n.Text)
	default:
		return fmt.Errorf("unsupported construct %T in text", node)
	}
	return nil
}

func unescape(s string) string {
	return strings.NewReplacer(`\{`, "{", `\}`, "}", `\\`, `\`, `\ `, " ").Replace(s)
}
