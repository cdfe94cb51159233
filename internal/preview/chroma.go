package preview

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/jmylchreest/aether/internal/scheme"
)

// codeSample is the snippet highlighted in previews. Chosen to exercise
// comments, keywords, strings, numbers and function names.
const codeSample = `// Package demo exists to show a scheme on real code.
package demo

import "fmt"

const retries = 3

// Greet prints a numbered greeting for every name.
func Greet(names []string) error {
	for i, name := range names {
		if name == "" {
			return fmt.Errorf("empty name at %d", i)
		}
		fmt.Printf("%02d: hello, %s!\n", i+1, name)
	}
	return nil
}
`

// Style builds a chroma syntax style from the palette, following the
// conventional base16 slot assignments.
func Style(s *scheme.Scheme) (*chroma.Style, error) {
	p := s.Palette
	return chroma.NewStyle(s.Name, chroma.StyleEntries{
		chroma.Background:      "bg:" + string(p.Base00) + " " + string(p.Base05),
		chroma.Text:            string(p.Base05),
		chroma.Comment:         "italic " + string(p.Base03),
		chroma.CommentPreproc:  string(p.Base0C),
		chroma.Keyword:         string(p.Base0E),
		chroma.KeywordType:     string(p.Base0A),
		chroma.Operator:        string(p.Base05),
		chroma.Punctuation:     string(p.Base05),
		chroma.Name:            string(p.Base05),
		chroma.NameFunction:    string(p.Base0D),
		chroma.NameBuiltin:     string(p.Base0D),
		chroma.NameClass:       string(p.Base0A),
		chroma.NameConstant:    string(p.Base09),
		chroma.NameVariable:    string(p.Base08),
		chroma.LiteralString:   string(p.Base0B),
		chroma.LiteralNumber:   string(p.Base09),
		chroma.GenericDeleted:  string(p.Base08),
		chroma.GenericInserted: string(p.Base0B),
		chroma.Error:           string(p.Base08),
	})
}

// CodeSample returns the embedded Go snippet highlighted in the scheme's
// colors with truecolor escapes.
func CodeSample(s *scheme.Scheme) (string, error) {
	style, err := Style(s)
	if err != nil {
		return "", fmt.Errorf("build syntax style: %w", err)
	}

	lexer := lexers.Get("go")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, codeSample)
	if err != nil {
		return "", fmt.Errorf("tokenize sample: %w", err)
	}

	var buf bytes.Buffer
	if err := formatters.TTY16m.Format(&buf, style, it); err != nil {
		return "", fmt.Errorf("format sample: %w", err)
	}
	return buf.String(), nil
}
