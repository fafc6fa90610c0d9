// Package inspect reports the structure of a stylesheet without rewriting it.
//
// It is used to confirm that minified output still holds the same rules and
// declarations as its source.
package inspect

import (
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Summary counts the top-level constructs of a stylesheet
type Summary struct {
	Rulesets     int
	AtRules      int
	Declarations int
	// Errors counts grammar errors the tokenizer recovered from
	Errors int
}

// Summarize tokenizes source and counts what it finds
func Summarize(source string) (Summary, error) {
	var s Summary

	parser := css.NewParser(parse.NewInput(strings.NewReader(source)), false)
	stuck := -1
	for {
		gt, _, _ := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			// the parser reports recoverable errors and moves on; an error that
			// does not advance the input means it gave up
			if parser.HasParseError() && parser.Offset() != stuck {
				stuck = parser.Offset()
				s.Errors++
				continue
			}
			err := parser.Err()
			if err == nil || errors.Is(err, io.EOF) || parser.HasParseError() {
				return s, nil
			}
			return s, fmt.Errorf("failed to parse stylesheet: %w", err)
		case css.BeginRulesetGrammar:
			s.Rulesets++
		case css.AtRuleGrammar, css.BeginAtRuleGrammar:
			s.AtRules++
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			s.Declarations++
		}
	}
}

// Same reports whether two summaries describe the same structure
func (s Summary) Same(other Summary) bool {
	return s.Rulesets == other.Rulesets &&
		s.AtRules == other.AtRules &&
		s.Declarations == other.Declarations
}

func (s Summary) String() string {
	return fmt.Sprintf("%d rulesets, %d at-rules, %d declarations", s.Rulesets, s.AtRules, s.Declarations)
}
