package minifier

import (
	"strings"
	"sync"
	"testing"
)

func TestMinifyCSS(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"basic", "body { color: red; }", "body{color:red}"},
		{"comments", "/*a 9-*/{*/**/}*/{/*a 9-*/}", "{*}*/{}"},
		{"pseudo class", "a:hover { text-decoration: underline; }", "a:hover{text-decoration:underline}"},
		{"trailing semicolon", "{a:a;}{a:a; }{a:a ; }", "{a:a}{a:a}{a:a}"},
		{"media query", "@media screen and (max-width: 600px) { body { font-size: 14px; } }", "@media screen and (max-width:600px){body{font-size:14px}}"},
		{"quoted with space", `font-family: "Comic Sans", serif;`, `font-family:"Comic Sans",serif`},
		{"quoted without space", `font-family: "Arial";`, "font-family:Arial"},
		{"relative uri", "./foo/bar", "foo/bar"},
		{"parent uri", "../foo/bar", "../foo/bar"},
		{"url relative", "a { background: url( ./img/bg.png ); }", "a{background:url(img/bg.png)}"},
		{"empty", "", ""},
		{"only whitespace", " \t\n\r\n ", ""},
		{"only comments", "/* one */ /* two */", ""},
		{"unterminated comment", "a{b:c}/* never closed { d:e }", "a{b:c}"},
		{"unterminated quote", `a{content:"x y}`, "a{content:x y}"},
		{"empty quotes", `a{b:""}`, "a{b:}"},
		{"inner whitespace collapses", "a {\n  margin: 0\n\t auto;\n}", "a{margin:0 auto}"},
		{"selector combinators", "ul  >  li ~ p , div [ data-x ]", "ul>li~p,div[data-x]"},
		{"kept semicolon", "a{b:c ; d:e;}", "a{b:c;d:e}"},
		{"semicolon before comment and brace", "a{b:c; /* x */ }", "a{b:c}"},
		{"and between parens", "@media (min-width:1px)and(max-width:2px){}", "@media(min-width:1px) and (max-width:2px){}"},
		{"and with newlines", "@media screen\nand\n(color) {}", "@media screen and (color){}"},
		{"and inside identifier", ".brand { band: land; }", ".brand{band:land}"},
		{"and after dot", ".and { a: b }", ".and{a:b}"},
		{"comment between tokens", "a/**/b", "ab"},
		{"comment inside quote", `a{content:"/* x */"}`, `a{content:"/* x */"}`},
		{"dot before comment", "a./*x*/b", "a.b"},
		{"dot before comment in value", ".x{margin:1./* note */}", ".x{margin:1.}"},
		{"quoted relative url", `a{background:url("./img/bg.png")}`, "a{background:url(img/bg.png)}"},
		{"quoted relative url with space", `a{content:"./my file.png"}`, `a{content:"./my file.png"}`},
		{"quoted parent url", `a{background:url("../img/bg.png")}`, "a{background:url(../img/bg.png)}"},
		{"leading and", "and (color)", "and (color)"},
		{"leading and before paren", "and(color){}", "and (color){}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MinifyCSS(tt.input)
			if result != tt.expected {
				t.Errorf("MinifyCSS(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestMinifyCSSKeepsMultiWordFontName(t *testing.T) {
	result := MinifyCSS(`p { font-family: "Comic Sans"; }`)
	if !strings.Contains(result, `"Comic Sans"`) {
		t.Errorf("MinifyCSS dropped quotes: %q", result)
	}
}

func TestMinifyCSSIdempotent(t *testing.T) {
	inputs := []string{
		"body { color: red; }",
		"a:hover { text-decoration: underline; }",
		"ul > li , p ~ span { margin : 0 auto ; padding: 1px 2px }",
		"../img/a.png",
		`a{background:url("./img/bg.png")}`,
		`a{content:"./my file.png"}`,
		"and (color)",
		"a./*x*/b",
	}

	for _, input := range inputs {
		once := MinifyCSS(input)
		twice := MinifyCSS(once)
		if once != twice {
			t.Errorf("MinifyCSS not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestMinifyCSSStructuralSpacing(t *testing.T) {
	input := "a  {  b :  c ;  d  :  e  }  f  ,  g  >  h  [  i  ]  (  j  )  k  /  l  ~  m  |  n  ^  o  $  p"
	result := MinifyCSS(input)

	for i := 0; i < len(result); i++ {
		if !isStructural(result[i]) {
			continue
		}
		if i > 0 && result[i-1] == ' ' {
			t.Errorf("space before %q at %d in %q", result[i], i, result)
		}
		if i+1 < len(result) && result[i+1] == ' ' {
			t.Errorf("space after %q at %d in %q", result[i], i, result)
		}
	}
}

func TestMinifyCSSNoNewCharacters(t *testing.T) {
	input := "@media print and (orientation: landscape) {\n\t.x { color: #fff; }\n}\n"
	result := MinifyCSS(input)

	for _, r := range result {
		if r != ' ' && !strings.ContainsRune(input, r) {
			t.Errorf("MinifyCSS introduced %q in %q", r, result)
		}
	}
}

func TestMinifyCSSConcurrent(t *testing.T) {
	input := "@media screen and (max-width: 600px) { body { font-size: 14px; } }"
	expected := MinifyCSS(input)

	var wg sync.WaitGroup
	results := make([]string, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = MinifyCSS(input)
		}(i)
	}
	wg.Wait()

	for i, result := range results {
		if result != expected {
			t.Errorf("goroutine %d = %q, want %q", i, result, expected)
		}
	}
}

func TestStats(t *testing.T) {
	s := Measure("body { color: red; }", "body{color:red}")
	if s.Original != 20 || s.Minified != 15 {
		t.Errorf("Measure = %+v, want {20 15}", s)
	}
	if s.Saved() != 5 {
		t.Errorf("Saved() = %d, want 5", s.Saved())
	}
	if s.Ratio() != 0.75 {
		t.Errorf("Ratio() = %v, want 0.75", s.Ratio())
	}

	s.Add(Stats{Original: 10, Minified: 5})
	if s.Original != 30 || s.Minified != 20 {
		t.Errorf("Add = %+v, want {30 20}", s)
	}

	if (Stats{}).Ratio() != 1 {
		t.Errorf("empty Ratio() = %v, want 1", (Stats{}).Ratio())
	}
}
