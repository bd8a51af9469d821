// Package extract pulls GraphQL tagged-template literals out of
// TypeScript and TSX source files using tree-sitter, producing gql.Payload
// values for the parser. It never runs a regex over the file: tagged
// templates are found by walking the real syntax tree so that a gql-named
// local variable, a string literal, or an unrelated template doesn't get
// mistaken for a query.
package extract

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/gqlsafeguard/gqlsafeguard/internal/gql"
)

// DefaultTags are the tagged-template function names treated as GraphQL
// sources when no explicit tag list is configured.
var DefaultTags = []string{"gql", "graphql"}

// Extractor pulls tagged-template GraphQL payloads out of host source
// files. It holds no per-file state, so one Extractor is reused across an
// entire scan.
type Extractor struct {
	tags map[string]bool
}

// New returns an Extractor recognizing the given tag names as GraphQL
// tagged templates. An empty list falls back to DefaultTags.
func New(tags []string) *Extractor {
	if len(tags) == 0 {
		tags = DefaultTags
	}
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return &Extractor{tags: set}
}

// Skipped records a tagged template the extractor declined to treat as a
// payload: one containing an interpolation (`${...}`), since no static
// GraphQL text can be recovered from it.
type Skipped struct {
	File string
	Line int
}

// Extract parses content as TypeScript (or TSX, based on file extension)
// and returns every tagged-template GraphQL payload found, plus any
// templates skipped for containing interpolation.
func (e *Extractor) Extract(ctx context.Context, content []byte, file string) ([]gql.Payload, []Skipped, error) {
	parser := sitter.NewParser()
	if strings.HasSuffix(file, ".tsx") {
		parser.SetLanguage(tsx.GetLanguage())
	} else {
		parser.SetLanguage(typescript.GetLanguage())
	}

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: tree-sitter parse failed: %w", file, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, nil, fmt.Errorf("%s: tree-sitter returned no root node", file)
	}

	var payloads []gql.Payload
	var skipped []Skipped
	e.walk(root, content, file, &payloads, &skipped)
	return payloads, skipped, nil
}

func (e *Extractor) walk(n *sitter.Node, content []byte, file string, payloads *[]gql.Payload, skipped *[]Skipped) {
	if n == nil {
		return
	}
	if n.Type() == "call_expression" {
		if p, sk, ok := e.asTaggedTemplate(n, content, file); ok {
			if p != nil {
				*payloads = append(*payloads, *p)
			} else if sk != nil {
				*skipped = append(*skipped, *sk)
			}
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		e.walk(n.Child(i), content, file, payloads, skipped)
	}
}

// asTaggedTemplate checks whether n is `<tag>`...``, where tag is a
// recognized name. ok is false when n isn't a tagged template at all (the
// caller should keep walking its children normally, which happens anyway
// via the generic recursion in walk).
func (e *Extractor) asTaggedTemplate(n *sitter.Node, content []byte, file string) (*gql.Payload, *Skipped, bool) {
	fn := n.ChildByFieldName("function")
	args := n.ChildByFieldName("arguments")
	if fn == nil || args == nil || args.Type() != "template_string" {
		return nil, nil, false
	}
	if fn.Type() != "identifier" || !e.tags[string(content[fn.StartByte():fn.EndByte()])] {
		return nil, nil, false
	}

	if hasSubstitution(args) {
		return nil, &Skipped{File: file, Line: int(args.StartPoint().Row) + 1}, true
	}

	text := templateText(args, content)
	return &gql.Payload{
		Content:   text,
		File:      file,
		StartLine: int(args.StartPoint().Row) + 1,
	}, nil, true
}

func hasSubstitution(templateString *sitter.Node) bool {
	for i := 0; i < int(templateString.ChildCount()); i++ {
		if templateString.Child(i).Type() == "template_substitution" {
			return true
		}
	}
	return false
}

// templateText returns the literal text between the backtick delimiters.
// The opening backtick and the payload's first character share a line, so
// gqlparser's payload-local line 1 is exactly the host line the template
// starts on — which is what StartLine records.
func templateText(templateString *sitter.Node, content []byte) string {
	raw := content[templateString.StartByte():templateString.EndByte()]
	s := string(raw)
	s = strings.TrimPrefix(s, "`")
	s = strings.TrimSuffix(s, "`")
	return s
}
