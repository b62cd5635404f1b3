package maryxml

import "strings"

// Separators of the rendered pronunciation text.
const (
	TokenSeparator     = " "
	SentenceSeparator  = "\n"
	ParagraphSeparator = "\n\n"
)

// Render flattens a traversed document into pronunciation text: tokens
// joined by a space, sentences by a newline, paragraphs by a blank line.
// Unlike BuildDictionary it does not check pronunciation consistency.
func Render(doc *Document) string {
	if doc == nil {
		return ""
	}

	paragraphs := make([]string, 0, len(doc.Paragraphs))
	for _, p := range doc.Paragraphs {
		sentences := make([]string, 0, len(p.Sentences))
		for _, s := range p.Sentences {
			values := make([]string, 0, len(s.Tokens))
			for _, t := range s.Tokens {
				values = append(values, t.Rendered())
			}
			sentences = append(sentences, strings.Join(values, TokenSeparator))
		}
		paragraphs = append(paragraphs, strings.Join(sentences, SentenceSeparator))
	}

	return strings.Join(paragraphs, ParagraphSeparator)
}

// RenderString parses and renders MaryXML in one step.
func RenderString(s string) (string, error) {
	m, err := ParseString(s)
	if err != nil {
		return "", err
	}
	return Render(Traverse(m)), nil
}

// RenderFile parses and renders the MaryXML file at path.
func RenderFile(path string) (string, error) {
	m, err := ParseFile(path)
	if err != nil {
		return "", err
	}
	return Render(Traverse(m)), nil
}
