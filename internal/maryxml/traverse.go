package maryxml

import (
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Element and attribute names of the MaryXML wire format.
const (
	paragraphElement = "p"
	sentenceElement  = "s"
	tokenElement     = "t"
	phonemeAttr      = "ph"
)

// Tokens are usually wrapped in <phrase> or <mtu> elements, so every level
// is matched as a descendant rather than a direct child.
var (
	paragraphExpr = xpath.MustCompile("descendant::" + paragraphElement)
	sentenceExpr  = xpath.MustCompile("descendant::" + sentenceElement)
	tokenExpr     = xpath.MustCompile("descendant::" + tokenElement)
)

// Token is one annotated word or punctuation mark.
type Token struct {
	Text       string // trimmed literal content
	Phoneme    string // pronunciation, meaningful only when HasPhoneme is set
	HasPhoneme bool
}

// Rendered returns the phoneme annotation if present, else the literal text.
func (t Token) Rendered() string {
	if t.HasPhoneme {
		return t.Phoneme
	}
	return t.Text
}

// Sentence is an ordered sequence of tokens.
type Sentence struct {
	Tokens []Token
}

// Paragraph is an ordered sequence of sentences.
type Paragraph struct {
	Sentences []Sentence
}

// Document is the traversal result of one Markup tree.
type Document struct {
	Paragraphs []Paragraph
}

// Traverse walks the paragraphs, sentences and tokens of m in document
// order. Tokens without content are dropped; nothing else is filtered.
func Traverse(m *Markup) *Document {
	doc := &Document{}
	if m == nil || m.root == nil {
		return doc
	}

	for _, p := range xmlquery.QuerySelectorAll(m.root, paragraphExpr) {
		var para Paragraph
		for _, s := range xmlquery.QuerySelectorAll(p, sentenceExpr) {
			sent := Sentence{Tokens: []Token{}}
			for _, t := range xmlquery.QuerySelectorAll(s, tokenExpr) {
				if tok, ok := readToken(t); ok {
					sent.Tokens = append(sent.Tokens, tok)
				}
			}
			para.Sentences = append(para.Sentences, sent)
		}
		doc.Paragraphs = append(doc.Paragraphs, para)
	}

	return doc
}

func readToken(n *xmlquery.Node) (Token, bool) {
	if n.FirstChild == nil {
		return Token{}, false
	}

	tok := Token{Text: strings.TrimSpace(n.InnerText())}
	for _, attr := range n.Attr {
		if attr.Name.Local == phonemeAttr {
			tok.Phoneme = attr.Value
			tok.HasPhoneme = true
			break
		}
	}

	return tok, true
}

// Tokens returns every token of the document in order.
func (d *Document) Tokens() []Token {
	var tokens []Token
	for _, p := range d.Paragraphs {
		for _, s := range p.Sentences {
			tokens = append(tokens, s.Tokens...)
		}
	}
	return tokens
}
