package maryxml

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Markup is a parsed MaryXML tree. It is read only once parsed.
type Markup struct {
	root *xmlquery.Node
}

// Parse parses raw MaryXML.
func Parse(data []byte) (*Markup, error) {
	return parse(bytes.NewReader(data), "")
}

// ParseString parses a MaryXML string, as returned by the annotation service.
func ParseString(s string) (*Markup, error) {
	return parse(strings.NewReader(s), "")
}

// ParseFile parses the MaryXML file at path.
func ParseFile(path string) (*Markup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open markup file: %w", err)
	}
	defer f.Close()

	return parse(f, path)
}

func parse(r io.Reader, source string) (*Markup, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, &MalformedMarkupError{Source: source, Err: err}
	}

	// encoding/xml accepts bare character data, so an error page or an
	// empty body parses without complaint.
	if !hasElement(root) {
		return nil, &MalformedMarkupError{Source: source, Err: errNoRootElement}
	}

	return &Markup{root: root}, nil
}

func hasElement(n *xmlquery.Node) bool {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return true
		}
	}
	return false
}
