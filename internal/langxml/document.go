// Package langxml loads a language XML document of the form
//
//	<Language>
//	  <English>
//	    <Menu><File text="File"/></Menu>
//	  </English>
//	  <German>...</German>
//	</Language>
//
// and answers text lookups for key paths per language.
package langxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// RootName is the required name of the document element
const RootName = "Language"

// TextAttr is the attribute holding the localized text on a leaf
const TextAttr = "text"

var (
	// ErrNoRoot is returned for a document without any element
	ErrNoRoot = errors.New("document has no root element")
	// ErrMultipleRoots is returned when more than one top-level element is found
	ErrMultipleRoots = errors.New("document has more than one root element")
)

// Element is a node of the parsed element tree. Text, comments and
// processing instructions are dropped; only elements and their attributes are kept.
type Element struct {
	Name     string
	Attrs    map[string]string
	Children []*Element
}

// IsLeaf reports whether the element has no child elements
func (e *Element) IsLeaf() bool {
	return len(e.Children) == 0
}

// Attr returns the named attribute
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// parseTree builds the element tree of data
func parseTree(data []byte) (*Element, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var root *Element
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				el.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					el.Attrs[a.Name.Local] = a.Value
				}
			}

			if len(stack) == 0 {
				if root != nil {
					return nil, ErrMultipleRoots
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}

	if root == nil {
		return nil, ErrNoRoot
	}
	return root, nil
}
