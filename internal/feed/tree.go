package feed

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// element is a generic XML element. Only the text directly inside the
// element is kept in text, text of children stays with the children.
type element struct {
	name     string
	attrs    map[string]string
	text     strings.Builder
	children []*element
}

// parseTree reads a whole document into a tree and returns its root element
func parseTree(r io.Reader) (*element, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true

	var root *element
	var stack []*element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			e := &element{
				name:  t.Name.Local,
				attrs: make(map[string]string, len(t.Attr)),
			}
			for _, a := range t.Attr {
				e.attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("more than one root element")
				}
				root = e
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, e)
			}
			stack = append(stack, e)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	return root, nil
}

// attr returns the trimmed value of an attribute
func (e *element) attr(name string) string {
	return strings.TrimSpace(e.attrs[name])
}

// content returns the text directly inside the element, untrimmed
func (e *element) content() string {
	return e.text.String()
}

// child returns the first immediate child with the given name
func (e *element) child(name string) *element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// childText returns the trimmed text of the first child with the given name
func (e *element) childText(name string) string {
	if c := e.child(name); c != nil {
		return strings.TrimSpace(c.content())
	}
	return ""
}

// childrenNamed returns all immediate children with the given name
func (e *element) childrenNamed(name string) []*element {
	var out []*element
	for _, c := range e.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}
