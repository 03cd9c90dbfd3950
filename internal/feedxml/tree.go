package feedxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// node is one element of the parsed document. Names are local names only;
// namespace prefixes are discarded so media:thumbnail matches "thumbnail".
type node struct {
	name     string
	attrs    map[string]string
	text     strings.Builder
	children []*node
}

// parseTree builds the element tree for an entire document. The decoder runs
// non-strict so unknown entities and sloppy markup do not abort the walk;
// only a structurally broken document errors out.
func parseTree(data []byte) (*node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false

	root := &node{}
	stack := []*node{root}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local, attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				n.attrs[a.Name.Local] = a.Value
			}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, n)
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			stack[len(stack)-1].text.Write(t)
		}
	}
	if len(root.children) == 0 {
		return nil, errors.New("no elements")
	}
	return root, nil
}

// find returns the first descendant with the given local name, depth first
// in document order.
func (n *node) find(name string) *node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
		if m := c.find(name); m != nil {
			return m
		}
	}
	return nil
}

// collect returns every descendant with the given local name in document
// order.
func (n *node) collect(name string) []*node {
	var out []*node
	var walk func(*node)
	walk = func(cur *node) {
		for _, c := range cur.children {
			if c.name == name {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// childText returns the trimmed text of the first descendant with the given
// name, or "" when absent.
func (n *node) childText(name string) string {
	c := n.find(name)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.text.String())
}

// childAttr returns an attribute of the first descendant with the given
// name, or "" when the element or attribute is absent.
func (n *node) childAttr(name, attr string) string {
	c := n.find(name)
	if c == nil {
		return ""
	}
	return c.attrs[attr]
}
