// Package dom provides a headless view of a storefront product page.
//
// The widget core never touches a live browser; it works against parsed HTML
// with geometry resolved from element attributes and inline styles. Hidden
// elements (display:none, visibility:hidden, the hidden attribute, or any
// hidden ancestor) report zero rendered size, matching how offsetWidth and
// offsetHeight behave for detached layout.
package dom

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Document is a parsed, headless snapshot of one page.
type Document struct {
	root *html.Node
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString reads an HTML document from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Element wraps one element node within a document.
type Element struct {
	node *html.Node
}

// Query returns the first element matching the selector list, in document
// order, or nil.
func (d *Document) Query(selector string) *Element {
	if d == nil || d.root == nil {
		return nil
	}
	selectors := compileSelectorList(selector)
	var found *Element
	walkElements(d.root, func(el *Element) bool {
		if el.matchesAny(selectors) {
			found = el
			return false
		}
		return true
	})
	return found
}

// QueryAll returns every element matching the selector list, in document
// order.
func (d *Document) QueryAll(selector string) []*Element {
	if d == nil || d.root == nil {
		return nil
	}
	selectors := compileSelectorList(selector)
	var matches []*Element
	walkElements(d.root, func(el *Element) bool {
		if el.matchesAny(selectors) {
			matches = append(matches, el)
		}
		return true
	})
	return matches
}

// ElementByID returns the element with the given id attribute, or nil.
func (d *Document) ElementByID(id string) *Element {
	if d == nil || d.root == nil || strings.TrimSpace(id) == "" {
		return nil
	}
	var found *Element
	walkElements(d.root, func(el *Element) bool {
		if el.Attr("id") == id {
			found = el
			return false
		}
		return true
	})
	return found
}

// Images returns every img element in document order.
func (d *Document) Images() []*Element {
	return d.QueryAll("img")
}

// walkElements visits element nodes depth-first. The visit func returns
// false to stop the walk.
func walkElements(n *html.Node, visit func(*Element) bool) bool {
	if n.Type == html.ElementNode {
		if !visit(&Element{node: n}) {
			return false
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walkElements(c, visit) {
			return false
		}
	}
	return true
}

// Tag returns the lowercase tag name.
func (e *Element) Tag() string {
	if e == nil || e.node == nil {
		return ""
	}
	return e.node.Data
}

// Attr returns the value of the named attribute, or "".
func (e *Element) Attr(name string) string {
	if e == nil || e.node == nil {
		return ""
	}
	for _, attr := range e.node.Attr {
		if strings.EqualFold(attr.Key, name) {
			return attr.Val
		}
	}
	return ""
}

// HasAttr reports whether the named attribute is present.
func (e *Element) HasAttr(name string) bool {
	if e == nil || e.node == nil {
		return false
	}
	for _, attr := range e.node.Attr {
		if strings.EqualFold(attr.Key, name) {
			return true
		}
	}
	return false
}

// ClassName returns the raw class attribute.
func (e *Element) ClassName() string {
	return e.Attr("class")
}

// Classes returns the element's class list.
func (e *Element) Classes() []string {
	return strings.Fields(e.Attr("class"))
}

// HasClass reports whether the class list contains name.
func (e *Element) HasClass(name string) bool {
	for _, class := range e.Classes() {
		if class == name {
			return true
		}
	}
	return false
}

// Dataset returns data-* attributes keyed without the data- prefix.
func (e *Element) Dataset() map[string]string {
	if e == nil || e.node == nil {
		return nil
	}
	data := make(map[string]string)
	for _, attr := range e.node.Attr {
		key := strings.ToLower(attr.Key)
		if strings.HasPrefix(key, "data-") {
			data[strings.TrimPrefix(key, "data-")] = attr.Val
		}
	}
	return data
}

// TextContent returns the concatenated text of the element's descendants.
func (e *Element) TextContent() string {
	if e == nil || e.node == nil {
		return ""
	}
	var sb strings.Builder
	var collect func(n *html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(e.node)
	return sb.String()
}

// Parent returns the nearest element ancestor, or nil.
func (e *Element) Parent() *Element {
	if e == nil || e.node == nil {
		return nil
	}
	for p := e.node.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return &Element{node: p}
		}
	}
	return nil
}

// Closest returns the element itself or its nearest ancestor matching the
// selector list, or nil.
func (e *Element) Closest(selector string) *Element {
	selectors := compileSelectorList(selector)
	for el := e; el != nil; el = el.Parent() {
		if el.matchesAny(selectors) {
			return el
		}
	}
	return nil
}

// Matches reports whether the element matches the selector list.
func (e *Element) Matches(selector string) bool {
	return e.matchesAny(compileSelectorList(selector))
}

// Visible reports whether the element participates in layout: neither it nor
// any ancestor is hidden.
func (e *Element) Visible() bool {
	if e == nil || e.node == nil {
		return false
	}
	for el := e; el != nil; el = el.Parent() {
		if el.hiddenSelf() {
			return false
		}
	}
	return true
}

// OffsetWidth returns the rendered width in pixels; hidden elements report 0.
func (e *Element) OffsetWidth() int {
	if !e.Visible() {
		return 0
	}
	return e.dimension("width")
}

// OffsetHeight returns the rendered height in pixels; hidden elements report 0.
func (e *Element) OffsetHeight() int {
	if !e.Visible() {
		return 0
	}
	return e.dimension("height")
}

// Area returns the rendered area in square pixels.
func (e *Element) Area() int {
	return e.OffsetWidth() * e.OffsetHeight()
}

func (e *Element) hiddenSelf() bool {
	if e.HasAttr("hidden") {
		return true
	}
	style := strings.ReplaceAll(strings.ToLower(e.Attr("style")), " ", "")
	return strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden")
}

func (e *Element) dimension(name string) int {
	if v, ok := parsePixels(e.Attr(name)); ok {
		return v
	}
	if v, ok := styleDimension(e.Attr("style"), name); ok {
		return v
	}
	return 0
}

func styleDimension(style, name string) (int, bool) {
	for _, decl := range strings.Split(style, ";") {
		property, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.TrimSpace(strings.ToLower(property)) != name {
			continue
		}
		return parsePixels(value)
	}
	return 0, false
}

func parsePixels(value string) (int, bool) {
	value = strings.TrimSpace(strings.ToLower(value))
	value = strings.TrimSuffix(value, "px")
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
