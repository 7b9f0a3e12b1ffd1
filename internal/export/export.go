// Package export writes the country panel into an HTML host page. Regions
// are located by element id; a page that lacks a region simply does not get
// that update, but a page without a globe container is rejected.
package export

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/glabrego/orbital-cli/internal/panel"
)

const (
	IDGlobe       = "globeContainer"
	IDStatus      = "status"
	IDName        = "countryName"
	IDMeta        = "countryMeta"
	IDFlag        = "countryFlag"
	IDCode        = "countryCode"
	IDSiteCount   = "siteCount"
	IDRegion      = "regionBadge"
	IDWebsiteList = "websiteList"
)

var ErrNoGlobeContainer = errors.New("host page has no " + IDGlobe + " element")

//go:embed host.html
var defaultHost []byte

type Document struct {
	root *html.Node
}

// DefaultHost returns a fresh copy of the built-in host page.
func DefaultHost() (*Document, error) {
	return ParseHost(bytes.NewReader(defaultHost))
}

func ParseHost(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse host page: %w", err)
	}
	if findByID(root, IDGlobe) == nil {
		return nil, ErrNoGlobeContainer
	}
	return &Document{root: root}, nil
}

// SetStatus overwrites the status region.
func (d *Document) SetStatus(status string) {
	if n := findByID(d.root, IDStatus); n != nil {
		setText(n, status)
	}
}

// Apply rewrites every panel region present in the page. The website list is
// rebuilt from scratch, so applying the same panel twice yields the same page.
func (d *Document) Apply(p panel.Panel) {
	if n := findByID(d.root, IDName); n != nil {
		setText(n, p.Name)
	}
	if n := findByID(d.root, IDMeta); n != nil {
		setText(n, p.Summary)
	}
	if n := findByID(d.root, IDFlag); n != nil {
		if p.FlagHidden() {
			removeAttr(n, "src")
			setAttr(n, "hidden", "")
		} else {
			setAttr(n, "src", p.FlagURL)
			setAttr(n, "alt", p.Name+" flag")
			removeAttr(n, "hidden")
		}
	}
	if n := findByID(d.root, IDRegion); n != nil {
		setText(n, p.RegionBadge)
	}
	if n := findByID(d.root, IDCode); n != nil {
		setText(n, p.CodeBadge)
	}
	if n := findByID(d.root, IDSiteCount); n != nil {
		setText(n, p.SiteCount)
	}
	if list := findByID(d.root, IDWebsiteList); list != nil {
		clearChildren(list)
		if p.Placeholder != "" {
			li := element(atom.Li, "class", "site-empty")
			li.AppendChild(text(p.Placeholder))
			list.AppendChild(li)
		}
		for _, item := range p.Items {
			list.AppendChild(siteItem(item))
		}
	}
}

func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// Text returns the text content of the element with id, for inspection.
func (d *Document) Text(id string) (string, bool) {
	n := findByID(d.root, id)
	if n == nil {
		return "", false
	}
	var b bytes.Buffer
	collectText(n, &b)
	return b.String(), true
}

func siteItem(item panel.Item) *html.Node {
	li := element(atom.Li, "class", "site-item")

	li.AppendChild(element(atom.Img, "class", "favicon", "src", item.FaviconURL, "alt", "", "loading", "lazy"))

	link := element(atom.A, "href", item.URL, "target", "_blank", "rel", "noopener noreferrer")
	link.AppendChild(text(item.Host))
	li.AppendChild(link)

	cat := element(atom.Span, "class", "category")
	cat.AppendChild(text(item.Category))
	li.AppendChild(cat)

	code := element(atom.Span, "class", "code")
	code.AppendChild(text(item.Code))
	li.AppendChild(code)

	if item.FlagURL != "" {
		li.AppendChild(element(atom.Img, "class", "flag", "src", item.FlagURL, "alt", item.Code, "loading", "lazy"))
	}
	return li
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func setText(n *html.Node, s string) {
	clearChildren(n)
	n.AppendChild(text(s))
}

func clearChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			out = append(out, a)
		}
	}
	n.Attr = out
}

func collectText(n *html.Node, b *bytes.Buffer) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
