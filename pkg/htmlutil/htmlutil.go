package htmlutil

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Unwrap replaces every matched element with its own children, preserving
// descendant markup in place. This is the counterpart of Selection.Remove:
// Remove destroys the subtree, Unwrap only removes the wrapping element.
func Unwrap(sel *goquery.Selection) {
	for _, n := range sel.Nodes {
		parent := n.Parent
		if parent == nil {
			continue
		}
		for child := n.FirstChild; child != nil; {
			next := child.NextSibling
			n.RemoveChild(child)
			parent.InsertBefore(child, n)
			child = next
		}
		parent.RemoveChild(n)
	}
}

// CompactText returns the text content of a selection with interior
// whitespace runs collapsed to single spaces and the result trimmed.
func CompactText(sel *goquery.Selection) string {
	return Squeeze(sel.Text())
}

// Squeeze collapses all whitespace runs in s to single spaces and trims.
func Squeeze(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// DecodeRedirect unwraps a known link-shortener or security-wrapper URL back
// to the destination it points at. Returns the original string and false when
// the URL is not a recognized redirector or cannot be decoded.
func DecodeRedirect(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw, false
	}

	host := strings.ToLower(u.Host)
	var param string
	switch {
	case strings.HasSuffix(host, "safelinks.protection.outlook.com"):
		param = "url"
	case host == "www.google.com" && strings.HasPrefix(u.Path, "/url"):
		param = "q"
	default:
		return raw, false
	}

	target := u.Query().Get(param)
	if target == "" {
		return raw, false
	}
	if decoded, err := url.QueryUnescape(target); err == nil {
		target = decoded
	}
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		return raw, false
	}
	return target, true
}

// IsEmptyNode reports whether an element node has no text content and no
// element children (whitespace-only text nodes count as empty).
func IsEmptyNode(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return false
		}
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			return false
		}
	}
	return true
}
