// Package render turns users endpoint replies into output fragments.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"userlookup/internal/usersapi"
)

// Kind selects the element a Fragment is wrapped in.
type Kind uint8

const (
	// Preformatted wraps the text in <pre>.
	Preformatted Kind = iota + 1
	// Paragraph wraps the text in <p>.
	Paragraph
)

func (k Kind) String() string {
	switch k {
	case Preformatted:
		return "preformatted"
	case Paragraph:
		return "paragraph"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// MarshalText lets Kind appear by name in JSON payloads.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Fragment is the content written into an output sink.
type Fragment struct {
	Kind Kind
	Text string
}

// HTML renders the fragment as markup. Text is escaped.
func (f Fragment) HTML() string {
	a := atom.P
	if f.Kind == Preformatted {
		a = atom.Pre
	}
	n := &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: f.Text})

	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		// html.Render only fails on writer errors; strings.Builder has none.
		panic(fmt.Errorf("render: %w", err))
	}
	return b.String()
}

// Success returns body indented with two spaces, keys in the order received.
func Success(body []byte) (Fragment, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(body), "", "  "); err != nil {
		return Fragment{}, fmt.Errorf("indent body: %w", err)
	}
	return Fragment{Kind: Preformatted, Text: buf.String()}, nil
}

// Failure returns the body's "message" field as a paragraph. A missing field
// yields an empty paragraph.
func Failure(body []byte) Fragment {
	return Fragment{Kind: Paragraph, Text: gjson.GetBytes(body, "message").String()}
}

// For picks Success or Failure from the response status.
func For(resp *usersapi.Response) (Fragment, error) {
	if resp.OK() {
		return Success(resp.Body)
	}
	return Failure(resp.Body), nil
}
