package render

import (
	"io"

	"github.com/vango-dev/userform/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode for the page content.
	Body *vdom.VNode

	// Title is the page title.
	Title string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string

	// Styles contains inline CSS blocks emitted in the head.
	Styles []string

	// Scripts contains inline scripts emitted at the end of the body.
	Scripts []string
}

// RenderPage writes a complete HTML document for page.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	head := vdom.Head(
		vdom.Meta(vdom.Charset("utf-8")),
		vdom.Meta(vdom.MetaName("viewport"), vdom.Content("width=device-width, initial-scale=1")),
		vdom.If(page.Title != "", vdom.Title(page.Title)),
	)
	for _, css := range page.Styles {
		head.Children = append(head.Children, vdom.Style(vdom.Raw(css)))
	}

	body := vdom.Body(page.Body)
	for _, js := range page.Scripts {
		body.Children = append(body.Children, vdom.Script(js))
	}

	if _, err := io.WriteString(w, "<!DOCTYPE html>"); err != nil {
		return err
	}
	r.newline(w)
	return r.renderNode(w, vdom.Html(vdom.Lang(lang), head, body), 0)
}
