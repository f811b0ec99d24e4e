package components

import (
	"fmt"
	"time"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/nijaru/yt-summary/content"
)

// PageFooter renders the footer. Link paths are resolved against apiBaseURL.
func PageFooter(footer content.Footer, apiBaseURL string) g.Node {
	return Footer(
		g.Attr("aria-label", "Site footer"),
		Class("footer"),

		Div(
			Class("footer-grid"),

			Div(
				Class("footer-brand"),
				Span(Class("logo"), g.Text(footer.Brand)),
				P(Class("footer-blurb"), g.Text(footer.Blurb)),
				g.If(footer.DocsPath != "", externalLink(Class("btn btn-outline"), content.URL(apiBaseURL, footer.DocsPath), "Docs")),
			),

			Div(
				Class("footer-links"),
				g.Group(g.Map(footer.Groups, func(group content.LinkGroup) g.Node {
					return Div(
						Class("footer-group"),
						H3(g.Text(group.Title)),
						Ul(g.Group(g.Map(group.Links, func(link content.Link) g.Node {
							return Li(externalLink(g.Attr("aria-label", link.Name), content.URL(apiBaseURL, link.Path), link.Name))
						}))),
					)
				})),
			),
		),

		P(Class("footer-copyright"), g.Text(fmt.Sprintf("© %d %s", time.Now().Year(), footer.Brand))),
	)
}

func externalLink(attr g.Node, href, text string) g.Node {
	return A(
		attr,
		Href(href),
		g.Attr("target", "_blank"),
		Rel("noopener noreferrer"),
		g.Text(text),
	)
}
