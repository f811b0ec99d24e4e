package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/nijaru/yt-summary/content"
)

// Features renders the pattern showcase and hosts the transcript widget in
// its "try it" section.
func Features(features content.Features, widget g.Node) g.Node {
	return Section(
		ID("features"),
		Class("features"),

		Div(
			Class("features-grid"),

			Div(
				Class("features-examples"),
				g.Group(g.Map(features.Examples, patternExample)),
			),

			Div(
				Class("features-copy"),
				Span(Class("block-subtitle"), g.Text(features.Subtitle)),
				H2(Class("block-title"), g.Text(features.Title)),
				P(Class("block-body"), g.Text(features.Body)),
				Div(
					Class("cards"),
					g.Group(g.Map(features.Cards, featureCard)),
				),
			),
		),

		Div(
			ID("try"),
			Class("try"),
			H2(Class("try-title"), g.Text(features.TryTitle)),
			P(Class("try-body"), g.Text(features.TryBody)),
			widget,
		),
	)
}

func patternExample(ex content.Example) g.Node {
	var body g.Node
	switch ex.Kind {
	case content.ExampleDiagram:
		body = Pre(Class("diagram"), g.Text(ex.Diagram))
	default:
		body = Ol(
			Class("example-list"),
			g.Group(g.Map(ex.Items, func(item string) g.Node {
				return Li(g.Text(item))
			})),
		)
	}

	return Div(
		Class("card pattern-example"),
		H3(Class("card-title"), g.Text(ex.Title)),
		body,
	)
}

func featureCard(card content.Card) g.Node {
	class := "card"
	if card.Wide {
		class += " card-wide"
	}

	return Div(
		Class(class),
		H3(Class("card-title"), g.Text(card.Title)),
		Ul(
			Class("checklist"),
			g.Group(g.Map(card.Items, func(item string) g.Node {
				return Li(Span(Class("check"), g.Attr("aria-hidden", "true"), g.Text("✓")), Span(g.Text(item)))
			})),
		),
	)
}
