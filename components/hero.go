package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/nijaru/yt-summary/content"
)

// Hero renders the banner. Its quick-entry bar submits into the transcript
// widget with no pattern selected.
func Hero(hero content.Hero) g.Node {
	return Section(
		ID("home"),
		Class("hero"),

		H3(Class("hero-tagline"), g.Text(hero.Tagline)),
		H1(Class("hero-headline"), g.Text(hero.Headline)),
		H1(Class("hero-headline hero-headline-accent"), g.Text(hero.HeadlineAccent)),
		H2(Class("hero-subheadline"), g.Text(hero.Subheadline)),

		Form(
			Class("hero-input"),
			Method("post"),
			Action("/transcript#try"),
			Input(
				Type("text"),
				Name(FieldVideoURL),
				Placeholder(hero.Placeholder),
				g.Attr("aria-label", "YouTube URL"),
			),
			Button(Type("submit"), Class("btn btn-primary"), g.Text(hero.Button)),
		),
	)
}
