package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type PageConfig struct {
	Title       string
	Description string
}

func Layout(config PageConfig, content ...g.Node) g.Node {
	if config.Title == "" {
		config.Title = "Fabric - Video Summaries in Seconds"
	}

	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text(config.Title)),
				g.If(config.Description != "", Meta(Name("description"), Content(config.Description))),

				Meta(g.Attr("property", "og:title"), Content(config.Title)),
				Meta(g.Attr("property", "og:type"), Content("website")),

				Link(Rel("stylesheet"), Href("/static/styles.css")),
			),
			Body(
				Class("page"),
				g.Group(content),

				Script(Type("module"), Src("/static/js/transcript.js")),
			),
		),
	})
}
