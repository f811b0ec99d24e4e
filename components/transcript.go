package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/nijaru/yt-summary/content"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/render"
)

// Form field names posted by the transcript widget.
const (
	FieldVideoURL     = "video_url"
	FieldPattern      = "pattern"
	FieldWithMetadata = "with_metadata"
	FieldWithComments = "with_comments"
)

const TranscriptGeneratorID = "transcript-generator"

// TranscriptGenerator renders the widget for one display tree. The form
// always reflects input, whatever the outcome.
func TranscriptGenerator(tree render.Tree, input models.FormInput, patterns []content.Option) g.Node {
	return Div(
		ID(TranscriptGeneratorID),
		Class("transcript-generator card"),
		g.If(tree.Loading, g.Attr("aria-busy", "true")),

		H2(Class("card-title"), g.Text("YouTube Transcript Generator")),

		Form(
			ID("transcript-form"),
			Class("transcript-form"),
			Method("post"),
			Action("/transcript"),

			Div(
				Class("field"),
				Label(For("videoUrl"), g.Text("YouTube Video URL")),
				Input(
					Type("text"),
					ID("videoUrl"),
					Name(FieldVideoURL),
					Value(input.VideoURL),
					Placeholder("https://youtu.be/..."),
				),
			),

			Div(
				Class("field"),
				Label(For("pattern"), g.Text("Analysis Pattern (Optional)")),
				Select(
					ID("pattern"),
					Name(FieldPattern),
					g.Group(g.Map(patterns, func(p content.Option) g.Node {
						return Option(
							Value(p.Value),
							g.If(p.Value == input.Pattern, Selected()),
							g.Text(p.Label),
						)
					})),
				),
			),

			Div(
				Class("toggles"),
				toggle(FieldWithMetadata, "Include video metadata", input.WithMetadata),
				toggle(FieldWithComments, "Include video comments", input.WithComments),
			),

			Button(
				Type("submit"),
				Class("btn btn-primary btn-block"),
				g.If(tree.SubmitDisabled, Disabled()),
				g.Attr("data-idle-label", render.SubmitLabel),
				g.Attr("data-pending-label", render.PendingLabel),
				g.Text(tree.SubmitLabel),
			),

			g.If(tree.Error != "", Div(
				Class("alert alert-error"),
				g.Attr("role", "alert"),
				g.Text(tree.Error),
			)),

			g.If(tree.HasResult(), results(tree)),
		),
	)
}

func toggle(name, text string, checked bool) g.Node {
	return Label(
		Class("toggle"),
		Input(
			Type("checkbox"),
			Name(name),
			Value("true"),
			g.If(checked, Checked()),
		),
		Span(g.Text(text)),
	)
}

func results(tree render.Tree) g.Node {
	return Div(
		Class("results"),

		g.If(tree.Metadata != nil, Div(
			Class("result-block metadata"),
			H3(g.Text(render.MetadataHeading)),
			Div(
				Class("metadata-grid"),
				g.Group(g.Map(tree.Metadata, func(row render.Row) g.Node {
					return Div(
						Class("metadata-row"),
						Span(Class("metadata-key"), g.Text(row.Key+":")),
						g.Text(" "),
						Span(Class("metadata-value"), g.Text(row.Value)),
					)
				})),
			),
		)),

		g.Iff(tree.Primary != nil, func() g.Node { return primary(tree.Primary) }),

		g.If(tree.Comments != nil, Div(
			Class("result-block comments"),
			H3(g.Text(render.CommentsHeading)),
			Div(
				Class("comment-list"),
				g.Group(g.Map(tree.Comments, func(comment string) g.Node {
					return Div(Class("comment"), P(g.Text(comment)))
				})),
			),
		)),
	)
}

func primary(block *render.Block) g.Node {
	var body g.Node
	if block.Preformatted {
		body = Pre(Class("result-body"), g.Text(block.Body))
	} else {
		body = Div(Class("result-body prewrap"), g.Text(block.Body))
	}

	return Div(
		Class("result-block primary"),
		H3(g.Text(block.Title)),
		body,
	)
}
