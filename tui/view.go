package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nijaru/yt-summary/render"
)

const helpText = "tab/shift+tab move • ←/→ pattern • space toggle • enter submit • esc quit"

// View implements tea.Model interface
func (m Model) View() string {
	input := m.form.Input()
	tree := m.Tree()

	var b strings.Builder
	b.WriteString(TitleStyle.Render("YouTube Transcript Generator"))
	b.WriteString("\n")

	url := input.VideoURL
	if url == "" && m.focus != FieldURL {
		url = LabelStyle.Render("https://youtu.be/...")
	} else if m.focus == FieldURL {
		url += "█"
	}
	b.WriteString(m.field(FieldURL, "YouTube Video URL", url))

	label := ""
	if len(m.patterns) > 0 {
		label = m.patterns[m.patternIdx].Label
	}
	b.WriteString(m.field(FieldPattern, "Analysis Pattern (Optional)", "‹ "+label+" ›"))
	b.WriteString(m.field(FieldMetadata, "", checkbox(input.WithMetadata)+" Include video metadata"))
	b.WriteString(m.field(FieldComments, "", checkbox(input.WithComments)+" Include video comments"))

	button := ButtonStyle
	if tree.SubmitDisabled {
		button = DisabledButtonStyle
	}
	b.WriteString(m.cursor(FieldSubmit) + button.Render(tree.SubmitLabel))
	b.WriteString("\n")

	if tree.Error != "" {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(tree.Error))
		b.WriteString("\n")
	}

	if tree.HasResult() {
		b.WriteString("\n")
		b.WriteString(Results(tree, m.width))
	}

	b.WriteString(HelpStyle.Render(helpText))
	b.WriteString("\n")
	return b.String()
}

// Results renders the result blocks of tree for a terminal of the given
// width. A zero width leaves lines unwrapped.
func Results(tree render.Tree, width int) string {
	box := BoxStyle
	if width > 4 {
		box = box.Width(width - 4)
	}

	var blocks []string
	if tree.Metadata != nil {
		rows := make([]string, 0, len(tree.Metadata))
		for _, row := range tree.Metadata {
			rows = append(rows, HeadingStyle.Render(row.Key+":")+" "+row.Value)
		}
		blocks = append(blocks, box.Render(HeadingStyle.Render(render.MetadataHeading)+"\n"+strings.Join(rows, "\n")))
	}
	if tree.Primary != nil {
		blocks = append(blocks, box.Render(HeadingStyle.Render(tree.Primary.Title)+"\n"+tree.Primary.Body))
	}
	if tree.Comments != nil {
		comments := make([]string, 0, len(tree.Comments))
		for _, c := range tree.Comments {
			comments = append(comments, "• "+c)
		}
		blocks = append(blocks, box.Render(HeadingStyle.Render(render.CommentsHeading)+"\n"+strings.Join(comments, "\n")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...) + "\n"
}

func (m Model) field(f Field, label, value string) string {
	var b strings.Builder
	if label != "" {
		b.WriteString("  " + LabelStyle.Render(label) + "\n")
	}
	if m.focus == f {
		value = FocusStyle.Render(value)
	}
	b.WriteString(m.cursor(f) + value + "\n")
	return b.String()
}

func (m Model) cursor(f Field) string {
	if m.focus == f {
		return FocusStyle.Render("> ")
	}
	return "  "
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}
