package render

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/nijaru/yt-summary/models"
)

const (
	SubmitLabel     = "Generate Transcript"
	PendingLabel    = "Generating..."
	TranscriptTitle = "Full Transcript"
	PatternTitle    = "Pattern Result"
	MetadataHeading = "Video Metadata"
	CommentsHeading = "Top Comments"
)

// Row is one "key: value" line of the metadata block.
type Row struct {
	Key   string
	Value string
}

func (r Row) String() string {
	return r.Key + ": " + r.Value
}

// Block is the primary result: the pattern result or the transcript.
type Block struct {
	Title string
	Body  string
	// Preformatted is set for structured pattern results.
	Preformatted bool
}

// Tree is everything the widget displays for one state. A nil Metadata,
// Primary or Comments means the block is not shown.
type Tree struct {
	SubmitLabel    string
	SubmitDisabled bool
	Loading        bool
	Error          string
	Metadata       []Row
	Primary        *Block
	Comments       []string
}

// HasResult reports whether any result block is shown.
func (t Tree) HasResult() bool {
	return t.Metadata != nil || t.Primary != nil || t.Comments != nil
}

// Build derives the display tree from the form input and outcome. It has no
// side effects: equal arguments always give equal trees.
func Build(input models.FormInput, outcome models.Outcome) Tree {
	tree := Tree{SubmitLabel: SubmitLabel}

	switch outcome.State {
	case models.OutcomePending:
		tree.SubmitLabel = PendingLabel
		tree.SubmitDisabled = true
		tree.Loading = true
	case models.OutcomeFailed:
		tree.Error = outcome.Message
	case models.OutcomeSucceeded:
		if outcome.Result != nil {
			buildResult(&tree, input, outcome.Result)
		}
	}

	return tree
}

func buildResult(tree *Tree, input models.FormInput, payload *models.ResultPayload) {
	if metadata, ok := payload.Metadata.Get(); ok && input.WithMetadata {
		tree.Metadata = metadataRows(metadata)
	}

	if result, ok := payload.PatternResult.Get(); ok && !result.Empty() {
		title := PatternTitle
		if input.HasPattern() {
			title = TitleCase(input.Pattern)
		}
		tree.Primary = &Block{
			Title:        title,
			Body:         result.Display(),
			Preformatted: !result.IsText(),
		}
	} else {
		tree.Primary = &Block{Title: TranscriptTitle, Body: payload.Transcript.OrElse("")}
	}

	if comments, ok := payload.Comments.Get(); ok && input.WithComments {
		tree.Comments = make([]string, 0, len(comments))
		for _, c := range comments {
			tree.Comments = append(tree.Comments, string(c))
		}
	}
}

// TitleCase turns a pattern identifier into a heading: underscores become
// spaces and each word starts with a capital letter.
func TitleCase(pattern string) string {
	words := strings.Fields(strings.ReplaceAll(strings.TrimSpace(pattern), "_", " "))
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return strings.Join(words, " ")
}

func metadataRows(metadata map[string]json.RawMessage) []Row {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]Row, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, Row{Key: k, Value: DisplayValue(metadata[k])})
	}
	return rows
}

// DisplayValue coerces a metadata value to text. Strings are unquoted,
// numbers and booleans kept literal, arrays of scalars joined with ", "
// and objects shown as compact JSON.
func DisplayValue(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return "null"
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err == nil && allScalars(items) {
			parts := make([]string, len(items))
			for i, item := range items {
				parts[i] = DisplayValue(item)
			}
			return strings.Join(parts, ", ")
		}
	case '{':
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err == nil {
			return n.String()
		}
		if b, err := strconv.ParseBool(string(trimmed)); err == nil {
			return strconv.FormatBool(b)
		}
		return string(trimmed)
	}

	var out bytes.Buffer
	if err := json.Compact(&out, trimmed); err != nil {
		return string(trimmed)
	}
	return out.String()
}

func allScalars(items []json.RawMessage) bool {
	for _, item := range items {
		t := bytes.TrimSpace(item)
		if len(t) > 0 && (t[0] == '[' || t[0] == '{') {
			return false
		}
	}
	return true
}
