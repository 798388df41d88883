package agent

import "strings"

// Response is the externally visible result of one query. ImageFile is the
// bare filename of the generated chart inside the static directory, empty
// when no chart was produced; transport mapping (URL vs filesystem path) is
// the caller's concern.
type Response struct {
	Text      string
	ImageFile string
}

// Fixed placeholder messages for the no-text outcomes.
const (
	msgChartOnly = "Here is the visualisation:"
	msgNoOutput  = "The analysis ran but produced no printable output. Try rephrasing your question."
)

// Classify combines captured stdout and chart presence into one of four
// response shapes. Text counts as present when non-empty after trimming.
func Classify(stdout string, imageProduced bool, imageFile string) *Response {
	text := strings.TrimSpace(stdout)
	switch {
	case text != "" && imageProduced:
		return &Response{Text: text, ImageFile: imageFile}
	case text == "" && imageProduced:
		return &Response{Text: msgChartOnly, ImageFile: imageFile}
	case text != "":
		return &Response{Text: text}
	default:
		return &Response{Text: msgNoOutput}
	}
}
