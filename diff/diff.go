// Package diff produces line-level differentials between two texts.
//
// A differential is exposed as an iter.Seq[Line]: the sequence is finite and
// computed lazily, and ranging over it again recomputes it from the original
// texts, so callers may consume it more than once.
package diff

import (
	"iter"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// NoNewlineMarker follows a rendered line that did not end with a newline.
const NoNewlineMarker = `\ No newline at end of file`

// Op identifies what happened to a line when going from the old text to the new one.
type Op byte

const (
	Equal  Op = ' '
	Delete Op = '-'
	Insert Op = '+'
)

func (o Op) String() string {
	switch o {
	case Equal:
		return "equal"
	case Delete:
		return "delete"
	case Insert:
		return "insert"
	default:
		return "unknown"
	}
}

// Line is one annotated line of a differential. Text keeps its trailing
// newline when the source line had one.
type Line struct {
	Op   Op
	Text string
}

// Lines returns the differential that transforms a into b.
// Within a replaced block all deletions come before the insertions.
func Lines(a, b string) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		oldLines := splitLines(a)
		newLines := splitLines(b)
		matcher := difflib.NewMatcher(oldLines, newLines)
		for _, oc := range matcher.GetOpCodes() {
			switch oc.Tag {
			case 'e':
				if !emit(yield, Equal, oldLines[oc.I1:oc.I2]) {
					return
				}
			case 'd':
				if !emit(yield, Delete, oldLines[oc.I1:oc.I2]) {
					return
				}
			case 'i':
				if !emit(yield, Insert, newLines[oc.J1:oc.J2]) {
					return
				}
			case 'r':
				if !emit(yield, Delete, oldLines[oc.I1:oc.I2]) {
					return
				}
				if !emit(yield, Insert, newLines[oc.J1:oc.J2]) {
					return
				}
			}
		}
	}
}

func emit(yield func(Line) bool, op Op, texts []string) bool {
	for _, text := range texts {
		if !yield(Line{Op: op, Text: text}) {
			return false
		}
	}
	return true
}

// splitLines splits s after every newline. A final line without a newline is
// kept as is, and an empty string has no lines.
func splitLines(s string) []string {
	return slices.Collect(strings.Lines(s))
}

// Apply reconstructs the two texts a differential was computed from.
func Apply(lines iter.Seq[Line]) (oldText, newText string) {
	var oldB, newB strings.Builder
	for l := range lines {
		switch l.Op {
		case Equal:
			oldB.WriteString(l.Text)
			newB.WriteString(l.Text)
		case Delete:
			oldB.WriteString(l.Text)
		case Insert:
			newB.WriteString(l.Text)
		}
	}
	return oldB.String(), newB.String()
}

// Count returns the number of deleted and inserted lines.
func Count(lines iter.Seq[Line]) (removed, added int) {
	for l := range lines {
		switch l.Op {
		case Delete:
			removed++
		case Insert:
			added++
		}
	}
	return removed, added
}

// Format renders the whole differential into one printable block. Every line
// is prefixed with its op marker and a space. When colorize is set, deleted
// lines are red and inserted lines green.
func Format(lines iter.Seq[Line], colorize bool) string {
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	if colorize {
		red.EnableColor()
		green.EnableColor()
	} else {
		red.DisableColor()
		green.DisableColor()
	}

	var sb strings.Builder
	for l := range lines {
		text, hasNewline := strings.CutSuffix(l.Text, "\n")
		body := string(l.Op) + " " + text
		switch l.Op {
		case Delete:
			body = red.Sprint(body)
		case Insert:
			body = green.Sprint(body)
		}
		sb.WriteString(body)
		sb.WriteByte('\n')
		if !hasNewline {
			sb.WriteString(NoNewlineMarker)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
