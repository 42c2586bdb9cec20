package layout

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// TextPadding is the fixed inset between an element box and its text
// content. The content width for wrapping is element width minus twice
// this value.
const TextPadding = 8.0

// RuledLineGap is how far below a baseline its ruled line sits.
const RuledLineGap = 3.0

// TextRun is one laid-out line of text. X is the run's left edge and
// Baseline the vertical baseline position, both relative to the content
// box origin.
type TextRun struct {
	Text     string
	X        float64
	Baseline float64
}

// TextLayout is the result of wrapping a text against a content width.
type TextLayout struct {
	Runs       []TextRun
	LineHeight float64
	Height     float64   // total content height
	Overflow   bool      // content taller than the given max height
	RuledLines []float64 // y positions of ruled lines, when requested
}

// LayoutText wraps text against maxWidth using the face's real metrics and
// places each run's baseline. maxHeight <= 0 disables overflow detection.
// The function is pure given a fixed metrics source: identical inputs
// always produce identical runs.
func LayoutText(text string, face font.Face, maxWidth, maxHeight, lineHeight float64) TextLayout {
	if lineHeight <= 0 {
		lineHeight = fixedToFloat(face.Metrics().Height)
	}
	ascent := Ascent(face)

	var runs []TextRun
	line := 0
	for _, para := range strings.Split(text, "\n") {
		lines := wrapParagraph(para, face, maxWidth)
		for _, l := range lines {
			runs = append(runs, TextRun{
				Text:     l,
				X:        0,
				Baseline: ascent + float64(line)*lineHeight,
			})
			line++
		}
	}

	height := float64(len(runs)) * lineHeight
	return TextLayout{
		Runs:       runs,
		LineHeight: lineHeight,
		Height:     height,
		Overflow:   maxHeight > 0 && height > maxHeight,
	}
}

// WithRuledLines returns a copy of the layout carrying a ruled line under
// every baseline.
func (l TextLayout) WithRuledLines() TextLayout {
	lines := make([]float64, len(l.Runs))
	for i, r := range l.Runs {
		lines[i] = r.Baseline + RuledLineGap
	}
	l.RuledLines = lines
	return l
}

// wrapParagraph greedily wraps a single paragraph. Words wider than the
// content width are split at the rune level so nothing ever escapes the
// box horizontally.
func wrapParagraph(para string, face font.Face, maxWidth float64) []string {
	if strings.TrimSpace(para) == "" {
		return []string{""}
	}
	words := strings.Fields(para)
	var lines []string
	var cur string
	for _, word := range words {
		if MeasureString(face, word) > maxWidth {
			// Flush current line, then hard-split the oversized word.
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			for _, part := range splitWord(word, face, maxWidth) {
				lines = append(lines, part)
			}
			// Pull the last fragment back as the current line so following
			// words can continue on it.
			if len(lines) > 0 {
				cur = lines[len(lines)-1]
				lines = lines[:len(lines)-1]
			}
			continue
		}
		candidate := word
		if cur != "" {
			candidate = cur + " " + word
		}
		if MeasureString(face, candidate) <= maxWidth || cur == "" {
			cur = candidate
		} else {
			lines = append(lines, cur)
			cur = word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// splitWord breaks a single oversized word into maximal fragments that fit.
func splitWord(word string, face font.Face, maxWidth float64) []string {
	var parts []string
	runes := []rune(word)
	start := 0
	for start < len(runes) {
		end := start + 1
		for end < len(runes) && MeasureString(face, string(runes[start:end+1])) <= maxWidth {
			end++
		}
		parts = append(parts, string(runes[start:end]))
		start = end
	}
	return parts
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
