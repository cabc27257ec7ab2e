package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultCharWidth is the advance of one rune as a fraction of the font size.
const DefaultCharWidth = 0.6

// DefaultLineHeight is the line advance as a multiple of the font size.
const DefaultLineHeight = 1.2

// fitEpsilon absorbs rounding when a width was derived from MeasureText.
const fitEpsilon = 1e-9

// TextShaper produces approximate, font-independent metrics.
// Every rune advances by CharWidth × size, which keeps layout results
// reproducible without font files.
type TextShaper struct {
	CharWidth float64
}

// Font represents a font used for measurement
type Font struct {
	Family     string
	Size       float64
	LineHeight float64
}

// NewTextShaper creates a new text shaper
func NewTextShaper() *TextShaper {
	return &TextShaper{CharWidth: DefaultCharWidth}
}

func (s *TextShaper) charWidth(font *Font) float64 {
	cw := s.CharWidth
	if cw <= 0 {
		cw = DefaultCharWidth
	}
	return font.Size * cw
}

func lineHeight(font *Font) float64 {
	lh := font.LineHeight
	if lh <= 0 {
		lh = DefaultLineHeight
	}
	return font.Size * lh
}

// MeasureText returns the width of the longest line and the height of all
// lines without wrapping.
func (s *TextShaper) MeasureText(text string, font *Font) (width, height float64) {
	if text == "" || font == nil || font.Size <= 0 {
		return 0, 0
	}
	charWidth := s.charWidth(font)

	maxWidth := 0.0
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		maxWidth = max(maxWidth, float64(utf8.RuneCountInString(line))*charWidth)
	}

	return maxWidth, float64(len(lines)) * lineHeight(font)
}

// WrappedHeight returns the height of text wrapped at maxWidth.
func (s *TextShaper) WrappedHeight(text string, font *Font, maxWidth float64) float64 {
	if font == nil || font.Size <= 0 {
		return 0
	}
	return float64(len(s.SplitTextToLines(text, font, maxWidth))) * lineHeight(font)
}

// SplitTextToLines splits text into lines so that no line is wider than
// maxWidth. Explicit newlines always break. Words longer than a line are
// broken between runes. A non-positive maxWidth disables wrapping.
func (s *TextShaper) SplitTextToLines(text string, font *Font, maxWidth float64) []string {
	if text == "" {
		return nil
	}

	paragraphs := strings.Split(text, "\n")
	if maxWidth <= 0 || font == nil || font.Size <= 0 {
		return paragraphs
	}

	charsPerLine := int(maxWidth/s.charWidth(font) + fitEpsilon)
	if charsPerLine <= 0 {
		charsPerLine = 1
	}

	var lines []string
	for _, paragraph := range paragraphs {
		lines = append(lines, wrapParagraph(paragraph, charsPerLine)...)
	}
	return lines
}

func wrapParagraph(paragraph string, charsPerLine int) []string {
	words := splitIntoWords(paragraph)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var currentLine []rune

	for _, word := range words {
		w := []rune(word)
		for len(w) > charsPerLine {
			if len(currentLine) > 0 {
				lines = append(lines, string(currentLine))
				currentLine = nil
			}
			lines = append(lines, string(w[:charsPerLine]))
			w = w[charsPerLine:]
		}
		if len(w) == 0 {
			continue
		}

		if len(currentLine) > 0 && len(currentLine)+1+len(w) > charsPerLine {
			lines = append(lines, string(currentLine))
			currentLine = nil
		}
		if len(currentLine) > 0 {
			currentLine = append(currentLine, ' ')
		}
		currentLine = append(currentLine, w...)
	}

	if len(currentLine) > 0 {
		lines = append(lines, string(currentLine))
	}

	return lines
}

// splitIntoWords splits text into words
func splitIntoWords(text string) []string {
	return strings.FieldsFunc(text, unicode.IsSpace)
}
