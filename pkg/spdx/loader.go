package spdx

import (
	"errors"
	"strings"

	"github.com/oss-clearing/licsum/internal/utils"
)

type loaderState int

const (
	// ready to parse a new tag/value pair
	stateReady loaderState = iota
	// in the middle of a multi-line <text> value
	stateMidText
)

// Pair is a single tag/value entry read from a report.
type Pair struct {
	Tag   string
	Value string
}

// Loader turns a stream of tag:value lines into an ordered list of pairs.
// It handles multi-line <text>...</text> values, skips blank lines and
// comments, and counts (but does not fail on) lines with no ':' separator.
type Loader struct {
	state    loaderState
	pairs    []Pair
	lineNum  int
	warnings int

	currentTag   string
	currentValue strings.Builder
}

func NewLoader() *Loader {
	return &Loader{}
}

// ParseLine consumes the next input line. Lines must be fed in order; the
// loader is a single forward pass and cannot be rewound.
func (l *Loader) ParseLine(line string) {
	l.lineNum++
	switch l.state {
	case stateMidText:
		l.parseMidText(line)
	default:
		l.parseReady(line)
	}
}

func (l *Loader) parseMidText(line string) {
	endLoc := strings.Index(line, "</text>")
	if endLoc == -1 {
		l.currentValue.WriteString(line)
		l.currentValue.WriteString("\n")
		return
	}
	l.currentValue.WriteString(line[:endLoc])
	l.pushPair()
	l.state = stateReady
}

func (l *Loader) parseReady(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	colonLoc := strings.Index(line, ":")
	if colonLoc == -1 {
		utils.Log.Warnf("skipping line %d: no ':' separator in %q", l.lineNum, line)
		l.warnings++
		return
	}

	l.currentTag = line[:colonLoc]
	remainder := strings.TrimSpace(line[colonLoc+1:])

	startLoc := strings.Index(remainder, "<text>")
	if startLoc == -1 {
		l.currentValue.WriteString(remainder)
		l.pushPair()
		return
	}

	remainder = remainder[startLoc+len("<text>"):]
	endLoc := strings.Index(remainder, "</text>")
	if endLoc == -1 {
		// open-ended <text>, value continues on following lines
		l.currentValue.WriteString(remainder)
		l.currentValue.WriteString("\n")
		l.state = stateMidText
		return
	}
	l.currentValue.WriteString(remainder[:endLoc])
	l.pushPair()
}

func (l *Loader) pushPair() {
	l.pairs = append(l.pairs, Pair{Tag: l.currentTag, Value: l.currentValue.String()})
	l.currentTag = ""
	l.currentValue.Reset()
}

// Warnings reports how many malformed lines were skipped so far.
func (l *Loader) Warnings() int {
	return l.warnings
}

// Finish returns the accumulated pairs. It fails if the input ended inside
// an unclosed <text> value.
func (l *Loader) Finish() ([]Pair, error) {
	if l.state == stateMidText {
		return nil, errors.New("input ended inside an unclosed <text> value")
	}
	return l.pairs, nil
}
