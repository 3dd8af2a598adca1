package index

import (
	"math"
	"regexp"
	"strconv"
)

const (
	headWeight  = 20
	titleWeight = 4
	textWeight  = 1.2
)

const (
	ZoneHeading   = "heading"
	ZoneTitle     = "title"
	ZoneParagraph = "paragraph"
	ZoneCell      = "cell"
)

// Weight turns the base weight of a token into the weight it carries inside
// a zone. level is the heading level of the match, or 0 for zones without one.
type Weight interface {
	Apply(base float64, level int) float64
}

// FixedWeight multiplies every token by the same factor.
type FixedWeight float64

func (w FixedWeight) Apply(base float64, _ int) float64 {
	return base * float64(w)
}

// HeadingWeight scales tokens by the distance of the heading level from
// Baseline, so h1 outweighs h2 and so on.
type HeadingWeight struct {
	Baseline float64
}

func (w HeadingWeight) Apply(base float64, level int) float64 {
	return base * math.Abs(w.Baseline-float64(level)) / 10
}

// Zone is a structural region of a page. Pattern must capture the inner
// markup in a group named "text" and may capture the heading level in a
// group named "level".
type Zone struct {
	Name    string
	Pattern *regexp.Regexp
	Weight  Weight
}

func DefaultZones() []Zone {
	return []Zone{
		{
			Name:    ZoneHeading,
			Pattern: regexp.MustCompile(`<h(?P<level>[1-9])(?:\s[^>]*)?>(?P<text>.*?)</h[1-9]\s*>`),
			Weight:  HeadingWeight{Baseline: headWeight},
		},
		{
			Name:    ZoneTitle,
			Pattern: regexp.MustCompile(`<title(?:\s[^>]*)?>(?P<text>.*?)</title\s*>`),
			Weight:  FixedWeight(titleWeight),
		},
		{
			Name:    ZoneParagraph,
			Pattern: regexp.MustCompile(`<p(?:\s[^>]*)?>(?P<text>.*?)</p\s*>`),
			Weight:  FixedWeight(textWeight),
		},
		{
			Name:    ZoneCell,
			Pattern: regexp.MustCompile(`<(?:th|td|li|dd|dt)(?:\s[^>]*)?>(?P<text>.*?)</(?:th|td|li|dd|dt)\s*>`),
			Weight:  FixedWeight(textWeight),
		},
	}
}

type Analyser struct {
	zones []Zone
}

func NewAnalyser(zones []Zone) *Analyser {
	return &Analyser{zones: zones}
}

// Analyse returns one group of weighted occurrences per zone, in zone order.
// Every match of a zone contributes on its own; merging repeated terms is
// left to the Index.
func (a *Analyser) Analyse(contents string, tokenizer *Tokenizer) [][]TokenOccurrence {
	groups := make([][]TokenOccurrence, 0, len(a.zones))
	for _, zone := range a.zones {
		groups = append(groups, findText(contents, zone, tokenizer))
	}

	return groups
}

func findText(contents string, zone Zone, tokenizer *Tokenizer) []TokenOccurrence {
	textGroup := zone.Pattern.SubexpIndex("text")
	levelGroup := zone.Pattern.SubexpIndex("level")

	var occurrences []TokenOccurrence
	for _, match := range zone.Pattern.FindAllStringSubmatch(contents, -1) {
		level := 0
		if levelGroup >= 0 {
			level, _ = strconv.Atoi(match[levelGroup])
		}

		for _, token := range tokenizer.Tokenize(RenderText(match[textGroup])) {
			occurrences = append(occurrences, TokenOccurrence{
				Term:   token.Term,
				Weight: zone.Weight.Apply(token.Weight, level),
			})
		}
	}

	return occurrences
}
