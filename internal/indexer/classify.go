package indexer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	mathPattern      = regexp.MustCompile(`[∫∑∂αβγδε]|\$.*?\$|\\[a-zA-Z]+`)
	figureRefPattern = regexp.MustCompile(`(?i)Figure \d+|Fig\. \d+|Table \d+`)
)

type sectionRule struct {
	keywords []string
	section  SectionType
}

// sectionRules are evaluated in order; the first rule with a matching keyword wins.
var sectionRules = []sectionRule{
	{keywords: []string{"abstract", "summary"}, section: SectionAbstract},
	{keywords: []string{"introduction", "background"}, section: SectionIntroduction},
	{keywords: []string{"method", "approach", "algorithm"}, section: SectionMethodology},
	{keywords: []string{"result", "experiment", "evaluation"}, section: SectionResults},
	{keywords: []string{"conclusion", "future work"}, section: SectionConclusion},
	{keywords: []string{"related work", "literature review"}, section: SectionRelatedWork},
}

// Classification holds the content signals derived from a chunk's text.
type Classification struct {
	WordCount    int
	CharCount    int
	HasMath      bool
	HasFigureRef bool
	Section      SectionType
}

// Classify computes counts, content flags and the section type of text.
func Classify(text string) Classification {
	return Classification{
		WordCount:    len(strings.Fields(text)),
		CharCount:    utf8.RuneCountInString(text),
		HasMath:      mathPattern.MatchString(text),
		HasFigureRef: figureRefPattern.MatchString(text),
		Section:      ClassifySection(text),
	}
}

// ClassifySection returns the section type of text by case-insensitive keyword lookup.
func ClassifySection(text string) SectionType {
	lower := strings.ToLower(text)
	for _, rule := range sectionRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.section
			}
		}
	}
	return SectionContent
}
