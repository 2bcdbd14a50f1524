package indexer

import "testing"

func TestClassifySection(t *testing.T) {
	tests := []struct {
		name string
		text string
		want SectionType
	}{
		{name: "abstract", text: "Abstract: we study sparse attention.", want: SectionAbstract},
		{name: "summary maps to abstract", text: "In summary, the model is small.", want: SectionAbstract},
		{name: "introduction", text: "1 Introduction. Transformers dominate NLP.", want: SectionIntroduction},
		{name: "background", text: "Some background on kernels.", want: SectionIntroduction},
		{name: "methodology", text: "Our method uses gradient clipping.", want: SectionMethodology},
		{name: "algorithm", text: "Algorithm 1 lists the steps.", want: SectionMethodology},
		{name: "results", text: "The results show a 3% gain.", want: SectionResults},
		{name: "evaluation", text: "We run an evaluation on GLUE.", want: SectionResults},
		{name: "conclusion", text: "In conclusion the idea works.", want: SectionConclusion},
		{name: "future work", text: "Future work will scale it up.", want: SectionConclusion},
		{name: "related work", text: "Related work includes BERT.", want: SectionRelatedWork},
		{name: "literature review", text: "A literature review follows.", want: SectionRelatedWork},
		{name: "content", text: "The weather was pleasant.", want: SectionContent},
		{name: "case insensitive", text: "RESULTS ON IMAGENET", want: SectionResults},
		{name: "introduction precedes method", text: "This introduction explains our method.", want: SectionIntroduction},
		{name: "method precedes result", text: "The method produced a strong result.", want: SectionMethodology},
		{name: "summary precedes result", text: "A summary of the results.", want: SectionAbstract},
		{name: "results precede related work", text: "Results compared to related work.", want: SectionResults},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifySection(tt.text); got != tt.want {
				t.Errorf("ClassifySection(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantMath  bool
		wantFig   bool
		wantWords int
		wantChars int
	}{
		{name: "plain", text: "no signals here", wantWords: 3, wantChars: 15},
		{name: "greek glyph", text: "learning rate α decays", wantMath: true, wantWords: 4, wantChars: 22},
		{name: "summation glyph", text: "∑ over i", wantMath: true, wantWords: 3, wantChars: 8},
		{name: "inline dollars", text: "loss $L = x^2$ here", wantMath: true, wantWords: 5, wantChars: 19},
		{name: "latex command", text: `uses \frac{a}{b}`, wantMath: true, wantWords: 2, wantChars: 16},
		{name: "figure ref", text: "see Figure 3 for details", wantFig: true, wantWords: 5, wantChars: 24},
		{name: "abbreviated figure ref", text: "as in fig. 12", wantFig: true, wantWords: 4, wantChars: 13},
		{name: "table ref", text: "Table 1 lists scores", wantFig: true, wantWords: 4, wantChars: 20},
		{name: "figure without number", text: "the figure shows", wantWords: 3, wantChars: 16},
		{name: "both", text: "Table 2 reports β values", wantMath: true, wantFig: true, wantWords: 5, wantChars: 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			if got.HasMath != tt.wantMath {
				t.Errorf("HasMath = %v, want %v", got.HasMath, tt.wantMath)
			}
			if got.HasFigureRef != tt.wantFig {
				t.Errorf("HasFigureRef = %v, want %v", got.HasFigureRef, tt.wantFig)
			}
			if got.WordCount != tt.wantWords {
				t.Errorf("WordCount = %d, want %d", got.WordCount, tt.wantWords)
			}
			if got.CharCount != tt.wantChars {
				t.Errorf("CharCount = %d, want %d", got.CharCount, tt.wantChars)
			}
		})
	}
}

func TestSectionType_Title(t *testing.T) {
	tests := map[SectionType]string{
		SectionAbstract:    "Abstract",
		SectionRelatedWork: "Related Work",
		SectionContent:     "Content",
	}
	for section, want := range tests {
		if got := section.Title(); got != want {
			t.Errorf("%q.Title() = %q, want %q", section, got, want)
		}
	}
}
