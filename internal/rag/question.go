package rag

import (
	"strings"
)

// promptBoilerplate is instruction text that clients sometimes paste in front
// of the actual question. It hurts retrieval and is removed.
var promptBoilerplate = []string{
	"You are a research assistant.",
	"Given the following extracted parts of a research paper,",
	"answer the question accurately and concisely.",
	"If the answer cannot be found in the text, say I don't know.",
}

var questionPrefixes = []string{
	"answer this question:",
	"question:",
	"please answer:",
}

// CleanQuestion strips prompt boilerplate and reduces "tell me about X" to X.
func CleanQuestion(question string) string {
	q := strings.TrimSpace(question)
	for _, phrase := range promptBoilerplate {
		q = strings.TrimSpace(strings.ReplaceAll(q, phrase, ""))
	}

	for _, prefix := range questionPrefixes {
		if len(q) >= len(prefix) && strings.EqualFold(q[:len(prefix)], prefix) {
			q = strings.TrimSpace(q[len(prefix):])
		}
	}

	const tellMeAbout = "tell me about"
	if idx := lastIndexFold(q, tellMeAbout); idx >= 0 {
		if topic := strings.TrimSpace(q[idx+len(tellMeAbout):]); topic != "" {
			q = topic
		}
	}

	if q == "" {
		return strings.TrimSpace(question)
	}
	return q
}

// lastIndexFold is strings.LastIndex with ASCII case folding.
func lastIndexFold(s, substr string) int {
	for i := len(s) - len(substr); i >= 0; i-- {
		if strings.EqualFold(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}
