package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// Semi-structured material parsing. The patterns here are the other half of
// the prompt contract in prompt.go: Q<n>:/A<n>: pairs and "N. Front:/Back:"
// flashcards, case-insensitive, spanning newlines.
//
// RE2 has no lookahead, so instead of one mega-pattern the text is segmented
// at entry markers and each segment is split on its answer marker.

var (
	questionStartRe = regexp.MustCompile(`(?i)Q(\d+):`)
	answerSplitRe   = regexp.MustCompile(`(?is)^(.*?)\s*A(\d+):\s*(.*)$`)
	cardStartRe     = regexp.MustCompile(`(?i)(\d+)\.\s*Front:`)
	backSplitRe     = regexp.MustCompile(`(?is)^(.*?)\s*Back:\s*(.*)$`)
)

// Sentinel phrases the generator emits when a section could not be produced.
var unusableMarkers = []string{"could not be extracted", "see summary"}

// ParseQuestions extracts ordered Q/A records from text. It never fails;
// unparseable input yields an empty list. An answer is only accepted when
// its number matches the question's (Q2 pairs with A2, not A1).
func ParseQuestions(text string) []QuizQuestion {
	locs := questionStartRe.FindAllStringSubmatchIndex(text, -1)
	var questions []QuizQuestion
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		number := text[loc[2]:loc[3]]
		segment := text[loc[1]:end]

		m := answerSplitRe.FindStringSubmatch(segment)
		if m == nil || m[2] != number {
			continue
		}
		n, err := strconv.Atoi(number)
		if err != nil {
			continue
		}
		q := CollapseSpace(m[1])
		a := CollapseSpace(m[3])
		if q == "" || a == "" {
			continue
		}
		questions = append(questions, QuizQuestion{Number: n, Question: q, Answer: a})
	}
	return questions
}

// ParseFlashcards extracts ordered front/back records from text. It never
// fails; unparseable input yields an empty list.
func ParseFlashcards(text string) []Flashcard {
	locs := cardStartRe.FindAllStringSubmatchIndex(text, -1)
	var cards []Flashcard
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		number := text[loc[2]:loc[3]]
		segment := text[loc[1]:end]

		m := backSplitRe.FindStringSubmatch(segment)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(number)
		if err != nil {
			continue
		}
		front := CollapseSpace(m[1])
		back := CollapseSpace(m[2])
		if front == "" || back == "" {
			continue
		}
		cards = append(cards, Flashcard{Number: n, Front: front, Back: back})
	}
	return cards
}

// UsableSection reports whether a raw section is worth persisting: non-empty
// after trimming and free of the known extraction-failure sentinels.
func UsableSection(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, marker := range unusableMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}
