package assistant

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var sentenceBreak = regexp.MustCompile(`[.!?]+`)

// Analysis is the text statistics report.
type Analysis struct {
	Words       int    `json:"words"`
	Characters  int    `json:"characters"`
	Sentences   int    `json:"sentences"`
	Sentiment   string `json:"sentiment"`
	ReadingMins int    `json:"reading_minutes"`
}

// Analyze computes word, character and sentence counts, a keyword sentiment
// and the reading time at 200 words a minute.
func Analyze(text string) Analysis {
	words := len(strings.Fields(text))

	sentences := 0
	for _, s := range sentenceBreak.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}

	return Analysis{
		Words:       words,
		Characters:  utf8.RuneCountInString(text),
		Sentences:   sentences,
		Sentiment:   sentiment(text),
		ReadingMins: (words + 199) / 200,
	}
}

func sentiment(text string) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "good"), strings.Contains(t, "happy"):
		return "Positive"
	case strings.Contains(t, "bad"), strings.Contains(t, "sad"):
		return "Negative"
	default:
		return "Neutral"
	}
}

// Analyzer replies with the analysis report.
type Analyzer struct{}

func (Analyzer) Reply(input string) string {
	a := Analyze(input)
	return fmt.Sprintf("Analysis Complete:\n• Words: %d\n• Characters: %d\n• Sentences: %d\n• Sentiment: %s\n• Reading Time: ~%d min",
		a.Words, a.Characters, a.Sentences, a.Sentiment, a.ReadingMins)
}
