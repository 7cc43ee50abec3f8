package assistant

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Question is a trivia card.
type Question struct {
	Q string
	A string
}

var Questions = []Question{
	{Q: "What is the capital of France?", A: "Paris"},
	{Q: "Who painted the Mona Lisa?", A: "Leonardo da Vinci"},
	{Q: "What is the largest planet?", A: "Jupiter"},
	{Q: "What year did WW2 end?", A: "1945"},
	{Q: "What is the speed of light?", A: "299,792,458 meters per second"},
}

// Trivia asks questions and accepts any answer that mentions the first word
// of a known answer.
type Trivia struct {
	rng *rand.Rand
}

func NewTrivia(rng *rand.Rand) *Trivia { return &Trivia{rng: rng} }

func (t *Trivia) Reply(input string) string {
	in := strings.ToLower(input)
	next := Questions[t.rng.IntN(len(Questions))]

	if strings.Contains(in, "question") || strings.Contains(in, "trivia") {
		return fmt.Sprintf("Here's a trivia question: %s\n\nThink you know the answer? Type it in!", next.Q)
	}
	for _, q := range Questions {
		key := strings.ToLower(strings.Fields(q.A)[0])
		if strings.Contains(in, key) {
			return fmt.Sprintf("Correct! The answer to %q is indeed %s. Want another question?", q.Q, q.A)
		}
	}
	return fmt.Sprintf("Interesting guess! Here's a new question: %s", next.Q)
}
