package vqa

import "strings"

// answerPrefixes are boilerplate lead-ins that chatty models prepend to
// otherwise short VQA answers.
var answerPrefixes = []string{
	"answer:",
	"the answer is",
}

// cleanAnswer strips generation artifacts from the model output: an echoed
// question, boilerplate answer prefixes, wrapping quotes and stray
// whitespace. Models tuned for dialog tend to decorate a one-word answer
// with all of these.
func cleanAnswer(raw, question string) string {
	answer := strings.TrimSpace(raw)

	// Some models echo the question before answering.
	if q := strings.TrimSpace(question); q != "" {
		if idx := strings.Index(strings.ToLower(answer), strings.ToLower(q)); idx == 0 {
			answer = strings.TrimSpace(answer[len(q):])
		}
	}

	lower := strings.ToLower(answer)
	for _, prefix := range answerPrefixes {
		if strings.HasPrefix(lower, prefix) {
			answer = strings.TrimSpace(answer[len(prefix):])
			lower = strings.ToLower(answer)
		}
	}

	// Remove wrapping double quotes if they are the only pair present.
	if len(answer) > 2 && strings.Count(answer, `"`) == 2 &&
		answer[0] == '"' && answer[len(answer)-1] == '"' {
		answer = answer[1 : len(answer)-1]
	}

	return strings.TrimSpace(strings.TrimSuffix(answer, "."))
}
