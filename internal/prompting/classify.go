package prompting

import "strings"

// QuestionTag is the closed set of seven question-type tags used to
// select formatting instructions.
type QuestionTag string

const (
	TagList       QuestionTag = "list"
	TagDefinition QuestionTag = "definition"
	TagComparison QuestionTag = "comparison"
	TagHow        QuestionTag = "how"
	TagWhy        QuestionTag = "why"
	TagWhat       QuestionTag = "what"
	TagGeneral    QuestionTag = "general"
)

// Classify maps a raw query to one of seven tags by priority-ordered
// pattern matching (lowercased; diacritics are not stripped as none of
// the trigger phrases are ASCII-accented).
func Classify(question string) QuestionTag {
	q := strings.ToLower(strings.TrimSpace(question))

	switch {
	case containsAny(q, "what are", "list ", "name ", "enumerate"):
		return TagList
	case containsAny(q, "what is", "define", "explain what"):
		return TagDefinition
	case containsAny(q, "difference between", "compare", "contrast", " vs"):
		return TagComparison
	case strings.HasPrefix(q, "how"):
		return TagHow
	case strings.HasPrefix(q, "why"), containsAny(q, "what causes"):
		return TagWhy
	case strings.HasPrefix(q, "what"):
		return TagWhat
	default:
		return TagGeneral
	}
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
