package prompting

import (
	"fmt"
	"strings"

	"study-material-platform/models"
)

var formatInstructions = map[QuestionTag]string{
	TagList:       "Answer with a bulleted list of the relevant items, one per line.",
	TagDefinition: "Give a concise one-sentence definition first, then elaborate with supporting detail.",
	TagComparison: "Present the comparison as paired points, contrasting each side directly.",
	TagHow:        "Answer as an ordered sequence of steps.",
	TagWhy:        "Answer by tracing the causal chain from cause to effect.",
	TagWhat:       "Give a brief answer first, then a more detailed explanation.",
	TagGeneral:    "Give a brief answer first, then a more detailed explanation.",
}

// BuildPrompt assembles the four-section prompt: role, type-specific
// formatting instructions, the retrieved context (each chunk prefixed
// with a source marker), and the question.
func BuildPrompt(tag QuestionTag, chunks []models.RetrievedChunk, question string) string {
	var b strings.Builder

	b.WriteString("You are an assistant that answers strictly from the supplied context. ")
	b.WriteString("If the context does not contain the answer, say so plainly.\n\n")

	b.WriteString(formatInstructions[tag])
	b.WriteString("\n\n")

	for i, c := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(fmt.Sprintf("[Source: %s, p. %d]\n%s", c.Metadata.Filename, c.Metadata.PageNumber, c.Text))
	}
	b.WriteString("\n\n")

	b.WriteString(question)
	return b.String()
}

// BuildFallbackPrompt asks the completer to answer from general
// knowledge while opening with an explicit out-of-document declaration.
func BuildFallbackPrompt(question string) string {
	return fmt.Sprintf(
		"The uploaded materials do not contain information to answer this question. "+
			"Open your response with one sentence explicitly stating that the information "+
			"is not in the uploaded materials, then answer from general knowledge.\n\n"+
			"Question: %s", question)
}

var boilerplatePrefixes = []string{
	"based on the provided context,",
	"based on the context,",
	"according to the context,",
	"according to the provided context,",
	"i'm sorry, but",
	"i apologize, but",
}

// PostProcess strips leading boilerplate, removes stray literal `**`
// while preserving real Markdown headings/lists, collapses runs of 3+
// newlines to exactly two, and capitalizes the first character.
func PostProcess(answer string) string {
	text := strings.TrimSpace(answer)

	lower := strings.ToLower(text)
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(lower, prefix) {
			text = strings.TrimSpace(text[len(prefix):])
			lower = strings.ToLower(text)
		}
	}

	text = stripStrayAsterisks(text)

	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}

	text = capitalizeFirst(text)
	return text
}

// stripStrayAsterisks removes empty emphasis markers ("****") and, when
// an odd number of "**" remain, the last one, leaving paired bold text
// and list markers ("* item") untouched.
func stripStrayAsterisks(text string) string {
	for {
		idx := strings.Index(text, "****")
		if idx < 0 {
			break
		}
		text = text[:idx] + text[idx+4:]
	}
	if strings.Count(text, "**")%2 == 1 {
		idx := strings.LastIndex(text, "**")
		text = text[:idx] + text[idx+2:]
	}
	return text
}

func capitalizeFirst(text string) string {
	if text == "" {
		return text
	}
	r := []rune(text)
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}

var fallbackPhrases = []string{
	"not available in the provided",
	"does not contain",
	"no information about",
	"not mentioned in",
	"not found in",
	"i'm sorry",
}

// FromDocument computes the from_document boolean: false if either the
// pre-signal (weak/empty retrieval) or the post-signal (a disclaiming
// phrase in the answer) fires.
func FromDocument(chunks []models.RetrievedChunk, answer string, similarityThreshold float64) bool {
	if len(chunks) == 0 {
		return false
	}
	allWeak := true
	for _, c := range chunks {
		if c.Similarity >= similarityThreshold {
			allWeak = false
			break
		}
	}
	if allWeak {
		return false
	}

	lower := strings.ToLower(answer)
	for _, phrase := range fallbackPhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	return true
}
