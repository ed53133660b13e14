package prompting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPriorityOrder(t *testing.T) {
	cases := []struct {
		question string
		want     QuestionTag
	}{
		{"What are the main causes of inflation?", TagList},
		{"List the steps of mitosis.", TagList},
		{"What is photosynthesis?", TagDefinition},
		{"Define entropy.", TagDefinition},
		{"What is the difference between TCP and UDP?", TagDefinition}, // "what is" outranks "difference between"
		{"Compare supervised and unsupervised learning.", TagComparison},
		{"How does a binary search tree work?", TagHow},
		{"Why does ice float on water?", TagWhy},
		{"What causes seasons on Earth?", TagWhy},
		{"What happened during the French Revolution?", TagWhat},
		{"Summarize chapter three.", TagGeneral},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.question), "question: %s", c.question)
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, TagDefinition, Classify("WHAT IS gravity?"))
}

func TestClassifyTrimsWhitespace(t *testing.T) {
	assert.Equal(t, TagHow, Classify("   how does a transformer attend to tokens?  "))
}

func TestClassifyListBeatsDefinitionWhenBothMatch(t *testing.T) {
	// "what are" must win over "what is" style detection priority.
	assert.Equal(t, TagList, Classify("What are the definitions of these terms?"))
}
