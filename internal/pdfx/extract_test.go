package pdfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractRejectsInvalidPDF(t *testing.T) {
	_, err := Extract([]byte("this is not a pdf at all"))
	assert.Error(t, err)
}

func TestExtractRejectsEmptyInput(t *testing.T) {
	_, err := Extract(nil)
	assert.Error(t, err)
}

func TestNormalizeCollapsesTripleNewlinesToDouble(t *testing.T) {
	out := normalize("one\n\n\n\n\ntwo")
	assert.Equal(t, "one\n\ntwo", out)
}

func TestNormalizePreservesTabsAndSingleNewlines(t *testing.T) {
	out := normalize("a\tb\nc")
	assert.Equal(t, "a\tb\nc", out)
}

func TestNormalizeReplacesControlCharsWithSpace(t *testing.T) {
	out := normalize("a\x01b\x1fc")
	assert.Equal(t, "a b c", out)
}

func TestCountNonWhitespaceIgnoresSpacesAndNewlines(t *testing.T) {
	assert.Equal(t, 5, countNonWhitespace("a b\nc\td e"))
}

func TestCountNonWhitespaceZeroForBlank(t *testing.T) {
	assert.Equal(t, 0, countNonWhitespace("   \n\t  "))
}
