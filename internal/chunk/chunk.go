// Package chunk implements the hybrid page-then-sentence chunking
// strategy: pages are processed in order, each split by a sentence-aware
// splitter, with page and document-wide chunk_index provenance attached.
package chunk

import (
	"regexp"
	"strings"

	"study-material-platform/models"

	"github.com/google/uuid"
)

var (
	paragraphRegex = regexp.MustCompile(`\n\n+`)
	sentenceRegex  = regexp.MustCompile(`[.!?]+\s+`)
)

// Config mirrors the CHUNK_SIZE / CHUNK_OVERLAP / MIN_CHUNK_CHARS
// configuration knobs.
type Config struct {
	TargetSize int
	Overlap    int
	MinChars   int
}

// Page is one page's normalized text as produced by pdfx.Extract, tagged
// with the filename it came from (ingestion may concatenate several
// files into one document).
type Page struct {
	Number   int
	Filename string
	Text     string
}

// Chunks splits pages into an ordered, non-empty list of chunks with
// document-wide chunk_index and originating page_number/filename.
func Chunks(pages []Page, cfg Config) []models.Chunk {
	var out []models.Chunk
	chunkIndex := 0

	for _, page := range pages {
		trimmed := strings.TrimSpace(page.Text)
		if trimmed == "" {
			continue
		}

		var pieces []string
		if len(trimmed) <= cfg.TargetSize {
			pieces = []string{trimmed}
		} else {
			pieces = splitPage(trimmed, cfg)
		}

		for _, piece := range pieces {
			text := strings.TrimSpace(piece)
			if countNonWhitespace(text) == 0 {
				continue
			}
			out = append(out, models.Chunk{
				ChunkID: uuid.NewString(),
				Text:    text,
				Metadata: models.ChunkMetadata{
					Filename:   page.Filename,
					PageNumber: page.Number,
					ChunkIndex: chunkIndex,
				},
			})
			chunkIndex++
		}
	}

	return mergeUndersizedTrailers(out, cfg.MinChars)
}

// splitPage accumulates sentences into target-sized chunks with a
// sentence-boundary-aware overlap carried into the next chunk, hard
// splitting any sentence that alone exceeds the target.
func splitPage(text string, cfg Config) []string {
	sentences := splitSentences(text, cfg.TargetSize)

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		chunks = append(chunks, current.String())
		current.Reset()
	}

	for _, s := range sentences {
		if current.Len() > 0 && current.Len()+len(s) > cfg.TargetSize {
			flush()
			if cfg.Overlap > 0 && len(chunks) > 0 {
				overlap := overlapTail(chunks[len(chunks)-1], cfg.Overlap)
				current.WriteString(overlap)
			}
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(s)
	}
	flush()

	return chunks
}

// splitSentences breaks text on sentence boundaries, then paragraph
// boundaries within long sentences, hard-splitting anything that alone
// still exceeds target at the closest preferred separator: "\n\n" >
// "\n" > ". " > " ".
func splitSentences(text string, target int) []string {
	var sentences []string
	for _, para := range paragraphRegex.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		for _, s := range sentenceRegex.Split(para, -1) {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			if len(s) <= target {
				sentences = append(sentences, s)
				continue
			}
			sentences = append(sentences, hardSplit(s, target)...)
		}
	}
	return sentences
}

// hardSplit breaks an oversized sentence at the separator boundary
// closest to the target size, preferring "\n" then " ".
func hardSplit(s string, target int) []string {
	var out []string
	for len(s) > target {
		cut := lastSeparatorBefore(s, target, "\n")
		if cut <= 0 {
			cut = lastSeparatorBefore(s, target, " ")
		}
		if cut <= 0 {
			cut = target
		}
		out = append(out, strings.TrimSpace(s[:cut]))
		s = strings.TrimSpace(s[cut:])
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}

func lastSeparatorBefore(s string, limit int, sep string) int {
	if limit > len(s) {
		limit = len(s)
	}
	idx := strings.LastIndex(s[:limit], sep)
	if idx <= 0 {
		return -1
	}
	return idx + len(sep)
}

// overlapTail returns up to overlapSize trailing characters of text,
// preferring to start at a sentence boundary so the carried-over text
// reads naturally.
func overlapTail(text string, overlapSize int) string {
	if len(text) <= overlapSize {
		return text
	}
	tail := text[len(text)-overlapSize:]
	if idx := sentenceRegex.FindStringIndex(tail); idx != nil {
		return strings.TrimSpace(tail[idx[1]:])
	}
	return strings.TrimSpace(tail)
}

// mergeUndersizedTrailers folds any chunk after the first whose whole
// text, carried-over overlap included, has fewer than MinChars
// non-whitespace characters back into its predecessor (keeping the
// predecessor's metadata, even across a page boundary), and renumbers
// ChunkIndex of the chunks that remain.
func mergeUndersizedTrailers(chunks []models.Chunk, minChars int) []models.Chunk {
	if len(chunks) < 2 {
		return chunks
	}
	out := make([]models.Chunk, 0, len(chunks))
	out = append(out, chunks[0])

	for i := 1; i < len(chunks); i++ {
		c := chunks[i]
		if countNonWhitespace(c.Text) < minChars {
			prev := &out[len(out)-1]
			prev.Text = prev.Text + " " + c.Text
			continue
		}
		c.Metadata.ChunkIndex = len(out)
		out = append(out, c)
	}
	return out
}

func countNonWhitespace(s string) int {
	n := 0
	for _, r := range s {
		if !strings.ContainsRune(" \t\n\r", r) {
			n++
		}
	}
	return n
}
