package ai

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
)

// FakeProvider is a deterministic Embedder/Completer double: embeddings
// are a hash-seeded fixed-dimension vector, completions are templated
// from the prompt. It backs tests and local runs with no network
// dependency, the same role other_examples' fake providers play for
// their own vector-store tests.
type FakeProvider struct {
	dim int
}

func NewFakeProvider(dim int) *FakeProvider {
	if dim <= 0 {
		dim = 16
	}
	return &FakeProvider{dim: dim}
}

func (f *FakeProvider) Dimensions() int { return f.dim }

func (f *FakeProvider) Embed(_ context.Context, text string) ([]float32, error) {
	return f.vector(text), nil
}

func (f *FakeProvider) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.vector(t)
	}
	return out, nil
}

// vector derives a unit-ish pseudo-embedding from word hashes so that
// semantically overlapping text (shared words) yields higher cosine
// similarity than unrelated text, without any real model.
func (f *FakeProvider) vector(text string) []float32 {
	vec := make([]float32, f.dim)
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		words = []string{""}
	}
	for _, w := range words {
		h := fnv.New32a()
		h.Write([]byte(w))
		idx := int(h.Sum32()) % f.dim
		if idx < 0 {
			idx += f.dim
		}
		vec[idx] += 1
	}
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		inv := float32(1.0) / sqrt32(norm)
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec
}

func sqrt32(x float32) float32 {
	// Newton's method, a couple of iterations suffice for this use.
	if x == 0 {
		return 0
	}
	z := x
	for i := 0; i < 8; i++ {
		z -= (z*z - x) / (2 * z)
	}
	return z
}

func (f *FakeProvider) Complete(_ context.Context, prompt string) (string, error) {
	return fmt.Sprintf("This is a templated response based on the supplied context for: %s", firstLine(prompt)), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	if len(s) > 120 {
		return s[:120]
	}
	return s
}
