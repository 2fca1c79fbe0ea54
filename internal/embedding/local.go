package embedding

import (
	"context"
	"crypto/md5"
	"encoding/binary"
	"math"
	"strings"
)

const defaultLocalDims = 256

// LocalEngine produces deterministic embeddings without any external
// service. Each token hashes into a fixed set of dimensions, so texts
// sharing vocabulary land near each other. Good enough for offline demo
// builds and tests; swap in ollama or genai for real semantic quality.
type LocalEngine struct {
	dims int
}

// NewLocalEngine creates a local hash-based engine. A non-positive dims
// uses the default.
func NewLocalEngine(dims int) *LocalEngine {
	if dims <= 0 {
		dims = defaultLocalDims
	}
	return &LocalEngine{dims: dims}
}

// Embed generates a deterministic embedding for a single text.
func (e *LocalEngine) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float64, e.dims)

	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,;:!?()[]\"'")
		if token == "" {
			continue
		}
		sum := md5.Sum([]byte(token))
		// Each token contributes to four dimensions with a signed weight.
		for i := 0; i < 4; i++ {
			h := binary.BigEndian.Uint32(sum[i*4 : i*4+4])
			idx := int(h % uint32(e.dims))
			weight := 1.0
			if h&0x80000000 != 0 {
				weight = -1.0
			}
			vec[idx] += weight
		}
	}

	var magnitude float64
	for _, v := range vec {
		magnitude += v * v
	}
	magnitude = math.Sqrt(magnitude)

	out := make([]float32, e.dims)
	if magnitude > 0 {
		for i, v := range vec {
			out[i] = float32(v / magnitude)
		}
	}
	return out, nil
}

// EmbedBatch generates embeddings for multiple texts.
func (e *LocalEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		results[i] = vec
	}
	return results, nil
}

// Dimensions returns the embedding dimensionality.
func (e *LocalEngine) Dimensions() int { return e.dims }

// Name returns the engine name.
func (e *LocalEngine) Name() string { return "local:hash" }
