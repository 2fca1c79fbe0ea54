package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samforge/internal/config"
)

func TestNewEngine(t *testing.T) {
	t.Run("local is the default", func(t *testing.T) {
		engine, err := NewEngine(config.EmbeddingConfig{})
		require.NoError(t, err)
		assert.Equal(t, "local:hash", engine.Name())
		assert.Equal(t, defaultLocalDims, engine.Dimensions())
	})

	t.Run("ollama requires a model", func(t *testing.T) {
		_, err := NewEngine(config.EmbeddingConfig{Provider: "ollama"})
		assert.ErrorContains(t, err, "model is required")
	})

	t.Run("genai requires an api key", func(t *testing.T) {
		_, err := NewEngine(config.EmbeddingConfig{Provider: "genai"})
		assert.ErrorContains(t, err, "api key is required")
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewEngine(config.EmbeddingConfig{Provider: "cortex"})
		assert.ErrorContains(t, err, "unsupported embedding provider")
	})
}

func TestLocalEngine(t *testing.T) {
	e := NewLocalEngine(0)
	ctx := context.Background()

	t.Run("deterministic", func(t *testing.T) {
		a, err := e.Embed(ctx, "single issuer concentration breach")
		require.NoError(t, err)
		b, err := e.Embed(ctx, "single issuer concentration breach")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("unit length", func(t *testing.T) {
		vec, err := e.Embed(ctx, "quarterly portfolio review")
		require.NoError(t, err)
		sim, err := CosineSimilarity(vec, vec)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, sim, 1e-6)
	})

	t.Run("shared vocabulary scores higher", func(t *testing.T) {
		query, err := e.Embed(ctx, "esg controversy severity")
		require.NoError(t, err)
		near, err := e.Embed(ctx, "ngo report on esg controversy severity rating")
		require.NoError(t, err)
		far, err := e.Embed(ctx, "trading desk commission schedule")
		require.NoError(t, err)

		nearSim, err := CosineSimilarity(query, near)
		require.NoError(t, err)
		farSim, err := CosineSimilarity(query, far)
		require.NoError(t, err)
		assert.Greater(t, nearSim, farSim)
	})

	t.Run("empty text yields zero vector", func(t *testing.T) {
		vec, err := e.Embed(ctx, "")
		require.NoError(t, err)
		for _, v := range vec {
			assert.Zero(t, v)
		}
	})

	t.Run("batch matches single", func(t *testing.T) {
		texts := []string{"alpha", "beta"}
		batch, err := e.EmbedBatch(ctx, texts)
		require.NoError(t, err)
		require.Len(t, batch, 2)

		single, err := e.Embed(ctx, "alpha")
		require.NoError(t, err)
		assert.Equal(t, single, batch[0])
	})
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("orthogonal", func(t *testing.T) {
		sim, err := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
		require.NoError(t, err)
		assert.Zero(t, sim)
	})

	t.Run("opposite", func(t *testing.T) {
		sim, err := CosineSimilarity([]float32{1, 0}, []float32{-1, 0})
		require.NoError(t, err)
		assert.InDelta(t, -1.0, sim, 1e-6)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := CosineSimilarity([]float32{1}, []float32{1, 2})
		assert.ErrorContains(t, err, "same length")
	})

	t.Run("zero vector", func(t *testing.T) {
		sim, err := CosineSimilarity([]float32{0, 0}, []float32{1, 2})
		require.NoError(t, err)
		assert.Zero(t, sim)
	})
}

func TestFindTopK(t *testing.T) {
	query := []float32{1, 0}
	corpus := [][]float32{
		{0, 1},     // orthogonal
		{1, 0},     // identical
		{0.7, 0.7}, // diagonal
	}

	results, err := FindTopK(query, corpus, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Index)
	assert.Equal(t, 2, results[1].Index)

	t.Run("k larger than corpus", func(t *testing.T) {
		results, err := FindTopK(query, corpus, 10)
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("k must be positive", func(t *testing.T) {
		_, err := FindTopK(query, corpus, 0)
		assert.ErrorContains(t, err, "must be positive")
	})
}
