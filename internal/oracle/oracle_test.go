package oracle_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/mindmap/internal/oracle"
)

func TestHeuristic(t *testing.T) {
	h := oracle.NewHeuristic()
	ctx := context.Background()

	tests := []struct {
		name       string
		parentWord string
		word       string
		want       bool
	}{
		{"plain word passes", "Ocean", "wave", true},
		{"two letters rejected", "Ocean", "ox", false},
		{"two letters after trim", "Ocean", "  ox  ", false},
		{"three letters pass", "Ocean", "fog", true},
		{"naive plural rejected", "Cloud", "clouds", false},
		{"naive plural case-insensitive", "Cloud", "CLOUDS", false},
		{"non-plural suffix passes", "Cloud", "cloudy", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := h.Related(ctx, tc.parentWord, tc.word, "General")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAllowAll(t *testing.T) {
	got, err := oracle.NewAllowAll().Related(context.Background(), "anything", "goes", "")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestRegistry(t *testing.T) {
	reg := oracle.NewRegistry()
	reg.Register(oracle.NewAllowAll())
	reg.Register(oracle.NewHeuristic())

	o, err := reg.Get("heuristic")
	require.NoError(t, err)
	assert.Equal(t, "heuristic", o.Name())

	_, err = reg.Get("embeddings")
	assert.Error(t, err)

	assert.ElementsMatch(t, []string{"allow_all", "heuristic"}, reg.Names())

	assert.Panics(t, func() { reg.Register(oracle.NewHeuristic()) },
		"duplicate registration must surface misconfiguration early")
}
