package main

import (
	"bytes"
	gomath "math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scatterbrush/internal/brushes"
	"github.com/Faultbox/scatterbrush/internal/config"
	"github.com/Faultbox/scatterbrush/internal/host/headless"
	"github.com/Faultbox/scatterbrush/internal/keymap"
	"github.com/Faultbox/scatterbrush/internal/props"
)

func plain(buf *bytes.Buffer) *printer {
	return newPrinter(buf, termenv.WithProfile(termenv.Ascii))
}

func TestPrintTools(t *testing.T) {
	var buf bytes.Buffer
	plain(&buf).tools(brushes.NewRegistry().Infos(), keymap.Defaults())
	out := buf.String()

	assert.NotContains(t, out, "\x1b[")
	create := strings.Index(out, "CREATE")
	erase := strings.Index(out, "ERASE")
	require.GreaterOrEqual(t, create, 0)
	assert.Greater(t, erase, create)

	var dot string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "dot ") {
			dot = line
		}
	}
	require.NotEmpty(t, dot)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(dot), " D"), dot)
}

func TestPrintPresets(t *testing.T) {
	var buf bytes.Buffer
	plain(&buf).presets(props.Defaults())
	out := buf.String()

	assert.Contains(t, out, "dot\n")
	assert.Contains(t, out, "erase_radius")
	assert.Contains(t, out, "[0.001..]")
}

func TestFormatRange(t *testing.T) {
	lo, hi := props.Unbounded()
	tests := []struct {
		prop *props.Prop
		want string
	}{
		{&props.Prop{Kind: props.Float, Min: 0, Max: 1}, "[0..1]"},
		{&props.Prop{Kind: props.Float, Min: lo, Max: hi}, ""},
		{&props.Prop{Kind: props.Int, Min: lo, Max: 10}, "[..10]"},
		{&props.Prop{Kind: props.Enum, Items: []string{"A", "B"}}, "{A, B}"},
		{&props.Prop{Kind: props.Bool}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatRange(tt.prop))
	}
	assert.True(t, gomath.IsInf(lo, -1))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "0.25", formatValue(&props.Prop{Kind: props.Float, Float: 0.25}))
	assert.Equal(t, "3", formatValue(&props.Prop{Kind: props.Int, Int: 3}))
	assert.Equal(t, "true", formatValue(&props.Prop{Kind: props.Bool, Bool: true}))
	assert.Equal(t, "(1, 0, 0.5)", formatValue(&props.Prop{Kind: props.Vec3, Vec: [3]float64{1, 0, 0.5}}))
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	rep := &headless.Report{Points: 4, Undo: []string{"Dot"}, Results: []string{"RUNNING_MODAL", "FINISHED"}}
	require.NoError(t, plain(&buf).report("dot.yaml", rep))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "dot.yaml\n"))
	assert.Contains(t, out, "points: 4")
	assert.Contains(t, out, "- Dot")
	assert.Contains(t, out, "4 points, last result FINISHED")
}

func TestReplayExampleScript(t *testing.T) {
	s, err := headless.LoadScript(filepath.Join("testdata", "spray.yaml"))
	require.NoError(t, err)
	rep, err := headless.Replay(s, brushes.NewRegistry(), config.Default())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, plain(&buf).report("spray.yaml", rep))
	assert.Contains(t, buf.String(), "5 points")
}
