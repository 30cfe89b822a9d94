package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/spreadstarts/internal/game/core"
	"github.com/mitchelldurbincs/spreadstarts/internal/snapshot"
)

const lineSnapshot = `{
  "game_id": "line",
  "participants": [
    {"id": 1, "human": true, "position": 0},
    {"id": 2, "human": true, "position": 1},
    {"id": 3, "position": 2},
    {"id": 4, "position": 3}
  ],
  "positions": [
    {"id": 0, "x": 0, "y": 0},
    {"id": 1, "x": 1, "y": 0},
    {"id": 2, "x": 5, "y": 0},
    {"id": 3, "x": 9, "y": 0}
  ]
}`

func TestRunSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "line.json")
	require.NoError(t, os.WriteFile(path, []byte(lineSnapshot), 0644))

	var out bytes.Buffer
	require.NoError(t, run([]string{"-snapshot", path}, &out))

	assert.Contains(t, out.String(), "(line): applied")
	assert.Contains(t, out.String(), "min distance 9")
	assert.Contains(t, out.String(), "1st swap applied: #2 1->3 (displaces #4)")
	assert.NotContains(t, out.String(), "Before:")
}

func TestRunGeneratedDryRun(t *testing.T) {
	emit := filepath.Join(t.TempDir(), "demo.json")

	var out bytes.Buffer
	require.NoError(t, run([]string{"-seed", "7", "-players", "6", "-humans", "3", "-dry-run", "-emit", emit}, &out))

	assert.Contains(t, out.String(), "Before:")
	assert.NotContains(t, out.String(), "After:")
	assert.Contains(t, out.String(), "(demo-7)")
	assert.Contains(t, out.String(), "6 participants, 3 human, 3 AI")

	data, err := os.ReadFile(emit)
	require.NoError(t, err)
	snap, err := snapshot.Parse(data)
	require.NoError(t, err)
	assert.Len(t, snap.Roster, 6)
	assert.Len(t, snap.Roster.Humans(), 3)
}

func TestRunSkipped(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-seed", "3", "-players", "4", "-humans", "1"}, &out))
	assert.Contains(t, out.String(), "skipped_too_few_humans")
}

func TestRunRejectsEmitWithSnapshot(t *testing.T) {
	err := run([]string{"-snapshot", "x.json", "-emit", "y.json"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "-emit only applies to generated maps")
}

func TestRunRejectsBadCounts(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"negative humans", []string{"-humans", "-1"}, "-humans must not be negative"},
		{"negative players", []string{"-players", "-2", "-humans", "0"}, "-players must be at least 1"},
		{"zero players", []string{"-players", "0", "-humans", "0"}, "-players must be at least 1"},
		{"more humans than players", []string{"-players", "3", "-humans", "4"}, "exceeds -players 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args, &bytes.Buffer{})
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLabeller(t *testing.T) {
	roster := core.Roster{
		{ID: 1, Human: true, Position: 0},
		{ID: 11, Position: 1},
	}
	label := labeller(roster)
	assert.Equal(t, byte('1'), label(1))
	assert.Equal(t, byte('b'), label(11))

	roster[1].Human = true
	assert.Equal(t, byte('B'), label(11))
}
