package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadup/squadup/internal/roster"
	"github.com/squadup/squadup/internal/store/filestore"
	"github.com/squadup/squadup/internal/team"
)

func TestLoad_MissingFilesYieldEmptyState(t *testing.T) {
	t.Parallel()

	s, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	players, teams, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, players)
	assert.Empty(t, teams)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := filestore.New(dir)
	require.NoError(t, err)

	players := []roster.Player{
		{ID: "P1", Class: "武当", Selected: true},
		{ID: "P2", Class: "峨眉"},
	}
	teams := []team.Team{{Captain: "P1", Members: []string{"P1", "P2"}}}

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, players, teams))

	// Both files land on disk under their fixed names.
	_, err = os.Stat(filepath.Join(dir, "players.csv"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "teams.json"))
	require.NoError(t, err)

	gotPlayers, gotTeams, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, players, gotPlayers)
	assert.Equal(t, teams, gotTeams)
}

func TestSave_OverwritesPreviousSnapshot(t *testing.T) {
	t.Parallel()

	s, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, []roster.Player{{ID: "P1", Class: "武当"}}, nil))
	require.NoError(t, s.Save(ctx, []roster.Player{{ID: "P2", Class: "峨眉"}}, nil))

	players, teams, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "P2", players[0].ID)
	assert.Empty(t, teams)
}

func TestNew_CreatesDataDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := filestore.New(dir)
	require.NoError(t, err)

	assert.NoError(t, s.Ping(context.Background()))
}

func TestPing_MissingDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := filestore.New(dir)
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(dir))
	assert.Error(t, s.Ping(context.Background()))
}
