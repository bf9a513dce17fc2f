package migrate

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverUpMigrations_Order(t *testing.T) {
	fsys := fstest.MapFS{
		"0010_later_up.sql":    {Data: []byte("SELECT 1")},
		"0002_second_up.sql":   {Data: []byte("SELECT 1")},
		"0002_second_down.sql": {Data: []byte("SELECT 1")},
		"notes.txt":            {Data: []byte("x")},
		"abc_up.sql":           {Data: []byte("SELECT 1")},
	}
	files, err := discoverUpMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, int64(2), files[0].Version)
	assert.Equal(t, int64(10), files[1].Version)
}

func TestEmbeddedMigrations(t *testing.T) {
	fsys, err := Runner{}.fsys()
	require.NoError(t, err)
	files, err := discoverUpMigrations(fsys)
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, int64(1), files[0].Version)
}
