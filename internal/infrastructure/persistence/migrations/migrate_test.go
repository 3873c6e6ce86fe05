package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailable(t *testing.T) {
	migrations, err := Available()
	require.NoError(t, err)
	require.Len(t, migrations, 3)

	for i, mig := range migrations {
		assert.Equal(t, uint(i+1), mig.Version)
	}
	assert.Equal(t, "create_bookings_and_favorites", migrations[2].Name)
}

func TestEveryUpHasADown(t *testing.T) {
	entries, err := fs.ReadDir(sqlFiles, "sql")
	require.NoError(t, err)

	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name()] = true
	}
	for name := range names {
		if strings.HasSuffix(name, ".up.sql") {
			assert.True(t, names[strings.TrimSuffix(name, ".up.sql")+".down.sql"], name)
		}
	}
}

func TestParseName(t *testing.T) {
	mig, err := parseName("000010_add_index")
	require.NoError(t, err)
	assert.Equal(t, Migration{Version: 10, Name: "add_index"}, mig)

	_, err = parseName("noversion")
	assert.Error(t, err)
	_, err = parseName("abc_name")
	assert.Error(t, err)
}
