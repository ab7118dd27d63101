package migrate

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alarion239/studentrecords/migrations"
)

func TestLoadEmbeddedMigrations(t *testing.T) {
	loaded, err := Load(migrations.FS)
	require.NoError(t, err)
	require.Len(t, loaded, 3)

	for i, m := range loaded {
		assert.Equal(t, i, m.Version)
		assert.NotEmpty(t, m.UpSQL)
		assert.NotEmpty(t, m.DownSQL)
	}
	assert.Contains(t, loaded[1].UpSQL, "CREATE TABLE students")
	assert.Contains(t, loaded[2].UpSQL, "users_email_key")
}

func TestLoadRejectsGap(t *testing.T) {
	fsys := fstest.MapFS{
		"000000_init.up.sql":  {Data: []byte("CREATE TABLE migrations (version INT)")},
		"000002_later.up.sql": {Data: []byte("SELECT 1")},
	}

	_, err := Load(fsys)
	assert.ErrorContains(t, err, "migration 1 is missing")
}

func TestLoadRejectsMissingUp(t *testing.T) {
	fsys := fstest.MapFS{
		"000000_init.up.sql":   {Data: []byte("CREATE TABLE migrations (version INT)")},
		"000001_next.down.sql": {Data: []byte("DROP TABLE x")},
	}

	_, err := Load(fsys)
	assert.ErrorContains(t, err, "missing up.sql")
}

func TestLoadIgnoresUnrelatedFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"000000_init.up.sql": {Data: []byte("CREATE TABLE migrations (version INT)")},
		"README.md":          {Data: []byte("docs")},
		"00x_bad.up.sql":     {Data: []byte("SELECT 1")},
	}

	loaded, err := Load(fsys)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestLoadEmpty(t *testing.T) {
	_, err := Load(fstest.MapFS{})
	assert.Error(t, err)
}

func TestStatements(t *testing.T) {
	stmts := Statements("CREATE TABLE a (id INT);\n\n CREATE INDEX b ON a (id) ;\n")
	assert.Equal(t, []string{"CREATE TABLE a (id INT)", "CREATE INDEX b ON a (id)"}, stmts)
}
