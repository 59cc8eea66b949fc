package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dompetku/dompet/internal/model"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("DOMPET_TEST_DIR", "/var/data")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "tilde slash", input: "~/db/dompet.db", expected: filepath.Join(home, "db/dompet.db")},
		{name: "bare tilde", input: "~", expected: home},
		{name: "env var", input: "$DOMPET_TEST_DIR/dompet.db", expected: "/var/data/dompet.db"},
		{name: "plain path", input: "/tmp/dompet.db", expected: "/tmp/dompet.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandPath(tt.input))
		})
	}
}

func TestDatabasePathDefault(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, ".local/share/dompet/dompet.db"), DatabasePath())

	viper.Set("database.path", "/tmp/other.db")
	assert.Equal(t, "/tmp/other.db", DatabasePath())
}

func TestDisplayLanguage(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	assert.Equal(t, model.LangEN, DisplayLanguage())

	viper.Set("display.language", "id")
	assert.Equal(t, model.LangID, DisplayLanguage())

	viper.Set("display.language", "fr")
	assert.Equal(t, model.LangEN, DisplayLanguage())
}

func TestOwnerIDDefault(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	assert.Equal(t, "local", OwnerID())

	viper.Set("owner.id", "budi")
	assert.Equal(t, "budi", OwnerID())
}
