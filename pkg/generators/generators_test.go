package generators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/sprout/pkg/config"
)

func TestRegistry_Lookup(t *testing.T) {
	reg := NewRegistry(config.Default())

	gen, ok := reg.Lookup("image")
	assert.True(t, ok)
	assert.Equal(t, "image", gen.Noun())

	gen, ok = reg.Lookup("sqlite")
	assert.True(t, ok)
	assert.Equal(t, "database", gen.Noun())

	_, ok = reg.Lookup("hologram")
	assert.False(t, ok)
}

func TestRegistry_LookupIsCaseSensitive(t *testing.T) {
	reg := NewRegistry(config.Default())

	_, ok := reg.Lookup("Image")
	assert.False(t, ok)
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry(config.Default())

	assert.Equal(t, []string{"image", "sqlite"}, reg.Names())
}

func TestRegistry_Noun(t *testing.T) {
	reg := NewRegistry(config.Default())

	assert.Equal(t, "image", reg.Noun("image"))
	assert.Equal(t, "database", reg.Noun("sqlite"))
	assert.Equal(t, "file", reg.Noun("hologram"))
}
