package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	c := Catalog()
	assert.Equal(t, []string{"contact", "signup"}, c.Names())

	for _, name := range c.Names() {
		form, err := c.Get(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, form.ID)
	}
}

func TestContact_Shape(t *testing.T) {
	form := Contact()
	require.NoError(t, form.Validate())
	require.Len(t, form.Steps, 2)
	assert.Equal(t, 2, form.ReviewStep())

	topic, ok := form.Field(FieldTopic)
	require.True(t, ok)
	assert.False(t, topic.Required)
}
