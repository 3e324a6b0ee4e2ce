package dsl

import (
	"testing"

	"github.com/aretw0/stepform/pkg/domain"
	"github.com/aretw0/stepform/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_SimpleForm(t *testing.T) {
	form, err := New("contact").
		Title("Contact").
		Step("Who").
		Field("name").Label("Name").Required().
		Field("email").Label("Email").Kind(domain.KindEmail).Required().Email().
		Message(schema.RulePattern, "Invalid email address").
		Step("Where").
		Field("zip").Label("Zip").Required().Digits(5).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "contact", form.ID)
	assert.Equal(t, "Contact", form.Title)
	require.Len(t, form.Steps, 3)
	assert.Equal(t, []string{"name", "email"}, form.Steps[0].Fields)
	assert.Equal(t, []string{"zip"}, form.Steps[1].Fields)
	assert.Equal(t, DefaultReviewTitle, form.Steps[2].Title)
	assert.Equal(t, 3, form.Steps[2].Index)
	assert.True(t, form.Steps[2].IsReview())

	email, ok := form.Field("email")
	require.True(t, ok)
	assert.Equal(t, schema.EmailPattern, email.Pattern)
	assert.Equal(t, "Invalid email address", email.Messages[schema.RulePattern])

	zip, _ := form.Field("zip")
	assert.Equal(t, 5, zip.MinLength)
	assert.Equal(t, schema.DigitsPattern, zip.Pattern)
}

func TestBuilder_ReviewTitle(t *testing.T) {
	form := New("f").
		Step("One").Field("a").
		Review("Confirm").
		MustBuild()
	assert.Equal(t, "Confirm", form.Steps[1].Title)
}

func TestBuilder_InvalidForm(t *testing.T) {
	_, err := New("broken").
		Step("Account").
		Field("confirm").Equals("password").
		Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `equals references unknown field "password"`)

	assert.Panics(t, func() {
		New("empty").MustBuild()
	})
}

func TestBuilder_SecretAndKind(t *testing.T) {
	form := New("f").
		Step("One").
		Field("pin").Secret().MinLength(4).
		Field("bio").Kind(domain.KindTextarea).
		MustBuild()

	pin, _ := form.Field("pin")
	assert.True(t, pin.IsSecret())
	bio, _ := form.Field("bio")
	assert.Equal(t, domain.KindTextarea, bio.InputKind())
}
