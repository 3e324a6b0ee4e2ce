package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/stepform/internal/runtime"
	"github.com/aretw0/stepform/internal/testutils"
	"github.com/aretw0/stepform/pkg/domain"
	"github.com/aretw0/stepform/pkg/forms"
	"github.com/aretw0/stepform/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newEngine(t *testing.T, opts ...runtime.EngineOption) *runtime.Engine {
	t.Helper()
	opts = append([]runtime.EngineOption{
		runtime.WithClock(func() time.Time { return fixedNow }),
		runtime.WithIDGenerator(func() string { return "sub-1" }),
	}, opts...)
	e, err := runtime.NewEngine(forms.Signup(), opts...)
	require.NoError(t, err)
	return e
}

var (
	signupSteps = testutils.SignupSteps()
	validStep1  = signupSteps[0]
	validStep2  = signupSteps[1]
	validStep3  = signupSteps[2]
)

func fill(t *testing.T, e *runtime.Engine, state *domain.State, values map[string]string) *domain.State {
	t.Helper()
	var err error
	for id, v := range values {
		state, err = e.SetField(context.Background(), state, id, v)
		require.NoError(t, err)
	}
	return state
}

// toReview fills every step and advances to the review step.
func toReview(t *testing.T, e *runtime.Engine) *domain.State {
	t.Helper()
	ctx := context.Background()
	state := e.Start(ctx, "s1")
	for _, values := range []map[string]string{validStep1, validStep2, validStep3} {
		state = fill(t, e, state, values)
		var moved bool
		state, moved = e.Advance(ctx, state)
		require.True(t, moved, "advance from step %d", state.CurrentStep)
	}
	require.Equal(t, 4, state.CurrentStep)
	return state
}

func TestNewEngine_RejectsMalformedForm(t *testing.T) {
	form := forms.Signup()
	form.Steps[0].Fields = append(form.Steps[0].Fields, "ghost")

	_, err := runtime.NewEngine(form)
	require.Error(t, err)
	assert.NotEmpty(t, schema.IntegrityErrors(err))
}

func TestEngine_Start(t *testing.T) {
	e := newEngine(t)
	state := e.Start(context.Background(), "s1")

	assert.Equal(t, "s1", state.SessionID)
	assert.Equal(t, "signup", state.FormID)
	assert.Equal(t, 1, state.CurrentStep)
	assert.Len(t, state.Draft, 9)
	for id, v := range state.Draft {
		assert.Empty(t, v, id)
	}
	assert.False(t, state.HasErrors())
	assert.Equal(t, 4, e.Steps())
}

func TestEngine_SetField_UnknownField(t *testing.T) {
	e := newEngine(t)
	state := e.Start(context.Background(), "s1")

	next, err := e.SetField(context.Background(), state, "nickname", "x")
	assert.ErrorIs(t, err, domain.ErrUnknownField)
	assert.Same(t, state, next)
}

func TestEngine_SetField_LiveValidation(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	state := e.Start(ctx, "s1")

	state, err := e.SetField(ctx, state, forms.FieldEmail, "nope")
	require.NoError(t, err)
	assert.Equal(t, "Invalid email address", state.Errors[forms.FieldEmail])
	assert.Equal(t, 1, state.CurrentStep)

	state, err = e.SetField(ctx, state, forms.FieldEmail, "ada@example.com")
	require.NoError(t, err)
	assert.NotContains(t, state.Errors, forms.FieldEmail)
}

func TestEngine_SetField_DoesNotMutateInput(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	state := e.Start(ctx, "s1")

	next, err := e.SetField(ctx, state, forms.FieldCity, "Paris")
	require.NoError(t, err)
	assert.Empty(t, state.Draft[forms.FieldCity])
	assert.Equal(t, "Paris", next.Draft[forms.FieldCity])
}

func TestEngine_Advance_InvalidEmailScenario(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	state := e.Start(ctx, "s1")

	state = fill(t, e, state, map[string]string{forms.FieldEmail: "not-an-email"})
	state, moved := e.Advance(ctx, state)

	assert.False(t, moved)
	assert.Equal(t, 1, state.CurrentStep)
	assert.Equal(t, "Invalid email address", state.Errors[forms.FieldEmail])
	assert.Equal(t, "Full Name is required", state.Errors[forms.FieldFullName])
	assert.Equal(t, "Phone Number is required", state.Errors[forms.FieldPhoneNumber])
}

func TestEngine_Advance_ValidStep(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	state := e.Start(ctx, "s1")

	// A rejected attempt leaves errors behind; a valid advance clears them.
	state, _ = e.Advance(ctx, state)
	require.True(t, state.HasErrors())

	state = fill(t, e, state, validStep1)
	state, moved := e.Advance(ctx, state)

	assert.True(t, moved)
	assert.Equal(t, 2, state.CurrentStep)
	for id := range validStep2 {
		assert.NotContains(t, state.Errors, id)
	}
	assert.False(t, state.HasErrors())
}

func TestEngine_Advance_Idempotent(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	state := e.Start(ctx, "s1")
	state = fill(t, e, state, map[string]string{forms.FieldFullName: "Ada", forms.FieldPhoneNumber: "123"})

	first, moved := e.Advance(ctx, state)
	require.False(t, moved)

	again := first
	for range 3 {
		again, moved = e.Advance(ctx, again)
		assert.False(t, moved)
	}
	assert.Equal(t, first.CurrentStep, again.CurrentStep)
	assert.Equal(t, first.Draft, again.Draft)
	assert.Equal(t, first.Errors, again.Errors)
	assert.Equal(t, state.Draft, again.Draft)
}

func TestEngine_Advance_ReplacesStepErrors(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	state := e.Start(ctx, "s1")

	state, _ = e.Advance(ctx, state)
	require.Len(t, state.Errors, 3)

	state = fill(t, e, state, map[string]string{forms.FieldFullName: "Ada", forms.FieldEmail: "ada@example.com"})
	state, _ = e.Advance(ctx, state)
	assert.Equal(t, map[string]string{
		forms.FieldPhoneNumber: "Phone Number is required",
	}, state.Errors)
}

func TestEngine_Advance_NoOpOnReview(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	state := toReview(t, e)

	next, moved := e.Advance(ctx, state)
	assert.False(t, moved)
	assert.Equal(t, 4, next.CurrentStep)
	assert.Equal(t, state.Draft, next.Draft)
}

func TestEngine_Retreat(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	state := e.Start(ctx, "s1")

	next, moved := e.Retreat(ctx, state)
	assert.False(t, moved)
	assert.Equal(t, 1, next.CurrentStep)

	state = fill(t, e, state, validStep1)
	state, _ = e.Advance(ctx, state)
	state = fill(t, e, state, map[string]string{forms.FieldZipCode: "12a45"})
	require.NotEmpty(t, state.Errors)

	back, moved := e.Retreat(ctx, state)
	assert.True(t, moved)
	assert.Equal(t, 1, back.CurrentStep)
	assert.Equal(t, state.Draft, back.Draft)
	assert.Equal(t, state.Errors, back.Errors)
}

func TestEngine_RoundTripPreservesValues(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	state := toReview(t, e)
	want := state.Draft.Clone()

	for state.CurrentStep > 1 {
		state, _ = e.Retreat(ctx, state)
	}
	assert.Equal(t, want, state.Draft)

	for state.CurrentStep < 4 {
		var moved bool
		state, moved = e.Advance(ctx, state)
		require.True(t, moved)
	}
	assert.Equal(t, want, state.Draft)
}

func TestEngine_ZipCodeRules(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	state := e.Start(ctx, "s1")

	state = fill(t, e, state, map[string]string{forms.FieldZipCode: "123"})
	result := e.ValidateStep(2, state.Draft)
	assert.Equal(t, schema.RuleMinLength, result[forms.FieldZipCode].Rule)
	assert.Equal(t, "Zip code must be at least 5 digits", state.Errors[forms.FieldZipCode])

	state = fill(t, e, state, map[string]string{forms.FieldZipCode: "12a45"})
	result = e.ValidateStep(2, state.Draft)
	assert.Equal(t, schema.RulePattern, result[forms.FieldZipCode].Rule)
	assert.Equal(t, "Zip code must contain only digits", state.Errors[forms.FieldZipCode])
}

func TestEngine_PasswordMismatchClearsWhenEqual(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	state := e.Start(ctx, "s1")

	state = fill(t, e, state, map[string]string{forms.FieldPassword: "secret1"})
	state, err := e.SetField(ctx, state, forms.FieldConfirmPassword, "secret2")
	require.NoError(t, err)
	assert.Equal(t, "Passwords do not match", state.Errors[forms.FieldConfirmPassword])

	// Editing the other side of the pair re-validates the confirmation.
	state, err = e.SetField(ctx, state, forms.FieldPassword, "secret2")
	require.NoError(t, err)
	assert.NotContains(t, state.Errors, forms.FieldConfirmPassword)

	state, err = e.SetField(ctx, state, forms.FieldPassword, "secret3")
	require.NoError(t, err)
	assert.Equal(t, "Passwords do not match", state.Errors[forms.FieldConfirmPassword])
}

func TestEngine_Submit_RequiresReviewStep(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	state := e.Start(ctx, "s1")

	next, sub, err := e.Submit(ctx, state)
	assert.ErrorIs(t, err, domain.ErrNotOnReviewStep)
	assert.Nil(t, sub)
	assert.Same(t, state, next)
}

func TestEngine_Submit_Valid(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	state := toReview(t, e)

	next, sub, err := e.Submit(ctx, state)
	require.NoError(t, err)
	require.NotNil(t, sub)

	assert.Equal(t, "sub-1", sub.ID)
	assert.Equal(t, "s1", sub.SessionID)
	assert.Equal(t, "signup", sub.FormID)
	assert.Equal(t, fixedNow, sub.SubmittedAt)
	assert.Equal(t, "ada@example.com", sub.Draft[forms.FieldEmail])
	assert.Len(t, sub.Summary, 9)
	assert.Equal(t, 4, next.CurrentStep)

	reset := e.Reset(ctx, next)
	assert.Equal(t, 1, reset.CurrentStep)
	assert.Equal(t, "s1", reset.SessionID)
	for id, v := range reset.Draft {
		assert.Empty(t, v, id)
	}
	assert.False(t, reset.HasErrors())
}

func TestEngine_Submit_MismatchRejected(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	state := toReview(t, e)

	// Force a mismatch that bypassed live validation, e.g. a restored draft.
	state.Draft[forms.FieldConfirmPassword] = "different"

	next, sub, err := e.Submit(ctx, state)
	require.NoError(t, err)
	assert.Nil(t, sub)
	assert.Equal(t, 4, next.CurrentStep)
	assert.Equal(t, "Passwords do not match", next.Errors[forms.FieldConfirmPassword])

	next, err = e.SetField(ctx, next, forms.FieldConfirmPassword, "engine42")
	require.NoError(t, err)
	next, sub, err = e.Submit(ctx, next)
	require.NoError(t, err)
	assert.NotNil(t, sub)
	assert.False(t, next.HasErrors())
}

func TestEngine_ValidateAll_RequiredEverywhere(t *testing.T) {
	e := newEngine(t)
	state := e.Start(context.Background(), "s1")

	result := e.ValidateAll(state.Draft)
	assert.Len(t, result, 9)
	for id, v := range result {
		assert.Equal(t, schema.RuleRequired, v.Rule, id)
	}
	assert.Empty(t, e.ValidateStep(4, state.Draft))
}
