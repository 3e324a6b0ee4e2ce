package stepform_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/stepform"
	"github.com/aretw0/stepform/pkg/adapters/memory"
	"github.com/aretw0/stepform/pkg/domain"
	"github.com/aretw0/stepform/pkg/forms"
	"github.com/aretw0/stepform/pkg/ports"
	"github.com/aretw0/stepform/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var signupValues = []map[string]string{
	{
		forms.FieldFullName:    "Ada Lovelace",
		forms.FieldEmail:       "ada@example.com",
		forms.FieldPhoneNumber: "5551234567",
	},
	{
		forms.FieldStreetAddress: "12 Analytical Way",
		forms.FieldCity:          "London",
		forms.FieldZipCode:       "12345",
	},
	{
		forms.FieldUsername:        "ada1815",
		forms.FieldPassword:        "engine42",
		forms.FieldConfirmPassword: "engine42",
	},
}

func completeForm(t *testing.T, form *stepform.Form) {
	t.Helper()
	ctx := context.Background()
	for _, values := range signupValues {
		for id, v := range values {
			require.NoError(t, form.SetField(ctx, id, v))
		}
		require.True(t, form.Advance(ctx), "errors: %v", form.Errors())
	}
	require.Equal(t, 4, form.CurrentStep())
}

func TestForm_SubmitHandsOffAndResets(t *testing.T) {
	ctx := context.Background()
	outbox := memory.NewOutbox()

	var submitted []domain.Submission
	hooks := domain.LifecycleHooks{
		OnSubmit: func(_ context.Context, e *domain.SubmitEvent) {
			submitted = append(submitted, e.Submission)
		},
	}

	eng, err := stepform.New(forms.Signup(),
		stepform.WithSubmitter(outbox),
		stepform.WithLifecycleHooks(hooks),
		stepform.WithIDGenerator(func() string { return "sub-42" }),
	)
	require.NoError(t, err)

	form := eng.NewForm(ctx)
	completeForm(t, form)

	sub, err := form.Submit(ctx)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "sub-42", sub.ID)

	require.Equal(t, 1, outbox.Len())
	assert.Equal(t, "engine42", outbox.All()[0].Draft[forms.FieldPassword])
	require.Len(t, submitted, 1)
	assert.Equal(t, "sub-42", submitted[0].ID)

	assert.Equal(t, 1, form.CurrentStep())
	for id, v := range form.Draft() {
		assert.Empty(t, v, id)
	}
	assert.Empty(t, form.Errors())
}

func TestForm_SubmitterFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("sink unavailable")
	fired := false

	eng, err := stepform.New(forms.Signup(),
		stepform.WithSubmitter(ports.SubmitterFunc(func(context.Context, *domain.Submission) error {
			return boom
		})),
		stepform.WithLifecycleHooks(domain.LifecycleHooks{
			OnSubmit: func(context.Context, *domain.SubmitEvent) { fired = true },
		}),
	)
	require.NoError(t, err)

	form := eng.NewForm(ctx)
	completeForm(t, form)

	sub, err := form.Submit(ctx)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, domain.ErrHandOff)
	assert.Nil(t, sub)
	assert.False(t, fired)
	assert.Equal(t, 4, form.CurrentStep())
	assert.Equal(t, "ada@example.com", form.Draft()[forms.FieldEmail])
}

func TestForm_SubmitOutsideReview(t *testing.T) {
	ctx := context.Background()
	eng, err := stepform.New(forms.Signup())
	require.NoError(t, err)

	form := eng.NewForm(ctx)
	_, err = form.Submit(ctx)
	assert.ErrorIs(t, err, domain.ErrNotOnReviewStep)
	assert.Equal(t, 1, form.CurrentStep())
}

func TestForm_SubmitRejectsMismatch(t *testing.T) {
	ctx := context.Background()
	outbox := memory.NewOutbox()
	eng, err := stepform.New(forms.Signup(), stepform.WithSubmitter(outbox))
	require.NoError(t, err)

	// A restored state can skip live validation.
	state := eng.Start(ctx, "restored")
	state.CurrentStep = 4
	for _, values := range signupValues {
		for id, v := range values {
			state.Draft[id] = v
		}
	}
	state.Draft[forms.FieldConfirmPassword] = "other"

	form := eng.Resume(state)
	sub, err := form.Submit(ctx)
	require.NoError(t, err)
	assert.Nil(t, sub)
	assert.Equal(t, "Passwords do not match", form.Errors()[forms.FieldConfirmPassword])
	assert.Zero(t, outbox.Len())

	require.NoError(t, form.SetField(ctx, forms.FieldConfirmPassword, "engine42"))
	sub, err = form.Submit(ctx)
	require.NoError(t, err)
	assert.NotNil(t, sub)
	assert.Equal(t, 1, outbox.Len())
}

func TestForm_RetreatKeepsValues(t *testing.T) {
	ctx := context.Background()
	eng, err := stepform.New(forms.Signup())
	require.NoError(t, err)

	form := eng.NewForm(ctx)
	completeForm(t, form)
	want := form.Draft()

	assert.True(t, form.Retreat(ctx))
	assert.True(t, form.Retreat(ctx))
	assert.True(t, form.Retreat(ctx))
	assert.False(t, form.Retreat(ctx))
	assert.Equal(t, want, form.Draft())

	view := form.RenderStep()
	assert.Equal(t, "Ada Lovelace", view.Fields[0].Value)
	assert.Len(t, form.Summary(), 9)
}

func TestForm_UnknownField(t *testing.T) {
	ctx := context.Background()
	eng, err := stepform.New(forms.Signup())
	require.NoError(t, err)

	err = eng.NewForm(ctx).SetField(ctx, "age", "42")
	assert.ErrorIs(t, err, domain.ErrUnknownField)
}

func TestNew_RejectsMalformedSchema(t *testing.T) {
	form := forms.Signup()
	form.Steps = form.Steps[:1]

	_, err := stepform.New(form)
	require.Error(t, err)
	var agg *schema.AggregateError
	assert.ErrorAs(t, err, &agg)
}

func TestLoad(t *testing.T) {
	data, err := schema.Marshal(forms.Signup(), schema.FormatYAML)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "signup.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))

	eng, err := stepform.Load(path, stepform.WithClock(func() time.Time { return time.Unix(0, 0) }))
	require.NoError(t, err)
	assert.Equal(t, 4, eng.Steps())
	assert.Equal(t, "signup", eng.Schema().ID)

	_, err = stepform.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
