package runner

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/stepform"
	"github.com/aretw0/stepform/pkg/adapters/memory"
	"github.com/aretw0/stepform/pkg/domain"
	"github.com/aretw0/stepform/pkg/dsl"
	"github.com/aretw0/stepform/pkg/forms"
	"github.com/aretw0/stepform/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validAnswers = "Ada Lovelace\nada@example.com\n5551234567\n" +
	"12 Analytical Way\nLondon\n12345\n" +
	"ada1815\nengine42\nengine42\n"

func newEngine(t *testing.T, submitter ports.Submitter) *stepform.Engine {
	t.Helper()
	eng, err := stepform.New(forms.Signup(), stepform.WithSubmitter(submitter))
	require.NoError(t, err)
	return eng
}

func runScript(t *testing.T, eng ports.Engine, script string, opts ...Option) (*domain.Submission, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	opts = append([]Option{WithIO(strings.NewReader(script), out), WithSessionID("cli")}, opts...)
	sub, err := NewRunner(opts...).Run(context.Background(), eng)
	return sub, out.String(), err
}

func TestRunner_HappyPath(t *testing.T) {
	outbox := memory.NewOutbox()
	sub, out, err := runScript(t, newEngine(t, outbox), validAnswers+"yes\n")
	require.NoError(t, err)
	require.NotNil(t, sub)

	assert.Equal(t, "cli", sub.SessionID)
	assert.Equal(t, "London", sub.Draft[forms.FieldCity])
	assert.Equal(t, 1, outbox.Len())
	assert.Contains(t, out, "# Review & Submit")
	assert.Contains(t, out, "| Password | •••••••• |")
}

func TestRunner_RepromptsInvalidField(t *testing.T) {
	script := "Ada Lovelace\nbad\nada@example.com\n5551234567\n" +
		"12 Analytical Way\nLondon\n12345\n" +
		"ada1815\nengine42\nengine42\nyes\n"
	sub, out, err := runScript(t, newEngine(t, memory.NewOutbox()), script)
	require.NoError(t, err)
	require.NotNil(t, sub)

	assert.Contains(t, out, "! Invalid email address")
	assert.Equal(t, "ada@example.com", sub.Draft[forms.FieldEmail])
}

func TestRunner_BackKeepsValues(t *testing.T) {
	// Back from the first field of step 2, then accept the kept values with Enter.
	script := "Ada Lovelace\nada@example.com\n5551234567\n" +
		":back\n\n\n\n" +
		"12 Analytical Way\nLondon\n12345\n" +
		"ada1815\nengine42\nengine42\nyes\n"
	sub, out, err := runScript(t, newEngine(t, memory.NewOutbox()), script)
	require.NoError(t, err)
	require.NotNil(t, sub)

	assert.Equal(t, "Ada Lovelace", sub.Draft[forms.FieldFullName])
	assert.Contains(t, out, "Full Name* [Ada Lovelace]: ")
	assert.Equal(t, 2, strings.Count(out, "# Personal Information"))
}

func TestRunner_BackFromReview(t *testing.T) {
	script := validAnswers + "back\n\n\n\nyes\n"
	sub, out, err := runScript(t, newEngine(t, memory.NewOutbox()), script)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Contains(t, out, "Password* [keep]: ")
	assert.Equal(t, 2, strings.Count(out, "# Account Setup"))
}

func TestRunner_EOFLeavesWithoutSubmission(t *testing.T) {
	outbox := memory.NewOutbox()
	sub, _, err := runScript(t, newEngine(t, outbox), "Ada Lovelace\n")
	require.NoError(t, err)
	assert.Nil(t, sub)
	assert.Equal(t, 0, outbox.Len())
}

func TestRunner_Quit(t *testing.T) {
	sub, _, err := runScript(t, newEngine(t, memory.NewOutbox()), "Ada\n:quit\n")
	require.NoError(t, err)
	assert.Nil(t, sub)
}

func TestRunner_UnknownReviewAnswer(t *testing.T) {
	sub, out, err := runScript(t, newEngine(t, memory.NewOutbox()), validAnswers+"maybe\nyes\n")
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Contains(t, out, "! Type yes to submit")
}

func TestRunner_HandOffFailureKeepsDraft(t *testing.T) {
	calls := 0
	submitter := ports.SubmitterFunc(func(ctx context.Context, sub *domain.Submission) error {
		calls++
		if calls == 1 {
			return errors.New("sink down")
		}
		return nil
	})

	sub, out, err := runScript(t, newEngine(t, submitter), validAnswers+"yes\nyes\n")
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, 2, calls)
	assert.Contains(t, out, "! Could not submit the form")
	assert.Equal(t, "ada1815", sub.Draft[forms.FieldUsername])
}

func TestRunner_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(WithIO(strings.NewReader(validAnswers), &bytes.Buffer{}))
	sub, err := r.Run(ctx, newEngine(t, memory.NewOutbox()))
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Nil(t, sub)
}

func TestRunner_InitialState(t *testing.T) {
	eng := newEngine(t, memory.NewOutbox())
	ctx := context.Background()

	state := eng.Start(ctx, "resumed")
	for id, v := range map[string]string{
		forms.FieldFullName:    "Ada Lovelace",
		forms.FieldEmail:       "ada@example.com",
		forms.FieldPhoneNumber: "5551234567",
	} {
		var err error
		state, err = eng.SetField(ctx, state, id, v)
		require.NoError(t, err)
	}
	state, moved := eng.Advance(ctx, state)
	require.True(t, moved)

	script := "12 Analytical Way\nLondon\n12345\nada1815\nengine42\nengine42\nyes\n"
	sub, out, err := runScript(t, eng, script, WithInitialState(state))
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "resumed", sub.SessionID)
	assert.NotContains(t, out, "# Personal Information")
}

func TestRunner_Headless(t *testing.T) {
	script := `"Ada Lovelace"` + "\n" + `"ada@example.com"` + "\n" + "5551234567\n" +
		"12 Analytical Way\nLondon\n12345\nada1815\nengine42\nengine42\nyes\n"
	sub, out, err := runScript(t, newEngine(t, memory.NewOutbox()), script, WithHeadless(true))
	require.NoError(t, err)
	require.NotNil(t, sub)

	assert.Equal(t, "Ada Lovelace", sub.Draft[forms.FieldFullName])
	assert.Contains(t, out, `"type":"step"`)
	assert.Contains(t, out, `"type":"prompt"`)
	assert.Contains(t, out, `"message":"Submitted `+sub.ID+`"`)
}

func pinEngine(t *testing.T) *stepform.Engine {
	t.Helper()
	form := dsl.New("access").
		Step("Access").
		Field("pin").Label("PIN").Required().Secret().
		Review("Confirm").
		MustBuild()
	eng, err := stepform.New(form, stepform.WithSubmitter(memory.NewOutbox()))
	require.NoError(t, err)
	return eng
}

func TestPromptFor_SecretTextField(t *testing.T) {
	eng := pinEngine(t)
	ctx := context.Background()
	state, err := eng.SetField(ctx, eng.Start(ctx, "s"), "pin", "1234")
	require.NoError(t, err)

	field := eng.Render(state).Fields[0]
	require.Equal(t, domain.KindText, field.Kind)

	p := promptFor(field)
	assert.True(t, p.Secret)
	assert.Equal(t, "1234", p.Current)
}

func TestRunner_HeadlessHidesSecretTextField(t *testing.T) {
	eng := pinEngine(t)
	ctx := context.Background()
	state, err := eng.SetField(ctx, eng.Start(ctx, "pin"), "pin", "s3cr3t-pin")
	require.NoError(t, err)

	sub, out, err := runScript(t, eng, "\nyes\n", WithHeadless(true), WithInitialState(state))
	require.NoError(t, err)
	require.NotNil(t, sub)

	assert.Equal(t, "s3cr3t-pin", sub.Draft["pin"])
	assert.Contains(t, out, `"secret":true`)
	assert.NotContains(t, out, "s3cr3t-pin")
}
