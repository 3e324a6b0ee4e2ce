package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/stepform"
	"github.com/aretw0/stepform/pkg/domain"
	"github.com/aretw0/stepform/pkg/forms"
	"github.com/aretw0/stepform/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordEngineEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics("signup", reg)
	require.NoError(t, err)

	eng, err := stepform.New(forms.Signup(), stepform.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, err)

	ctx := context.Background()
	form := eng.NewForm(ctx)
	assert.False(t, form.Advance(ctx))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StepVisits.WithLabelValues("signup", "1")))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.ValidationFailures.WithLabelValues("signup", "1", "required")))

	require.NoError(t, form.SetField(ctx, forms.FieldFullName, "Ada"))
	require.NoError(t, form.SetField(ctx, forms.FieldEmail, "ada@example.com"))
	require.NoError(t, form.SetField(ctx, forms.FieldPhoneNumber, "12345"))
	assert.False(t, form.Advance(ctx))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ValidationFailures.WithLabelValues("signup", "1", "min_length")))

	require.NoError(t, form.SetField(ctx, forms.FieldPhoneNumber, "5551234567"))
	assert.True(t, form.Advance(ctx))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StepVisits.WithLabelValues("signup", "2")))
}

func TestMetrics_Submissions(t *testing.T) {
	metrics, err := observability.NewMetrics("signup", nil)
	require.NoError(t, err)

	hooks := metrics.Hooks()
	hooks.OnSubmit(context.Background(), &domain.SubmitEvent{
		Submission: domain.Submission{Draft: domain.Draft{"a": "x", "b": "", "c": "y"}},
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Submissions.WithLabelValues("signup")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.SubmittedFields))
}

func TestMetrics_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics("signup", reg)
	require.NoError(t, err)
	_, err = observability.NewMetrics("signup", reg)
	assert.Error(t, err)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	hooks := observability.LoggingHooks(logger).Merge(domain.LifecycleHooks{})
	eng, err := stepform.New(forms.Signup(), stepform.WithLifecycleHooks(hooks))
	require.NoError(t, err)

	ctx := context.Background()
	form := eng.NewForm(ctx)
	require.NoError(t, form.SetField(ctx, forms.FieldPassword, "hunter22"))
	form.Advance(ctx)

	out := buf.String()
	assert.Contains(t, out, "step_enter")
	assert.Contains(t, out, "validation_failed")
	assert.NotContains(t, out, "hunter22")
}
