// Package testutils holds fixtures shared by tests across packages.
package testutils

import (
	"context"
	"testing"

	"github.com/aretw0/stepform/pkg/domain"
	"github.com/aretw0/stepform/pkg/forms"
	"github.com/aretw0/stepform/pkg/ports"
	"github.com/stretchr/testify/require"
)

// SignupSteps returns valid answers for the three field steps of the signup form.
// A new copy is returned on every call so tests can mutate it.
func SignupSteps() []map[string]string {
	return []map[string]string{
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
}

// Fill sets every value on state and fails the test on error.
func Fill(t *testing.T, eng ports.Engine, state *domain.State, values map[string]string) *domain.State {
	t.Helper()
	for id, v := range values {
		var err error
		state, err = eng.SetField(context.Background(), state, id, v)
		require.NoError(t, err, id)
	}
	return state
}

// ToReview starts a signup session and fills and advances it up to the review step.
func ToReview(t *testing.T, eng ports.Engine, sessionID string) *domain.State {
	t.Helper()
	state := eng.Start(context.Background(), sessionID)
	for _, values := range SignupSteps() {
		state = Fill(t, eng, state, values)
		var moved bool
		state, moved = eng.Advance(context.Background(), state)
		require.True(t, moved, "errors: %v", state.Errors)
	}
	return state
}
