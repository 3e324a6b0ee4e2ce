package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/stepform/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID, "name", "email")
		state.CurrentStep = 2
		state.Draft["name"] = "Ada"
		state.Errors["email"] = "Email is required"

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, 2, loaded.CurrentStep)
		assert.Equal(t, "Ada", loaded.Draft["name"])
		assert.Equal(t, "", loaded.Draft["email"])
		assert.Equal(t, "Email is required", loaded.Errors["email"])
	})

	t.Run("Load Returns Independent Copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Draft["name"] = "changed"

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "Ada", again.Draft["name"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID, "name"))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1, "name"))
		_ = store.Save(ctx, id2, domain.NewState(id2, "name"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunSubmitterContract verifies that a Submitter keeps what it receives.
// fetch reads a submission back from wherever the submitter put it.
func RunSubmitterContract(t *testing.T, submitter Submitter, fetch SubmissionFetcher) {
	ctx := context.Background()

	newSubmission := func(id string) *domain.Submission {
		return &domain.Submission{
			ID:        id,
			SessionID: "contract-session",
			FormID:    "contract-form",
			Draft:     domain.Draft{"name": "Ada", "password": "secret"},
			Summary: []domain.SummaryEntry{
				{Step: 1, StepTitle: "About you", Field: "name", Label: "Name", Value: "Ada"},
				{Step: 1, StepTitle: "About you", Field: "password", Label: "Password", Value: "secret", Secret: true},
			},
			SubmittedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}
	}

	t.Run("Submit and Fetch", func(t *testing.T) {
		sub := newSubmission("contract-sub-1")
		require.NoError(t, submitter.Submit(ctx, sub))

		got, err := fetch(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, sub.ID, got.ID)
		assert.Equal(t, sub.FormID, got.FormID)
		assert.Equal(t, sub.Draft, got.Draft)
		assert.Equal(t, sub.Summary, got.Summary)
		assert.True(t, sub.SubmittedAt.Equal(got.SubmittedAt))
	})

	t.Run("Submissions Are Kept Apart", func(t *testing.T) {
		a := newSubmission("contract-sub-a")
		b := newSubmission("contract-sub-b")
		b.Draft["name"] = "Grace"
		require.NoError(t, submitter.Submit(ctx, a))
		require.NoError(t, submitter.Submit(ctx, b))

		got, err := fetch(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ada", got.Draft["name"])

		got, err = fetch(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "Grace", got.Draft["name"])
	})
}
