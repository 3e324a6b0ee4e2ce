package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/stepform/pkg/adapters/memory"
	"github.com/aretw0/stepform/pkg/domain"
	"github.com/aretw0/stepform/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStateStoreContract(t, store)
}

func TestMemoryStore_SaveCopies(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	state := domain.NewState("s1", "name")

	require.NoError(t, store.Save(ctx, "s1", state))
	state.Draft["name"] = "mutated"

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, loaded.Draft["name"])
}

func TestOutbox_Contract(t *testing.T) {
	outbox := memory.NewOutbox()
	ports.RunSubmitterContract(t, outbox, outbox.Get)
	assert.Equal(t, 3, outbox.Len())
	assert.Len(t, outbox.All(), 3)
}

func TestOutbox_GetMissing(t *testing.T) {
	_, err := memory.NewOutbox().Get(context.Background(), "nope")
	assert.Error(t, err)
}
