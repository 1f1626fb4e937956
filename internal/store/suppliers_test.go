package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyliang/frostorder/internal/apperr"
)

func TestSuppliersCRUD(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.AddSupplier(ctx, "Ocean Co"))
	require.NoError(t, st.AddSupplier(ctx, "Dockside"))
	assert.ErrorIs(t, st.AddSupplier(ctx, "  "), apperr.ErrValidation)

	list, err := st.Suppliers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Dockside", list[0].Name) // name asc
	assert.Equal(t, "Ocean Co", list[1].Name)

	require.NoError(t, st.RenameSupplier(ctx, list[0].ID, "Dockside Seafood"))
	assert.ErrorIs(t, st.RenameSupplier(ctx, "missing", "X"), apperr.ErrNotFound)

	require.NoError(t, st.DeleteSuppliers(ctx, []string{list[0].ID, list[1].ID}))
	left, err := st.Suppliers(ctx)
	require.NoError(t, err)
	assert.Empty(t, left)
}
