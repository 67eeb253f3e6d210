package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestMaterial(t *testing.T) *Material {
	t.Helper()
	m, err := NewMaterial("CEM-42.5", "Portland Cement 42.5N", "Cement", "bag")
	require.NoError(t, err)
	m.ClearDomainEvents()
	return m
}

func TestNewMaterial(t *testing.T) {
	t.Run("creates active material", func(t *testing.T) {
		m, err := NewMaterial("REB-12", "Rebar 12mm", "Steel", "ton")

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, m.ID)
		assert.Equal(t, "REB-12", m.Code)
		assert.True(t, m.IsActive)
		assert.Nil(t, m.UnitCost)
		assert.True(t, m.MinimumStockLevel.IsZero())

		events := m.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeMaterialCreated, events[0].EventType())
	})

	t.Run("trims the code", func(t *testing.T) {
		m, err := NewMaterial("  SND-01  ", "River Sand", "Aggregate", "m3")

		require.NoError(t, err)
		assert.Equal(t, "SND-01", m.Code)
	})

	t.Run("fails with empty code", func(t *testing.T) {
		m, err := NewMaterial("   ", "River Sand", "Aggregate", "m3")

		require.Error(t, err)
		assert.Nil(t, m)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewMaterial("SND-01", "", "Aggregate", "m3")
		require.Error(t, err)
	})

	t.Run("fails with empty unit", func(t *testing.T) {
		_, err := NewMaterial("SND-01", "River Sand", "Aggregate", " ")
		require.Error(t, err)
	})
}

func TestMaterial_Apply(t *testing.T) {
	t.Run("applies partial patch", func(t *testing.T) {
		m := createTestMaterial(t)
		name := "Portland Cement 52.5N"
		cost := decimal.NewFromFloat(9.8)
		minLevel := decimal.NewFromInt(200)

		err := m.Apply(MaterialPatch{Name: &name, UnitCost: &cost, MinimumStockLevel: &minLevel})

		require.NoError(t, err)
		assert.Equal(t, name, m.Name)
		require.NotNil(t, m.UnitCost)
		assert.True(t, m.UnitCost.Equal(cost))
		assert.True(t, m.MinimumStockLevel.Equal(minLevel))
		assert.Equal(t, "bag", m.Unit)
		assert.Equal(t, 2, m.Version)

		events := m.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeMaterialUpdated, events[0].EventType())
	})

	t.Run("clears unit cost and supplier", func(t *testing.T) {
		m := createTestMaterial(t)
		require.NoError(t, m.SetUnitCost(decimal.NewFromInt(5)))
		supplierID := uuid.New()
		require.NoError(t, m.Apply(MaterialPatch{SupplierID: &supplierID}))

		err := m.Apply(MaterialPatch{ClearUnitCost: true, ClearSupplier: true})

		require.NoError(t, err)
		assert.Nil(t, m.UnitCost)
		assert.Nil(t, m.SupplierID)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		m := createTestMaterial(t)
		empty := "  "

		err := m.Apply(MaterialPatch{Name: &empty})

		require.Error(t, err)
		assert.Equal(t, "Portland Cement 42.5N", m.Name)
	})

	t.Run("rejects negative cost and levels", func(t *testing.T) {
		m := createTestMaterial(t)
		negative := decimal.NewFromInt(-1)

		require.Error(t, m.Apply(MaterialPatch{UnitCost: &negative}))
		require.Error(t, m.Apply(MaterialPatch{MinimumStockLevel: &negative}))
		require.Error(t, m.Apply(MaterialPatch{MaximumStockLevel: &negative}))
		require.Error(t, m.Apply(MaterialPatch{ReorderPoint: &negative}))
	})
}

func TestMaterial_SetUnitCost(t *testing.T) {
	m := createTestMaterial(t)

	require.NoError(t, m.SetUnitCost(decimal.NewFromFloat(4.2)))
	assert.True(t, m.UnitCost.Equal(decimal.NewFromFloat(4.2)))

	require.Error(t, m.SetUnitCost(decimal.NewFromInt(-2)))
}

func TestMaterial_DeactivateActivate(t *testing.T) {
	t.Run("deactivates active material", func(t *testing.T) {
		m := createTestMaterial(t)

		err := m.Deactivate()

		require.NoError(t, err)
		assert.False(t, m.IsActive)

		events := m.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeMaterialDeactivated, events[0].EventType())
	})

	t.Run("deactivating twice fails", func(t *testing.T) {
		m := createTestMaterial(t)
		require.NoError(t, m.Deactivate())

		err := m.Deactivate()

		require.Error(t, err)
	})

	t.Run("reactivates deactivated material", func(t *testing.T) {
		m := createTestMaterial(t)
		require.NoError(t, m.Deactivate())

		err := m.Activate()

		require.NoError(t, err)
		assert.True(t, m.IsActive)
	})

	t.Run("activating an active material fails", func(t *testing.T) {
		m := createTestMaterial(t)

		err := m.Activate()

		require.Error(t, err)
	})
}

func TestMaterial_CostFor(t *testing.T) {
	t.Run("multiplies unit cost by quantity", func(t *testing.T) {
		m := createTestMaterial(t)
		require.NoError(t, m.SetUnitCost(decimal.NewFromFloat(3.5)))

		total := m.CostFor(decimal.NewFromInt(10))

		require.NotNil(t, total)
		assert.True(t, total.Equal(decimal.NewFromInt(35)))
	})

	t.Run("returns nil without catalog cost", func(t *testing.T) {
		m := createTestMaterial(t)

		assert.Nil(t, m.CostFor(decimal.NewFromInt(10)))
	})
}
