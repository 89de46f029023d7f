package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntityRequiresKey(t *testing.T) {
	_, err := NewEntity("application", "", "No Key")
	assert.ErrorIs(t, err, ErrEmptyBusinessKey)

	entity, err := NewEntity("application", NewBusinessKey("  APP1  "), "Billing")
	require.NoError(t, err)
	assert.Equal(t, "APP1", entity.Key().String())
	assert.True(t, entity.ID().IsZero())
}

func TestWithDescriptiveFieldsKeepsIdentity(t *testing.T) {
	createdAt := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	stored := ReconstructEntity(42, "application", "APP1", "Billing",
		"core", "alice@example.com", "old description", StatusActive,
		createdAt, createdAt)

	incoming, err := NewEntity("application", "APP1", "Billing v2")
	require.NoError(t, err)
	incoming = incoming.WithOwner("bob@example.com").WithStatus(StatusPlanned)

	merged := stored.WithDescriptiveFields(incoming)

	assert.Equal(t, InternalID(42), merged.ID())
	assert.Equal(t, createdAt, merged.CreatedAt())
	assert.Equal(t, "Billing v2", merged.Name())
	assert.Equal(t, "bob@example.com", merged.Owner())
	assert.Equal(t, StatusPlanned, merged.Status())
	assert.Empty(t, merged.Classification())
}

func TestBusinessKeyNormalization(t *testing.T) {
	assert.Equal(t, BusinessKey("CAP1"), NewBusinessKey(" CAP1 "))
	assert.True(t, NewBusinessKey("   ").IsEmpty())
}

func TestBuildQueryConditions(t *testing.T) {
	q := BuildQuery(
		WithEntityType("capability"),
		WithBusinessKeyIn([]BusinessKey{"CAP1", "CAP2"}),
		WithLimit(10),
		WithOrderAsc("business_key"),
	)

	conditions := q.Conditions()
	require.Len(t, conditions, 2)
	assert.Equal(t, "entity_type", conditions[0].Field())
	assert.False(t, conditions[0].In())
	assert.Equal(t, "business_key", conditions[1].Field())
	assert.True(t, conditions[1].In())
	assert.Equal(t, []string{"CAP1", "CAP2"}, conditions[1].Value())

	assert.Equal(t, 10, q.LimitValue())
	require.Len(t, q.Orders(), 1)
	assert.True(t, q.Orders()[0].Ascending())
}
