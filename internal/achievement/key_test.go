package achievement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKeyTokenAndValue(t *testing.T) {
	r := DefaultRegistry()

	key, err := r.DeriveKey(RequirementSpec{Type: RequirementExpenseCount, Count: intp(10)})
	require.NoError(t, err)
	assert.Equal(t, "EXPENSE_COUNT_10", key)

	key, err = r.DeriveKey(RequirementSpec{Type: RequirementTaskStreak, Days: intp(7)})
	require.NoError(t, err)
	assert.Equal(t, "TASK_STREAK_7", key)
}

func TestDeriveKeyEqualSpecsEqualKeys(t *testing.T) {
	r := DefaultRegistry()

	a, err := r.DeriveKey(RequirementSpec{Type: RequirementSavingsTotal, Threshold: intp(500)})
	require.NoError(t, err)
	b, err := r.DeriveKey(RequirementSpec{Type: RequirementSavingsTotal, Threshold: intp(500)})
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestDeriveKeyDifferentSpecsDifferentKeys(t *testing.T) {
	r := DefaultRegistry()

	byType, err := r.DeriveKey(RequirementSpec{Type: RequirementExpenseCount, Count: intp(5)})
	require.NoError(t, err)
	otherType, err := r.DeriveKey(RequirementSpec{Type: RequirementTaskCount, Count: intp(5)})
	require.NoError(t, err)
	otherValue, err := r.DeriveKey(RequirementSpec{Type: RequirementExpenseCount, Count: intp(6)})
	require.NoError(t, err)

	assert.NotEqual(t, byType, otherType)
	assert.NotEqual(t, byType, otherValue)
}

func TestDeriveKeyZeroDistinctFromAbsent(t *testing.T) {
	r := DefaultRegistry()

	absent, err := r.DeriveKey(RequirementSpec{Type: RequirementFirstBudget})
	require.NoError(t, err)
	assert.Equal(t, "FIRST_BUDGET", absent)

	zero, err := r.DeriveKey(RequirementSpec{Type: RequirementFirstBudget, Count: intp(0)})
	require.NoError(t, err)
	assert.Equal(t, "FIRST_BUDGET_0", zero)

	assert.NotEqual(t, absent, zero)
}

func TestDeriveKeyUnknownType(t *testing.T) {
	r := DefaultRegistry()

	_, err := r.DeriveKey(RequirementSpec{Type: RequirementType("coffee_count"), Count: intp(3)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequirement)
}

func TestDeriveKeyNegativeParameter(t *testing.T) {
	r := DefaultRegistry()

	_, err := r.DeriveKey(RequirementSpec{Type: RequirementExpenseCount, Count: intp(-1)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequirement)
}

func TestParameterPrecedence(t *testing.T) {
	// Count wins over days even when both are set; the derived key has to be
	// stable for mixed specs.
	spec := RequirementSpec{
		Type:  RequirementExpenseStreak,
		Count: intp(3),
		Days:  intp(30),
	}

	v, ok := spec.Parameter()
	require.True(t, ok)
	assert.Equal(t, 3, v)

	key, err := DefaultRegistry().DeriveKey(spec)
	require.NoError(t, err)
	assert.Equal(t, "EXPENSE_STREAK_3", key)
}

func TestTargetDefaultsToOne(t *testing.T) {
	assert.Equal(t, 1, RequirementSpec{Type: RequirementFirstBudget}.Target())
	assert.Equal(t, 25, RequirementSpec{Type: RequirementTaskCount, Count: intp(25)}.Target())
}

func TestDefaultCatalogDerivesCleanly(t *testing.T) {
	r := DefaultRegistry()

	seen := make(map[string]string)
	for _, def := range DefaultCatalog() {
		key, err := r.DeriveKey(def.Requirement)
		require.NoError(t, err, "definition %q", def.Title)

		prev, dup := seen[key]
		require.False(t, dup, "key %s shared by %q and %q", key, prev, def.Title)
		seen[key] = def.Title
	}
}
