package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStatus string

const (
	testDraft     testStatus = "DRAFT"
	testIssued    testStatus = "ISSUED"
	testPaid      testStatus = "PAID"
	testCancelled testStatus = "CANCELLED"
)

var testTable = Transitions[testStatus]{
	testDraft:  {testIssued, testCancelled},
	testIssued: {testPaid, testCancelled},
}

func TestTransitionsCan(t *testing.T) {
	assert.True(t, testTable.Can(testDraft, testIssued))
	assert.True(t, testTable.Can(testIssued, testPaid))
	assert.False(t, testTable.Can(testDraft, testPaid))
	assert.False(t, testTable.Can(testPaid, testDraft))
	assert.False(t, testTable.Can(testCancelled, testIssued))
}

func TestTransitionsIsTerminal(t *testing.T) {
	assert.False(t, testTable.IsTerminal(testDraft))
	assert.True(t, testTable.IsTerminal(testPaid))
	assert.True(t, testTable.IsTerminal(testCancelled))
}

func TestTransitionsGuard(t *testing.T) {
	t.Run("legal transition passes", func(t *testing.T) {
		assert.NoError(t, testTable.Guard(testDraft, testIssued, "DOC_INVALID_STATE"))
	})

	t.Run("illegal transition returns conflict", func(t *testing.T) {
		err := testTable.Guard(testPaid, testIssued, "DOC_INVALID_STATE")
		require.Error(t, err)
		assert.Equal(t, ErrorKindConflict, KindOf(err))
		assert.Equal(t, "DOC_INVALID_STATE", CodeOf(err))
	})

	t.Run("same failure twice", func(t *testing.T) {
		first := testTable.Guard(testPaid, testIssued, "DOC_INVALID_STATE")
		second := testTable.Guard(testPaid, testIssued, "DOC_INVALID_STATE")
		require.Error(t, first)
		require.Error(t, second)
		assert.Equal(t, CodeOf(first), CodeOf(second))
		assert.Equal(t, first.Error(), second.Error())
	})
}
