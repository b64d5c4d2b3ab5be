package ledger

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidReferenceErrorCode(t *testing.T) {
	err := &InvalidReferenceError{Entity: "agent", ID: 42}
	assert.Equal(t, "agent_not_found", err.Code())
	assert.Equal(t, "agent 42 not found", err.Error())
}

func TestPersistenceErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := persistence("insert customer", cause)

	var pErr *PersistenceError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "insert customer", pErr.Op)
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("request failed: %w", err)
	assert.ErrorAs(t, wrapped, &pErr)
}

func TestEuros(t *testing.T) {
	assert.Equal(t, 100.00, Euros(10000))
	assert.Equal(t, 60.00, Euros(6000))
	assert.Equal(t, 0.00, Euros(0))
	assert.Equal(t, -40.00, Euros(-4000))
	assert.Equal(t, 0.01, Euros(1))
}
