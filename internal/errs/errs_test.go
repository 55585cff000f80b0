package errs

import (
	"testing"

	goerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "invalid_input", KindInvalidInput.String())
	assert.Equal(t, "infeasible", KindInfeasible.String())
	assert.Equal(t, "time_limit_feasible", KindTimeLimitFeasible.String())
	assert.Equal(t, "time_limit_no_solution", KindTimeLimitNoSolution.String())
	assert.Equal(t, "solver_error", KindSolverError.String())
	assert.Equal(t, "iis_timeout", KindIISTimeout.String())
	assert.Equal(t, "iis_failure", KindIISFailure.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestNewAndAs(t *testing.T) {
	err := New(KindInfeasible, "no feasible assignment")
	kind, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindInfeasible, kind)
	assert.Equal(t, "infeasible: no feasible assignment", err.Error())
}

func TestWrapPreservesCauseAndNilPassthrough(t *testing.T) {
	assert.Nil(t, Wrap(KindSolverError, nil, "solving"))

	cause := goerrors.New("solver crashed")
	wrapped := Wrap(KindSolverError, cause, "solving")
	kind, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindSolverError, kind)
	assert.Contains(t, wrapped.Error(), "solver crashed")
	assert.Contains(t, wrapped.Error(), "solving")
}

func TestAsFalseForPlainError(t *testing.T) {
	_, ok := As(goerrors.New("plain"))
	assert.False(t, ok)
}

func TestInvalidInputFormatsMessage(t *testing.T) {
	err := InvalidInput("course %q references unknown instructor %q", "CS101", "nobody")
	kind, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalidInput, kind)
	assert.Contains(t, err.Error(), `CS101`)
	assert.Contains(t, err.Error(), `nobody`)

	// InvalidInputf is an alias.
	assert.Equal(t, InvalidInput("x").Error(), InvalidInputf("x").Error())
}
