package auth

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseMachineTransitions(t *testing.T) {
	cases := []struct {
		name    string
		path    []Phase
		allowed bool
	}{
		{"initialize then resolve", []Phase{PhaseInitializing, PhaseReady}, true},
		{"fast path to ready", []Phase{PhaseReady}, true},
		{"login from idle", []Phase{PhaseAuthenticating, PhaseReady}, true},
		{"re-login after resolution", []Phase{PhaseReady, PhaseAuthenticating, PhaseReady}, true},
		{"login while initializing", []Phase{PhaseInitializing, PhaseAuthenticating}, false},
		{"initialize while authenticating", []Phase{PhaseAuthenticating, PhaseInitializing}, false},
		{"initialize after ready", []Phase{PhaseReady, PhaseInitializing}, false},
		{"idle is not a target", []Phase{PhaseReady, PhaseIdle}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			machine := newPhaseMachine(nil)

			var err error
			for _, target := range tc.path {
				err = machine.transition(target)
				if err != nil {
					break
				}
			}

			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestPhaseMachineRejectionKeepsPhase(t *testing.T) {
	machine := newPhaseMachine(nil)
	require.NoError(t, machine.transition(PhaseInitializing))

	err := machine.transition(PhaseAuthenticating)
	require.Error(t, err)
	assert.Equal(t, PhaseInitializing, machine.phase())

	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr))
	assert.Equal(t, textCodeInvalidPhaseTransition, richErr.TextCode)
	assert.Equal(t, "initializing", richErr.Metadata["from"])
	assert.Equal(t, "authenticating", richErr.Metadata["to"])
}

func TestPhaseMachineLoading(t *testing.T) {
	machine := newPhaseMachine(nil)
	assert.True(t, machine.loading())

	require.NoError(t, machine.transition(PhaseInitializing))
	assert.True(t, machine.loading())

	require.NoError(t, machine.transition(PhaseReady))
	assert.False(t, machine.loading())

	// loading flips exactly once; a later login never re-suspends consumers.
	require.NoError(t, machine.transition(PhaseAuthenticating))
	assert.False(t, machine.loading())
}

func TestPhaseMachineObserver(t *testing.T) {
	var transitions [][2]Phase
	machine := newPhaseMachine(func(from, to Phase) {
		transitions = append(transitions, [2]Phase{from, to})
	})

	require.NoError(t, machine.transition(PhaseInitializing))
	require.NoError(t, machine.transition(PhaseReady))
	assert.Error(t, machine.transition(PhaseInitializing))

	// The observer only sees successful transitions.
	assert.Equal(t, [][2]Phase{
		{PhaseIdle, PhaseInitializing},
		{PhaseInitializing, PhaseReady},
	}, transitions)
}
