package lifecycle_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/helpdesk-labs/mesa-ayuda/internal/domain"
	"github.com/helpdesk-labs/mesa-ayuda/internal/lifecycle"
	apperrors "github.com/helpdesk-labs/mesa-ayuda/pkg/util"
)

func errCode(t *testing.T, err error) string {
	t.Helper()
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	return de.Code
}

func TestPermissiveTableAllowsAnyAdminTransition(t *testing.T) {
	m := lifecycle.NewMachine(lifecycle.PermissiveTable())

	for _, from := range domain.Estados {
		for _, to := range domain.Estados {
			require.NoError(t, m.Transition(domain.RolAdmin, from, to),
				"admin %s -> %s should pass", from, to)
		}
	}
}

func TestNonAdminHasNoTransitions(t *testing.T) {
	m := lifecycle.NewMachine(lifecycle.PermissiveTable())

	err := m.Transition(domain.RolUsuario, domain.EstadoAbierto, domain.EstadoEnProceso)
	require.Error(t, err)
	require.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestUnknownTargetStateRejected(t *testing.T) {
	m := lifecycle.NewMachine(nil)

	err := m.Transition(domain.RolAdmin, domain.EstadoAbierto, domain.Estado("archivado"))
	require.Error(t, err)
	require.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestSameStateIsNoOp(t *testing.T) {
	m := lifecycle.NewMachine(lifecycle.RestrictedTable())

	require.NoError(t, m.Transition(domain.RolAdmin, domain.EstadoCerrado, domain.EstadoCerrado))
}

func TestRestrictedTableTerminalStates(t *testing.T) {
	m := lifecycle.NewMachine(lifecycle.RestrictedTable())

	err := m.Transition(domain.RolAdmin, domain.EstadoCerrado, domain.EstadoEnProceso)
	require.Error(t, err)
	require.Equal(t, "CONFLICT", errCode(t, err))

	err = m.Transition(domain.RolAdmin, domain.EstadoCancelado, domain.EstadoResuelto)
	require.Error(t, err)
	require.Equal(t, "CONFLICT", errCode(t, err))

	// Reopen is the only edge out of a terminal state.
	require.NoError(t, m.Transition(domain.RolAdmin, domain.EstadoCerrado, domain.EstadoAbierto))
	require.NoError(t, m.Transition(domain.RolAdmin, domain.EstadoCancelado, domain.EstadoAbierto))
}

func TestRestrictedTableForwardPath(t *testing.T) {
	m := lifecycle.NewMachine(lifecycle.RestrictedTable())

	require.NoError(t, m.Transition(domain.RolAdmin, domain.EstadoAbierto, domain.EstadoEnProceso))
	require.NoError(t, m.Transition(domain.RolAdmin, domain.EstadoEnProceso, domain.EstadoResuelto))
	require.NoError(t, m.Transition(domain.RolAdmin, domain.EstadoResuelto, domain.EstadoCerrado))

	err := m.Transition(domain.RolAdmin, domain.EstadoAbierto, domain.EstadoCerrado)
	require.Error(t, err)
	require.Equal(t, "CONFLICT", errCode(t, err))
}
