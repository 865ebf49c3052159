package policy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/rescuetrack/internal/domain/repository"
	"github.com/dropDatabas3/rescuetrack/internal/policy"
)

func TestRelate(t *testing.T) {
	c := &repository.Case{ID: "c1", PrimaryOwnerID: "owner"}
	collabs := []repository.Collaborator{{CaseID: "c1", UserID: "helper"}}

	require.Equal(t, policy.RelationOwner, policy.Relate(policy.Actor{ID: "owner"}, c, collabs))
	require.Equal(t, policy.RelationCollaborator, policy.Relate(policy.Actor{ID: "helper"}, c, collabs))
	require.Equal(t, policy.RelationNone, policy.Relate(policy.Actor{ID: "stranger"}, c, collabs))
	require.Equal(t, policy.RelationNone, policy.Relate(policy.Actor{}, c, collabs))
}

func TestRelate_OwnerWinsOverMembership(t *testing.T) {
	// Si el owner figura además como colaborador, la relación reportada es owner.
	c := &repository.Case{ID: "c1", PrimaryOwnerID: "u1"}
	collabs := []repository.Collaborator{{CaseID: "c1", UserID: "u1"}}
	require.Equal(t, policy.RelationOwner, policy.Relate(policy.Actor{ID: "u1"}, c, collabs))
}

func TestCanRead(t *testing.T) {
	require.True(t, policy.CanRead(policy.RelationNone, true))
	require.False(t, policy.CanRead(policy.RelationNone, false))
	require.True(t, policy.CanRead(policy.RelationCollaborator, false))
	require.True(t, policy.CanRead(policy.RelationOwner, false))
}

func TestEditVsOwnerOnly(t *testing.T) {
	require.True(t, policy.CanEdit(policy.RelationOwner))
	require.True(t, policy.CanEdit(policy.RelationCollaborator))
	require.False(t, policy.CanEdit(policy.RelationNone))

	// Owner-only: delete, transfer, remove collaborator.
	for _, rel := range []policy.Relationship{policy.RelationNone, policy.RelationCollaborator} {
		require.False(t, policy.CanDelete(rel))
		require.False(t, policy.CanTransferOwnership(rel))
		require.False(t, policy.CanRemoveCollaborator(rel))
	}
	require.True(t, policy.CanDelete(policy.RelationOwner))
	require.True(t, policy.CanTransferOwnership(policy.RelationOwner))
	require.True(t, policy.CanRemoveCollaborator(policy.RelationOwner))

	// Agregar colaboradores es derecho de cualquier editor.
	require.True(t, policy.CanAddCollaborator(policy.RelationCollaborator))
	require.False(t, policy.CanAddCollaborator(policy.RelationNone))
}

func TestCanViewSensitive(t *testing.T) {
	require.False(t, policy.CanViewSensitive(policy.Actor{}))
	require.True(t, policy.CanViewSensitive(policy.Actor{ID: "u1"}))
}
