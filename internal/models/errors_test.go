package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProvisionError_Is_MatchesByKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewNotFound("release", "ghost", "", ""))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrStore)
}

func TestProvisionError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewStoreError("create", "cluster", "prod-eks", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrStore)
}

func TestProvisionError_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "top-level not found",
			err:  NewNotFound("release", "ghost-release", "", ""),
			want: `release "ghost-release": not found`,
		},
		{
			name: "referenced not found",
			err:  NewNotFound("auth", "admin", "context", "prod-ctx"),
			want: `auth "admin" referenced by context "prod-ctx": not found`,
		},
		{
			name: "unsupported combination",
			err:  NewUnsupportedCombination("create", "auth", "prod-ctx", "token", "eks"),
			want: `create auth "prod-ctx": unsupported combination: auth type token with cluster type eks`,
		},
		{
			name: "unsupported cluster",
			err:  NewUnsupportedCluster("prod-gke", "gke"),
			want: `create cluster "prod-gke": unsupported combination: cluster type gke`,
		},
		{
			name: "wrapped cause",
			err:  NewResourceError("remove", "/tmp/ca.crt", errors.New("busy")),
			want: `remove file "/tmp/ca.crt": busy`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}
