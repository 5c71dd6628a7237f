package models

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "vaultguard/pkg/domain-errors"
)

func strPtr(s string) *string { return &s }

func TestCreateEntryRequest(t *testing.T) {
	valid := func() CreateEntryRequest {
		return CreateEntryRequest{SiteName: "GitHub", SiteURL: "https://github.com", Username: "alice", Password: "hunter2"}
	}

	tests := []struct {
		name    string
		mutate  func(r *CreateEntryRequest)
		wantErr string
	}{
		{name: "valid", mutate: func(*CreateEntryRequest) {}},
		{name: "missing site name", mutate: func(r *CreateEntryRequest) { r.SiteName = "" }, wantErr: "site_name is required"},
		{name: "blank username", mutate: func(r *CreateEntryRequest) { r.Username = "   " }, wantErr: "username"},
		{name: "missing password", mutate: func(r *CreateEntryRequest) { r.Password = "" }, wantErr: "password is required"},
		{name: "notes too long", mutate: func(r *CreateEntryRequest) { r.Notes = strings.Repeat("n", 2001) }, wantErr: "notes must be at most 2000"},
		{name: "url too long", mutate: func(r *CreateEntryRequest) { r.SiteURL = strings.Repeat("u", 501) }, wantErr: "site_url must be at most 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCreateEntryRequest_Normalize(t *testing.T) {
	req := &CreateEntryRequest{SiteName: "  GitHub ", SiteURL: " https://github.com ", Username: " alice ", Password: " keep spaces "}
	req.Normalize()

	assert.Equal(t, "GitHub", req.SiteName)
	assert.Equal(t, "https://github.com", req.SiteURL)
	assert.Equal(t, "alice", req.Username)
	assert.Equal(t, " keep spaces ", req.Password, "passwords are stored byte for byte")
}

func TestUpdateEntryRequest(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		req := &UpdateEntryRequest{}
		assert.True(t, req.Empty())
		require.NoError(t, req.Validate())
	})

	t.Run("blank site name rejected", func(t *testing.T) {
		req := &UpdateEntryRequest{SiteName: strPtr("  ")}
		req.Normalize()
		assert.False(t, req.Empty())
		require.Error(t, req.Validate())
	})

	t.Run("password only", func(t *testing.T) {
		req := &UpdateEntryRequest{Password: strPtr("n3w-secret")}
		require.NoError(t, req.Validate())
		assert.False(t, req.Empty())
	})
}

func TestGenerateRequest(t *testing.T) {
	req := &GenerateRequest{Preset: " Strong "}
	req.Normalize()
	require.NoError(t, req.Validate())
	assert.Equal(t, "strong", req.Preset)

	bad := &GenerateRequest{Preset: "ultra"}
	require.Error(t, bad.Validate())

	short := &GenerateRequest{Length: 3}
	require.Error(t, short.Validate())
}

func TestNewEntry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	owner := uuid.New()

	entry, err := NewEntry(owner, " GitHub ", "", "alice", "blob", "", now)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, "GitHub", entry.SiteName)
	assert.True(t, entry.OwnedBy(owner))
	assert.False(t, entry.OwnedBy(uuid.New()))
	assert.Nil(t, entry.LastUsedAt)

	entry.MarkUsed(now.Add(time.Minute))
	require.NotNil(t, entry.LastUsedAt)
	assert.Equal(t, now.Add(time.Minute), *entry.LastUsedAt)

	_, err = NewEntry(uuid.Nil, "GitHub", "", "alice", "blob", "", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = NewEntry(owner, "GitHub", "", "alice", "", "", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}
