package handlers

import (
	"net/http"
	"testing"

	"github.com/hieulm/writeuphub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAccount(t *testing.T, repo *stubAccountRepo, username, avatar, bio string) uint {
	t.Helper()
	account := &models.Account{
		Username: username,
		Email:    username + "@example.com",
		Avatar:   avatar,
		Bio:      bio,
		Role:     models.RoleUser,
	}
	require.NoError(t, repo.Create(account))
	return account.ID
}

func TestUpdateProfile_OmittedFieldsKeepStoredValues(t *testing.T) {
	repo := newStubAccountRepo()
	id := seedAccount(t, repo, "alice", "https://img.example.com/alice.png", "original bio")
	h := NewAccountHandler(repo, nil, nil)

	// Bio-only update leaves the avatar untouched.
	c, rec := newTestContext(http.MethodPut, "/api/v1/profile", `{"bio":"updated bio"}`)
	c.Set("accountID", id)
	require.NoError(t, h.UpdateProfile(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	account, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "updated bio", account.Bio)
	assert.Equal(t, "https://img.example.com/alice.png", account.Avatar)

	// Avatar-only update leaves the bio untouched.
	c, rec = newTestContext(http.MethodPut, "/api/v1/profile", `{"avatar":"https://img.example.com/new.png"}`)
	c.Set("accountID", id)
	require.NoError(t, h.UpdateProfile(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	account, err = repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "updated bio", account.Bio)
	assert.Equal(t, "https://img.example.com/new.png", account.Avatar)
}

func TestUpdateProfile_ExplicitEmptyBioClears(t *testing.T) {
	repo := newStubAccountRepo()
	id := seedAccount(t, repo, "alice", "https://img.example.com/alice.png", "original bio")
	h := NewAccountHandler(repo, nil, nil)

	c, rec := newTestContext(http.MethodPut, "/api/v1/profile", `{"bio":""}`)
	c.Set("accountID", id)
	require.NoError(t, h.UpdateProfile(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	account, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Empty(t, account.Bio, "a submitted empty bio clears the field")
	assert.Equal(t, "https://img.example.com/alice.png", account.Avatar)
}
