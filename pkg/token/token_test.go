package token

import (
	"testing"
	"time"

	"anoa.com/hennahub/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	user := &entity.User{ID: uuid.New(), Role: entity.RoleDesigner}

	signed, exp, err := issuer.Generate(user)
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	actor, err := issuer.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.UserID)
	assert.Equal(t, entity.RoleDesigner, actor.Role)
	assert.False(t, actor.IsAdmin())
}

func TestParseRejectsForeignAndExpiredTokens(t *testing.T) {
	user := &entity.User{ID: uuid.New(), Role: entity.RoleCustomer}

	signed, _, err := NewIssuer("other", time.Hour).Generate(user)
	require.NoError(t, err)
	_, err = NewIssuer("secret", time.Hour).Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := NewIssuer("secret", -time.Minute).Generate(user)
	require.NoError(t, err)
	_, err = NewIssuer("secret", time.Hour).Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewIssuer("secret", time.Hour).Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSuperuserIsAdmin(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	user := &entity.User{ID: uuid.New(), Role: entity.RoleCustomer, IsSuperuser: true}

	signed, _, err := issuer.Generate(user)
	require.NoError(t, err)
	actor, err := issuer.Parse(signed)
	require.NoError(t, err)
	assert.True(t, actor.IsAdmin())
}
