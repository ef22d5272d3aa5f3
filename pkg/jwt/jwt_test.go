package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := Generate("secreto", "inventario-stock", 60, 42, "bodeguero", []string{"inventory"})
	require.NoError(t, err)

	claims, err := Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "bodeguero", claims.Role)
	assert.Equal(t, []string{"inventory"}, claims.Permissions)
	assert.Equal(t, "42", claims.Subject)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := Generate("secreto", "x", 60, 1, "admin", nil)
	require.NoError(t, err)

	_, err = Parse("otro", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Expirado(t *testing.T) {
	token, err := Generate("secreto", "x", -1, 1, "admin", nil)
	require.NoError(t, err)

	_, err = Parse("secreto", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSecretVacio(t *testing.T) {
	_, err := Generate("", "x", 60, 1, "admin", nil)
	assert.Error(t, err)
	_, err = Parse("", "abc")
	assert.Error(t, err)
}
