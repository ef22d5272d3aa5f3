package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-stock/pkg/jwt"
)

func newTestAuth() *AuthUseCase {
	uc := NewAuthUseCase(memory.NewUserRepository(memory.NewStore()), JWTConfig{Secret: "secreto", ExpMinutes: 5, Issuer: "test"})
	uc.cost = bcrypt.MinCost
	return uc
}

func TestRegisterAndLogin(t *testing.T) {
	uc := newTestAuth()
	ctx := context.Background()

	user, err := uc.RegisterUser(ctx, dto.RegisterUserRequest{
		Email: "Bodega@Ejemplo.com", Password: "clave-segura", Name: "Bodega", Role: entity.RoleBodeguero,
	})
	require.NoError(t, err)
	assert.Equal(t, "bodega@ejemplo.com", user.Email)
	assert.Equal(t, []string{entity.PermissionInventory, entity.PermissionReports}, user.Permissions)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "bodega@ejemplo.com", Password: "clave-segura"})
	require.NoError(t, err)
	claims, err := jwt.Parse("secreto", res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, entity.RoleBodeguero, claims.Role)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc := newTestAuth()
	ctx := context.Background()
	in := dto.RegisterUserRequest{Email: "a@b.co", Password: "clave-segura"}

	_, err := uc.RegisterUser(ctx, in)
	require.NoError(t, err)
	_, err = uc.RegisterUser(ctx, in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newTestAuth()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterUserRequest{Email: "a@b.co", Password: "clave-segura"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@b.co", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@b.co", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestEnsureAdmin_Idempotente(t *testing.T) {
	uc := newTestAuth()
	ctx := context.Background()

	first, err := uc.EnsureAdmin(ctx, "admin@inventario.local", "admin-1234")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, first.Role)
	assert.Equal(t, []string{entity.PermissionAll}, first.Permissions)

	second, err := uc.EnsureAdmin(ctx, "admin@inventario.local", "admin-1234")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
