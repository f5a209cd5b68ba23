package service

import (
	"context"
	"testing"

	"vendafacil/internal/config"
	"vendafacil/internal/dto"
	"vendafacil/internal/model"
	"vendafacil/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	out := make([]model.Usuario, 0, len(r.usuarios))
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

func buildAuthSvc() (AuthService, *stubUsuarioRepo) {
	repo := newStubUsuarioRepo()
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
	return NewAuthService(repo, cfg), repo
}

func seedUsuario(repo *stubUsuarioRepo, username, password string, ativo bool) *model.Usuario {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.Usuario{
		ID:           uuid.New(),
		Username:     username,
		Nome:         "Operador " + username,
		Email:        username + "@vendafacil.local",
		PasswordHash: string(hash),
		Perfil:       "vendedor",
		Ativo:        ativo,
	}
	repo.usuarios[u.ID] = u
	return u
}

func TestLogin(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUsuario(repo, "maria", "senha1234", true)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "senha1234"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "maria@vendafacil.local", resp.User.Email)
}

func TestLoginSenhaErrada(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUsuario(repo, "maria", "senha1234", true)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "outra"})
	assert.ErrorIs(t, err, ErrCredenciaisInvalidas)
}

func TestLoginUsuarioInativo(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUsuario(repo, "jose", "senha1234", false)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "jose", Password: "senha1234"})
	assert.ErrorIs(t, err, ErrUsuarioInativo)
}

func TestCriarUsuario(t *testing.T) {
	svc, repo := buildAuthSvc()

	resp, err := svc.CriarUsuario(context.Background(), dto.CriarUsuarioRequest{
		Username: "ana",
		Nome:     "Ana Souza",
		Email:    "ana@vendafacil.local",
		Password: "senha1234",
		Perfil:   "gerente",
	})
	require.NoError(t, err)

	assert.Equal(t, "ana@vendafacil.local", resp.Email)
	assert.Equal(t, "gerente", resp.Perfil)
	assert.True(t, resp.Ativo)

	// Password stored hashed, never verbatim.
	u, err := repo.FindByUsername(context.Background(), "ana")
	require.NoError(t, err)
	assert.NotEqual(t, "senha1234", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("senha1234")))
}

func TestAtualizarUsuario(t *testing.T) {
	svc, repo := buildAuthSvc()
	u := seedUsuario(repo, "carla", "senha1234", true)

	inativo := false
	resp, err := svc.AtualizarUsuario(context.Background(), u.ID, dto.AtualizarUsuarioRequest{
		Email:  "carla@loja.com.br",
		Perfil: "administrador",
		Ativo:  &inativo,
	})
	require.NoError(t, err)

	assert.Equal(t, "carla@loja.com.br", resp.Email)
	assert.Equal(t, "administrador", resp.Perfil)
	assert.False(t, resp.Ativo)
	// Fields left empty in the request keep their value.
	assert.Equal(t, "Operador carla", resp.Nome)
}
