package usecase_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/gastos-api/internal/application/dto"
	"github.com/tu-usuario/gastos-api/internal/application/usecase"
	"github.com/tu-usuario/gastos-api/internal/domain"
	"github.com/tu-usuario/gastos-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

// memUserRepo implementa UserRepository sobre un mapa.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func (m *memUserRepo) Create(u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *u
	m.users[u.ID] = &copied
	return nil
}

func (m *memUserRepo) GetByID(id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.Deleted {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (m *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email && !u.Deleted {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) ExistsByEmail(email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserRepo) Update(u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *u
	m.users[u.ID] = &copied
	return nil
}

// capturingMailer guarda el último código enviado; con fail simula un SMTP
// caído.
type capturingMailer struct {
	mu   sync.Mutex
	code string
	fail bool
}

func (m *capturingMailer) SendVerificationCode(to, name, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp caído")
	}
	m.code = code
	return nil
}

func (m *capturingMailer) sentCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.code
}

// bcrypt con costo mínimo para que la suite no se arrastre.
func newUserUC(mailer *capturingMailer) (*usecase.UserUseCase, *memUserRepo) {
	repo := newMemUserRepo()
	return usecase.NewUserUseCase(repo, mailer, bcrypt.MinCost), repo
}

func waitForCode(t *testing.T, mailer *capturingMailer) string {
	t.Helper()
	require.Eventually(t, func() bool { return mailer.sentCode() != "" },
		2*time.Second, 10*time.Millisecond, "el correo de verificación debe despacharse")
	return mailer.sentCode()
}

// ──────────────────────────────────────────────────────────────────────────────
// Register
// ──────────────────────────────────────────────────────────────────────────────

func TestUserRegister_NaceInactivoConCodigo(t *testing.T) {
	mailer := &capturingMailer{}
	uc, repo := newUserUC(mailer)

	out, err := uc.Register(dto.CreateUserRequest{
		Email:    " Ana@Example.COM ",
		Name:     "Ana",
		Password: "supersecreta",
	})
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", out.Email, "el email se normaliza a minúsculas")

	stored, err := repo.GetByID(out.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.Active, "la cuenta nace inactiva")
	assert.Equal(t, entity.RoleUser, stored.Role)
	assert.NotEmpty(t, stored.VerificationToken)
	assert.NotEqual(t, "supersecreta", stored.PasswordHash)

	code := waitForCode(t, mailer)
	assert.Len(t, code, 6, "el código enviado tiene 6 dígitos")
	// El token guardado es el hash del código, nunca el código plano.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.VerificationToken), []byte(code)))
}

func TestUserRegister_EmailInvalido(t *testing.T) {
	uc, _ := newUserUC(&capturingMailer{})

	_, err := uc.Register(dto.CreateUserRequest{Email: "no-es-un-email", Name: "Ana", Password: "supersecreta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserRegister_EmailDuplicado(t *testing.T) {
	uc, _ := newUserUC(&capturingMailer{})

	_, err := uc.Register(dto.CreateUserRequest{Email: "ana@example.com", Name: "Ana", Password: "supersecreta"})
	require.NoError(t, err)

	_, err = uc.Register(dto.CreateUserRequest{Email: "ana@example.com", Name: "Otra", Password: "supersecreta"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// Un SMTP caído no revierte el registro: el correo es fire-and-forget.
func TestUserRegister_FalloDeCorreoNoBloquea(t *testing.T) {
	uc, repo := newUserUC(&capturingMailer{fail: true})

	out, err := uc.Register(dto.CreateUserRequest{Email: "ana@example.com", Name: "Ana", Password: "supersecreta"})
	require.NoError(t, err)

	stored, err := repo.GetByID(out.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

// ──────────────────────────────────────────────────────────────────────────────
// VerifyEmail
// ──────────────────────────────────────────────────────────────────────────────

func TestUserVerifyEmail_ActivaConCodigoCorrecto(t *testing.T) {
	mailer := &capturingMailer{}
	uc, repo := newUserUC(mailer)

	out, err := uc.Register(dto.CreateUserRequest{Email: "ana@example.com", Name: "Ana", Password: "supersecreta"})
	require.NoError(t, err)
	code := waitForCode(t, mailer)

	p, err := uc.VerifyEmail(out.ID, code)
	require.NoError(t, err)
	assert.True(t, p.Active)

	stored, _ := repo.GetByID(out.ID)
	assert.True(t, stored.Active)
	assert.Empty(t, stored.VerificationToken, "el token se consume al verificar")
}

func TestUserVerifyEmail_CodigoIncorrecto(t *testing.T) {
	mailer := &capturingMailer{}
	uc, _ := newUserUC(mailer)

	out, err := uc.Register(dto.CreateUserRequest{Email: "ana@example.com", Name: "Ana", Password: "supersecreta"})
	require.NoError(t, err)
	waitForCode(t, mailer)

	_, err = uc.VerifyEmail(out.ID, "000000")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserVerifyEmail_YaActivaONoExiste(t *testing.T) {
	mailer := &capturingMailer{}
	uc, _ := newUserUC(mailer)

	out, err := uc.Register(dto.CreateUserRequest{Email: "ana@example.com", Name: "Ana", Password: "supersecreta"})
	require.NoError(t, err)
	code := waitForCode(t, mailer)

	_, err = uc.VerifyEmail(out.ID, code)
	require.NoError(t, err)

	// Segunda verificación: el token ya se consumió.
	_, err = uc.VerifyEmail(out.ID, code)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.VerifyEmail(uuid.New().String(), code)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Un id malformado no llega al repositorio: es entrada inválida.
func TestUserVerifyEmail_IDInvalido(t *testing.T) {
	uc, _ := newUserUC(&capturingMailer{})

	_, err := uc.VerifyEmail("id-inexistente", "123456")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// GetByID
// ──────────────────────────────────────────────────────────────────────────────

func TestUserGetByID_Sanitizado(t *testing.T) {
	mailer := &capturingMailer{}
	uc, _ := newUserUC(mailer)

	out, err := uc.Register(dto.CreateUserRequest{Email: "ana@example.com", Name: "Ana", Password: "supersecreta"})
	require.NoError(t, err)

	got, err := uc.GetByID(out.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", got.Email)
	assert.Equal(t, entity.RoleUser, got.Role)
}

func TestUserGetByID_Inexistente(t *testing.T) {
	uc, _ := newUserUC(&capturingMailer{})

	_, err := uc.GetByID(uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserGetByID_IDInvalido(t *testing.T) {
	uc, _ := newUserUC(&capturingMailer{})

	_, err := uc.GetByID("nope")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
