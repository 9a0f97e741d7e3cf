package usecase

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/gastos-api/internal/application/dto"
	"github.com/tu-usuario/gastos-api/internal/domain"
	"github.com/tu-usuario/gastos-api/internal/domain/entity"
	"github.com/tu-usuario/gastos-api/internal/domain/repository"
)

// VerificationMailer envía el código de verificación al correo del usuario.
// Lo implementa el adaptador SMTP; en tests se reemplaza por un fake.
type VerificationMailer interface {
	SendVerificationCode(to, name, code string) error
}

// UserUseCase registro, verificación de email y consulta de usuarios.
type UserUseCase struct {
	repo       repository.UserRepository
	mailer     VerificationMailer
	bcryptCost int
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository, mailer VerificationMailer, bcryptCost int) *UserUseCase {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserUseCase{repo: repo, mailer: mailer, bcryptCost: bcryptCost}
}

// Register crea la cuenta inactiva con un código de verificación de 6 dígitos
// y despacha el correo sin bloquear: un fallo de envío solo se loggea, nunca
// revierte el registro.
func (uc *UserUseCase) Register(in dto.CreateUserRequest) (*dto.RegisteredResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, fmt.Errorf("%w: email con formato inválido", domain.ErrInvalidInput)
	}

	exists, err := uc.repo.ExistsByEmail(email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("error verificando email existente")
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailAlreadyExists
	}

	pwdHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.bcryptCost)
	if err != nil {
		return nil, err
	}

	code, err := verificationCode()
	if err != nil {
		return nil, err
	}
	tokenHash, err := bcrypt.GenerateFromPassword([]byte(code), uc.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		ID:                uuid.New().String(),
		Email:             email,
		Name:              strings.TrimSpace(in.Name),
		PasswordHash:      string(pwdHash),
		Role:              entity.RoleUser,
		Active:            false,
		VerificationToken: string(tokenHash),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(user); err != nil {
		log.Error().Err(err).Str("email", email).Msg("error creando usuario")
		return nil, err
	}

	// Fire-and-forget: el registro no espera ni depende del correo.
	go func() {
		if err := uc.mailer.SendVerificationCode(user.Email, user.Name, code); err != nil {
			log.Warn().Err(err).Str("email", user.Email).Msg("no se pudo enviar el correo de verificación")
		}
	}()

	return &dto.RegisteredResponse{ID: user.ID, Email: user.Email, Name: user.Name}, nil
}

// VerifyEmail activa la cuenta si el código coincide con el hash guardado.
// Cuenta inexistente, ya activa o sin token pendiente responde igual que un
// token inválido para no filtrar el estado de la cuenta.
func (uc *UserUseCase) VerifyEmail(userID, token string) (*dto.PrincipalResponse, error) {
	if err := validID(userID, "usuario"); err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("error verificando email")
		return nil, err
	}
	if user == nil || user.VerificationToken == "" || user.Active {
		log.Error().Str("user_id", userID).Msg("usuario ya verificado o token inexistente, verificación cancelada")
		return nil, domain.ErrNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.VerificationToken), []byte(token)); err != nil {
		return nil, domain.ErrConflict
	}

	user.Active = true
	user.VerificationToken = ""
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(user); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("error activando usuario")
		return nil, err
	}

	return dto.ToPrincipalResponse(entity.PrincipalFromUser(user)), nil
}

// GetByID devuelve el usuario sanitizado.
func (uc *UserUseCase) GetByID(id string) (*dto.UserResponse, error) {
	if err := validID(id, "usuario"); err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(id)
	if err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("error consultando usuario")
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return dto.ToUserResponse(user), nil
}

// verificationCode genera un código aleatorio de 6 dígitos.
func verificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
