package auth

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/gastos-api/internal/application/dto"
	"github.com/tu-usuario/gastos-api/internal/domain"
	"github.com/tu-usuario/gastos-api/internal/domain/entity"
	"github.com/tu-usuario/gastos-api/internal/domain/repository"
	"github.com/tu-usuario/gastos-api/pkg/jwt"
)

// JWTConfig configuración para emisión de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de identidad: autenticación de credenciales,
// emisión de tokens y resolución del principal por request.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Authenticate valida credenciales. El identificador puede ser el id o el
// email de la cuenta. Cuenta ausente o inactiva falla con ErrUnauthorized;
// un password que no coincide devuelve (nil, nil): "no hubo match" no es lo
// mismo que "falló la autenticación".
func (uc *AuthUseCase) Authenticate(identifier, password string) (*entity.Principal, error) {
	user, err := uc.findByIdentifier(identifier)
	if err != nil {
		log.Error().Err(err).Str("identifier", identifier).Msg("error autenticando usuario")
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}
	return entity.PrincipalFromUser(user), nil
}

// Login emite el JWT con los datos del principal y la expiración configurada.
func (uc *AuthUseCase) Login(p *entity.Principal) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, p.ID, p.Email, p.Name, p.Role, p.Active, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		log.Error().Err(err).Str("user_id", p.ID).Msg("error generando token")
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		User:        *dto.ToPrincipalResponse(p),
	}, nil
}

// CurrentUser reconstruye el principal desde el registro persistido. Un token
// estructuralmente válido no alcanza: la cuenta tiene que seguir existiendo y
// activa, así una cuenta desactivada pierde acceso aunque su token no expire.
func (uc *AuthUseCase) CurrentUser(id string) (*entity.Principal, error) {
	// El claim viene de un token firmado por nosotros, pero un id que no sea
	// UUID no identifica ninguna cuenta: se rechaza antes de tocar la base.
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("error resolviendo principal")
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domain.ErrUnauthorized
	}
	return entity.PrincipalFromUser(user), nil
}

func (uc *AuthUseCase) findByIdentifier(identifier string) (*entity.User, error) {
	if _, err := uuid.Parse(identifier); err == nil {
		return uc.userRepo.GetByID(identifier)
	}
	email := strings.ToLower(strings.TrimSpace(identifier))
	return uc.userRepo.GetByEmail(email)
}
