package repository

import "github.com/tu-usuario/gastos-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get* excluyen cuentas con borrado lógico; ExistsByEmail las incluye
// porque el email es único de por vida.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	Update(user *entity.User) error
}
