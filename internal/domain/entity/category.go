package entity

import "time"

// Tipos válidos para Category.
const (
	CategoryTypeDefault = "default"
	CategoryTypeUser    = "user"
)

// Category representa una categoría de gastos. Las default son compartidas
// por todos los usuarios y solo mutables por admin; las de tipo user
// pertenecen exclusivamente a UserID. El borrado es lógico y la pareja
// (Name, UserID) puede restaurarse al recrearla.
type Category struct {
	ID        string
	Name      string
	Type      string // default, user
	UserID    string // vacío si Type == default
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VisibleTo indica si la categoría es visible para el usuario dado:
// default es visible para todos, user solo para su dueño.
func (c *Category) VisibleTo(userID string) bool {
	return c.Type == CategoryTypeDefault || c.UserID == userID
}
