package entity

// Roles válidos.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
)

// Identity es el usuario autenticado de la petición: se pasa explícitamente a cada caso de uso.
type Identity struct {
	UserID string
	SedeID string
	Role   string
}

// IsAdmin indica si la identidad tiene rol administrador.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
