package domain

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
	RoleGuest UserRole = "guest"
)

// Identity é o usuário autenticado pelo provedor de identidade externo.
// BusinessProfileID delimita todos os dados acessíveis (tenant).
type Identity struct {
	UserID            string
	BusinessProfileID string
	Role              UserRole
}
