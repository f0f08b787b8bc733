package domain

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role,omitempty"`
}

type UserProfile struct {
	ID       string    `json:"_id"`
	AltID    string    `json:"id,omitempty"`
	Name     string    `json:"name"`
	Email    string    `json:"email,omitempty"`
	Products []Product `json:"products,omitempty"`
}

// Identifier returns the Mongo-style _id, falling back to id.
func (p UserProfile) Identifier() string {
	if p.ID != "" {
		return p.ID
	}
	return p.AltID
}
