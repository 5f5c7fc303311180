package auth

// Role identifies which partitioned identity store owns an account.
// Every store holds accounts of exactly one role.
type Role string

const (
	RoleAdmin           Role = "Admin"
	RoleRestaurantOwner Role = "RestaurantOwner"
	RoleCustomer        Role = "Customer"
	RoleDeliveryRider   Role = "DeliveryRider"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleRestaurantOwner, RoleCustomer, RoleDeliveryRider:
		return true
	}
	return false
}

// Account is a read-only copy of a user record owned by a partition
// store. The gateway holds it only for the duration of a single login
// attempt and never persists it.
type Account struct {
	ID             string // store-assigned external id
	Email          string // unique within its partition, not globally
	PasswordHash   string // empty for OAuth-only accounts
	FirstName      string
	LastName       string
	Role           Role
	ExternalAuthID string // federated-provider subject, if linked
}

// PublicAccount is the reduced view returned to clients. It never
// carries the password hash.
type PublicAccount struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// Public returns the client-safe view of the account.
func (a Account) Public() PublicAccount {
	return PublicAccount{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Role:      a.Role,
	}
}
