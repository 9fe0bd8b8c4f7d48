package model

const (
	RoleCustomer = "customer"
	RoleParlor   = "parlor" // partner salon; ordering on account
)

// Identity is the verified caller behind a request. Guests have none.
type Identity struct {
	UserID string
	Email  string
	Role   string
	Token  string // raw bearer token, forwarded upstream
}

func (i *Identity) IsParlor() bool {
	return i != nil && i.Role == RoleParlor
}
