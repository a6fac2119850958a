package auth

import "github.com/princinho/dealsbackend/models"

// Identity is the caller resolved by the guard from storage, with the
// role set as it is now rather than as it was when the token was issued.
type Identity struct {
	ID        uint     `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}

func IdentityFromUser(u *models.User) *Identity {
	return &Identity{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Roles:     u.RoleNames(),
	}
}

func (i *Identity) HasRole(name string) bool {
	if i == nil {
		return false
	}
	for _, r := range i.Roles {
		if r == name {
			return true
		}
	}
	return false
}

func (i *Identity) HasAnyRole(names ...string) bool {
	for _, n := range names {
		if i.HasRole(n) {
			return true
		}
	}
	return false
}

func (i *Identity) IsAdmin() bool { return i.HasRole(models.RoleAdmin) }
