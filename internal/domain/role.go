package domain

// Role identifies which side of a room a device speaks for.
type Role string

const (
	RoleAdmin     Role = "admin"     // scanner device
	RoleProjector Role = "projector" // display device
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleProjector
}

// Peer returns the opposite role.
func (r Role) Peer() Role {
	if r == RoleAdmin {
		return RoleProjector
	}
	return RoleAdmin
}
