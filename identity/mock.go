package identity

// The fixed identities a role selection resolves to.
var (
	mockAdmin = mustNew("1", "Admin User", "admin@nexus.com", RoleAdmin, "https://picsum.photos/seed/admin/200")
	mockUser  = mustNew("2", "Standard User", "user@nexus.com", RoleUser, "https://picsum.photos/seed/user/200")
)

// MockAdmin returns the built-in administrator identity.
func MockAdmin() Identity { return mockAdmin }

// MockUser returns the built-in standard user identity.
func MockUser() Identity { return mockUser }

// Directory returns the fixed role → identity mapping used by the authenticator.
// The returned map is a fresh copy.
func Directory() map[Role]Identity {
	return map[Role]Identity{
		RoleAdmin: mockAdmin,
		RoleUser:  mockUser,
	}
}

func mustNew(id, name, email string, role Role, avatar string) Identity {
	ident, err := New(id, name, email, role, avatar)
	if err != nil {
		panic(err)
	}
	return ident
}
