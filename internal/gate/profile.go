package gate

import "context"

// Profile is a named set of permissions attached to a user.
type Profile interface {
	Name() string
	HasPermission(permission Permission) bool
}

// ProfileResolver resolves a user id to its profile.
type ProfileResolver interface {
	Resolve(ctx context.Context, userID uint) (Profile, error)
}

// StaticProfile is an in-memory profile. The role-based profiles of this
// application (Admin, Customer) are static; resolvers map users onto them.
type StaticProfile struct {
	name        string
	permissions []Permission
}

// NewStaticProfile creates a profile with the given permissions.
func NewStaticProfile(name string, permissions ...Permission) *StaticProfile {
	return &StaticProfile{name: name, permissions: permissions}
}

func (p *StaticProfile) Name() string { return p.name }

// HasPermission checks the requested permission against the profile,
// honoring wildcards.
func (p *StaticProfile) HasPermission(requested Permission) bool {
	for _, perm := range p.permissions {
		if perm.Matches(requested) {
			return true
		}
	}
	return false
}

// StaticResolver maps user ids to fixed profiles. Used in tests.
type StaticResolver struct {
	profiles map[uint]Profile
}

func NewStaticResolver() *StaticResolver {
	return &StaticResolver{profiles: make(map[uint]Profile)}
}

// Set assigns a profile to a user.
func (r *StaticResolver) Set(userID uint, profile Profile) {
	r.profiles[userID] = profile
}

func (r *StaticResolver) Resolve(_ context.Context, userID uint) (Profile, error) {
	if profile, ok := r.profiles[userID]; ok {
		return profile, nil
	}
	return nil, nil
}
