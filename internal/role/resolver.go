package role

import (
	"errors"
	"fmt"
)

// Resolver composes the assignment and role directories into a user's
// current role-name set. It always reads live assignment data; results
// are never cached, otherwise revocation would not take effect on
// refresh.
type Resolver struct {
	assignments AssignmentDirectory
	roles       Directory
}

func NewResolver(assignments AssignmentDirectory, roles Directory) *Resolver {
	return &Resolver{
		assignments: assignments,
		roles:       roles,
	}
}

// Resolve returns the role names currently assigned to the user.
// Assignments whose role no longer exists, or whose name is empty, are
// dropped silently. Names are unique per role id so the result has no
// duplicates.
func (r *Resolver) Resolve(userID int64) ([]string, error) {
	assignments, err := r.assignments.FindByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load role assignments: %w", err)
	}

	names := make([]string, 0, len(assignments))
	for _, a := range assignments {
		rol, err := r.roles.FindByID(a.RoleID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// dangling assignment, skip
				continue
			}
			return nil, fmt.Errorf("failed to resolve role %d: %w", a.RoleID, err)
		}
		if rol.Name == "" {
			continue
		}
		names = append(names, rol.Name)
	}

	return names, nil
}
