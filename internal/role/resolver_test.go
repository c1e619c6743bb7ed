package role

import (
	"errors"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestRole(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Role Module Suite")
}

type mockAssignmentDirectory struct {
	byUser      map[int64][]Assignment
	returnError error
}

func (m *mockAssignmentDirectory) FindByUserID(userID int64) ([]Assignment, error) {
	if m.returnError != nil {
		return nil, m.returnError
	}
	return m.byUser[userID], nil
}

type mockRoleDirectory struct {
	byID        map[int64]*Role
	returnError error
}

func (m *mockRoleDirectory) FindByID(id int64) (*Role, error) {
	if m.returnError != nil {
		return nil, m.returnError
	}
	if r, ok := m.byID[id]; ok {
		return r, nil
	}
	return nil, ErrNotFound
}

var _ = ginkgo.Describe("Resolver", func() {
	var (
		assignments *mockAssignmentDirectory
		roles       *mockRoleDirectory
		resolver    *Resolver
	)

	ginkgo.BeforeEach(func() {
		assignments = &mockAssignmentDirectory{byUser: map[int64][]Assignment{
			1: {{ID: 10, UserID: 1, RoleID: 100}, {ID: 11, UserID: 1, RoleID: 200}},
			2: {{ID: 12, UserID: 2, RoleID: 300}, {ID: 13, UserID: 2, RoleID: 400}},
		}}
		roles = &mockRoleDirectory{byID: map[int64]*Role{
			100: {ID: 100, Name: "Administrador"},
			200: {ID: 200, Name: "Supervisor"},
			400: {ID: 400, Name: ""},
		}}
		resolver = NewResolver(assignments, roles)
	})

	ginkgo.It("should map assignments to role names", func() {
		names, err := resolver.Resolve(1)

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(names).To(gomega.ConsistOf("Administrador", "Supervisor"))
	})

	ginkgo.It("should drop dangling assignments and empty role names silently", func() {
		// role 300 no longer exists, role 400 has an empty name
		names, err := resolver.Resolve(2)

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(names).To(gomega.BeEmpty())
	})

	ginkgo.It("should return an empty set for a user with no assignments", func() {
		names, err := resolver.Resolve(99)

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(names).To(gomega.BeEmpty())
	})

	ginkgo.It("should propagate assignment directory failures", func() {
		assignments.returnError = errors.New("db down")

		_, err := resolver.Resolve(1)
		gomega.Expect(err).To(gomega.HaveOccurred())
	})

	ginkgo.It("should propagate role directory failures other than not-found", func() {
		roles.returnError = errors.New("db down")

		_, err := resolver.Resolve(1)
		gomega.Expect(err).To(gomega.HaveOccurred())
	})
})

var _ = ginkgo.Describe("IsSystem", func() {
	ginkgo.It("should protect the shipped role names", func() {
		gomega.Expect(IsSystem("Administrador")).To(gomega.BeTrue())
		gomega.Expect(IsSystem("Supervisor")).To(gomega.BeTrue())
		gomega.Expect(IsSystem("Tecnico")).To(gomega.BeTrue())
		gomega.Expect(IsSystem("Cliente")).To(gomega.BeTrue())
	})

	ginkgo.It("should not protect custom roles", func() {
		gomega.Expect(IsSystem("Contratista")).To(gomega.BeFalse())
		gomega.Expect(IsSystem("")).To(gomega.BeFalse())
	})
})
