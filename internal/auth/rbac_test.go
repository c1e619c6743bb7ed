package auth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/account-management/internal"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Allow", func() {
	ginkgo.It("should allow any caller on a route with no required roles", func() {
		gomega.Expect(Allow(nil, nil)).To(gomega.BeTrue())
		gomega.Expect(Allow([]string{}, []string{})).To(gomega.BeTrue())
		gomega.Expect(Allow(nil, []string{"Cliente"})).To(gomega.BeTrue())
	})

	ginkgo.It("should deny when no held role matches", func() {
		gomega.Expect(Allow([]string{"Administrador"}, []string{"Cliente"})).To(gomega.BeFalse())
		gomega.Expect(Allow([]string{"Administrador"}, nil)).To(gomega.BeFalse())
	})

	ginkgo.It("should allow when at least one role matches", func() {
		gomega.Expect(Allow([]string{"Administrador", "Supervisor"}, []string{"Supervisor"})).To(gomega.BeTrue())
		gomega.Expect(Allow([]string{"Tecnico"}, []string{"Cliente", "Tecnico"})).To(gomega.BeTrue())
	})
})

var _ = ginkgo.Describe("RBACAuthorization middleware", func() {
	var (
		rbac *RBACAuthorization
		next http.Handler
	)

	ginkgo.BeforeEach(func() {
		rbac = NewRBACAuthorization(slog.Default())
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	serve := func(principal *internal.Principal, required ...string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if principal != nil {
			req = req.WithContext(internal.ContextWithPrincipal(req.Context(), principal))
		}
		rec := httptest.NewRecorder()
		rbac.RequireRoles(required...)(next).ServeHTTP(rec, req)
		return rec
	}

	ginkgo.It("should return 401 when no principal is attached", func() {
		rec := serve(nil, "Administrador")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("should return 403 with the forbidden error envelope when the role snapshot does not satisfy the route", func() {
		rec := serve(&internal.Principal{UserID: 7, Roles: []string{"Cliente"}}, "Administrador")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(string(internal.ErrCodeForbidden)))
	})

	ginkgo.It("should pass through when a held role matches", func() {
		rec := serve(&internal.Principal{UserID: 7, Roles: []string{"Supervisor"}}, "Administrador", "Supervisor")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
	})
})
