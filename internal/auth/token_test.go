package auth

import (
	"time"

	"github.com/frahmantamala/account-management/internal/user"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("JWTTokenCodec", func() {
	var (
		codec *JWTTokenCodec
		u     *user.User
	)

	ginkgo.BeforeEach(func() {
		codec = NewJWTTokenCodec(
			"access-secret-0123456789abcdef0123",
			"refresh-secret-0123456789abcdef012",
			"1h", "7d",
		)
		u = &user.User{ID: 42, Username: "tecnico1", Email: strPtr("tec@example.com"), Active: true}
	})

	ginkgo.Describe("issuing", func() {
		ginkgo.It("should round-trip subject, username, email and roles", func() {
			token, err := codec.IssueAccessToken(u, []string{"Tecnico", "Supervisor"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			claims, err := codec.VerifyAccessToken(token)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.Username).To(gomega.Equal("tecnico1"))
			gomega.Expect(claims.Email).To(gomega.Equal("tec@example.com"))
			gomega.Expect(claims.Roles).To(gomega.Equal([]string{"Tecnico", "Supervisor"}))

			id, err := claims.SubjectID()
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(id).To(gomega.Equal(int64(42)))
		})

		ginkgo.It("should encode a nil role set as an empty list, not null", func() {
			token, err := codec.IssueAccessToken(u, nil)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			claims, err := codec.VerifyAccessToken(token)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.Roles).ToNot(gomega.BeNil())
			gomega.Expect(claims.Roles).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("verification", func() {
		ginkgo.It("should reject an access token checked against the refresh secret", func() {
			token, err := codec.IssueAccessToken(u, nil)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = codec.VerifyRefreshToken(token)
			gomega.Expect(err).To(gomega.Equal(ErrInvalidToken))
		})

		ginkgo.It("should reject garbage input", func() {
			_, err := codec.VerifyAccessToken("not.a.token")
			gomega.Expect(err).To(gomega.Equal(ErrInvalidToken))
		})

		ginkgo.It("should reject an expired token at verification time", func() {
			expired := &JWTTokenCodec{
				accessSecret:  codec.accessSecret,
				refreshSecret: codec.refreshSecret,
				accessTTL:     -time.Minute,
				refreshTTL:    -time.Minute,
			}

			token, err := expired.IssueAccessToken(u, nil)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = codec.VerifyAccessToken(token)
			gomega.Expect(err).To(gomega.Equal(ErrTokenExpired))
		})
	})

	ginkgo.Describe("ParseExpiration", func() {
		ginkgo.It("should parse hour, minute and day expressions", func() {
			gomega.Expect(ParseExpiration("2h")).To(gomega.Equal(2 * time.Hour))
			gomega.Expect(ParseExpiration("30m")).To(gomega.Equal(30 * time.Minute))
			gomega.Expect(ParseExpiration("7d")).To(gomega.Equal(7 * 24 * time.Hour))
		})

		ginkgo.It("should fall back to one hour on unparseable input", func() {
			gomega.Expect(ParseExpiration("")).To(gomega.Equal(time.Hour))
			gomega.Expect(ParseExpiration("abc")).To(gomega.Equal(time.Hour))
			gomega.Expect(ParseExpiration("10s")).To(gomega.Equal(time.Hour))
			gomega.Expect(ParseExpiration("-5h")).To(gomega.Equal(time.Hour))
			gomega.Expect(ParseExpiration("h")).To(gomega.Equal(time.Hour))
		})
	})
})
