package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = ginkgo.Describe("BcryptHasher", func() {
	var hasher *BcryptHasher

	ginkgo.BeforeEach(func() {
		hasher = NewBcryptHasher(bcrypt.MinCost)
	})

	ginkgo.It("should produce different digests for the same password", func() {
		first, err := hasher.Hash("secret123")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		second, err := hasher.Hash("secret123")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		gomega.Expect(first).ToNot(gomega.Equal(second))
	})

	ginkgo.It("should verify a matching password", func() {
		digest, err := hasher.Hash("secret123")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		gomega.Expect(hasher.Verify("secret123", digest)).To(gomega.BeTrue())
	})

	ginkgo.It("should reject a non-matching password", func() {
		digest, err := hasher.Hash("secret123")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		gomega.Expect(hasher.Verify("other", digest)).To(gomega.BeFalse())
	})

	ginkgo.It("should treat a malformed digest as not equal", func() {
		gomega.Expect(hasher.Verify("secret123", "not-a-bcrypt-digest")).To(gomega.BeFalse())
		gomega.Expect(hasher.Verify("secret123", "")).To(gomega.BeFalse())
	})

	ginkgo.It("should clamp out-of-range cost to the library default", func() {
		gomega.Expect(NewBcryptHasher(99).cost).To(gomega.Equal(bcrypt.DefaultCost))
		gomega.Expect(NewBcryptHasher(-1).cost).To(gomega.Equal(bcrypt.DefaultCost))
	})
})
