package postgres

import (
	"testing"
	"time"

	"github.com/frahmantamala/account-management/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestUserDirectory(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "UserDirectory Suite")
}

func strPtr(s string) *string { return &s }

var _ = Describe("UserDirectory", func() {
	var (
		db        *gorm.DB
		directory user.Directory
	)

	seed := func(u *user.User) {
		Expect(db.Create(u).Error).NotTo(HaveOccurred())
	}

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&user.User{})
		Expect(err).NotTo(HaveOccurred())

		directory = NewUserDirectory(db)

		seed(&user.User{
			Username:     "admin",
			PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
			Email:        strPtr("admin@example.com"),
			FullName:     strPtr("Admin User"),
			Active:       true,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		})
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("FindByUsername", func() {
		It("should find a user regardless of input casing", func() {
			u, err := directory.FindByUsername("  ADMIN ")

			Expect(err).NotTo(HaveOccurred())
			Expect(u.Username).To(Equal("admin"))
			Expect(u.Active).To(BeTrue())
		})

		It("should return ErrNotFound for an unknown username", func() {
			_, err := directory.FindByUsername("ghost")
			Expect(err).To(MatchError(user.ErrNotFound))
		})

		It("should return inactive users and leave the active check to the caller", func() {
			seed(&user.User{Username: "dormant", PasswordHash: "x", Active: false})

			u, err := directory.FindByUsername("dormant")
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Active).To(BeFalse())
		})
	})

	Describe("FindByEmail", func() {
		It("should find a user by normalized email", func() {
			u, err := directory.FindByEmail("Admin@Example.COM")

			Expect(err).NotTo(HaveOccurred())
			Expect(u.Username).To(Equal("admin"))
		})

		It("should return ErrNotFound for an unknown email", func() {
			_, err := directory.FindByEmail("ghost@example.com")
			Expect(err).To(MatchError(user.ErrNotFound))
		})
	})

	Describe("FindByID", func() {
		It("should find a user by id", func() {
			u, err := directory.FindByID(1)

			Expect(err).NotTo(HaveOccurred())
			Expect(u.Username).To(Equal("admin"))
		})

		It("should return ErrNotFound for an unknown id", func() {
			_, err := directory.FindByID(999)
			Expect(err).To(MatchError(user.ErrNotFound))
		})
	})

	Describe("UpdatePasswordHash", func() {
		It("should replace the stored digest", func() {
			err := directory.UpdatePasswordHash(1, "$2a$10$replacementdigest")
			Expect(err).NotTo(HaveOccurred())

			u, err := directory.FindByID(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.PasswordHash).To(Equal("$2a$10$replacementdigest"))
		})

		It("should return ErrNotFound for an unknown id", func() {
			err := directory.UpdatePasswordHash(999, "digest")
			Expect(err).To(MatchError(user.ErrNotFound))
		})
	})
})
