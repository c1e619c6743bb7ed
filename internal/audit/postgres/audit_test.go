package postgres

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/frahmantamala/account-management/internal/audit"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAttemptStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AttemptStore Suite")
}

var _ = Describe("AttemptStore", func() {
	var (
		mock  sqlmock.Sqlmock
		db    *sqlx.DB
		store audit.Store
	)

	BeforeEach(func() {
		rawDB, m, err := sqlmock.New()
		Expect(err).NotTo(HaveOccurred())
		mock = m

		db = sqlx.NewDb(rawDB, "sqlmock")
		store = NewAttemptStore(db)
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
		db.Close()
	})

	Describe("Create", func() {
		It("should insert an append-only row and return its id", func() {
			userID := int64(7)
			attempt := &audit.AccessAttempt{
				UserID:    &userID,
				At:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
				Success:   false,
				IP:        "10.0.0.9",
				UserAgent: "curl/8.0",
				Reason:    audit.ReasonBadPassword,
			}

			mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO access_attempts`)).
				WithArgs(attempt.UserID, attempt.At, attempt.Success, attempt.IP, attempt.UserAgent, attempt.Reason, sqlmock.AnyArg()).
				WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(123)))

			err := store.Create(attempt)

			Expect(err).NotTo(HaveOccurred())
			Expect(attempt.ID).To(Equal(int64(123)))
		})

		It("should surface insert failures to the caller", func() {
			mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO access_attempts`)).
				WillReturnError(errors.New("insert failed"))

			err := store.Create(&audit.AccessAttempt{Success: true, At: time.Now()})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("FindSince", func() {
		It("should list attempts newest first", func() {
			since := time.Date(2025, 6, 1, 11, 45, 0, 0, time.UTC)

			rows := sqlmock.NewRows([]string{"id", "user_id", "attempted_at", "success", "ip", "user_agent", "reason", "created_at"}).
				AddRow(int64(2), nil, since.Add(10*time.Minute), false, "10.0.0.9", "curl/8.0", audit.ReasonUserNotFound, since).
				AddRow(int64(1), int64(7), since.Add(5*time.Minute), true, "10.0.0.8", "go-http", "", since)

			mock.ExpectQuery(regexp.QuoteMeta(`FROM access_attempts`)).
				WithArgs(since).
				WillReturnRows(rows)

			attempts, err := store.FindSince(since)

			Expect(err).NotTo(HaveOccurred())
			Expect(attempts).To(HaveLen(2))
			Expect(attempts[0].ID).To(Equal(int64(2)))
			Expect(attempts[0].UserID).To(BeNil())
			Expect(*attempts[1].UserID).To(Equal(int64(7)))
		})
	})

	Describe("CountByIPSince", func() {
		It("should count attempts for one address", func() {
			since := time.Now().Add(-15 * time.Minute)

			mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM access_attempts WHERE ip = $1 AND attempted_at >= $2`)).
				WithArgs("10.0.0.9", since).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(4)))

			count, err := store.CountByIPSince("10.0.0.9", since)

			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(4)))
		})
	})

	Describe("FindRepeatedFailures", func() {
		It("should pass the window and threshold through", func() {
			since := time.Now().Add(-24 * time.Hour)

			mock.ExpectQuery(regexp.QuoteMeta(`HAVING COUNT(*) >= $2`)).
				WithArgs(since, 3).
				WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "attempted_at", "success", "ip", "user_agent", "reason", "created_at"}))

			attempts, err := store.FindRepeatedFailures(since, 3)

			Expect(err).NotTo(HaveOccurred())
			Expect(attempts).To(BeEmpty())
		})
	})

	Describe("DeleteOlderThan", func() {
		It("should report how many rows were swept", func() {
			cutoff := time.Now().AddDate(0, 0, -90)

			mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM access_attempts WHERE attempted_at < $1`)).
				WithArgs(cutoff).
				WillReturnResult(sqlmock.NewResult(0, 17))

			deleted, err := store.DeleteOlderThan(cutoff)

			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(Equal(int64(17)))
		})
	})
})
