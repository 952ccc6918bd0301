package internal_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/chamahub/chama-management/internal"
	"github.com/jackc/pgx/v5/pgconn"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestStorageErrors(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Storage Errors Suite")
}

var _ = Describe("ClassifyStorageError", func() {
	It("should return nil for a nil error", func() {
		Expect(internal.ClassifyStorageError("members", nil)).To(BeNil())
	})

	It("should pass an existing AppError through unchanged", func() {
		original := internal.NewValidationError("bad month", internal.ErrCodeInvalidMonth)
		classified := internal.ClassifyStorageError("regular contributions", original)
		Expect(classified).To(Equal(original))
	})

	It("should map a missing record to a not-found error", func() {
		classified := internal.ClassifyStorageError("members", gorm.ErrRecordNotFound)
		Expect(classified.Type).To(Equal(internal.ErrorTypeNotFound))
		Expect(classified.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("should surface a missing table as an infrastructure error, not a permission one", func() {
		err := &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}
		classified := internal.ClassifyStorageError("regular contributions", err)
		Expect(classified.Type).To(Equal(internal.ErrorTypeInfrastructure))
		Expect(classified.Code).To(Equal(internal.ErrCodeStorageNotReady))
		Expect(classified.StatusCode).To(Equal(http.StatusServiceUnavailable))
	})

	It("should surface a revoked grant as a storage permission error", func() {
		err := &pgconn.PgError{Code: "42501", Message: "permission denied for table members"}
		classified := internal.ClassifyStorageError("members", err)
		Expect(classified.Type).To(Equal(internal.ErrorTypeInfrastructure))
		Expect(classified.Code).To(Equal(internal.ErrCodeStoragePermission))
	})

	It("should keep the two infrastructure causes distinguishable by code", func() {
		notReady := internal.ClassifyStorageError("members", &pgconn.PgError{Code: "42P01"})
		denied := internal.ClassifyStorageError("members", &pgconn.PgError{Code: "42501"})
		Expect(notReady.Code).NotTo(Equal(denied.Code))
	})

	It("should map serialization failures to retriable conflicts", func() {
		err := &pgconn.PgError{Code: "40001", Message: "could not serialize access"}
		classified := internal.ClassifyStorageError("members", err)
		Expect(classified.Type).To(Equal(internal.ErrorTypeConflict))
		Expect(internal.IsRetriableStorageError(classified)).To(BeTrue())
	})

	It("should fall back to an internal error for unknown failures", func() {
		classified := internal.ClassifyStorageError("members", errors.New("connection reset"))
		Expect(classified.Type).To(Equal(internal.ErrorTypeInternal))
	})
})

var _ = Describe("IsRetriableStorageError", func() {
	It("should report deadlocks as retriable", func() {
		Expect(internal.IsRetriableStorageError(&pgconn.PgError{Code: "40P01"})).To(BeTrue())
	})

	It("should not retry permission failures", func() {
		Expect(internal.IsRetriableStorageError(&pgconn.PgError{Code: "42501"})).To(BeFalse())
	})

	It("should not retry plain errors", func() {
		Expect(internal.IsRetriableStorageError(errors.New("boom"))).To(BeFalse())
	})
})
