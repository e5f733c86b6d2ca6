// Package payment records the monthly fee payments of students.
package payment

import (
	"context"

	"github.com/tatame-app/tatame/core"
)

// Payment is an append-only history entry, created when a student's status turns paid.
type Payment struct {
	ID        int       `json:"id" db:"id"`
	StudentID int       `json:"studentId" db:"student_id"`
	Date      core.Date `json:"date" db:"date"`
	Amount    float64   `json:"amount" db:"amount"`
}

type QueryFilter struct {
	StudentID int `query:"studentId"`
	AcademyID int `query:"academyId"`
}

type (
	Repository interface {
		CreatePayment(ctx context.Context, p Payment, exec ...core.DBExecutor) (Payment, error)
		// QueryPayments returns the most recent payments first.
		QueryPayments(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Payment, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Payment, error) {
	return svc.repo.QueryPayments(ctx, filter)
}

// Register appends a payment for studentID dated today.
func (svc *Service) Register(ctx context.Context, studentID int, amount float64, exec ...core.DBExecutor) (Payment, error) {
	return svc.repo.CreatePayment(ctx, Payment{StudentID: studentID, Date: core.Today(), Amount: amount}, exec...)
}
