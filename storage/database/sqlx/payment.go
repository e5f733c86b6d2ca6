package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/payment"
)

type paymentRepository struct {
	repository
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(exec core.DBExecutor) *paymentRepository {
	return &paymentRepository{repository{exec: exec}}
}

func (repo paymentRepository) CreatePayment(ctx context.Context, p payment.Payment, exec ...core.DBExecutor) (payment.Payment, error) {
	id, err := insert(ctx, repo.getExec(exec),
		"INSERT INTO payments (student_id, date, amount) VALUES (?, ?, ?)",
		p.StudentID, p.Date, p.Amount,
	)
	if err != nil {
		return payment.Payment{}, errors.Wrap(err, "inserting payment")
	}
	p.ID = id
	return p, nil
}

func (repo paymentRepository) QueryPayments(ctx context.Context, filter payment.QueryFilter, exec ...core.DBExecutor) ([]payment.Payment, error) {
	var conds conditions
	if filter.StudentID != 0 {
		conds.add("p.student_id = ?", filter.StudentID)
	}
	if filter.AcademyID != 0 {
		conds.add("s.academy_id = ?", filter.AcademyID)
	}

	payments := make([]payment.Payment, 0)
	q := "SELECT p.* FROM payments p JOIN students s ON s.id = p.student_id" + conds.String() +
		" ORDER BY p.date DESC, p.id DESC"
	if err := selectAll(ctx, repo.getExec(exec), &payments, q, conds.args...); err != nil {
		return nil, errors.Wrap(err, "querying payments")
	}
	return payments, nil
}
