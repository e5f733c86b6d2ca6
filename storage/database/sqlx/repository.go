// Package sqlxrepos implements the domain repositories on top of sqlx.
// Queries are written with "?" placeholders and rebound for the driver of the executor,
// so the same code serves MySQL and Postgres.
package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/tatame-app/tatame/core"
)

const (
	pgUniqueViolation    = "23505"
	mysqlDuplicateEntry  = 1062
	postgresDriverName   = "postgres"
	defaultOrderingField = "id"
)

// repository holds the default executor of every sqlx repository.
type repository struct {
	exec core.DBExecutor
}

// getExec returns the executor handed over by a service (usually a transaction) or the default one.
func (repo repository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repo.exec
}

func isPostgres(exec core.DBExecutor) bool {
	return exec.DriverName() == postgresDriverName
}

// trapNoRowsErr maps "no rows" errors to notFound.
func trapNoRowsErr(err error, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// isUniqueViolation reports whether err was raised by a UNIQUE constraint.
func isUniqueViolation(err error) bool {
	switch e := errors.Cause(err).(type) {
	case *pq.Error:
		return e.Code == pgUniqueViolation
	case *mysql.MySQLError:
		return e.Number == mysqlDuplicateEntry
	}
	return false
}

// insert runs an INSERT statement and returns the generated id.
func insert(ctx context.Context, exec core.DBExecutor, query string, args ...interface{}) (int, error) {
	if isPostgres(exec) {
		var id int
		err := exec.QueryRowxContext(ctx, exec.Rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}
	res, err := exec.ExecContext(ctx, exec.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}

func execute(ctx context.Context, exec core.DBExecutor, query string, args ...interface{}) error {
	_, err := exec.ExecContext(ctx, exec.Rebind(query), args...)
	return err
}

func get(ctx context.Context, exec core.DBExecutor, dest interface{}, query string, args ...interface{}) error {
	return sqlx.GetContext(ctx, exec, dest, exec.Rebind(query), args...)
}

func selectAll(ctx context.Context, exec core.DBExecutor, dest interface{}, query string, args ...interface{}) error {
	return sqlx.SelectContext(ctx, exec, dest, exec.Rebind(query), args...)
}

// exists runs a "SELECT 1 ... LIMIT 1" style query.
func exists(ctx context.Context, exec core.DBExecutor, query string, args ...interface{}) (bool, error) {
	var found []int
	if err := selectAll(ctx, exec, &found, query, args...); err != nil {
		return false, err
	}
	return len(found) > 0, nil
}

// conditions accumulates the WHERE clause of a query.
type conditions struct {
	clauses []string
	args    []interface{}
}

func (c *conditions) add(clause string, args ...interface{}) {
	c.clauses = append(c.clauses, clause)
	c.args = append(c.args, args...)
}

// search matches the lowered keyword against any of the columns.
func (c *conditions) search(keyword string, columns ...string) {
	if keyword == "" {
		return
	}
	val := "%" + strings.ToLower(keyword) + "%"
	ors := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		ors = append(ors, "LOWER("+col+") LIKE ?")
		args = append(args, val)
	}
	c.add("("+strings.Join(ors, " OR ")+")", args...)
}

func (c conditions) String() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// orderBy renders the ORDER BY clause; columns come whitelisted from the API layer.
func orderBy(ordering []core.DBOrdering, dflt ...core.DBOrdering) string {
	if len(ordering) == 0 {
		ordering = dflt
	}
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: defaultOrderingField, Ascending: true}}
	}
	orderList := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		orderList = append(orderList, ord.String())
	}
	return " ORDER BY " + strings.Join(orderList, ", ")
}

// replaceLinks rewrites the (owner, professor) rows of a join table.
func replaceLinks(ctx context.Context, exec core.DBExecutor, table, ownerCol string, ownerID int, professorIDs []int) error {
	if err := execute(ctx, exec, "DELETE FROM "+table+" WHERE "+ownerCol+" = ?", ownerID); err != nil {
		return errors.Wrapf(err, "clearing %s", table)
	}
	for _, profID := range professorIDs {
		q := "INSERT INTO " + table + " (" + ownerCol + ", professor_id) VALUES (?, ?)"
		if err := execute(ctx, exec, q, ownerID, profID); err != nil {
			return errors.Wrapf(err, "inserting into %s", table)
		}
	}
	return nil
}

type link struct {
	OwnerID     int `db:"owner_id"`
	ProfessorID int `db:"professor_id"`
}

// loadLinks returns the professor ids linked to each owner id.
func loadLinks(ctx context.Context, exec core.DBExecutor, table, ownerCol string, ownerIDs []int) (map[int][]int, error) {
	out := make(map[int][]int, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(
		"SELECT "+ownerCol+" AS owner_id, professor_id FROM "+table+" WHERE "+ownerCol+" IN (?) ORDER BY professor_id",
		ownerIDs,
	)
	if err != nil {
		return nil, errors.Wrap(err, "expanding IN clause")
	}
	var links []link
	if err := selectAll(ctx, exec, &links, q, args...); err != nil {
		return nil, errors.Wrapf(err, "querying %s", table)
	}
	for _, l := range links {
		out[l.OwnerID] = append(out[l.OwnerID], l.ProfessorID)
	}
	return out, nil
}
