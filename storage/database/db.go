package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/tatame-app/tatame/core"
	appfs "github.com/tatame-app/tatame/fs"
)

// Supported engines
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineInMemory = "inmem"
)

var ErrUnknownEngine = errors.New("unknown database engine")

func dsn(dbName string, admin bool, conf *core.Config) (string, error) {
	dbConf := conf.Database
	usr, pwd := dbConf.User, dbConf.Password
	if admin && dbConf.AdminUser != "" {
		usr, pwd = dbConf.AdminUser, dbConf.AdminPassword
	}

	switch dbConf.Engine {
	case EngineMySQL:
		c := mysql.NewConfig()
		c.User = usr
		c.Passwd = pwd
		c.Net = "tcp"
		c.Addr = dbConf.Address()
		c.DBName = dbName
		c.ParseTime = true
		c.Loc = time.UTC
		if !dbConf.DisableTLS {
			c.TLSConfig = "preferred"
		}
		return c.FormatDSN(), nil
	case EnginePostgres:
		sslMode := "require"
		if dbConf.DisableTLS {
			sslMode = "disable"
		}
		q := make(url.Values)
		q.Set("sslmode", sslMode)
		q.Set("timezone", "utc")

		u := url.URL{
			Scheme:   EnginePostgres,
			User:     url.UserPassword(usr, pwd),
			Host:     dbConf.Address(),
			Path:     dbName,
			RawQuery: q.Encode(),
		}
		return u.String(), nil
	default:
		return "", errors.Wrap(ErrUnknownEngine, dbConf.Engine)
	}
}

func open(dbName string, admin bool, conf *core.Config) (*sqlx.DB, error) {
	source, err := dsn(dbName, admin, conf)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(conf.Database.Engine, source)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(conf.Database.MaxOpenConns)
	db.SetMaxIdleConns(conf.Database.MaxIdleConns)
	db.SetConnMaxLifetime(conf.Database.ConnMaxLifetime)
	return db, nil
}

// Open opens the application database and waits for it to answer.
func Open(conf *core.Config) (*sqlx.DB, error) {
	db, err := open(conf.Database.Name, false, conf)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = ping(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// StatusCheck returns nil if it can successfully talk to the database.
func StatusCheck(ctx context.Context, db *sqlx.DB) error {
	var ok int
	return db.QueryRowContext(ctx, "SELECT 1").Scan(&ok)
}

// exists runs a "SELECT true ..." probe.
func exists(db *sqlx.DB, query string, args ...interface{}) (bool, error) {
	var found []bool
	if err := db.Select(&found, db.Rebind(query), args...); err != nil {
		return false, err
	}
	return len(found) > 0, nil
}

func createPostgresAppUser(db *sqlx.DB, conf *core.Config) error {
	if conf.Database.User == "" {
		return nil
	}
	found, err := exists(db, "SELECT true FROM pg_roles WHERE rolname = ?", conf.Database.User)
	if err != nil {
		return errors.Wrap(err, "checking app user")
	}
	if !found {
		q := fmt.Sprintf("CREATE USER %s CREATEDB ENCRYPTED PASSWORD '%s'", conf.Database.User, conf.Database.Password)
		if _, err = db.Exec(q); err != nil {
			return errors.Wrap(err, "creating app user")
		}
	}
	return nil
}

func createPostgresDB(db *sqlx.DB, conf *core.Config) error {
	found, err := exists(db, "SELECT true FROM pg_database WHERE datname = ?", conf.Database.Name)
	if err != nil {
		return errors.Wrap(err, "checking DB")
	}
	if !found {
		if _, err = db.Exec(fmt.Sprintf("CREATE DATABASE %s", conf.Database.Name)); err != nil {
			return errors.Wrap(err, "creating database")
		}
	}
	return nil
}

func createMySQLDB(db *sqlx.DB, conf *core.Config) error {
	if _, err := db.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET utf8mb4", conf.Database.Name)); err != nil {
		return errors.Wrap(err, "creating database")
	}
	if conf.Database.User == "" || conf.Database.User == conf.Database.AdminUser {
		return nil
	}
	stmts := []string{
		fmt.Sprintf("CREATE USER IF NOT EXISTS '%s'@'%%' IDENTIFIED BY '%s'", conf.Database.User, conf.Database.Password),
		fmt.Sprintf("GRANT ALL PRIVILEGES ON `%s`.* TO '%s'@'%%'", conf.Database.Name, conf.Database.User),
	}
	for _, q := range stmts {
		if _, err := db.Exec(q); err != nil {
			return errors.Wrap(err, "creating app user")
		}
	}
	return nil
}

// CreateIfNotExist creates the application user and database using the admin credentials.
func CreateIfNotExist(conf *core.Config) error {
	switch conf.Database.Engine {
	case EngineMySQL:
		db, err := open("", true, conf)
		if err != nil {
			return errors.Wrap(err, "opening database")
		}
		defer func() { _ = db.Close() }()
		if err = ping(db); err != nil {
			return errors.Wrap(err, "pinging database")
		}
		return createMySQLDB(db, conf)

	case EnginePostgres:
		// connect as admin
		db, err := open("postgres", true, conf)
		if err != nil {
			return errors.Wrap(err, "opening database")
		}
		defer func() { _ = db.Close() }()
		if err = ping(db); err != nil {
			return errors.Wrap(err, "pinging database")
		}
		if err = createPostgresAppUser(db, conf); err != nil {
			return err
		}

		// create DB as app user
		appDB, err := open("postgres", false, conf)
		if err != nil {
			return errors.Wrap(err, "opening database")
		}
		defer func() { _ = appDB.Close() }()
		return createPostgresDB(appDB, conf)

	default:
		return errors.Wrap(ErrUnknownEngine, conf.Database.Engine)
	}
}

// Migrate applies the embedded migrations of the engine db was opened with.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	goose.SetBaseFS(appfs.FS)
	if err := goose.SetDialect(db.DriverName()); err != nil {
		return errors.Wrap(err, "setting migration dialect")
	}
	if err := goose.UpContext(ctx, db.DB, "migrations/"+db.DriverName()); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

// Transactor runs functions inside sqlx transactions.
type Transactor struct {
	db *sqlx.DB
}

var _ core.Transactor = (*Transactor)(nil)

func NewTransactor(db *sqlx.DB) *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(exec core.DBExecutor) error) error {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrapf(err, "rolling back: %v", rbErr)
		}
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}
