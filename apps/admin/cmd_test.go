package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatame-app/tatame/core/auth"
	"github.com/tatame-app/tatame/core/user"
	"github.com/tatame-app/tatame/testutil"
)

const testPwd = "S3cret!pass"

func setup(t *testing.T) (*testutil.Env, *commandLine) {
	t.Helper()
	env := testutil.NewEnv()

	// start CLI
	return env, &commandLine{
		dialect: "postgres",
		usrSvc:  env.Svcs.User,
		authSvc: env.Svcs.Auth,
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantAnyErr bool
	extra      interface{}
}

func runCLITests(t *testing.T, cli *commandLine, tests []cliTest, check func(t *testing.T, tt cliTest)) {
	t.Helper()
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		extra := tt.extra

		readPasswordFunc = func(fd int) ([]byte, error) {
			if pwd, ok := extra.(string); ok {
				return []byte(pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, errors.Cause(err))
			case tt.wantAnyErr:
				assert.Error(t, err)
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.Equal(t, tt.wantErrStr, err.Error())
			default:
				require.NoError(t, err)
				if check != nil {
					check(t, tt)
				}
			}
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	_, cli := setup(t)

	gooseRunFunc = func(_ context.Context, command string, db *sql.DB, dir string, args ...string) error {
		if dir != "migrations/postgres" {
			return fmt.Errorf("unexpected dir %q", dir)
		}
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	runCLITests(t, cli, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
	}, nil)
}

func Test_commandLine_addAdmin(t *testing.T) {
	env, cli := setup(t)
	_, acadAdmin := testutil.CreateAcademy(t, env, "Gracie Barra", "gb@tatame.app", testPwd)

	runCLITests(t, cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"addadmin"}, wantErr: errHelp},
		{name: "email but no name", args: []string{"addadmin", "-email", "helio@tatame.app"}, extra: testPwd, wantErr: errHelp},
		{name: "no password", args: []string{"addadmin", "-name", "Helio", "-email", "helio@tatame.app"}, wantErr: errHelp},
		{name: "invalid email", args: []string{"addadmin", "-name", "Helio", "-email", "lol"}, extra: testPwd, wantAnyErr: true},
		{
			name: "academy admin email", args: []string{"addadmin", "-name", "Helio", "-email", acadAdmin.Email}, extra: testPwd,
			wantErrStr: "email belongs to a non admin account",
		},
		{name: "create", args: []string{"addadmin", "-name", "Helio", "-email", " Helio@Tatame.app "}, extra: testPwd},
		{name: "update", args: []string{"addadmin", "-name", "Helio Gracie", "-email", "helio@tatame.app"}, extra: "n3w!pass"},
	}, func(t *testing.T, tt cliTest) {
		usr, err := env.Svcs.User.GetByEmail(context.Background(), "helio@tatame.app")
		require.NoError(t, err)
		assert.Equal(t, user.RoleGeneralAdmin, usr.Role)

		_, err = env.Svcs.Auth.Authenticate(context.Background(), auth.LoginRequest{Username: usr.Email, Password: tt.extra.(string)})
		assert.NoError(t, err)
	})
}

func Test_commandLine_resetPassword(t *testing.T) {
	env, cli := setup(t)

	admin := testutil.CreateAdmin(t, env, "Helio", "helio@tatame.app", testPwd)
	acad, _ := testutil.CreateAcademy(t, env, "Gracie Barra", "gb@tatame.app", testPwd)
	stu := testutil.CreateStudent(t, env, testutil.NewStudent("Rickson", "rickson@tatame.app", "52998224725", acad.ID))

	runCLITests(t, cli, []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", admin.Email}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-username", "lol@tatame.app"}, extra: "n3w!pass", wantErr: user.ErrNotFound},
		{name: "reset admin", args: []string{"resetpassword", "-username", admin.Email}, extra: "n3w!pass"},
		{name: "reset academy admin", args: []string{"resetpassword", "-username", "gb@tatame.app"}, extra: "n3w!pass"},
		{name: "reset student by CPF", args: []string{"resetpassword", "-username", "529.982.247-25"}, extra: "n3w!pass"},
	}, func(t *testing.T, tt cliTest) {
		username := tt.args[len(tt.args)-1]
		_, err := env.Svcs.Auth.Authenticate(context.Background(), auth.LoginRequest{Username: username, Password: "n3w!pass"})
		assert.NoError(t, err)
	})

	_, err := env.Svcs.Auth.Authenticate(context.Background(), auth.LoginRequest{Username: stu.CPF, Password: testPwd})
	assert.Equal(t, auth.ErrInvalidCredentials, err)
}
