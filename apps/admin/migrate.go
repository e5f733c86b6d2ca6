package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	appfs "github.com/tatame-app/tatame/fs"
)

var gooseRunFunc = goose.RunContext // mockable

func (cli *commandLine) migrate(args []string) error {
	goose.SetBaseFS(appfs.FS)
	if err := goose.SetDialect(cli.dialect); err != nil {
		return errors.Wrap(err, "setting migration dialect")
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(context.Background(), args[0], cli.db, "migrations/"+cli.dialect, arguments...)
}
