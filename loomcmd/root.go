// Package loomcmd implements the loom command line tool.
package loomcmd

import (
	"context"
	"strconv"

	"github.com/jmoiron/sqlx"
	"go.brendoncarroll.net/star"

	"loomvm.org/loom/lvm1"
	"loomvm.org/loom/runlog"
)

func Root() star.Command {
	return root
}

var root = star.NewDir(star.Metadata{
	Short: "Loom Virtual Machine",
}, map[star.Symbol]star.Command{
	"run":      run,
	"run-many": runMany,

	"runs":   listRuns,
	"status": status,
})

var status = star.Command{
	Flags: []star.IParam{DBParam},
	Pos:   []star.IParam{},
	F: func(ctx star.Context) error {
		ctx.Printf("STATUS\n")
		db := DBParam.Load(ctx)
		if err := db.Ping(); err != nil {
			return err
		}
		return db.Close()
	},
}

var DBParam = star.Param[*sqlx.DB]{
	Name:    "db",
	Default: star.Ptr(":memory:"),
	Parse: func(x string) (*sqlx.DB, error) {
		db, err := runlog.OpenDB(x)
		if err != nil {
			return nil, err
		}
		if err := runlog.SetupDB(context.Background(), db); err != nil {
			return nil, err
		}
		return db, nil
	},
}

var initParam = star.Param[lvm1.Word]{
	Name:    "init",
	Default: star.Ptr("3"),
	Parse: func(x string) (lvm1.Word, error) {
		n, err := strconv.ParseInt(x, 10, 32)
		if err != nil {
			return 0, err
		}
		return lvm1.Word(n), nil
	},
}
