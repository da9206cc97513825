package main

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shrek82/lappa/core"
	"github.com/shrek82/lappa/dialect"
	"github.com/shrek82/lappa/pool"
	"github.com/spf13/cobra"
)

// catalogTable is one row of a driver's table listing.
type catalogTable struct {
	Name string `lappa:"column:name"`
}

// tableCount is the single row returned by a dialect's HasTableSQL.
type tableCount struct {
	Count int64 `lappa:"column:count"`
}

func fetchAllTables(ctx context.Context, m *core.Mapper, db pool.Pool, d dialect.Dialect) ([]string, error) {
	var rows []catalogTable
	if err := m.Find(ctx, db, &rows, d.TablesSQL()); err != nil {
		return nil, err
	}
	names := make([]string, len(rows))
	for i, t := range rows {
		names[i] = t.Name
	}
	return names, nil
}

func hasTable(ctx context.Context, m *core.Mapper, db pool.Pool, d dialect.Dialect, name string) (bool, error) {
	query, args := d.HasTableSQL(name)
	var c tableCount
	if err := m.First(ctx, db, &c, query, args...); err != nil {
		return false, err
	}
	return c.Count > 0, nil
}

// dbFlags holds the connection flags shared by the database commands.
type dbFlags struct {
	driver, dsn string
}

func (f *dbFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.driver, "driver", "sqlite3", "database driver ("+strings.Join(dialect.Names(), ", ")+"), overrides database.driver")
	cmd.Flags().StringVar(&f.dsn, "dsn", "", "database connection string, overrides database.dsn")
}

// open resolves the connection settings against the config and connects.
func (f *dbFlags) open(cmd *cobra.Command, a *app) (pool.Pool, dialect.Dialect, error) {
	dbc := a.cfg.Database
	if cmd.Flags().Changed("driver") {
		dbc.Driver = f.driver
	}
	if cmd.Flags().Changed("dsn") {
		dbc.DSN = f.dsn
	}
	if dbc.DSN == "" {
		return nil, nil, fmt.Errorf("--dsn is required")
	}
	d, ok := dialect.Get(dbc.Driver)
	if !ok {
		return nil, nil, fmt.Errorf("unsupported driver: %s", dbc.Driver)
	}
	db, err := pool.Open(cmd.Context(), dbc.Driver, dbc.DSN, dbc.Pool)
	if err != nil {
		return nil, nil, err
	}
	return db, d, nil
}

func newCheckCmd(a *app) *cobra.Command {
	var flags dbFlags

	cmd := &cobra.Command{
		Use:   "check ENTITY...",
		Short: "Check that derived table names exist in a database",
		Example: `  lappa-names check --driver sqlite3 --dsn app.db User OrderItem
  lappa-names check --driver postgres --dsn "postgres://localhost/app?sslmode=disable" User`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, d, err := flags.open(cmd, a)
			if err != nil {
				return err
			}
			defer db.Close()

			r := a.cfg.Registry()
			m := core.NewMapper(core.WithRegistry(r), core.WithLogger(a.log))
			ctx := cmd.Context()

			out := cmd.OutOrStdout()
			missing := 0
			for _, entity := range args {
				name := r.DeriveTableName(entity)
				ok, err := hasTable(ctx, m, db, d, name)
				if err != nil {
					return err
				}
				status := "ok"
				if !ok {
					status = "missing"
					missing++
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", entity, name, status)
			}
			if missing > 0 {
				return fmt.Errorf("%d of %d tables missing", missing, len(args))
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newTablesCmd(a *app) *cobra.Command {
	var flags dbFlags

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the tables of a database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, d, err := flags.open(cmd, a)
			if err != nil {
				return err
			}
			defer db.Close()

			m := core.NewMapper(core.WithRegistry(a.cfg.Registry()), core.WithLogger(a.log))
			names, err := fetchAllTables(cmd.Context(), m, db, d)
			if err != nil {
				return err
			}
			a.log.Debug("found %d tables", len(names))
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
