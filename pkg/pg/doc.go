// Package pg connects to PostgreSQL through a pgx pool and applies goose
// migrations from an embedded filesystem.
//
//	pool, err := pg.Connect(ctx, cfg.PG)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	db := pg.OpenDB(pool)
//	if err := pg.Migrate(ctx, db, migrations.FS, cfg.PG, log); err != nil {
//	    return err
//	}
//
// Stores take the *sql.DB returned by OpenDB, which shares the pool's
// connections. Error predicates classify driver errors without leaking
// pgconn types into callers.
package pg
