// Package mongo connects to MongoDB for the optional document-store ledger
// backend (LEDGER_BACKEND=mongo).
//
//	db, err := mongo.ConnectDatabase(ctx, cfg.Mongo)
//	if err != nil {
//	    return err
//	}
//	store := ledger.NewMongoStore(db)
//	if err := store.EnsureIndexes(ctx); err != nil {
//	    return err
//	}
package mongo
