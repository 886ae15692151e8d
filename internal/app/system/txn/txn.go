// internal/app/system/txn/txn.go
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a MongoDB transaction. fn must use the context it
// is given so its writes join the transaction.
//
// A standalone server rejects transactions; in that case fn runs once
// without one and a warning is logged, so callers that need cleanup on the
// non-transactional path must still undo their own partial writes.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	if log == nil {
		log = zap.NewNop()
	}
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			log.Warn("transactions unavailable, running without one", zap.Error(err))
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		log.Warn("transactions unavailable, running without one", zap.Error(err))
		return fn(ctx)
	}
	return err
}

// Runner binds Run to a database for callers that take a transaction
// runner as a dependency.
type Runner struct {
	DB  *mongo.Database
	Log *zap.Logger
}

// Run executes fn in a transaction on r.DB.
func (r Runner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return Run(ctx, r.DB, r.Log, fn)
}

// Server error codes returned when the deployment cannot run transactions.
var notSupportedCodes = map[int32]bool{
	20:  true, // IllegalOperation: not a replica set member
	51:  true, // IllegalOperation (legacy)
	263: true, // OperationNotSupportedInTransaction
}

// IsNotSupported reports whether err means transactions are unavailable on
// this deployment, as opposed to a failure of the work itself.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && notSupportedCodes[ce.Code] {
		return true
	}

	msg := strings.ToLower(err.Error())
	has := func(s string) bool { return strings.Contains(msg, s) }
	switch {
	case has("illegal operation"):
		return true
	case has("transaction") && (has("replica set") || has("session")):
		return true
	case has("session") && has("not supported"):
		return true
	}
	return false
}
