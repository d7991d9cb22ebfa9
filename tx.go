package query

import "context"

// TxBoundExecutor represents an executor bound to a transaction.
type TxBoundExecutor interface {
	Executor
	Commit() error
	Rollback() error
}

// TxExecutor represents an executor that supports transactions.
type TxExecutor interface {
	Executor
	BeginTx(ctx context.Context) (TxBoundExecutor, error)
}

// Tx runs fn with a Session bound to a transaction. Handles found through the
// bound Session read inside the transaction, which is where lock modes apply.
func (s *Session) Tx(ctx context.Context, fn func(tx *Session) error) error {
	txExec, ok := s.exec.(TxExecutor)
	if !ok {
		return ErrNoTxSupport
	}

	bound, err := txExec.BeginTx(ctx)
	if err != nil {
		return err
	}

	txSession := &Session{
		exec:    bound,
		planner: s.planner,
		log:     s.log,
	}

	if err := fn(txSession); err != nil {
		if rbErr := bound.Rollback(); rbErr != nil {
			s.log.Warn().Err(rbErr).Msg("rollback failed")
		}
		return err
	}

	return bound.Commit()
}
