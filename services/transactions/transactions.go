// Package transactions implements the transaction history and payment
// confirmation pages.
package transactions

import (
	"context"
	"fmt"

	"github.com/ishtiakalhumaidi/bidstock-client/internal/apiclient"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/clienterrors"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/dispatcher"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/models"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/querycache"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/selectors"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/session"
)

// KeyMyTransactions caches the signed-in user's transaction history.
var KeyMyTransactions = querycache.NewKey("my-transactions")

// Annotated pairs a transaction with its direction relative to the
// signed-in user.
type Annotated struct {
	models.Transaction
	Direction string `json:"direction"`
}

// Service exposes transaction operations.
type Service struct {
	api      apiclient.API
	cache    *querycache.Cache
	dispatch *dispatcher.Dispatcher
	session  *session.Store
}

// NewService wires a transactions service over the shared client stack.
func NewService(api apiclient.API, cache *querycache.Cache, d *dispatcher.Dispatcher, sess *session.Store) *Service {
	return &Service{api: api, cache: cache, dispatch: d, session: sess}
}

// Mine returns the signed-in user's transactions annotated with direction.
func (s *Service) Mine(ctx context.Context) ([]Annotated, error) {
	user, err := s.session.RequireUser()
	if err != nil {
		return nil, fmt.Errorf("transactions: mine: %w", err)
	}

	txs, err := querycache.Fetch(ctx, s.cache, KeyMyTransactions, func(ctx context.Context) ([]models.Transaction, error) {
		var txs []models.Transaction
		if err := s.api.Get(ctx, "/transactions/my-transactions", &txs); err != nil {
			return nil, fmt.Errorf("transactions: mine: %w", err)
		}
		return txs, nil
	})
	if err != nil {
		return nil, err
	}

	annotated := make([]Annotated, 0, len(txs))
	for _, tx := range txs {
		annotated = append(annotated, Annotated{
			Transaction: tx,
			Direction:   selectors.Direction(tx, user),
		})
	}
	return annotated, nil
}

type confirmRequest struct {
	Status string `json:"status"`
}

// Pay confirms a pending transaction. The server owns the state change; the
// client just invalidates its history afterwards.
func (s *Service) Pay(ctx context.Context, transactionID string) (models.Transaction, error) {
	if _, err := s.session.RequireUser(); err != nil {
		return models.Transaction{}, fmt.Errorf("transactions: pay: %w", err)
	}

	return dispatcher.Dispatch(ctx, s.dispatch, dispatcher.Mutation[models.Transaction]{
		Name: "transactions.pay",
		Validate: func() error {
			if transactionID == "" {
				return fmt.Errorf("%w: empty transaction id", clienterrors.ErrValidation)
			}
			return nil
		},
		Run: func(ctx context.Context) (models.Transaction, error) {
			var tx models.Transaction
			if err := s.api.Put(ctx, "/transactions/"+transactionID, confirmRequest{Status: "completed"}, &tx); err != nil {
				return models.Transaction{}, err
			}
			return tx, nil
		},
		Invalidates: []querycache.Key{KeyMyTransactions},
	})
}
