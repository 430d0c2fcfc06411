// Package app wires the client stack: config, session, API client, cache,
// dispatcher and the per-page services.
package app

import (
	"github.com/ishtiakalhumaidi/bidstock-client/internal/apiclient"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/config"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/dispatcher"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/querycache"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/session"
	"github.com/ishtiakalhumaidi/bidstock-client/services/accounts"
	"github.com/ishtiakalhumaidi/bidstock-client/services/auctions"
	"github.com/ishtiakalhumaidi/bidstock-client/services/inventory"
	"github.com/ishtiakalhumaidi/bidstock-client/services/rentals"
	"github.com/ishtiakalhumaidi/bidstock-client/services/transactions"
)

// App is the fully wired client.
type App struct {
	Config     config.Config
	Session    *session.Store
	Cache      *querycache.Cache
	Dispatcher *dispatcher.Dispatcher

	Accounts     *accounts.Service
	Auctions     *auctions.Service
	Rentals      *rentals.Service
	Inventory    *inventory.Service
	Transactions *transactions.Service
}

// New builds the client against the configured API, hydrating any persisted
// session.
func New(cfg config.Config) *App {
	sess := session.NewStore(cfg.StatePath)
	sess.Hydrate()

	api := apiclient.New(cfg.BaseURL, sess, apiclient.Options{
		Timeout:   cfg.RequestTimeout,
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
	})

	cache := querycache.New()
	d := dispatcher.New(cache)

	return &App{
		Config:     cfg,
		Session:    sess,
		Cache:      cache,
		Dispatcher: d,

		Accounts:     accounts.NewService(api, cache, d, sess),
		Auctions:     auctions.NewService(api, cache, d, sess),
		Rentals:      rentals.NewService(api, cache, d, sess),
		Inventory:    inventory.NewService(api, cache, d, sess),
		Transactions: transactions.NewService(api, cache, d, sess),
	}
}
