package fakeapi

import "errors"

// Store-level errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrBadCredential = errors.New("invalid email or password")
)

// Business-rule errors
var (
	ErrOfferTooLow    = errors.New("offer amount too low")
	ErrAuctionClosed  = errors.New("auction is not open")
	ErrNotSeller      = errors.New("only the seller may do this")
	ErrFullyBooked    = errors.New("warehouse is fully booked")
	ErrOfferSettled   = errors.New("offer already settled")
)
