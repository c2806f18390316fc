package application

import "errors"

var (
	// ErrSeedWorkerClosed is returned if the seed generator closes the reply
	// channel without replying.
	ErrSeedWorkerClosed = errors.New("seed generator terminated without reply")
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be a positive number")
	// ErrInsufficientFunds ...
	ErrInsufficientFunds = errors.New("amount exceeds wallet balance")
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("address is not valid for the wallet network")
	// ErrUnknownDBType ...
	ErrUnknownDBType = errors.New("unknown db type")
)
