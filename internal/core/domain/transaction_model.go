package domain

// TxIO is an input or output of a reconstructed transaction. Address is
// empty for scripts without a standard address.
type TxIO struct {
	Address string
	Amount  int64
}

// TransactionRecord is the normalized view of a wallet transaction. Amount
// is the net value for the wallet, Timestamp is in milliseconds.
type TransactionRecord struct {
	ID            string
	Amount        int64
	Timestamp     int64
	Confirmations int
	Fee           int64
	Inputs        []TxIO
	Outputs       []TxIO
}

// IsPending returns whether the transaction is not confirmed yet.
func (r TransactionRecord) IsPending() bool {
	return r.Confirmations <= 0
}

// IsIncoming returns whether the wallet received funds with the tx.
func (r TransactionRecord) IsIncoming() bool {
	return r.Amount > 0
}
