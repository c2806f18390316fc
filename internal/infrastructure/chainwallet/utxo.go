package chainwallet

type utxo struct {
	txid      string
	index     uint32
	value     int64
	address   string
	confirmed bool
}

func (u utxo) GetTxid() string {
	return u.txid
}

func (u utxo) GetIndex() uint32 {
	return u.index
}

func (u utxo) GetValue() int64 {
	return u.value
}

func (u utxo) GetAddress() string {
	return u.address
}

func (u utxo) IsConfirmed() bool {
	return u.confirmed
}
