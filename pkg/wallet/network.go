package wallet

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
	"github.com/shopspring/decimal"
)

// Denomination is a unit used to display amounts. Exp is the number of
// decimal places of the unit relative to the base unit (satoshi).
type Denomination struct {
	Label string
	Exp   int32
}

// Format returns the human readable representation of the given amount of
// base units.
func (d Denomination) Format(amount int64) string {
	return decimal.New(amount, -d.Exp).String()
}

// Parse converts a human readable amount in base units. Amounts with more
// decimal places than the denomination allows are rejected.
func (d Denomination) Parse(amount string) (int64, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	shifted := value.Shift(d.Exp)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, fmt.Errorf(
			"amount %q has more than %d decimal places", amount, d.Exp,
		)
	}
	return shifted.IntPart(), nil
}

// Network groups the chain parameters and the denomination policy of one of
// the supported networks.
type Network struct {
	Name          string
	Params        *chaincfg.Params
	Denominations []Denomination
}

// DefaultDenomination returns the first denomination of the network.
func (n *Network) DefaultDenomination() Denomination {
	return n.Denominations[0]
}

// Denomination returns the network denomination with the given label.
func (n *Network) Denomination(label string) (Denomination, error) {
	for _, d := range n.Denominations {
		if strings.EqualFold(d.Label, label) {
			return d, nil
		}
	}
	return Denomination{}, ErrUnknownDenomination
}

var (
	btcDenominations = []Denomination{
		{Label: "BTC", Exp: 8},
		{Label: "mBTC", Exp: 5},
		{Label: "bits", Exp: 2},
	}

	// Bitcoin mainnet.
	Bitcoin = &Network{
		Name:          "bitcoin",
		Params:        &chaincfg.MainNetParams,
		Denominations: btcDenominations,
	}
	// Testnet is bitcoin testnet3.
	Testnet = &Network{
		Name:          "testnet",
		Params:        &chaincfg.TestNet3Params,
		Denominations: btcDenominations,
	}
	// Regtest ...
	Regtest = &Network{
		Name:          "regtest",
		Params:        &chaincfg.RegressionNetParams,
		Denominations: btcDenominations,
	}
	// Litecoin mainnet.
	Litecoin = &Network{
		Name:   "litecoin",
		Params: litecoinParams(),
		Denominations: []Denomination{
			{Label: "LTC", Exp: 8},
			{Label: "mLTC", Exp: 5},
		},
	}

	networks = map[string]*Network{
		Bitcoin.Name:  Bitcoin,
		Testnet.Name:  Testnet,
		Regtest.Name:  Regtest,
		Litecoin.Name: Litecoin,
	}
)

// NetworkByName returns the supported network identified by the given name.
func NetworkByName(name string) (*Network, error) {
	net, ok := networks[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
	}
	return net, nil
}

// litecoinParams overrides the bitcoin mainnet params with the address and HD
// key versions of litecoin.
func litecoinParams() *chaincfg.Params {
	params := chaincfg.MainNetParams
	params.Name = "litecoin"
	params.Net = wire.BitcoinNet(0xdbb6c0fb)
	params.Bech32HRPSegwit = "ltc"
	params.PubKeyHashAddrID = 0x30
	params.ScriptHashAddrID = 0x32
	params.PrivateKeyID = 0xb0
	params.HDPrivateKeyID = [4]byte{0x01, 0x9d, 0x9c, 0xfe}
	params.HDPublicKeyID = [4]byte{0x01, 0x9d, 0xa4, 0x62}
	params.HDCoinType = 2
	return &params
}
