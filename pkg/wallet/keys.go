package wallet

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

const (
	// AccountIndex is the hardened index of the only account of the wallet.
	AccountIndex = hdkeychain.HardenedKeyStart + 0
	// ExternalChain is the index of the receiving chain of the account.
	ExternalChain = 0
	// InternalChain is the index of the change chain of the account.
	InternalChain = 1
)

var (
	// ExternalChainPath m/0'/0
	ExternalChainPath = DerivationPath{AccountIndex, ExternalChain}
	// InternalChainPath m/0'/1
	InternalChainPath = DerivationPath{AccountIndex, InternalChain}
)

// Accounts holds the external (receiving) and internal (change) chain nodes
// of the wallet account.
type Accounts struct {
	External *hdkeychain.ExtendedKey
	Internal *hdkeychain.ExtendedKey
}

// DeriveAccountsOpts is the struct given to the DeriveAccounts method
type DeriveAccountsOpts struct {
	Seed    []byte
	Network *Network
}

func (o DeriveAccountsOpts) validate() error {
	if o.Network == nil || o.Network.Params == nil {
		return ErrNullNetwork
	}
	if len(o.Seed) <= 0 {
		return ErrNullSeed
	}
	if len(o.Seed) < hdkeychain.MinSeedBytes ||
		len(o.Seed) > hdkeychain.MaxSeedBytes {
		return ErrInvalidSeedSize
	}
	return nil
}

// DeriveAccounts derives the account node m/0' from the given seed and
// returns its children 0 (external) and 1 (internal).
func DeriveAccounts(opts DeriveAccountsOpts) (*Accounts, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	master, err := hdkeychain.NewMaster(opts.Seed, opts.Network.Params)
	if err != nil {
		return nil, err
	}

	external, err := derivePath(master, ExternalChainPath)
	if err != nil {
		return nil, err
	}
	internal, err := derivePath(master, InternalChainPath)
	if err != nil {
		return nil, err
	}

	return &Accounts{
		External: external,
		Internal: internal,
	}, nil
}

// DeriveAddress returns the pay-to-pubkey-hash address of the child at index
// of the given chain node.
func DeriveAddress(
	chain *hdkeychain.ExtendedKey, index uint32, params *chaincfg.Params,
) (string, error) {
	if chain == nil {
		return "", ErrNullAccountKey
	}
	if params == nil {
		return "", ErrNullNetwork
	}

	child, err := chain.Derive(index)
	if err != nil {
		return "", err
	}
	pubkey, err := child.ECPubKey()
	if err != nil {
		return "", err
	}

	addr, err := btcutil.NewAddressPubKeyHash(
		btcutil.Hash160(pubkey.SerializeCompressed()), params,
	)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

func derivePath(
	node *hdkeychain.ExtendedKey, path DerivationPath,
) (*hdkeychain.ExtendedKey, error) {
	var err error
	for _, step := range path {
		node, err = node.Derive(step)
		if err != nil {
			return nil, err
		}
	}
	return node, nil
}
