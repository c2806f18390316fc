package wallet

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// AddressFromScript returns the address encoded in the given output script
// for the given network. Non standard and data carrier scripts have no
// address and an empty string is returned for them.
func AddressFromScript(script []byte, params *chaincfg.Params) (string, error) {
	if len(script) <= 0 {
		return "", ErrNullOutputScript
	}
	if params == nil {
		return "", ErrNullNetwork
	}

	_, addresses, _, err := txscript.ExtractPkScriptAddrs(script, params)
	if err != nil {
		return "", err
	}
	if len(addresses) != 1 {
		return "", nil
	}
	return addresses[0].EncodeAddress(), nil
}

// ScriptFromAddress returns the output script paying to the given address.
func ScriptFromAddress(addr string, params *chaincfg.Params) ([]byte, error) {
	if params == nil {
		return nil, ErrNullNetwork
	}
	decoded, err := btcutil.DecodeAddress(addr, params)
	if err != nil {
		return nil, err
	}
	if !decoded.IsForNet(params) {
		return nil, btcutil.ErrUnknownAddressType
	}
	return txscript.PayToAddrScript(decoded)
}

// IsValidAddress returns whether the given address belongs to the network.
func IsValidAddress(addr string, params *chaincfg.Params) bool {
	_, err := ScriptFromAddress(addr, params)
	return err == nil
}
