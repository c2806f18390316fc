package wallet

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

// DerivationPath is the internal representation of a hierarchical
// deterministic wallet path
type DerivationPath []uint32

// ParseDerivationPath converts a derivation path string to the
// internal binary representation
func ParseDerivationPath(strPath string) (DerivationPath, error) {
	if strPath == "" {
		return nil, ErrNullDerivationPath
	}

	elems := strings.Split(strPath, "/")
	for _, e := range elems {
		if e == "" {
			return nil, ErrMalformedDerivationPath
		}
	}
	if len(elems) < 2 {
		return nil, ErrMalformedDerivationPath
	}
	if strings.TrimSpace(elems[0]) == "m" {
		elems = elems[1:]
	}

	path := make(DerivationPath, 0, len(elems))
	for _, elem := range elems {
		value, err := parsePathElem(elem)
		if err != nil {
			return nil, err
		}
		path = append(path, value)
	}
	return path, nil
}

func parsePathElem(elem string) (uint32, error) {
	elem = strings.TrimSpace(elem)

	var offset uint32
	if strings.HasSuffix(elem, "'") {
		offset = hdkeychain.HardenedKeyStart
		elem = strings.TrimSpace(strings.TrimSuffix(elem, "'"))
	}

	bigval, ok := new(big.Int).SetString(elem, 0)
	if !ok {
		return 0, fmt.Errorf("%w: invalid elem '%s'", ErrInvalidDerivationPath, elem)
	}

	max := math.MaxUint32 - offset
	if bigval.Sign() < 0 || bigval.Cmp(big.NewInt(int64(max))) > 0 {
		if offset == 0 {
			return 0, fmt.Errorf(
				"%w: elem %v must be in range [0, %d]",
				ErrInvalidDerivationPath, bigval, max,
			)
		}
		return 0, fmt.Errorf(
			"%w: elem %v must be in hardened range [0, %d]",
			ErrInvalidDerivationPath, bigval, max,
		)
	}
	return offset + uint32(bigval.Uint64()), nil
}

// String converts a binary derivation path to its canonical representation
func (path DerivationPath) String() string {
	if len(path) <= 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("m")
	for _, component := range path {
		hardened := component >= hdkeychain.HardenedKeyStart
		if hardened {
			component -= hdkeychain.HardenedKeyStart
		}
		fmt.Fprintf(&b, "/%d", component)
		if hardened {
			b.WriteString("'")
		}
	}
	return b.String()
}

// AddressAtPath returns the address for a path relative to the account in
// the form "chain/index", ie. 0/3 is the fourth receiving address.
func (a *Accounts) AddressAtPath(
	strPath string, params *chaincfg.Params,
) (string, error) {
	path, err := ParseDerivationPath(strPath)
	if err != nil {
		return "", err
	}
	if len(path) != 2 {
		return "", fmt.Errorf(
			"%w: path must be in the form chain/index", ErrInvalidDerivationPath,
		)
	}

	switch path[0] {
	case ExternalChain:
		return DeriveAddress(a.External, path[1], params)
	case InternalChain:
		return DeriveAddress(a.Internal, path[1], params)
	default:
		return "", fmt.Errorf(
			"%w: chain must be either %d or %d",
			ErrInvalidDerivationPath, ExternalChain, InternalChain,
		)
	}
}
