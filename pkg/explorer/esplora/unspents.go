package esplora

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hivewallet/hive-core/pkg/explorer"
	"golang.org/x/sync/errgroup"
)

func (e *esplora) GetUnspents(
	ctx context.Context, addr string,
) ([]explorer.Utxo, error) {
	resp, err := e.get(ctx, fmt.Sprintf("/address/%s/utxo", addr))
	if err != nil {
		return nil, fmt.Errorf("error on retrieving utxos: %w", err)
	}

	var outs []utxo
	if err := json.Unmarshal([]byte(resp), &outs); err != nil {
		return nil, fmt.Errorf("error on retrieving utxos: %w", err)
	}

	unspents := make([]explorer.Utxo, 0, len(outs))
	for _, out := range outs {
		out.address = addr
		unspents = append(unspents, out)
	}
	return unspents, nil
}

// GetUnspentsForAddresses returns the utxos of all the given addresses, in
// no particular order.
func (e *esplora) GetUnspentsForAddresses(
	ctx context.Context, addresses []string,
) ([]explorer.Utxo, error) {
	lock := &sync.Mutex{}
	unspents := make([]explorer.Utxo, 0)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxParallelFetch)
	for i := range addresses {
		addr := addresses[i]
		eg.Go(func() error {
			utxos, err := e.GetUnspents(ctx, addr)
			if err != nil {
				return err
			}
			lock.Lock()
			unspents = append(unspents, utxos...)
			lock.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return unspents, nil
}
