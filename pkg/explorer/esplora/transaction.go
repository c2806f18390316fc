package esplora

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hivewallet/hive-core/pkg/explorer"
	"golang.org/x/sync/errgroup"
)

const (
	// confirmed txs returned per page by /address/:addr/txs/chain.
	chainTxsPageSize = 25
	maxParallelFetch = 4
)

func (e *esplora) GetTransactionHex(
	ctx context.Context, hash string,
) (string, error) {
	resp, err := e.get(ctx, fmt.Sprintf("/tx/%s/hex", hash))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp), nil
}

func (e *esplora) GetTransactionsForAddress(
	ctx context.Context, address string,
) ([]explorer.Transaction, error) {
	infos, err := e.getTransactionInfosForAddress(ctx, address)
	if err != nil {
		return nil, err
	}

	txs := make([]explorer.Transaction, len(infos))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxParallelFetch)
	for i := range infos {
		i := i
		eg.Go(func() error {
			tx, err := e.fetchTransaction(ctx, infos[i])
			if err != nil {
				return err
			}
			txs[i] = tx
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return txs, nil
}

// getTransactionInfosForAddress returns mempool txs followed by all pages of
// confirmed txs for the given address.
func (e *esplora) getTransactionInfosForAddress(
	ctx context.Context, address string,
) ([]txInfo, error) {
	page, err := e.getTransactionInfosPage(
		ctx, fmt.Sprintf("/address/%s/txs", address),
	)
	if err != nil {
		return nil, err
	}

	infos := append([]txInfo{}, page...)
	confirmed := countConfirmed(page)
	for confirmed == chainTxsPageSize {
		lastSeen := infos[len(infos)-1].TxID
		page, err = e.getTransactionInfosPage(
			ctx, fmt.Sprintf("/address/%s/txs/chain/%s", address, lastSeen),
		)
		if err != nil {
			return nil, err
		}
		infos = append(infos, page...)
		confirmed = countConfirmed(page)
	}
	return infos, nil
}

func (e *esplora) getTransactionInfosPage(
	ctx context.Context, path string,
) ([]txInfo, error) {
	resp, err := e.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var infos []txInfo
	if err := json.Unmarshal([]byte(resp), &infos); err != nil {
		return nil, err
	}
	return infos, nil
}

func (e *esplora) fetchTransaction(
	ctx context.Context, info txInfo,
) (explorer.Transaction, error) {
	txHex, err := e.GetTransactionHex(ctx, info.TxID)
	if err != nil {
		return nil, err
	}
	return NewTxFromHex(
		txHex, info.Fee,
		info.Status.Confirmed, info.Status.BlockHeight, info.Status.BlockTime,
	)
}

func countConfirmed(infos []txInfo) int {
	count := 0
	for _, info := range infos {
		if info.Status.Confirmed {
			count++
		}
	}
	return count
}
