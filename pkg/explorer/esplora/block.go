package esplora

import (
	"context"
	"strconv"
	"strings"
)

func (e *esplora) GetBlockHeight(ctx context.Context) (int, error) {
	resp, err := e.get(ctx, "/blocks/tip/height")
	if err != nil {
		return -1, err
	}

	blockHeight, err := strconv.Atoi(strings.TrimSpace(resp))
	if err != nil {
		return -1, err
	}

	return blockHeight, nil
}
