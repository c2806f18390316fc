package seedworker

import (
	"fmt"

	"github.com/hivewallet/hive-core/internal/core/ports"
	"github.com/hivewallet/hive-core/pkg/wallet"
	log "github.com/sirupsen/logrus"
)

type generateFn func(wallet.NewSeedOpts) ([]byte, string, error)

type worker struct {
	generate generateFn
}

// NewService returns a seed generator running every request in a dedicated
// goroutine.
func NewService() ports.SeedGenerator {
	return &worker{wallet.NewSeed}
}

// Generate spawns a goroutine for the request and returns the channel where
// its only reply is sent. The channel has room for the reply so the worker
// never blocks on an abandoned request, and it is closed right after.
func (w *worker) Generate(req ports.SeedRequest) <-chan ports.SeedReply {
	chRes := make(chan ports.SeedReply, 1)
	go w.run(req, chRes)
	return chRes
}

func (w *worker) run(req ports.SeedRequest, chRes chan<- ports.SeedReply) {
	defer close(chRes)
	defer func() {
		if r := recover(); r != nil {
			log.Warn("seed worker crashed")
			chRes <- ports.SeedReply{
				Err: fmt.Errorf("%s%v", ports.UncaughtErrorPrefix, r),
			}
		}
	}()

	seed, mnemonic, err := w.generate(wallet.NewSeedOpts{
		Entropy:    req.Entropy,
		Passphrase: req.Passphrase,
	})
	if err != nil {
		chRes <- ports.SeedReply{
			Err: fmt.Errorf("%s%w", ports.UncaughtErrorPrefix, err),
		}
		return
	}

	chRes <- ports.SeedReply{Seed: seed, Mnemonic: mnemonic}
}
