// Package txgraph keeps the local graph linking every known transaction to
// the transactions that produced the outputs spent by its inputs.
package txgraph

import (
	"encoding/hex"
	"errors"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

var (
	// ErrNullTx ...
	ErrNullTx = errors.New("tx must not be null")
	// ErrNodeNotFound ...
	ErrNodeNotFound = errors.New("tx node not found")
)

// Node is a transaction in the graph. Tx is nil for placeholder nodes, ie.
// transactions referenced by some input but not fetched yet.
type Node struct {
	ID        string
	Tx        *wire.MsgTx
	PrevNodes []*Node
	NextNodes []*Node
}

// IsPlaceholder returns whether the raw tx of the node is still unknown.
func (n *Node) IsPlaceholder() bool {
	return n.Tx == nil
}

// Graph is a concurrency safe transaction graph indexed by tx id.
type Graph struct {
	lock  *sync.RWMutex
	nodes map[string]*Node
	order []string
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		lock:  &sync.RWMutex{},
		nodes: make(map[string]*Node),
	}
}

// AddTx adds the given tx to the graph and links it to the nodes of the txs
// referenced by its inputs, creating placeholders for the unknown ones.
func (g *Graph) AddTx(tx *wire.MsgTx) (*Node, error) {
	if tx == nil {
		return nil, ErrNullTx
	}

	g.lock.Lock()
	defer g.lock.Unlock()

	node := g.getOrCreate(tx.TxHash().String())
	if !node.IsPlaceholder() {
		return node, nil
	}
	node.Tx = tx

	for _, in := range tx.TxIn {
		if IsNullInput(in) {
			continue
		}
		prev := g.getOrCreate(PrevTxID(in))
		if !containsNode(node.PrevNodes, prev) {
			node.PrevNodes = append(node.PrevNodes, prev)
		}
		if !containsNode(prev.NextNodes, node) {
			prev.NextNodes = append(prev.NextNodes, node)
		}
	}
	return node, nil
}

// FindNodeByID returns the node of the graph identified by the given tx id.
func (g *Graph) FindNodeByID(id string) (*Node, error) {
	g.lock.RLock()
	defer g.lock.RUnlock()

	node, ok := g.nodes[id]
	if !ok {
		return nil, ErrNodeNotFound
	}
	return node, nil
}

// Placeholders returns the ids of the txs that are referenced but unknown.
func (g *Graph) Placeholders() []string {
	g.lock.RLock()
	defer g.lock.RUnlock()

	ids := make([]string, 0)
	for _, id := range g.order {
		if g.nodes[id].IsPlaceholder() {
			ids = append(ids, id)
		}
	}
	return ids
}

func (g *Graph) getOrCreate(id string) *Node {
	node, ok := g.nodes[id]
	if !ok {
		node = &Node{ID: id}
		g.nodes[id] = node
		g.order = append(g.order, id)
	}
	return node
}

// IsNullInput returns whether the given input spends the null outpoint,
// like the input of a coinbase tx. Such an input has no previous tx.
func IsNullInput(in *wire.TxIn) bool {
	return in.PreviousOutPoint.Hash == chainhash.Hash{}
}

// PrevTxID returns the id of the tx referenced by the given input. The
// outpoint hash is stored in internal byte order, the id is its reversed hex
// encoding.
func PrevTxID(in *wire.TxIn) string {
	hash := in.PreviousOutPoint.Hash
	reversed := make([]byte, chainhash.HashSize)
	for i := range hash {
		reversed[chainhash.HashSize-1-i] = hash[i]
	}
	return hex.EncodeToString(reversed)
}

func containsNode(nodes []*Node, node *Node) bool {
	for _, n := range nodes {
		if n == node {
			return true
		}
	}
	return false
}
