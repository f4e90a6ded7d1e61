// Package txcode generates the correlation codes shared by the two ledger
// entries and the history row of one transfer.
package txcode

import (
	"crypto/rand"
	"io"
)

// Length matches the 10-character uppercase codes auditors reconcile on.
const Length = 10

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type Generator struct{ src io.Reader }

// New returns a generator backed by crypto/rand.
func New() *Generator { return &Generator{src: rand.Reader} }

// NewWithSource takes an explicit entropy source so tests can be
// deterministic.
func NewWithSource(src io.Reader) *Generator { return &Generator{src: src} }

func (g *Generator) Generate() (string, error) {
	buf := make([]byte, Length)
	if _, err := io.ReadFull(g.src, buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}
