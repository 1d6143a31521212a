package utils

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
)

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// SimulateChainTxHash returns a demo transaction hash: 0x + 64 hex chars.
// No chain is involved; the hash is a settlement reference only.
func SimulateChainTxHash() string {
	return "0x" + randomHex(32)
}

// GenerateBitcoinAddress returns a string with the shape of a P2PKH address.
// Demo only, there is no key behind it.
func GenerateBitcoinAddress() string {
	out := make([]byte, 33)
	for i := range out {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(base58Alphabet))))
		if err != nil {
			panic(err)
		}
		out[i] = base58Alphabet[n.Int64()]
	}
	return "1" + string(out)
}

// GenerateEthereumAddress returns a string with the shape of an Ethereum
// address (0x + 40 hex chars). Demo only.
func GenerateEthereumAddress() string {
	return "0x" + randomHex(20)
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
