package types

import (
	"fmt"
)

// TxSkeleton is an unsigned transaction returned by /txs/new together with
// the digests that must be signed. Signatures[i] and PubKeys[i] belong to
// ToSign[i]; the remote verifier relies on that ordering.
type TxSkeleton struct {
	Trans      Tx              `json:"tx"`
	ToSign     []string        `json:"tosign"`
	Signatures []string        `json:"signatures"`
	PubKeys    []string        `json:"pubkeys"`
	ToSignTx   []string        `json:"tosign_tx,omitempty"`
	Errors     []SkeletonError `json:"errors,omitempty"`
}

// SkeletonError is a per-skeleton error reported by the API alongside an
// otherwise successful response
type SkeletonError struct {
	Error string `json:"error"`
}

// NewTxRequest builds the request body for /txs/new: one input spending
// from inputAddresses and one output paying amount to outputAddresses.
func NewTxRequest(inputAddresses []string, outputAddresses []string, amount int64) *Tx {
	return &Tx{
		Inputs: []TxInput{
			{Addresses: inputAddresses},
		},
		Outputs: []TxOutput{
			{Addresses: outputAddresses, Value: amount},
		},
	}
}

// InputAddresses returns the distinct addresses referenced by the skeleton's
// inputs, in first-seen order
func (s *TxSkeleton) InputAddresses() []string {
	seen := make(map[string]bool)
	var addresses []string
	for _, in := range s.Trans.Inputs {
		for _, addr := range in.Addresses {
			if seen[addr] {
				continue
			}
			seen[addr] = true
			addresses = append(addresses, addr)
		}
	}
	return addresses
}

// CheckSigned verifies that the skeleton carries exactly one signature and
// one public key per digest.
func (s *TxSkeleton) CheckSigned() error {
	if len(s.ToSign) == 0 {
		return &SigningError{Reason: "skeleton has no digests", Index: -1, Err: ErrNothingToSign}
	}
	if len(s.Signatures) != len(s.ToSign) || len(s.PubKeys) != len(s.ToSign) {
		return &SigningError{
			Reason: fmt.Sprintf("have %d digests, %d signatures and %d public keys",
				len(s.ToSign), len(s.Signatures), len(s.PubKeys)),
			Index: -1,
			Err:   ErrSignatureCountMismatch,
		}
	}
	return nil
}
