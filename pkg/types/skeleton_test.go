package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockcypher/blockcypher-go/internal/tests"
)

func Test_TxSkeleton_Decode(t *testing.T) {
	skeletonJSON, err := tests.ReadFixture(tests.GetProjectRootPath(), "tx-skeleton.json")
	require.NoError(t, err)

	var first, second TxSkeleton
	require.NoError(t, json.Unmarshal(skeletonJSON, &first))
	require.NoError(t, json.Unmarshal(skeletonJSON, &second))
	assert.Equal(t, first, second)

	assert.Len(t, first.ToSign, 1)
	assert.Empty(t, first.Signatures)
	assert.Equal(t, int64(12000), first.Trans.Fees)
	require.Len(t, first.Trans.Inputs, 1)
	assert.Equal(t, int64(5000000), first.Trans.Inputs[0].OutputValue)
	require.Len(t, first.Trans.Outputs, 2)
	assert.Equal(t, int64(1000000), first.Trans.Outputs[0].Value)
}

func Test_TxSkeleton_EncodeKeepsOrder(t *testing.T) {
	skel := &TxSkeleton{
		ToSign:     []string{"aa", "bb"},
		Signatures: []string{"sa", "sb"},
		PubKeys:    []string{"pk", "pk"},
	}
	out, err := json.Marshal(skel)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, []interface{}{"aa", "bb"}, decoded["tosign"])
	assert.Equal(t, []interface{}{"sa", "sb"}, decoded["signatures"])
	assert.Equal(t, []interface{}{"pk", "pk"}, decoded["pubkeys"])
	assert.NotContains(t, decoded, "errors")
}

func Test_NewTxRequest(t *testing.T) {
	req := NewTxRequest([]string{"in"}, []string{"out1", "out2"}, 10000)
	require.Len(t, req.Inputs, 1)
	require.Len(t, req.Outputs, 1)
	assert.Equal(t, []string{"in"}, req.Inputs[0].Addresses)
	assert.Equal(t, []string{"out1", "out2"}, req.Outputs[0].Addresses)
	assert.Equal(t, int64(10000), req.Outputs[0].Value)

	out, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"inputs":[{"addresses":["in"]}],"outputs":[{"addresses":["out1","out2"],"value":10000}]}`, string(out))
}

func Test_TxSkeleton_InputAddresses(t *testing.T) {
	skel := &TxSkeleton{Trans: Tx{Inputs: []TxInput{
		{Addresses: []string{"a"}},
		{Addresses: []string{"b", "a"}},
		{Addresses: []string{"a"}},
	}}}
	assert.Equal(t, []string{"a", "b"}, skel.InputAddresses())

	assert.Empty(t, (&TxSkeleton{}).InputAddresses())
}

func Test_TxSkeleton_CheckSigned(t *testing.T) {
	tests := []struct {
		name    string
		skel    TxSkeleton
		wantErr error
	}{
		{
			name: "signed",
			skel: TxSkeleton{ToSign: []string{"a", "b"}, Signatures: []string{"s", "s"}, PubKeys: []string{"p", "p"}},
		},
		{
			name:    "nothing to sign",
			skel:    TxSkeleton{},
			wantErr: ErrNothingToSign,
		},
		{
			name:    "missing signature",
			skel:    TxSkeleton{ToSign: []string{"a", "b"}, Signatures: []string{"s"}, PubKeys: []string{"p", "p"}},
			wantErr: ErrSignatureCountMismatch,
		},
		{
			name:    "missing public key",
			skel:    TxSkeleton{ToSign: []string{"a"}, Signatures: []string{"s"}},
			wantErr: ErrSignatureCountMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.skel.CheckSigned()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			var signingErr *SigningError
			require.ErrorAs(t, err, &signingErr)
			assert.Equal(t, -1, signingErr.Index)
		})
	}
}

func Test_Errors(t *testing.T) {
	signingErr := &SigningError{Reason: "bad hex", Index: 2, Err: ErrInvalidDigest}
	assert.Equal(t, "signing failed at digest 2: bad hex: invalid digest", signingErr.Error())
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", signingErr), ErrInvalidDigest)

	remoteErr := &RemoteError{Method: "POST", Url: "https://api/txs/send?token=REDACTED", StatusCode: 400, Body: `{"error":"bad"}`}
	wrapped := fmt.Errorf("send: %w", remoteErr)
	assert.True(t, IsRemoteStatus(wrapped, http.StatusBadRequest))
	assert.False(t, IsRemoteStatus(wrapped, http.StatusNotFound))
	assert.False(t, IsRemoteStatus(errors.New("other"), http.StatusBadRequest))
	assert.Contains(t, remoteErr.Error(), "400")

	jsonErr := errors.New("unexpected EOF")
	malformed := &MalformedResponseError{Url: "u", Body: "{", Err: jsonErr}
	assert.ErrorIs(t, malformed, jsonErr)
}
