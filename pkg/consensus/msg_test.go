package consensus

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/minichain/pkg/chain"
)

func TestRequestEnvelope(t *testing.T) {
	req := &ChainRequest{FromPeerID: "a", Target: "b"}

	d, err := req.Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"request","payload":{"from_peer_id":"a","target":"b"}}`, string(d))

	sm, err := DecodeSyncMsg(d)
	require.NoError(t, err)
	assert.Equal(t, MsgKindRequest, sm.Kind)
	assert.Equal(t, req, sm.Request)
	assert.Nil(t, sm.Response)
}

func TestResponseEnvelope(t *testing.T) {
	resp := &ChainResponse{Blocks: []chain.Block{chain.Genesis()}, Receiver: "a"}

	d, err := resp.Marshal()
	require.NoError(t, err)

	sm, err := DecodeSyncMsg(d)
	require.NoError(t, err)
	assert.Equal(t, MsgKindResponse, sm.Kind)
	assert.Equal(t, resp, sm.Response)
	assert.Nil(t, sm.Request)
}

func TestDecodeUntaggedPayloads(t *testing.T) {
	sm, err := DecodeSyncMsg([]byte(`{"from_peer_id":"a"}`))
	require.NoError(t, err)
	assert.Equal(t, MsgKindRequest, sm.Kind)
	assert.Equal(t, "a", sm.Request.FromPeerID)

	sm, err = DecodeSyncMsg([]byte(`{"blocks":[],"receiver":"b"}`))
	require.NoError(t, err)
	assert.Equal(t, MsgKindResponse, sm.Kind)
	assert.Equal(t, "b", sm.Response.Receiver)
	assert.Empty(t, sm.Response.Blocks)
}

func TestDecodeSyncMsgRejects(t *testing.T) {
	tests := map[string]struct {
		data string
		err  error
	}{
		"empty":            {"", ErrMalformedMsg},
		"truncated":        {`{"kind":"request"`, ErrMalformedMsg},
		"array":            {`[1,2]`, ErrMalformedMsg},
		"unknown kind":     {`{"kind":"gossip","payload":{}}`, ErrUnknownMsgKind},
		"missing payload":  {`{"kind":"request"}`, ErrMalformedMsg},
		"bad request":      {`{"kind":"request","payload":{"from_peer_id":3}}`, ErrMalformedMsg},
		"empty requester":  {`{"kind":"request","payload":{}}`, ErrMalformedMsg},
		"missing receiver": {`{"kind":"response","payload":{"blocks":[]}}`, ErrMalformedMsg},
		"unrelated object": {`{"hello":"world"}`, ErrMalformedMsg},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSyncMsg([]byte(tc.data))
			assert.True(t, errors.Is(err, tc.err), "got %v", err)
		})
	}
}

func TestBlockCodec(t *testing.T) {
	g := chain.Genesis()

	d, err := EncodeBlock(g)
	require.NoError(t, err)

	b, err := DecodeBlock(d)
	require.NoError(t, err)
	assert.Equal(t, g, b)

	for _, bad := range []string{"", "null", "[]", `"block"`, `{"id":"one"}`} {
		_, err := DecodeBlock([]byte(bad))
		assert.True(t, errors.Is(err, ErrMalformedMsg), bad)
	}
}
