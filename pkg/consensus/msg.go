package consensus

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tcfw/minichain/pkg/chain"
	"github.com/tidwall/gjson"
)

type MsgKind string

const (
	MsgKindRequest  MsgKind = "request"
	MsgKindResponse MsgKind = "response"
)

var (
	ErrMalformedMsg   = errors.New("malformed message")
	ErrUnknownMsgKind = errors.New("unknown message kind")
)

// ChainRequest asks peers for their full chain. Target optionally narrows
// the request to a single peer.
type ChainRequest struct {
	FromPeerID string `json:"from_peer_id"`
	Target     string `json:"target,omitempty"`
}

// ChainResponse carries a full chain addressed to Receiver
type ChainResponse struct {
	Blocks   []chain.Block `json:"blocks"`
	Receiver string        `json:"receiver"`
}

// Envelope tags chain sync payloads with their kind
type Envelope struct {
	Kind    MsgKind         `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// SyncMsg is a decoded chain sync message; exactly one of Request or
// Response is set.
type SyncMsg struct {
	Kind     MsgKind
	Request  *ChainRequest
	Response *ChainResponse
}

func (r *ChainRequest) Marshal() ([]byte, error) {
	return marshalEnvelope(MsgKindRequest, r)
}

func (r *ChainResponse) Marshal() ([]byte, error) {
	return marshalEnvelope(MsgKindResponse, r)
}

func marshalEnvelope(kind MsgKind, v interface{}) ([]byte, error) {
	p, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(err, "marshaling %s", kind)
	}

	return json.Marshal(&Envelope{Kind: kind, Payload: p})
}

// DecodeSyncMsg decodes a chain sync payload. Tagged envelopes are decoded by
// kind. Bare payloads from untagged peers are probed by their fields, request
// first and then response.
func DecodeSyncMsg(data []byte) (*SyncMsg, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.Wrap(ErrMalformedMsg, "invalid json")
	}

	if kind := gjson.GetBytes(data, "kind"); kind.Exists() {
		payload := gjson.GetBytes(data, "payload")
		if !payload.IsObject() {
			return nil, errors.Wrap(ErrMalformedMsg, "missing payload")
		}

		switch MsgKind(kind.String()) {
		case MsgKindRequest:
			return decodeRequest([]byte(payload.Raw))
		case MsgKindResponse:
			return decodeResponse([]byte(payload.Raw))
		default:
			return nil, errors.Wrap(ErrUnknownMsgKind, kind.String())
		}
	}

	switch {
	case gjson.GetBytes(data, "from_peer_id").Exists():
		return decodeRequest(data)
	case gjson.GetBytes(data, "blocks").Exists() && gjson.GetBytes(data, "receiver").Exists():
		return decodeResponse(data)
	}

	return nil, errors.Wrap(ErrMalformedMsg, "not a chain request or response")
}

func decodeRequest(data []byte) (*SyncMsg, error) {
	req := &ChainRequest{}
	if err := json.Unmarshal(data, req); err != nil {
		return nil, errors.Wrap(ErrMalformedMsg, err.Error())
	}

	if req.FromPeerID == "" {
		return nil, errors.Wrap(ErrMalformedMsg, "request without from_peer_id")
	}

	return &SyncMsg{Kind: MsgKindRequest, Request: req}, nil
}

func decodeResponse(data []byte) (*SyncMsg, error) {
	resp := &ChainResponse{}
	if err := json.Unmarshal(data, resp); err != nil {
		return nil, errors.Wrap(ErrMalformedMsg, err.Error())
	}

	if resp.Receiver == "" {
		return nil, errors.Wrap(ErrMalformedMsg, "response without receiver")
	}

	return &SyncMsg{Kind: MsgKindResponse, Response: resp}, nil
}

// DecodeBlock decodes a gossiped block
func DecodeBlock(data []byte) (chain.Block, error) {
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return chain.Block{}, errors.Wrap(ErrMalformedMsg, "block is not a json object")
	}

	var b chain.Block
	if err := json.Unmarshal(data, &b); err != nil {
		return chain.Block{}, errors.Wrap(ErrMalformedMsg, err.Error())
	}

	return b, nil
}

func EncodeBlock(b chain.Block) ([]byte, error) {
	d, err := json.Marshal(b)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling block")
	}

	return d, nil
}
