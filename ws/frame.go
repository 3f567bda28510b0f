package ws

import "encoding/json"

// Client-to-server frame types.
const (
	frameTypeAuth        = "auth"
	frameTypeChatMessage = "chat_message"
)

// inboundFrame is the tagged union of client frames. Frames are decoded once
// at the protocol boundary; the router switches on the concrete type with a
// single fallback branch for anything it does not recognize.
type inboundFrame interface {
	inbound()
}

type authFrame struct {
	UserID string
}

type chatMessageFrame struct {
	BillingID  string
	ReceiverID string
	Content    string
}

type unknownFrame struct {
	Type string
}

func (authFrame) inbound()        {}
func (chatMessageFrame) inbound() {}
func (unknownFrame) inbound()     {}

// rawFrame is the flat wire shape; only the fields relevant to the declared
// type are read.
type rawFrame struct {
	Type       string `json:"type"`
	UserID     string `json:"userId"`
	BillingID  string `json:"billingId"`
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

// decodeFrame parses one text frame. A JSON error is the caller's cue to drop
// the frame and keep the connection open.
func decodeFrame(data []byte) (inboundFrame, error) {
	var raw rawFrame
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	switch raw.Type {
	case frameTypeAuth:
		return authFrame{UserID: raw.UserID}, nil
	case frameTypeChatMessage:
		return chatMessageFrame{
			BillingID:  raw.BillingID,
			ReceiverID: raw.ReceiverID,
			Content:    raw.Content,
		}, nil
	default:
		return unknownFrame{Type: raw.Type}, nil
	}
}
