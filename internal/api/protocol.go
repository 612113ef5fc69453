package api

import (
	"encoding/json"

	gqlerrors "github.com/graph-gophers/graphql-go/errors"
)

// Websocket subprotocols understood by the transport.
const (
	// ProtocolTransportWS is the graphql-transport-ws protocol (graphql-ws library).
	ProtocolTransportWS = "graphql-transport-ws"
	// ProtocolLegacyWS is the older subscriptions-transport-ws protocol used by Apollo 2 clients.
	ProtocolLegacyWS = "graphql-ws"
)

// Message types shared by both protocols.
const (
	msgConnectionInit = "connection_init"
	msgConnectionAck  = "connection_ack"
	msgError          = "error"
	msgComplete       = "complete"
)

// graphql-transport-ws only.
const (
	msgPing      = "ping"
	msgPong      = "pong"
	msgSubscribe = "subscribe"
	msgNext      = "next"
)

// graphql-ws (legacy) only.
const (
	msgStart               = "start"
	msgData                = "data"
	msgStop                = "stop"
	msgKeepAlive           = "ka"
	msgConnectionTerminate = "connection_terminate"
)

// Close codes defined by graphql-transport-ws.
const (
	closeBadRequest          = 4400
	closeUnauthorized        = 4401
	closeInitTimeout         = 4408
	closeSubscriberExists    = 4409
	closeTooManyInitRequests = 4429
)

// protocol maps the abstract operations of a session onto the wire names of one subprotocol.
type protocol struct {
	name      string
	subscribe string
	next      string
	stop      string
	keepAlive bool
}

var (
	transportWS = protocol{name: ProtocolTransportWS, subscribe: msgSubscribe, next: msgNext, stop: msgComplete}
	legacyWS    = protocol{name: ProtocolLegacyWS, subscribe: msgStart, next: msgData, stop: msgStop, keepAlive: true}
)

// protocolFor returns the protocol negotiated during the handshake. Clients that did not
// ask for a subprotocol get graphql-transport-ws.
func protocolFor(subprotocol string) protocol {
	if subprotocol == ProtocolLegacyWS {
		return legacyWS
	}
	return transportWS
}

// errorPayload shapes GraphQL errors for an "error" message: graphql-transport-ws sends the
// list, the legacy protocol a single error object.
func (p protocol) errorPayload(errs []*gqlerrors.QueryError) any {
	if p.keepAlive && len(errs) > 0 {
		return errs[0]
	}
	return errs
}

// operationMessage is a frame received from the client.
type operationMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// outgoingMessage is a frame sent to the client.
type outgoingMessage struct {
	ID      string `json:"id,omitempty"`
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// operationPayload is the payload of subscribe/start.
type operationPayload struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}
