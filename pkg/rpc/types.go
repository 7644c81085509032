/*
Package rpc contains the client side of JSON-RPC communication with
Galaxy RPC servers: basic request/response types, an HTTP client, a
websocket client and typed wrappers for the server primitives used by
the contract and event layers.
*/
package rpc

import (
	"encoding/json"
	"fmt"
)

// JSONRPCVersion is the only JSON-RPC protocol version supported.
const JSONRPCVersion = "2.0"

type (
	// Request represents a JSON-RPC request. Params is method-specific
	// and is always a single object for Galaxy servers.
	Request struct {
		JSONRPC string      `json:"jsonrpc"`
		Method  string      `json:"method"`
		Params  interface{} `json:"params,omitempty"`
		ID      uint64      `json:"id"`
	}

	// Response represents a standard raw JSON-RPC 2.0 response.
	Response struct {
		ID      json.RawMessage `json:"id"`
		JSONRPC string          `json:"jsonrpc"`
		Error   *Error          `json:"error,omitempty"`
		Result  json.RawMessage `json:"result,omitempty"`
	}

	// Error represents a JSON-RPC 2.0 error object returned by the
	// server.
	Error struct {
		Code    int64  `json:"code"`
		Message string `json:"message"`
		Data    string `json:"data,omitempty"`
	}
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Data == "" {
		return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("RPC error %d: %s (%s)", e.Code, e.Message, e.Data)
}
