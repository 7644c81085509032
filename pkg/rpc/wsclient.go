package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
)

// WSClient is a websocket-enabled RPC client. It keeps a persistent
// connection to the server which makes series of calls (like the
// polling loops of the contract waiter and the event engine) cheaper
// than fresh HTTP round trips.
type WSClient struct {
	Client
	ws        *websocket.Conn
	done      chan struct{}
	responses chan *Response
	requests  chan *Request
	shutdown  chan struct{}
}

const (
	// Message limit for the receiving side.
	wsReadLimit = 10 * 1024 * 1024

	// Disconnection timeout.
	wsPongLimit = 60 * time.Second

	// Ping period for connection liveness check.
	wsPingPeriod = wsPongLimit / 2

	// Write deadline.
	wsWriteLimit = wsPingPeriod / 2
)

// ErrWSConnLost is returned when an in-flight request can't complete
// because the connection is gone.
var ErrWSConnLost = errors.New("connection lost")

// NewWS returns a new WSClient with an established websocket connection.
// You need to use a websocket URL for it like `ws://1.2.3.4/ws`.
func NewWS(ctx context.Context, endpoint string, opts Options) (*WSClient, error) {
	cl := new(Client)
	if err := initClient(ctx, cl, endpoint, opts); err != nil {
		return nil, err
	}
	cl.cli = nil

	dialer := websocket.Dialer{HandshakeTimeout: opts.DialTimeout}
	ws, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	wsc := &WSClient{
		Client:    *cl,
		ws:        ws,
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		responses: make(chan *Response),
		requests:  make(chan *Request),
	}
	go wsc.wsReader()
	go wsc.wsWriter()
	wsc.requestF = wsc.makeWsRequest
	return wsc, nil
}

// Close closes the connection to the remote side rendering this client
// instance unusable.
func (c *WSClient) Close() {
	// Closing the shutdown channel makes wsWriter break out of its loop
	// and close the network connection, which in turn makes wsReader
	// receive an error and close the done channel in its shutdown
	// sequence.
	close(c.shutdown)
	<-c.done
}

func (c *WSClient) wsReader() {
	c.ws.SetReadLimit(wsReadLimit)
	c.ws.SetPongHandler(func(string) error { return c.ws.SetReadDeadline(time.Now().Add(wsPongLimit)) })
	for {
		resp := new(Response)
		if err := c.ws.SetReadDeadline(time.Now().Add(wsPongLimit)); err != nil {
			break
		}
		if err := c.ws.ReadJSON(resp); err != nil {
			// Timeout/connection loss/malformed response.
			break
		}
		if resp.ID == nil || (resp.Error == nil && resp.Result == nil) {
			// Malformed response.
			break
		}
		c.responses <- resp
	}
	close(c.done)
	close(c.responses)
}

func (c *WSClient) wsWriter() {
	pingTicker := time.NewTicker(wsPingPeriod)
	defer c.ws.Close()
	defer pingTicker.Stop()
	for {
		select {
		case <-c.shutdown:
			return
		case <-c.done:
			return
		case req, ok := <-c.requests:
			if !ok {
				return
			}
			if err := c.ws.SetWriteDeadline(time.Now().Add(c.opts.RequestTimeout)); err != nil {
				return
			}
			if err := c.ws.WriteJSON(req); err != nil {
				return
			}
		case <-pingTicker.C:
			if err := c.ws.SetWriteDeadline(time.Now().Add(wsWriteLimit)); err != nil {
				return
			}
			if err := c.ws.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		}
	}
}

func (c *WSClient) makeWsRequest(r *Request) (*Response, error) {
	select {
	case <-c.done:
		return nil, ErrWSConnLost
	case c.requests <- r:
	}
	want, _ := json.Marshal(r.ID)
	for {
		select {
		case <-c.done:
			return nil, ErrWSConnLost
		case resp, ok := <-c.responses:
			if !ok {
				return nil, ErrWSConnLost
			}
			// Requests are serialized by the callers of one client, a
			// mismatched id means a stale response is skipped.
			if string(resp.ID) == string(want) {
				return resp, nil
			}
		}
	}
}
