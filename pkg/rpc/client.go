package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/atomic"
)

const (
	defaultDialTimeout    = 4 * time.Second
	defaultRequestTimeout = 4 * time.Second
)

// Client is the middleman for executing JSON-RPC calls to remote Galaxy
// RPC nodes. Client is thread-safe and can be used from multiple
// goroutines.
type Client struct {
	cli      *http.Client
	endpoint *url.URL
	ctx      context.Context
	opts     Options
	requestF func(*Request) (*Response, error)

	latestReqID *atomic.Uint64
	// getNextRequestID returns an ID for the subsequent request. It is
	// defined on Client so that testing code can override it for
	// predictable request id generation.
	getNextRequestID func() uint64
}

// Options defines options for the RPC client. All values are optional,
// missing durations default to 4 seconds.
type Options struct {
	DialTimeout    time.Duration
	RequestTimeout time.Duration
	// MaxConnsPerHost limits the total number of connections per host.
	// No limit by default.
	MaxConnsPerHost int
}

// New returns a new Client ready to use.
func New(ctx context.Context, endpoint string, opts Options) (*Client, error) {
	cl := new(Client)
	if err := initClient(ctx, cl, endpoint, opts); err != nil {
		return nil, err
	}
	return cl, nil
}

func initClient(ctx context.Context, cl *Client, endpoint string, opts Options) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return err
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}

	cl.ctx = ctx
	cl.cli = &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: opts.DialTimeout,
			}).DialContext,
			MaxConnsPerHost: opts.MaxConnsPerHost,
		},
		Timeout: opts.RequestTimeout,
	}
	cl.endpoint = u
	cl.opts = opts
	cl.latestReqID = atomic.NewUint64(0)
	cl.getNextRequestID = cl.getRequestID
	cl.requestF = cl.makeHTTPRequest
	return nil
}

func (c *Client) getRequestID() uint64 {
	return c.latestReqID.Inc()
}

// Context returns the context the client was created with.
func (c *Client) Context() context.Context {
	return c.ctx
}

// Close closes unused underlying network connections.
func (c *Client) Close() {
	c.cli.CloseIdleConnections()
}

// Ping attempts to create a connection to the endpoint and returns an
// error if it can't.
func (c *Client) Ping() error {
	conn, err := net.DialTimeout("tcp", c.endpoint.Host, c.opts.DialTimeout)
	if err != nil {
		return err
	}
	_ = conn.Close()
	return nil
}

func (c *Client) performRequest(method string, params interface{}, v interface{}) error {
	var r = Request{
		JSONRPC: JSONRPCVersion,
		Method:  method,
		Params:  params,
		ID:      c.getNextRequestID(),
	}

	raw, err := c.requestF(&r)

	if raw != nil && raw.Error != nil {
		return raw.Error
	} else if err != nil {
		return err
	} else if raw == nil || raw.Result == nil {
		return errors.New("no result returned")
	}
	return json.Unmarshal(raw.Result, v)
}

func (c *Client) makeHTTPRequest(r *Request) (*Response, error) {
	var (
		buf = new(bytes.Buffer)
		raw = new(Response)
	)

	if err := json.NewEncoder(buf).Encode(r); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(c.ctx, "POST", c.endpoint.String(), buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.cli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// The node might send a proper JSON error anyway, so look there first
	// since it has more relevant data than the HTTP status code.
	err = json.NewDecoder(resp.Body).Decode(raw)
	if err != nil {
		if resp.StatusCode != http.StatusOK {
			err = fmt.Errorf("HTTP %d/%s", resp.StatusCode, http.StatusText(resp.StatusCode))
		} else {
			err = fmt.Errorf("JSON decoding: %w", err)
		}
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}
