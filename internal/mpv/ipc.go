// Package mpv drives an mpv process over its JSON IPC socket.
package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	reelerrors "github.com/tessro/reel/internal/errors"
)

// ErrClosed is returned for commands issued after the connection closed.
var ErrClosed = errors.New("mpv connection closed")

const (
	defaultTimeout = 5 * time.Second
	eventBuffer    = 256
	maxLineSize    = 1 << 20
)

// Event is an asynchronous message from mpv.
type Event struct {
	Name     string          // event type, e.g. "property-change"
	ID       int             // observer id for property changes
	Property string          // property name for property changes
	Data     json.RawMessage // property value, may be null
}

// message is any line mpv writes: a reply or an event.
type message struct {
	Event     string          `json:"event"`
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	RequestID int64           `json:"request_id"`
	Error     string          `json:"error"`
}

type request struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

type reply struct {
	data json.RawMessage
	err  error
}

// Client is a connection to one mpv IPC socket. Replies are matched to
// commands by request id, so commands may be issued from any goroutine.
type Client struct {
	conn    net.Conn
	timeout time.Duration

	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan reply
	handler func(Event)
	err     error

	events chan Event
	done   chan struct{}
	once   sync.Once
}

// Dial connects to the socket at path.
func Dial(ctx context.Context, path string, timeout time.Duration) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", path, err)
	}
	return NewClient(conn, timeout), nil
}

// NewClient starts reading from conn. The client owns conn.
func NewClient(conn net.Conn, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		conn:    conn,
		timeout: timeout,
		pending: make(map[int64]chan reply),
		events:  make(chan Event, eventBuffer),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	go c.dispatchLoop()
	return c
}

// OnEvent sets the handler for asynchronous events. Events are delivered
// in order on a dedicated goroutine, never on the reader, so a slow
// handler cannot stall command replies.
func (c *Client) OnEvent(fn func(Event)) {
	c.mu.Lock()
	c.handler = fn
	c.mu.Unlock()
}

// Done is closed once the connection is gone.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err returns the error that closed the connection, if any.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Command sends args as one IPC command and waits for its reply.
func (c *Client) Command(args ...any) (json.RawMessage, error) {
	c.mu.Lock()
	if c.err != nil {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.nextID++
	id := c.nextID
	ch := make(chan reply, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	payload, err := json.Marshal(request{Command: args, RequestID: id})
	if err != nil {
		c.forget(id)
		return nil, fmt.Errorf("marshal: %w", err)
	}

	c.writeMu.Lock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	_, err = c.conn.Write(append(payload, '\n'))
	c.writeMu.Unlock()
	if err != nil {
		c.forget(id)
		return nil, fmt.Errorf("write: %w", err)
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case r := <-ch:
		return r.data, r.err
	case <-timer.C:
		c.forget(id)
		return nil, fmt.Errorf("%v: %w", args[0], reelerrors.ErrIPCTimeout)
	case <-c.done:
		return nil, ErrClosed
	}
}

// Get reads a property into v.
func (c *Client) Get(name string, v any) error {
	data, err := c.Command("get_property", name)
	if err != nil {
		return fmt.Errorf("get %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// Set writes a property.
func (c *Client) Set(name string, value any) error {
	if _, err := c.Command("set_property", name, value); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return nil
}

// Observe asks mpv to report changes to name under id.
func (c *Client) Observe(id int, name string) error {
	if _, err := c.Command("observe_property", id, name); err != nil {
		return fmt.Errorf("observe %s: %w", name, err)
	}
	return nil
}

// Close shuts the connection down.
func (c *Client) Close() error {
	err := c.conn.Close()
	c.shutdown(ErrClosed)
	return err
}

func (c *Client) forget(id int64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Client) shutdown(err error) {
	c.once.Do(func() {
		c.mu.Lock()
		c.err = err
		c.pending = make(map[int64]chan reply)
		c.mu.Unlock()
		close(c.done)
	})
}

// readLoop reads newline-delimited JSON until the connection fails.
func (c *Client) readLoop() {
	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		var msg message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}

		if msg.Event != "" {
			select {
			case c.events <- Event{Name: msg.Event, ID: msg.ID, Property: msg.Name, Data: msg.Data}:
			case <-c.done:
				return
			}
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[msg.RequestID]
		delete(c.pending, msg.RequestID)
		c.mu.Unlock()
		if !ok {
			continue
		}

		r := reply{data: msg.Data}
		if msg.Error != "" && msg.Error != "success" {
			r.err = fmt.Errorf("mpv error: %s", msg.Error)
		}
		ch <- r
	}

	err := scanner.Err()
	if err == nil {
		err = ErrClosed
	}
	c.shutdown(err)
}

func (c *Client) dispatchLoop() {
	for {
		select {
		case <-c.done:
			return
		case ev := <-c.events:
			c.mu.Lock()
			fn := c.handler
			c.mu.Unlock()
			if fn != nil {
				fn(ev)
			}
		}
	}
}
