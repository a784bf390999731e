// Package greetd is a client for the greetd IPC protocol.
//
// Every message is a native-endian uint32 length followed by that many
// bytes of JSON, sent over the unix socket named by $GREETD_SOCK.
package greetd

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/ndlm/ndlm"
)

// SocketEnv names the environment variable holding the socket path.
const SocketEnv = "GREETD_SOCK"

// maxMessage bounds a single response frame.
const maxMessage = 1 << 20

var (
	// ErrAuth matches errors whose greetd error_type is auth_error.
	ErrAuth = errors.New("greetd: authentication failed")
	// ErrProtocol is returned for malformed or unexpected responses.
	ErrProtocol = errors.New("greetd: protocol error")
	// ErrNoSocket is returned when no socket path is configured.
	ErrNoSocket = errors.New("greetd: " + SocketEnv + " not set")
)

// Error is an error response from greetd.
type Error struct {
	Type        string
	Description string
}

func (e *Error) Error() string {
	return fmt.Sprintf("greetd: %s: %s", e.Type, e.Description)
}

// Is reports whether the response was an authentication failure.
func (e *Error) Is(target error) bool {
	return target == ErrAuth && e.Type == "auth_error"
}

type request struct {
	Type     string    `json:"type"`
	Username string    `json:"username,omitempty"`
	Response *string   `json:"response,omitempty"`
	Cmd      []string  `json:"cmd,omitempty"`
	Env      *[]string `json:"env,omitempty"`
}

type response struct {
	Type            string `json:"type"`
	ErrorType       string `json:"error_type,omitempty"`
	Description     string `json:"description,omitempty"`
	AuthMessageType string `json:"auth_message_type,omitempty"`
	AuthMessage     string `json:"auth_message,omitempty"`
}

// Client speaks to one greetd connection. It is not safe for concurrent use.
type Client struct {
	conn io.ReadWriteCloser
}

// Dial connects to the socket at path, or at $GREETD_SOCK when path is empty.
func Dial(ctx context.Context, path string) (*Client, error) {
	if path == "" {
		path = os.Getenv(SocketEnv)
	}
	if path == "" {
		return nil, ErrNoSocket
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("greetd: dial %s: %w", path, err)
	}
	return NewClient(conn), nil
}

// NewClient wraps an established connection.
func NewClient(conn io.ReadWriteCloser) *Client {
	return &Client{conn: conn}
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Login creates a session for username, answers prompts with password and
// starts cmd once greetd accepts the credentials.
func (c *Client) Login(ctx context.Context, username, password string, cmd []string) error {
	resp, err := c.roundTrip(ctx, request{Type: "create_session", Username: username})
	if err != nil {
		return err
	}
	for resp.Type == "auth_message" {
		var answer *string
		switch resp.AuthMessageType {
		case "secret", "visible":
			answer = &password
		case "info", "error":
			ndlm.Logger().Info("greetd message", "kind", resp.AuthMessageType, "message", resp.AuthMessage)
		default:
			return fmt.Errorf("%w: auth message type %q", ErrProtocol, resp.AuthMessageType)
		}
		resp, err = c.roundTrip(ctx, request{Type: "post_auth_message_response", Response: answer})
		if err != nil {
			return err
		}
	}
	if err := expectSuccess(resp); err != nil {
		return err
	}

	env := []string{}
	resp, err = c.roundTrip(ctx, request{Type: "start_session", Cmd: cmd, Env: &env})
	if err != nil {
		return err
	}
	return expectSuccess(resp)
}

// Cancel aborts the session in progress, if any.
func (c *Client) Cancel(ctx context.Context) error {
	resp, err := c.roundTrip(ctx, request{Type: "cancel_session"})
	if err != nil {
		return err
	}
	return expectSuccess(resp)
}

func expectSuccess(resp response) error {
	switch resp.Type {
	case "success":
		return nil
	case "error":
		return &Error{Type: resp.ErrorType, Description: resp.Description}
	default:
		return fmt.Errorf("%w: unexpected response %q", ErrProtocol, resp.Type)
	}
}

// deadliner is implemented by net.Conn.
type deadliner interface {
	SetDeadline(t time.Time) error
}

func (c *Client) roundTrip(ctx context.Context, req request) (response, error) {
	if err := ctx.Err(); err != nil {
		return response{}, err
	}
	if d, ok := c.conn.(deadliner); ok {
		deadline, _ := ctx.Deadline()
		_ = d.SetDeadline(deadline)
	}
	if err := writeMessage(c.conn, req); err != nil {
		return response{}, fmt.Errorf("greetd: send %s: %w", req.Type, err)
	}
	var resp response
	if err := readMessage(c.conn, &resp); err != nil {
		return response{}, fmt.Errorf("greetd: receive after %s: %w", req.Type, err)
	}
	ndlm.Logger().Debug("greetd round trip", "request", req.Type, "response", resp.Type)
	return resp, nil
}

func writeMessage(w io.Writer, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	frame := make([]byte, 4+len(body))
	binary.NativeEndian.PutUint32(frame, uint32(len(body)))
	copy(frame[4:], body)
	_, err = w.Write(frame)
	return err
}

func readMessage(r io.Reader, v any) error {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return err
	}
	n := binary.NativeEndian.Uint32(hdr[:])
	if n > maxMessage {
		return fmt.Errorf("%w: %d byte message", ErrProtocol, n)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	return nil
}
