package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"time"
)

// DefaultTimeout bounds a control-socket roundtrip when the caller
// does not pick one.
const DefaultTimeout = 2 * time.Second

// Client issues single-command roundtrips against a daemon control
// socket. Each Do opens a fresh connection.
type Client struct {
	Path    string
	Timeout time.Duration
}

// Do sends command with its arguments and returns the daemon's reply.
// Transport failures are errors; a reply with OK unset is returned as
// is, its Error field carries the daemon's refusal.
func (c *Client) Do(ctx context.Context, command string, args ...string) (Response, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "unix", c.Path)
	if err != nil {
		return Response{}, err
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return Response{}, fmt.Errorf("set deadline: %w", err)
	}

	if err := writeFrame(conn, Request{Command: command, Args: args}); err != nil {
		return Response{}, fmt.Errorf("encode request: %w", err)
	}

	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		return Response{}, fmt.Errorf("read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	return resp, nil
}

// Probe checks whether a responsive daemon is currently listening on
// path. An absent socket or a refused connection is a clean negative.
func Probe(ctx context.Context, path string, timeout time.Duration) (bool, error) {
	c := Client{Path: path, Timeout: timeout}
	_, err := c.Do(ctx, CommandStatus)
	if err == nil {
		return true, nil
	}
	if isSocketMissing(err) || isConnectionRefused(err) {
		return false, nil
	}
	return false, fmt.Errorf("probe socket: %w", err)
}

func isSocketMissing(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

func isConnectionRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}
