package mpv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tessro/reel/internal/core"
	reelerrors "github.com/tessro/reel/internal/errors"
	"github.com/tessro/reel/internal/fullscreen"
)

const (
	socketPollDelay = 100 * time.Millisecond
	quitGrace       = 3 * time.Second
)

// LaunchOptions configures a spawned mpv.
type LaunchOptions struct {
	Path    string   // mpv executable; "mpv" when empty
	Socket  string   // IPC socket path; a temp path when empty
	Args    []string // extra arguments placed before the source
	Loop    bool
	Paused  bool // start paused
	Timeout time.Duration
}

// Process is a running mpv with an IPC socket.
type Process struct {
	cmd        *exec.Cmd
	socket     string
	ownsSocket bool
	exited     chan struct{}
}

// BuildArgs returns the mpv command line for src.
func BuildArgs(src core.Source, opts LaunchOptions) []string {
	args := []string{
		"--no-terminal",
		"--input-ipc-server=" + opts.Socket,
		"--idle=yes",
		"--force-window=yes",
	}
	if opts.Loop {
		args = append(args, "--loop-file=inf")
	}
	if opts.Paused {
		args = append(args, "--pause")
	}
	args = append(args, opts.Args...)

	// "--" keeps a source starting with "-" from being read as a flag.
	return append(args, "--", src.Location)
}

// Launch starts mpv on src and waits for its IPC socket to accept
// connections.
func Launch(ctx context.Context, src core.Source, opts LaunchOptions) (*Process, error) {
	if opts.Path == "" {
		opts.Path = "mpv"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	bin, err := exec.LookPath(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.Path, reelerrors.ErrMPVNotInstalled)
	}

	p := &Process{exited: make(chan struct{})}
	if opts.Socket == "" {
		opts.Socket = filepath.Join(os.TempDir(), fmt.Sprintf("reel-%s.sock", uuid.NewString()))
		p.ownsSocket = true
	}
	p.socket = opts.Socket

	p.cmd = exec.Command(bin, BuildArgs(src, opts)...)
	p.cmd.SysProcAttr = sysProcAttr()

	if err := p.cmd.Start(); err != nil {
		return nil, fmt.Errorf("start mpv: %w", err)
	}
	go func() {
		_ = p.cmd.Wait()
		close(p.exited)
	}()

	waitCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	if err := p.waitForSocket(waitCtx); err != nil {
		_ = killProcess(p.cmd)
		return nil, err
	}

	return p, nil
}

// Socket returns the IPC socket path.
func (p *Process) Socket() string {
	return p.socket
}

// Wait returns a channel closed when mpv exits.
func (p *Process) Wait() <-chan struct{} {
	return p.exited
}

// Close asks mpv to quit through client, kills it if it lingers and
// removes a socket Launch created.
func (p *Process) Close(client *Client) error {
	if client != nil {
		_, _ = client.Command("quit")
	}

	select {
	case <-p.exited:
	case <-time.After(quitGrace):
		_ = killProcess(p.cmd)
		<-p.exited
	}

	if p.ownsSocket {
		if err := os.Remove(p.socket); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func (p *Process) waitForSocket(ctx context.Context) error {
	ticker := time.NewTicker(socketPollDelay)
	defer ticker.Stop()

	for {
		select {
		case <-p.exited:
			return errors.New("mpv exited before its socket was ready")
		case <-ctx.Done():
			return fmt.Errorf("socket %s: %w", p.socket, reelerrors.ErrIPCTimeout)
		case <-ticker.C:
			if _, err := os.Stat(p.socket); err != nil {
				continue
			}
			c, err := Dial(ctx, p.socket, time.Second)
			if err == nil {
				c.Close()
				return nil
			}
		}
	}
}

// Open launches mpv on src and connects a Player to it.
func Open(ctx context.Context, src core.Source, opts LaunchOptions, notifier *fullscreen.Notifier, log logrus.FieldLogger) (*Process, *Player, error) {
	proc, err := Launch(ctx, src, opts)
	if err != nil {
		return nil, nil, err
	}

	client, err := Dial(ctx, proc.Socket(), opts.Timeout)
	if err != nil {
		_ = proc.Close(nil)
		return nil, nil, err
	}

	player, err := NewPlayer(client, notifier, log)
	if err != nil {
		_ = proc.Close(client)
		client.Close()
		return nil, nil, err
	}

	return proc, player, nil
}

// IsSocketPath reports whether s looks like an IPC socket path rather
// than an MPRIS player name.
func IsSocketPath(s string) bool {
	return strings.ContainsRune(s, os.PathSeparator)
}
