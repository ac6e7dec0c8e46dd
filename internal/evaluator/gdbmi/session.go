// Package gdbmi implements evaluator.Evaluator on top of a GDB child process
// speaking the GDB/MI protocol.
//
// A Session owns one gdb process. Requests are serialized: each one is sent as
// a tokenized "-interpreter-exec console" command and the session waits for
// the result record carrying the same token, collecting console stream output
// on the way. A single reader goroutine parses gdb's stdout into records so
// requests can honor context deadlines.
package gdbmi

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tvmtools/tvmdbg/internal/evaluator"
	"github.com/tvmtools/tvmdbg/internal/logging"
)

// ErrSessionClosed is returned for requests made after gdb has exited.
var ErrSessionClosed = errors.New("gdb session closed")

const (
	defaultTimeout  = 10 * time.Second
	exitGracePeriod = 5 * time.Second
	recordBuffer    = 64
)

// StartConfig configures a new gdb session.
type StartConfig struct {
	// Path is the gdb executable (defaults to "gdb").
	Path string
	// Binary is the program whose symbols are loaded.
	Binary string
	// Core is a core dump to inspect. Mutually exclusive with PID.
	Core string
	// PID is a live process to attach to.
	PID int
	// InitCommands run once after startup, e.g. "frame 3".
	InitCommands []string
	// Timeout bounds each request round trip.
	Timeout time.Duration
	// Output receives console output of Execute (defaults to os.Stdout).
	Output io.Writer
}

// Args returns the gdb command line for cfg.
func (cfg StartConfig) Args() []string {
	args := []string{"--interpreter=mi2", "--quiet", "--nx"}
	if cfg.Binary != "" {
		args = append(args, cfg.Binary)
	}
	switch {
	case cfg.Core != "":
		args = append(args, "--core="+cfg.Core)
	case cfg.PID > 0:
		args = append(args, "-p", strconv.Itoa(cfg.PID))
	}
	return args
}

// Session is a running gdb process.
type Session struct {
	logger  zerolog.Logger
	output  io.Writer
	timeout time.Duration

	cmd     *exec.Cmd
	stdin   io.WriteCloser
	records chan Record

	mu     sync.Mutex
	token  int
	closed bool
	// stale holds tokens of requests that timed out. gdb still answers them,
	// and console output is dropped until every one of them has completed.
	stale map[string]struct{}

	closeOnce sync.Once
	closeErr  error
}

var _ evaluator.Evaluator = (*Session)(nil)

// Start spawns gdb, waits for its first prompt and runs the init commands.
func Start(ctx context.Context, cfg StartConfig, logger zerolog.Logger) (*Session, error) {
	path := cfg.Path
	if path == "" {
		path = "gdb"
	}

	//nolint:gosec // G204: gdb path and arguments come from the operator.
	cmd := exec.Command(path, cfg.Args()...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open gdb stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open gdb stdout: %w", err)
	}

	logger.Debug().Str("path", path).Strs("args", cfg.Args()).Msg("Starting gdb")
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", path, err)
	}

	s := newSession(stdin, stdout, cfg, logger)
	s.cmd = cmd

	if err := s.init(ctx, cfg.InitCommands); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// newSession wires a session to an already running MI peer.
func newSession(stdin io.WriteCloser, stdout io.Reader, cfg StartConfig, logger zerolog.Logger) *Session {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	s := &Session{
		logger:  logging.WithComponent(logger, "gdbmi"),
		output:  output,
		timeout: timeout,
		stdin:   stdin,
		records: make(chan Record, recordBuffer),
		stale:   make(map[string]struct{}),
	}
	go s.readLoop(stdout)
	return s
}

func (s *Session) init(ctx context.Context, commands []string) error {
	if err := s.waitPrompt(ctx); err != nil {
		return err
	}
	for _, setting := range []string{"-gdb-set pagination off", "-gdb-set confirm off", "-gdb-set print pretty off"} {
		if _, err := s.send(ctx, setting); err != nil {
			return fmt.Errorf("failed to configure gdb: %w", err)
		}
	}
	for _, command := range commands {
		if _, err := s.Run(ctx, command); err != nil {
			return fmt.Errorf("init command %q failed: %w", command, err)
		}
	}
	return nil
}

// readLoop feeds parsed records to the session until gdb closes stdout.
func (s *Session) readLoop(r io.Reader) {
	defer close(s.records)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		rec := ParseRecord(scanner.Text())
		if rec.Kind == RecordLog {
			s.logger.Trace().Str("log", strings.TrimSpace(rec.Text)).Msg("gdb")
		}
		s.records <- rec
	}
	if err := scanner.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to read gdb output")
	}
}

func (s *Session) waitPrompt(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("gdb did not become ready: %w", ctx.Err())
		case rec, ok := <-s.records:
			if !ok {
				return ErrSessionClosed
			}
			if rec.Kind == RecordPrompt {
				return nil
			}
		}
	}
}

// Run executes a console command and returns its captured console output.
func (s *Session) Run(ctx context.Context, command string) (string, error) {
	return s.send(ctx, "-interpreter-exec console "+quoteCString(command))
}

// send writes one tokenized MI command and waits for its result record.
func (s *Session) send(ctx context.Context, miCommand string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrSessionClosed
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.token++
	token := strconv.Itoa(s.token)
	start := time.Now()

	if _, err := io.WriteString(s.stdin, token+miCommand+"\n"); err != nil {
		return "", fmt.Errorf("failed to write to gdb: %w", err)
	}

	var out strings.Builder
	for {
		select {
		case <-ctx.Done():
			s.stale[token] = struct{}{}
			return "", fmt.Errorf("gdb did not answer %q: %w", miCommand, ctx.Err())
		case rec, ok := <-s.records:
			if !ok {
				s.closed = true
				return "", ErrSessionClosed
			}
			switch rec.Kind {
			case RecordConsole:
				// gdb answers in order, so output seen while an earlier
				// request is outstanding belongs to that request.
				if len(s.stale) > 0 {
					s.logger.Debug().Str("text", rec.Text).Msg("Dropping output of timed out request")
					continue
				}
				out.WriteString(rec.Text)
			case RecordResult:
				if _, ok := s.stale[rec.Token]; ok {
					delete(s.stale, rec.Token)
					s.logger.Debug().Str("token", rec.Token).Msg("Timed out request completed")
					continue
				}
				if rec.Token != token {
					continue
				}
				s.logger.Debug().
					Str("command", miCommand).
					Str("class", rec.Class).
					Dur("elapsed", time.Since(start)).
					Msg("MI round trip")
				if rec.Class == "error" {
					return out.String(), evaluator.EvaluationError(miCommand, rec.Message)
				}
				return out.String(), nil
			}
		}
	}
}

// EvaluateToText prints expr and returns the printed text.
func (s *Session) EvaluateToText(ctx context.Context, expr string) (string, error) {
	out, err := s.Run(ctx, "print "+expr)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

// Execute runs command and copies its console output to the session output.
func (s *Session) Execute(ctx context.Context, command string) error {
	out, err := s.Run(ctx, command)
	if out != "" {
		if _, werr := io.WriteString(s.output, out); werr != nil {
			s.logger.Warn().Err(werr).Msg("Failed to write command output")
		}
	}
	return err
}

// TokenizeArguments splits raw like gdb's string_to_argv.
func (s *Session) TokenizeArguments(raw string) ([]string, error) {
	return evaluator.Tokenize(raw)
}

// Close asks gdb to exit and waits for the process, killing it if it lingers.
// Later calls return the result of the first one.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.shutdown()
	})
	return s.closeErr
}

func (s *Session) shutdown() error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		_, _ = io.WriteString(s.stdin, "-gdb-exit\n")
	}
	s.mu.Unlock()

	err := s.stdin.Close()

	// Keep the reader moving so gdb never blocks on a full stdout pipe.
	go func() {
		for range s.records {
		}
	}()

	if s.cmd == nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- s.cmd.Wait() }()

	select {
	case werr := <-done:
		return werr
	case <-time.After(exitGracePeriod):
		s.logger.Warn().Msg("gdb did not exit, killing it")
		_ = s.cmd.Process.Kill()
		return <-done
	}
}
