package tcpserver

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/minikv/minikv-go/internal/command"
	"github.com/minikv/minikv-go/internal/storage"
	"github.com/minikv/minikv-go/internal/telemetry/metric"
)

// MaxLineBytes is the maximum accepted length of a single command line,
// including the terminating newline. Longer lines close the connection.
const MaxLineBytes = 8192

// Config holds the TCP server configuration.
type Config struct {
	// Address is the listen address (default: "127.0.0.1:6379").
	Address string
	// ReadTimeout is the timeout for reading a command line (default: 30s).
	// Helps prevent slowloris attacks.
	ReadTimeout time.Duration
	// WriteTimeout is the timeout for writing a reply (default: 30s).
	WriteTimeout time.Duration
	// IdleTimeout is the timeout for idle connections (default: 5m).
	IdleTimeout time.Duration
	// RateLimit is the maximum number of commands per second per connection
	// (default: 1000). Set to 0 to disable rate limiting.
	RateLimit int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:      "127.0.0.1:6379",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  5 * time.Minute,
		RateLimit:    1000,
	}
}

// Server accepts TCP connections and serves the line protocol.
type Server struct {
	cfg     *Config
	interp  *command.Interpreter
	store   storage.Store
	metrics *metric.Metrics
	logger  *slog.Logger
	ln      net.Listener
	running atomic.Bool
	wg      sync.WaitGroup

	connMu sync.Mutex
	conns  map[*Conn]struct{}
}

// Conn represents a single client connection.
type Conn struct {
	id      string
	netConn net.Conn
	br      *bufio.Reader
	bw      *bufio.Writer
	closed  atomic.Bool
}

func newConn(c net.Conn) *Conn {
	return &Conn{
		id:      ulid.Make().String(),
		netConn: c,
		br:      bufio.NewReaderSize(c, MaxLineBytes),
		bw:      bufio.NewWriter(c),
	}
}

func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// New creates a new TCP server. metrics may be nil.
func New(cfg *Config, store storage.Store, metrics *metric.Metrics, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		cfg:     cfg,
		interp:  command.New(store, logger),
		store:   store,
		metrics: metrics,
		logger:  logger,
		conns:   make(map[*Conn]struct{}),
	}
}

// Start begins listening and accepting connections. It returns once the
// listener is bound; connections are served on background goroutines.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting tcp server", "address", s.cfg.Address)
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return err
	}
	s.ln = ln
	s.running.Store(true)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil && s.running.Load() {
			s.logger.Error("tcp server error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var firstErr error
	if s.ln != nil {
		if err := s.ln.Close(); err != nil {
			firstErr = err
		}
	}

	// Close active connections to unblock their read loops.
	s.connMu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.connMu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		c, err := ln.Accept()
		if err != nil {
			if !s.running.Load() {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(ctx, newConn(c))
		}()
	}
}

func (s *Server) serveConn(ctx context.Context, c *Conn) {
	s.connMu.Lock()
	s.conns[c] = struct{}{}
	s.connMu.Unlock()
	defer func() {
		_ = c.Close()
		s.connMu.Lock()
		delete(s.conns, c)
		s.connMu.Unlock()
	}()

	logger := s.logger.With("conn_id", c.id, "remote", c.RemoteAddr().String())
	logger.Debug("connection opened")
	s.metrics.ConnOpened()
	defer func() {
		s.metrics.ConnClosed()
		logger.Debug("connection closed")
	}()

	readTimeout := s.cfg.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 30 * time.Second
	}
	writeTimeout := s.cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 30 * time.Second
	}
	idleTimeout := s.cfg.IdleTimeout
	if idleTimeout == 0 {
		idleTimeout = 5 * time.Minute
	}

	var limiter *rate.Limiter
	if s.cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.RateLimit)
	}

	for {
		// First byte: allow idle timeout (connection can stay idle between commands).
		if err := c.netConn.SetReadDeadline(time.Now().Add(idleTimeout)); err != nil {
			return
		}
		if _, err := c.br.Peek(1); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				logger.Debug("connection timed out")
				return
			}
			logger.Debug("connection read error", "error", err)
			return
		}

		// After first byte: tighten to per-command read timeout (slowloris protection).
		if err := c.netConn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return
		}

		line, err := readLine(c.br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				logger.Debug("connection timed out")
				return
			}
			if errors.Is(err, errLineTooLong) {
				logger.Warn("command line too long")
				_ = c.netConn.SetWriteDeadline(time.Now().Add(writeTimeout))
				_, _ = c.bw.WriteString("ERROR: Line too long\n")
				_ = c.bw.Flush()
				return
			}
			logger.Debug("connection read error", "error", err)
			return
		}

		if limiter != nil && !limiter.Allow() {
			_ = c.netConn.SetWriteDeadline(time.Now().Add(writeTimeout))
			_, _ = c.bw.WriteString("ERROR: Rate limit exceeded\n")
			if err := c.bw.Flush(); err != nil {
				return
			}
			continue
		}

		res := s.interp.Interpret(line)
		s.observe(line, res)

		if err := c.netConn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			return
		}
		if _, err := c.bw.WriteString(res.Text + "\n"); err != nil {
			return
		}
		if err := c.bw.Flush(); err != nil {
			return
		}
		if res.Close {
			return
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// observe records per-command metrics and refreshes the store gauges.
func (s *Server) observe(line string, res command.Result) {
	if s.metrics == nil {
		return
	}
	name := "unknown"
	fields := strings.Fields(line)
	if len(fields) > 0 {
		name = strings.ToUpper(fields[0])
	}
	s.metrics.ObserveCommand(name, !strings.HasPrefix(res.Text, "ERROR:"))

	st := s.store.Stats()
	s.metrics.SetStoreStats(st.Keys, st.MemoryBytes)
}

var errLineTooLong = errors.New("tcpserver: line too long")

// readLine reads one '\n'-terminated line and strips the trailing
// newline and any preceding '\r'. Lines that do not fit the reader
// buffer (MaxLineBytes) return errLineTooLong.
func readLine(br *bufio.Reader) (string, error) {
	slice, err := br.ReadSlice('\n')
	if err != nil {
		if errors.Is(err, bufio.ErrBufferFull) {
			return "", errLineTooLong
		}
		if err == io.EOF && len(slice) > 0 {
			// Final line without a newline is still a command.
			return strings.TrimSuffix(string(slice), "\r"), nil
		}
		return "", err
	}
	line := strings.TrimSuffix(string(slice), "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
