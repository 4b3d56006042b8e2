package tcpserver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/minikv/minikv-go/internal/storage"
	"github.com/minikv/minikv-go/internal/storage/hashtable"
)

func newTestServer(t *testing.T, cfg *Config) *Server {
	t.Helper()
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.Address = "127.0.0.1:0"

	store := storage.NewGuard(hashtable.New())
	srv := New(cfg, store, nil, nil)
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

func dial(t *testing.T, srv *Server) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", srv.Addr().String())
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn net.Conn, br *bufio.Reader, cmd string) string {
	t.Helper()
	if _, err := fmt.Fprintf(conn, "%s\n", cmd); err != nil {
		t.Fatalf("write %q: %v", cmd, err)
	}
	line, err := br.ReadString('\n')
	if err != nil {
		t.Fatalf("read reply for %q: %v", cmd, err)
	}
	return strings.TrimSuffix(line, "\n")
}

func TestServer_DefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Address != "127.0.0.1:6379" {
		t.Errorf("Address = %q, want 127.0.0.1:6379", cfg.Address)
	}
	if cfg.ReadTimeout != 30*time.Second {
		t.Errorf("ReadTimeout = %v, want 30s", cfg.ReadTimeout)
	}
	if cfg.IdleTimeout != 5*time.Minute {
		t.Errorf("IdleTimeout = %v, want 5m", cfg.IdleTimeout)
	}
	if cfg.RateLimit != 1000 {
		t.Errorf("RateLimit = %d, want 1000", cfg.RateLimit)
	}
}

func TestServer_CommandSession(t *testing.T) {
	srv := newTestServer(t, nil)
	conn := dial(t, srv)
	br := bufio.NewReader(conn)

	steps := []struct {
		cmd  string
		want string
	}{
		{"PING", "PONG"},
		{"SET greeting hello world", "OK"},
		{"GET greeting", "hello world"},
		{"GET missing", "NULL"},
		{"DEL greeting", "OK"},
		{"DEL greeting", "NOT FOUND"},
		{"BOGUS", "ERROR: Unknown command 'BOGUS'"},
	}
	for _, s := range steps {
		if got := roundTrip(t, conn, br, s.cmd); got != s.want {
			t.Errorf("%s: got %q, want %q", s.cmd, got, s.want)
		}
	}
}

func TestServer_QuitClosesConnection(t *testing.T) {
	srv := newTestServer(t, nil)
	conn := dial(t, srv)
	br := bufio.NewReader(conn)

	if got := roundTrip(t, conn, br, "QUIT"); got != "BYE" {
		t.Fatalf("QUIT reply = %q, want BYE", got)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := br.ReadByte(); err != io.EOF {
		t.Errorf("after QUIT: err = %v, want io.EOF", err)
	}
}

func TestServer_CRLFLines(t *testing.T) {
	srv := newTestServer(t, nil)
	conn := dial(t, srv)
	br := bufio.NewReader(conn)

	if _, err := conn.Write([]byte("SET k v\r\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	line, err := br.ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := strings.TrimSuffix(line, "\n"); got != "OK" {
		t.Errorf("CRLF SET reply = %q, want OK", got)
	}
	if got := roundTrip(t, conn, br, "GET k"); got != "v" {
		t.Errorf("GET k = %q, want %q", got, "v")
	}
}

func TestServer_OversizedLineClosesConnection(t *testing.T) {
	srv := newTestServer(t, nil)
	conn := dial(t, srv)
	br := bufio.NewReader(conn)

	long := strings.Repeat("x", MaxLineBytes+16)
	if _, err := conn.Write([]byte(long + "\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := br.ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := strings.TrimSuffix(line, "\n"); got != "ERROR: Line too long" {
		t.Errorf("reply = %q, want %q", got, "ERROR: Line too long")
	}
	if _, err := br.ReadByte(); err != io.EOF {
		t.Errorf("after oversized line: err = %v, want io.EOF", err)
	}
}

func TestServer_ConcurrentClients(t *testing.T) {
	srv := newTestServer(t, nil)

	const clients = 8
	const keysPerClient = 50

	var wg sync.WaitGroup
	errs := make(chan error, clients)
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			conn, err := net.Dial("tcp", srv.Addr().String())
			if err != nil {
				errs <- err
				return
			}
			defer conn.Close()
			br := bufio.NewReader(conn)
			for j := 0; j < keysPerClient; j++ {
				cmd := fmt.Sprintf("SET c%d-k%d value-%d-%d", id, j, id, j)
				if _, err := fmt.Fprintf(conn, "%s\n", cmd); err != nil {
					errs <- err
					return
				}
				line, err := br.ReadString('\n')
				if err != nil {
					errs <- err
					return
				}
				if strings.TrimSuffix(line, "\n") != "OK" {
					errs <- fmt.Errorf("%s: got %q", cmd, line)
					return
				}
			}
			errs <- nil
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("client error: %v", err)
		}
	}

	conn := dial(t, srv)
	br := bufio.NewReader(conn)
	want := fmt.Sprintf("{\"keys\": %d, \"memory_bytes\":", clients*keysPerClient)
	if got := roundTrip(t, conn, br, "STATS"); !strings.HasPrefix(got, want) {
		t.Errorf("STATS = %q, want prefix %q", got, want)
	}
}

func TestServer_RateLimitRejects(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = 2
	srv := newTestServer(t, cfg)
	conn := dial(t, srv)
	br := bufio.NewReader(conn)

	limited := false
	for i := 0; i < 20; i++ {
		if got := roundTrip(t, conn, br, "PING"); got == "ERROR: Rate limit exceeded" {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("expected a rate limit rejection after burst of PINGs")
	}

	// The connection stays usable after a rejection.
	time.Sleep(600 * time.Millisecond)
	if got := roundTrip(t, conn, br, "PING"); got != "PONG" {
		t.Errorf("PING after cooldown = %q, want PONG", got)
	}
}

func TestServer_ShutdownUnblocksClients(t *testing.T) {
	srv := newTestServer(t, nil)
	conn := dial(t, srv)
	br := bufio.NewReader(conn)

	if got := roundTrip(t, conn, br, "PING"); got != "PONG" {
		t.Fatalf("PING = %q, want PONG", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	if _, err := net.Dial("tcp", srv.Addr().String()); err == nil {
		t.Error("Dial after Shutdown should fail")
	}
}
