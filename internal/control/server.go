package control

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"glassmark/internal/hotkey"
)

const (
	connTimeout        = 5 * time.Second
	maxConcurrentConns = 8
)

// Dispatcher 执行一个动作。在连接 goroutine 上调用，实现方应只投递不阻塞
type Dispatcher func(hotkey.Action) error

// Server 控制通道服务端
type Server struct {
	addr     string
	dispatch Dispatcher

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	listener net.Listener
	started  bool
	wg       sync.WaitGroup
	slots    chan struct{}
}

// NewServer 创建服务端，addr 为空时使用 DefaultAddress
func NewServer(addr string, dispatch Dispatcher) *Server {
	if addr == "" {
		addr = DefaultAddress()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:     addr,
		dispatch: dispatch,
		ctx:      ctx,
		cancel:   cancel,
		slots:    make(chan struct{}, maxConcurrentConns),
	}
}

// Address 监听地址
func (s *Server) Address() string {
	return s.addr
}

// Start 开始监听
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("control server already started")
	}
	if s.dispatch == nil {
		return errors.New("control server requires a dispatcher")
	}

	l, err := listen(s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.listener = l
	s.started = true
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop(l)
	}()
	slog.Info("[control] listening", "address", s.addr)
	return nil
}

// Stop 关闭监听并等待进行中的连接结束
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	s.cancel()
	l := s.listener
	s.listener = nil
	s.mu.Unlock()

	err := l.Close()
	s.wg.Wait()
	cleanup(s.addr)
	return err
}

func (s *Server) acceptLoop(l net.Listener) {
	failures := 0
	for {
		conn, err := l.Accept()
		if err != nil {
			select {
			case <-s.ctx.Done():
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			failures++
			if failures > 10 {
				slog.Warn("[control] accept keeps failing", "error", err, "count", failures)
				time.Sleep(500 * time.Millisecond)
			} else {
				slog.Debug("[control] accept error", "error", err)
			}
			continue
		}
		failures = 0

		select {
		case s.slots <- struct{}{}:
		default:
			writeResponse(conn, Response{Error: "server busy"})
			_ = conn.Close()
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() { <-s.slots }()
			s.handle(conn)
		}()
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(connTimeout)); err != nil {
		slog.Debug("[control] set deadline failed", "error", err)
	}

	raw, err := readFrame(bufio.NewReaderSize(conn, maxRequestBytes+1), maxRequestBytes)
	if errors.Is(err, io.EOF) {
		return
	}
	if err != nil {
		writeResponse(conn, Response{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}
	writeResponse(conn, s.execute(raw))
}

func (s *Server) execute(raw []byte) Response {
	req, err := decodeRequest(raw)
	if err != nil {
		return Response{Error: fmt.Sprintf("invalid request: %v", err)}
	}
	a, err := hotkey.ParseAction(req.Action)
	if err != nil {
		return Response{Error: err.Error()}
	}
	slog.Debug("[control] action", "action", string(a))
	if err := s.dispatch(a); err != nil {
		return Response{Error: err.Error()}
	}
	return Response{OK: true}
}

func writeResponse(conn net.Conn, resp Response) {
	data, err := encodeFrame(resp)
	if err != nil {
		slog.Warn("[control] encode response failed", "error", err)
		return
	}
	if _, err := conn.Write(data); err != nil {
		slog.Debug("[control] write response failed", "error", err)
	}
}
