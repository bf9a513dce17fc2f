package cardsim

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taoyao-code/scoreboard-server/internal/protocol/cpower"
)

// Config 模拟控制卡参数
type Config struct {
	Addr        string
	CardID      uint8
	ReadTimeout time.Duration
	// Silent 只收不回，模拟应答丢失
	Silent bool
}

// Server CPower 控制卡模拟器：接收下行帧并回应答，用于台架调试和测试
type Server struct {
	cfg   Config
	log   *zap.Logger
	ln    net.Listener
	wg    sync.WaitGroup
	stopC chan struct{}

	mu      sync.Mutex
	frames  []cpower.Frame
	handler func(*cpower.Frame)
	conns   map[net.Conn]struct{}
}

// New 创建模拟器
func New(cfg Config, log *zap.Logger) *Server {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{cfg: cfg, log: log, stopC: make(chan struct{}), conns: make(map[net.Conn]struct{})}
}

// SetHandler 设置收帧回调
func (s *Server) SetHandler(h func(*cpower.Frame)) {
	s.mu.Lock()
	s.handler = h
	s.mu.Unlock()
}

// Start 监听并接受连接（非阻塞，内部 goroutine）
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.log.Info("card emulator listening", zap.String("addr", ln.Addr().String()), zap.Uint8("card_id", s.cfg.CardID))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.ln.Accept()
			if err != nil {
				select {
				case <-s.stopC:
					return
				default:
				}
				// 短暂错误等待后重试
				time.Sleep(50 * time.Millisecond)
				continue
			}
			s.track(conn, true)
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				defer s.track(conn, false)
				s.serve(conn)
			}()
		}
	}()
	return nil
}

// Addr 实际监听地址
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.cfg.Addr
	}
	return s.ln.Addr().String()
}

// Frames 已接收帧的副本
func (s *Server) Frames() []cpower.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]cpower.Frame(nil), s.frames...)
}

// Shutdown 关闭监听与所有连接并等待退出
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.stopC)
	if s.ln != nil {
		_ = s.ln.Close()
	}
	s.mu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()

	ch := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(ch)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-ch:
		return nil
	}
}

func (s *Server) track(c net.Conn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		s.conns[c] = struct{}{}
		return
	}
	delete(s.conns, c)
	_ = c.Close()
}

// serve 每次读取视为一帧（控制卡协议为一问一答，不存在粘包）
func (s *Server) serve(c net.Conn) {
	remote := c.RemoteAddr().String()
	s.log.Info("client connected", zap.String("remote", remote))
	buf := make([]byte, 1024)
	for {
		_ = c.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		n, err := c.Read(buf)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.log.Debug("client idle, closing", zap.String("remote", remote))
			}
			s.log.Info("client disconnected", zap.String("remote", remote))
			return
		}
		f, err := cpower.Decode(buf[:n])
		if err != nil {
			s.log.Warn("bad frame", zap.String("remote", remote), zap.Error(err))
			continue
		}
		s.record(f)

		if s.cfg.Silent || len(f.Payload) == 0 {
			continue
		}
		if _, err := c.Write(Response(s.cfg.CardID, f.Payload[0])); err != nil {
			s.log.Warn("write response failed", zap.String("remote", remote), zap.Error(err))
			return
		}
	}
}

func (s *Server) record(f *cpower.Frame) {
	s.mu.Lock()
	s.frames = append(s.frames, *f)
	h := s.handler
	s.mu.Unlock()

	s.log.Debug("frame received",
		zap.Uint8("card_id", f.CardID),
		zap.Int("payload_len", len(f.Payload)),
		zap.Binary("payload", f.Payload))
	if h != nil {
		h(f)
	}
}

// Response 构造应答帧：命令码 + 状态 0x00（成功）
func Response(cardID, cmd uint8) []byte {
	b := cpower.Encode(cardID, []byte{cmd, 0x00})
	b[8] = cpower.PacketTypeResponse
	return b
}
