package net

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"exchangecore/internal/engine"
	"exchangecore/internal/fixedpoint"
	"exchangecore/internal/transport"

	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"
)

const (
	maxRecvSize        = 4 * 1024
	defaultPoolSize    = 10
	defaultConnTimeout = 5 * time.Second
)

var ErrImproperConversion = errors.New("improper type conversion")

// clientMessage links a parsed message to the connection it arrived on, so
// a reply can be routed back without the session handler touching net.Conn
// directly.
type clientMessage struct {
	conn net.Conn
	msg  Message
}

// Server is the TCP front-end of spec.md §6.1: it frames/parses the wire
// protocol and drives an engine.Engine, but holds none of the matching
// state itself.
//
// Grounded on saiputravu-Exchange/internal/net/server.go's accept loop,
// tomb.v2 supervision, and client-session bookkeeping; PlaceOrder/
// CancelOrder dispatch now goes through engine.Engine's context-based
// public API instead of a bespoke single-method Engine interface.
type Server struct {
	address string
	port    int
	eng     *engine.Engine
	pool    *transport.Pool
	logger  zerolog.Logger

	sessionsMu sync.Mutex
	sessions   map[string]net.Conn

	inbox chan clientMessage
}

func New(address string, port int, eng *engine.Engine, logger zerolog.Logger) *Server {
	return &Server{
		address:  address,
		port:     port,
		eng:      eng,
		pool:     transport.NewPool(defaultPoolSize, logger),
		logger:   logger,
		sessions: make(map[string]net.Conn),
		inbox:    make(chan clientMessage, 64),
	}
}

// Run accepts connections and services them until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", s.address, s.port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer listener.Close()

	s.pool.Run(t, s.handleConnection)
	t.Go(func() error { return s.sessionHandler(t) })

	s.logger.Info().Str("address", listener.Addr().String()).Msg("server listening")

	t.Go(func() error {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-t.Dying():
					return nil
				default:
					s.logger.Error().Err(err).Msg("accept failed")
					continue
				}
			}
			s.addSession(conn)
			s.pool.Add(conn)
		}
	})

	<-t.Dying()
	listener.Close()
	return t.Wait()
}

func (s *Server) sessionHandler(t *tomb.Tomb) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case cm := <-s.inbox:
			if err := s.handleMessage(cm); err != nil {
				s.logger.Error().Err(err).Str("address", cm.conn.RemoteAddr().String()).Msg("error handling message")
				s.reply(cm.conn, errorReport(err))
			}
		}
	}
}

func (s *Server) handleMessage(cm clientMessage) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultConnTimeout)
	defer cancel()

	switch m := cm.msg.(type) {
	case NewOrderMessage:
		report, err := s.eng.Submit(ctx, m.Order())
		if err != nil {
			return err
		}
		for _, trade := range report.Trades {
			s.reply(cm.conn, tradeReport(trade, report.Order.ID, report.Order.Side))
		}
		s.reply(cm.conn, Report{
			MessageType: OrderStatusReport,
			Status:      report.Order.Status,
			OrderID:     report.Order.ID,
			Symbol:      report.Order.Symbol,
			Timestamp:   time.Now().UnixNano(),
		})
		return nil
	case CancelOrderMessage:
		status, err := s.eng.Cancel(ctx, m.Symbol, m.OrderID)
		if err != nil {
			return err
		}
		s.reply(cm.conn, Report{
			MessageType: OrderStatusReport,
			Status:      status,
			OrderID:     m.OrderID,
			Symbol:      m.Symbol,
			Timestamp:   time.Now().UnixNano(),
		})
		return nil
	case AmendOrderMessage:
		if err := s.eng.AmendDownQty(ctx, m.Symbol, m.OrderID, fixedpoint.Value(m.NewQty)); err != nil {
			return err
		}
		s.reply(cm.conn, Report{
			MessageType: OrderStatusReport,
			OrderID:     m.OrderID,
			Symbol:      m.Symbol,
			Timestamp:   time.Now().UnixNano(),
		})
		return nil
	case BaseMessage:
		if m.TypeOf == LogBook {
			s.logger.Info().Strs("symbols", s.eng.Symbols()).Msg("log book requested")
			return nil
		}
		return fmt.Errorf("%w: %d", ErrInvalidMessageType, m.TypeOf)
	default:
		return fmt.Errorf("%w: unrecognized message", ErrInvalidMessageType)
	}
}

func (s *Server) reply(conn net.Conn, r Report) {
	if _, err := conn.Write(r.Serialize()); err != nil {
		s.logger.Error().Err(err).Str("address", conn.RemoteAddr().String()).Msg("failed writing report")
		s.deleteSession(conn.RemoteAddr().String())
	}
}

// handleConnection reads one message per call and re-queues the
// connection for its next message, keeping one pool worker from being
// pinned to a single slow client (spec.md §6.1 ambient transport).
func (s *Server) handleConnection(t *tomb.Tomb, task any) error {
	conn, ok := task.(net.Conn)
	if !ok {
		return ErrImproperConversion
	}

	if err := conn.SetReadDeadline(time.Now().Add(defaultConnTimeout)); err != nil {
		s.logger.Error().Err(err).Msg("failed setting read deadline")
		s.closeSession(conn)
		return nil
	}

	buf := make([]byte, maxRecvSize)
	select {
	case <-t.Dying():
		return nil
	default:
	}

	n, err := conn.Read(buf)
	if err != nil {
		s.logger.Debug().Err(err).Str("address", conn.RemoteAddr().String()).Msg("connection read ended")
		s.closeSession(conn)
		return nil
	}

	msg, err := ParseMessage(buf[:n])
	if err != nil {
		s.logger.Error().Err(err).Msg("error parsing message")
		s.reply(conn, errorReport(err))
		s.pool.Add(conn)
		return nil
	}

	s.inbox <- clientMessage{conn: conn, msg: msg}
	s.pool.Add(conn)
	return nil
}

func (s *Server) addSession(conn net.Conn) {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	s.sessions[conn.RemoteAddr().String()] = conn
}

func (s *Server) deleteSession(address string) {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	delete(s.sessions, address)
}

func (s *Server) closeSession(conn net.Conn) {
	address := conn.RemoteAddr().String()
	s.deleteSession(address)
	conn.Close()
}
