package pop3

import (
	"context"
	"fmt"
	"net"

	"github.com/popfiled/popfiled/logger"
	"github.com/popfiled/popfiled/mailbox"
)

// Server owns the TCP listener and the shared message store. Connections
// are serviced strictly one at a time: the accept loop drains a session
// to completion before accepting the next, so the store needs no locking.
type Server struct {
	name   string
	addr   string
	store  *mailbox.Store
	ctx    context.Context
	cancel context.CancelFunc
}

func New(appCtx context.Context, name, addr string, store *mailbox.Store) *Server {
	ctx, cancel := context.WithCancel(appCtx)
	return &Server{
		name:   name,
		addr:   addr,
		store:  store,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start binds the listener and runs the accept loop. A bind failure, and
// any accept failure not caused by shutdown, is reported on errChan and
// ends the loop; per-session failures only end that session.
func (s *Server) Start(errChan chan error) {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.cancel()
		errChan <- fmt.Errorf("failed to create listener: %w", err)
		return
	}
	defer listener.Close()

	logger.Info("POP3 server listening", "name", s.name, "addr", s.addr, "messages", s.store.Count())

	// Close the listener on shutdown to unblock Accept.
	go func() {
		<-s.ctx.Done()
		logger.Debug("POP3 server stopping", "name", s.name)
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.ctx.Done():
				logger.Info("POP3 server stopped gracefully", "name", s.name)
				return
			default:
				errChan <- err
				return
			}
		}

		logger.Debug("new connection", "name", s.name, "remote", conn.RemoteAddr().String())
		newSession(s, conn).serve()
	}
}

// Close initiates graceful shutdown: stop accepting and close the
// listening socket.
func (s *Server) Close() {
	s.cancel()
}
