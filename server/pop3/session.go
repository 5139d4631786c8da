package pop3

import (
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/popfiled/popfiled/logger"
	"github.com/popfiled/popfiled/mailbox"
	"github.com/popfiled/popfiled/pkg/metrics"
)

// Session is the per-connection state: the framed transport and the
// connected flag the QUIT handler clears to end the loop. The message
// list itself is shared, read-only, and resolved live on every command.
type Session struct {
	server    *Server
	conn      net.Conn
	reader    *LineReader
	writer    *LineWriter
	store     *mailbox.Store
	remote    string
	connected bool
}

func newSession(server *Server, conn net.Conn) *Session {
	return &Session{
		server: server,
		conn:   conn,
		reader: NewLineReader(conn),
		writer: NewLineWriter(conn),
		store:  server.store,
		remote: conn.RemoteAddr().String(),
	}
}

// serve runs the whole connection: banner, then read/dispatch/reply
// until QUIT, peer disconnect, or a transport error.
func (s *Session) serve() {
	defer s.conn.Close()

	metrics.ConnectionsTotal.Inc()
	metrics.ConnectionsCurrent.Inc()
	defer metrics.ConnectionsCurrent.Dec()

	s.connected = true
	if err := s.send(ok(s.server.name, "file-based pop3 server ready")); err != nil {
		logger.Warn("banner write failed", "remote", s.remote, "error", err)
		return
	}

	for s.connected {
		line, err := s.reader.ReadLine()
		if err != nil {
			if err == io.EOF {
				logger.Debug("client dropped connection", "remote", s.remote)
			} else {
				logger.Warn("read error", "remote", s.remote, "error", err)
			}
			return
		}
		if line == "" {
			continue
		}

		logger.Debug("recv", "remote", s.remote, "data", preview(line))

		if err := s.send(s.dispatch(line)); err != nil {
			logger.Warn("write error", "remote", s.remote, "error", err)
			return
		}
	}

	logger.Debug("session closed", "remote", s.remote)
}

func (s *Session) send(resp string) error {
	logger.Debug("send", "remote", s.remote, "data", preview(resp))
	metrics.ResponseBytesTotal.Add(float64(len(resp) + len(lineEnding)))
	return s.writer.WriteLine(resp)
}

// preview truncates long payloads for debug logging.
func preview(data string) string {
	if len(data) > 50 {
		return data[:50] + "..."
	}
	return data
}

// resolveMessage converts a message-number parameter into a message from
// the live list. The third return value is the error response to send
// when resolution fails, empty on success.
func (s *Session) resolveMessage(param string) (*mailbox.Message, int, string) {
	n, err := strconv.Atoi(param)
	if err != nil {
		return nil, 0, errResponse("bad number", param)
	}
	msg, found := s.store.Get(n)
	if !found {
		return nil, 0, errResponse("bad message number", n)
	}
	return msg, n, ""
}

// Authentication is accepted but never validated; this server exists to
// test clients, not to guard mail.

func handleUser(s *Session, param string) string {
	if param == "" {
		return errResponse("missing parameter")
	}
	return ok("user accepted")
}

func handlePass(s *Session, param string) string {
	if param == "" {
		return errResponse("missing parameter")
	}
	return ok("pass accepted")
}

func handleCapa(s *Session, param string) string {
	if param != "" {
		return errResponse("unexpected parameter")
	}
	return buildCapaResponse()
}

func handleStat(s *Session, param string) string {
	if param != "" {
		return errResponse("unexpected parameter")
	}
	return ok(s.store.Count(), s.store.TotalSize())
}

func handleList(s *Session, param string) string {
	if param != "" {
		msg, n, errResp := s.resolveMessage(param)
		if errResp != "" {
			return errResp
		}
		return ok(n, msg.Size)
	}
	return buildScanListing(s.store.Messages())
}

func handleUidl(s *Session, param string) string {
	if param != "" {
		msg, n, errResp := s.resolveMessage(param)
		if errResp != "" {
			return errResp
		}
		return ok(n, msg.UID)
	}
	return buildUIDListing(s.store.Messages())
}

func handleTop(s *Session, param string) string {
	fields := strings.Fields(param)
	if len(fields) < 2 {
		return errResponse("missing parameter")
	}
	if len(fields) > 2 {
		return errResponse("unexpected parameter")
	}
	msg, _, errResp := s.resolveMessage(fields[0])
	if errResp != "" {
		return errResp
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 0 {
		return errResponse("bad number", fields[1])
	}
	return buildTopResponse(msg, n)
}

func handleRetr(s *Session, param string) string {
	if param == "" {
		return errResponse("missing parameter")
	}
	msg, n, errResp := s.resolveMessage(param)
	if errResp != "" {
		return errResp
	}
	logger.Info("message sent", "remote", s.remote, "number", n, "uid", msg.UID, "size", msg.Size)
	return buildRetrResponse(msg)
}

// handleDele acknowledges the deletion but removes nothing; the list is
// immutable for the lifetime of the process.
func handleDele(s *Session, param string) string {
	if param == "" {
		return errResponse("missing parameter")
	}
	_, n, errResp := s.resolveMessage(param)
	if errResp != "" {
		return errResp
	}
	return ok("message", n, "deleted")
}

func handleNoop(s *Session, param string) string {
	if param != "" {
		return errResponse("unexpected parameter")
	}
	return ok()
}

func handleQuit(s *Session, param string) string {
	if param != "" {
		return errResponse("unexpected parameter")
	}
	s.connected = false
	return ok(s.server.name, "POP3 server signing off")
}

func handleUnknown(s *Session, param string) string {
	return errResponse("unknown command")
}
