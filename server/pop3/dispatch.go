package pop3

import (
	"strings"

	"github.com/popfiled/popfiled/pkg/metrics"
)

// handlerFunc processes one command and returns the full response string.
// Handlers report malformed parameters as "-ERR" responses themselves;
// nothing escapes the dispatch layer.
type handlerFunc func(s *Session, param string) string

// commandTable maps verbs to handlers. Built once; verbs are matched
// case-insensitively by upcasing before lookup.
var commandTable = map[string]handlerFunc{
	"USER": handleUser,
	"PASS": handlePass,
	"CAPA": handleCapa,
	"STAT": handleStat,
	"LIST": handleList,
	"UIDL": handleUidl,
	"TOP":  handleTop,
	"RETR": handleRetr,
	"DELE": handleDele,
	"NOOP": handleNoop,
	"QUIT": handleQuit,
}

// splitCommand splits a line into verb and parameter at the first run of
// whitespace. The parameter is the unsplit remainder, so values with
// embedded spaces (TOP's "msgno lines" pair) survive intact.
func splitCommand(line string) (verb, param string) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimLeft(line[i:], " \t")
}

// dispatch routes one received line to its handler and returns the
// response to send. Unknown verbs fall through to an error response
// without ending the session.
func (s *Session) dispatch(line string) string {
	verb, param := splitCommand(line)
	verb = strings.ToUpper(verb)

	handler, known := commandTable[verb]
	if !known {
		handler = handleUnknown
		verb = "UNKNOWN" // bound the metric label set
	}

	resp := handler(s, param)

	status := "err"
	if strings.HasPrefix(resp, "+OK") {
		status = "ok"
	}
	metrics.CommandsTotal.WithLabelValues(verb, status).Inc()

	return resp
}
