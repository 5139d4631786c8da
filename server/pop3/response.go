package pop3

import (
	"fmt"
	"strings"

	"github.com/popfiled/popfiled/mailbox"
)

// Response formatting. Every command produces a single response string;
// the session appends the final line delimiter when writing it out.
// Multi-line responses embed CRLF between their lines and end with a
// line containing only a dot.

// ok builds a success status line: "+OK" followed by the space-joined
// arguments. With no arguments the result is exactly "+OK".
func ok(args ...any) string {
	return statusLine("+OK", args)
}

// errResponse builds a failure status line: "-ERR" plus arguments.
func errResponse(args ...any) string {
	return statusLine("-ERR", args)
}

func statusLine(prefix string, args []any) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, prefix)
	for _, arg := range args {
		parts = append(parts, fmt.Sprint(arg))
	}
	return strings.Join(parts, " ")
}

// multiLine assembles a multi-line response: the status line, each body
// line, and the dot terminator.
func multiLine(first string, lines []string) string {
	var b strings.Builder
	b.WriteString(first)
	for _, line := range lines {
		b.WriteString(lineEnding)
		b.WriteString(line)
	}
	b.WriteString(lineEnding)
	b.WriteString(".")
	return b.String()
}

// buildCapaResponse lists the fixed capability set.
func buildCapaResponse() string {
	return multiLine(ok("Capability list follows"), []string{
		"TOP",
		"USER",
		"UIDL",
	})
}

// buildScanListing builds the no-argument LIST response: a header with
// aggregate count and size, then one "n size" line per message.
func buildScanListing(msgs []*mailbox.Message) string {
	size := 0
	lines := make([]string, 0, len(msgs))
	for i, msg := range msgs {
		// POP3 message numbers are 1-indexed
		lines = append(lines, fmt.Sprintf("%d %d", i+1, msg.Size))
		size += msg.Size
	}
	return multiLine(ok(fmt.Sprintf("%d messages (%d octets)", len(msgs), size)), lines)
}

// buildUIDListing builds the no-argument UIDL response.
func buildUIDListing(msgs []*mailbox.Message) string {
	lines := make([]string, 0, len(msgs))
	for i, msg := range msgs {
		lines = append(lines, fmt.Sprintf("%d %s", i+1, msg.UID))
	}
	return multiLine(ok("unique-id listing follows"), lines)
}

// buildTopResponse builds the TOP response: header, blank line, then up
// to n body lines. With n == 0 the payload still carries the trailing
// blank line after the header; that is accepted behavior.
func buildTopResponse(msg *mailbox.Message, n int) string {
	return ok(fmt.Sprintf("top of message follows%s%s%s.", lineEnding, msg.Top(n), lineEnding))
}

// buildRetrResponse builds the RETR response with the exact octet count
// of the raw content it carries.
func buildRetrResponse(msg *mailbox.Message) string {
	data := msg.Retr()
	return ok(fmt.Sprintf("%d octets%s%s%s.", len(data), lineEnding, data, lineEnding))
}
