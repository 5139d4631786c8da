// Package mailbox holds the in-memory message list served over POP3.
//
// Messages are loaded once at startup from plain files, parsed eagerly,
// and never mutated afterwards. The list is safe to share across
// connections because no write path exists.
package mailbox

import (
	"fmt"
	"strings"
)

// Message is one addressable unit of mail. Header and body are split at
// the first blank line of the source text; Size is the byte length of the
// raw content, which is what RETR reports and sends.
type Message struct {
	// UID is the opaque identifier reported by UIDL. It is derived from
	// the source file name and unique within the list.
	UID string

	// Size is the byte length of the full raw message content.
	Size int

	// Header is the text preceding the first blank-line delimiter.
	Header string

	// Body is the ordered sequence of lines following the delimiter.
	Body []string

	raw string
}

// parseMessage splits raw message text into header and body. A source
// without a blank-line delimiter is malformed and rejected at load time.
func parseMessage(uid, raw string) (*Message, error) {
	head, rest, found := strings.Cut(raw, "\n\n")
	if !found {
		return nil, fmt.Errorf("message %s: no blank line separating header from body", uid)
	}
	return &Message{
		UID:    uid,
		Size:   len(raw),
		Header: head,
		Body:   strings.Split(rest, "\n"),
		raw:    raw,
	}, nil
}

// Top returns the header plus up to n body lines, CRLF-joined, as sent in
// the TOP response. With n == 0 the result is the header followed by a
// single blank line.
func (m *Message) Top(n int) string {
	if n > len(m.Body) {
		n = len(m.Body)
	}
	return m.Header + "\r\n\r\n" + strings.Join(m.Body[:n], "\r\n")
}

// Retr returns the full raw message content, byte for byte.
func (m *Message) Retr() string {
	return m.raw
}
