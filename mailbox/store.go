package mailbox

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"lukechampine.com/blake3"

	"github.com/popfiled/popfiled/logger"
)

// Store is the ordered, 1-indexed message list backing the mailbox.
// Message numbers are positions in this list; POP3 clients rely on a
// number referring to the same message for the whole session.
type Store struct {
	messages []*Message
}

// Load builds a Store from an ordered list of file paths. Unreadable or
// malformed entries are reported and skipped; loading never fails as a
// whole.
func Load(paths []string) *Store {
	store := &Store{}
	seen := make(map[string]bool)

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable message file", "path", path, "error", err)
			continue
		}

		uid := filepath.Base(path)
		if seen[uid] {
			// Same base name loaded twice; suffix a short path digest
			// so UIDs stay unique within the list. The digest alone is
			// not enough when the same path repeats, so append an
			// ordinal until the uid is free.
			sum := blake3.Sum256([]byte(path))
			base := uid
			uid = base + "-" + hex.EncodeToString(sum[:4])
			for n := 2; seen[uid]; n++ {
				uid = fmt.Sprintf("%s-%s-%d", base, hex.EncodeToString(sum[:4]), n)
			}
		}

		msg, err := parseMessage(uid, string(data))
		if err != nil {
			logger.Warn("skipping malformed message file", "path", path, "error", err)
			continue
		}

		seen[msg.UID] = true
		store.messages = append(store.messages, msg)
		logger.Debug("loaded message", "path", path, "uid", msg.UID, "size", msg.Size)
	}

	return store
}

// Get resolves a 1-based message number. The second return value is false
// when the number is out of range.
func (s *Store) Get(n int) (*Message, bool) {
	if n < 1 || n > len(s.messages) {
		return nil, false
	}
	return s.messages[n-1], true
}

// Count returns the number of messages in the list.
func (s *Store) Count() int {
	return len(s.messages)
}

// TotalSize returns the sum of all message sizes in octets.
func (s *Store) TotalSize() int {
	total := 0
	for _, msg := range s.messages {
		total += msg.Size
	}
	return total
}

// Messages returns the backing list in order. Callers must not mutate it.
func (s *Store) Messages() []*Message {
	return s.messages
}
