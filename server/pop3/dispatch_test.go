package pop3

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/popfiled/popfiled/mailbox"
)

// testStore writes each content string to a file msgN.txt and loads the
// resulting message list.
func testStore(t *testing.T, contents ...string) *mailbox.Store {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, len(contents))
	for i, content := range contents {
		path := filepath.Join(dir, fmt.Sprintf("msg%d.txt", i+1))
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}
		paths = append(paths, path)
	}
	return mailbox.Load(paths)
}

func testSession(t *testing.T, contents ...string) *Session {
	t.Helper()
	store := testStore(t, contents...)
	server := New(context.Background(), "popfiled", "127.0.0.1:0", store)
	return &Session{server: server, store: store, connected: true}
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		line  string
		verb  string
		param string
	}{
		{"NOOP", "NOOP", ""},
		{"USER bob", "USER", "bob"},
		{"TOP 1 10", "TOP", "1 10"},
		{"PASS secret word", "PASS", "secret word"},
		{"RETR  2", "RETR", "2"},
		{"RETR\t2", "RETR", "2"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			verb, param := splitCommand(tt.line)
			if verb != tt.verb || param != tt.param {
				t.Errorf("splitCommand(%q) = (%q, %q), want (%q, %q)",
					tt.line, verb, param, tt.verb, tt.param)
			}
		})
	}
}

func TestDispatch(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"verb is case-insensitive", "noop", "+OK"},
		{"mixed case verb", "StAt", "+OK 1 11"},
		{"unknown verb", "XYZZY", "-ERR unknown command"},
		{"unknown verb with param", "AUTH PLAIN", "-ERR unknown command"},
		{"parameter survives unsplit", "user bob smith", "+OK user accepted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSession(t, "H: x\n\nbody\n") // 11 octets
			if got := s.dispatch(tt.line); got != tt.want {
				t.Errorf("dispatch(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestDispatchUnknownKeepsSessionOpen(t *testing.T) {
	s := testSession(t, "H: x\n\nbody\n")
	s.dispatch("XYZZY")
	if !s.connected {
		t.Fatal("unknown command must not end the session")
	}
}

func TestDispatchQuitEndsSession(t *testing.T) {
	s := testSession(t, "H: x\n\nbody\n")
	resp := s.dispatch("QUIT")
	if want := "+OK popfiled POP3 server signing off"; resp != want {
		t.Errorf("got %q, want %q", resp, want)
	}
	if s.connected {
		t.Fatal("QUIT must end the session")
	}
}

func TestHandlerErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"USER without parameter", "USER", "-ERR missing parameter"},
		{"PASS without parameter", "PASS", "-ERR missing parameter"},
		{"CAPA with parameter", "CAPA now", "-ERR unexpected parameter"},
		{"STAT with parameter", "STAT 1", "-ERR unexpected parameter"},
		{"NOOP with parameter", "NOOP 1", "-ERR unexpected parameter"},
		{"QUIT with parameter", "QUIT now", "-ERR unexpected parameter"},
		{"LIST non-numeric", "LIST one", "-ERR bad number one"},
		{"LIST out of range", "LIST 5", "-ERR bad message number 5"},
		{"LIST zero", "LIST 0", "-ERR bad message number 0"},
		{"LIST negative", "LIST -1", "-ERR bad message number -1"},
		{"UIDL out of range", "UIDL 99", "-ERR bad message number 99"},
		{"RETR without parameter", "RETR", "-ERR missing parameter"},
		{"RETR out of range", "RETR 99", "-ERR bad message number 99"},
		{"DELE without parameter", "DELE", "-ERR missing parameter"},
		{"DELE non-numeric", "DELE abc", "-ERR bad number abc"},
		{"TOP without parameter", "TOP", "-ERR missing parameter"},
		{"TOP with one token", "TOP 1", "-ERR missing parameter"},
		{"TOP with three tokens", "TOP 1 2 3", "-ERR unexpected parameter"},
		{"TOP non-numeric msgno", "TOP x 3", "-ERR bad number x"},
		{"TOP non-numeric count", "TOP 1 many", "-ERR bad number many"},
		{"TOP out of range msgno", "TOP 9 3", "-ERR bad message number 9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSession(t, "H: x\n\nbody\n")
			if got := s.dispatch(tt.line); got != tt.want {
				t.Errorf("dispatch(%q) = %q, want %q", tt.line, got, tt.want)
			}
			if !s.connected {
				t.Error("a malformed command must not end the session")
			}
		})
	}
}

func TestDeleIsCosmetic(t *testing.T) {
	s := testSession(t, "H: a\n\na\n", "H: b\n\nb\n")

	if got, want := s.dispatch("DELE 1"), "+OK message 1 deleted"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	// The message is still there: numbering and aggregates are unchanged.
	if got, want := s.dispatch("STAT"), "+OK 2 16"; got != want {
		t.Errorf("after DELE: got %q, want %q", got, want)
	}
	if got, want := s.dispatch("LIST 1"), "+OK 1 8"; got != want {
		t.Errorf("after DELE: got %q, want %q", got, want)
	}
}
