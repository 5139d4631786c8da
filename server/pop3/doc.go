// Package pop3 implements the file-based POP3 test server.
//
// The server exposes a fixed, read-only message list over the RFC 1939
// wire protocol, precisely enough for real POP3 clients to talk to it.
// It exists to test client implementations, not to store mail:
//
//   - USER and PASS are accepted unconditionally
//   - DELE acknowledges but never removes anything
//   - no TLS, no per-session deletion state, no persistence
//
// # Supported Commands
//
// USER, PASS, CAPA, STAT, LIST, UIDL, TOP, RETR, DELE, NOOP, QUIT.
// Unknown verbs get "-ERR unknown command" and the session continues.
//
// # Structure
//
// A LineReader frames CRLF-terminated lines from the socket, handling
// delimiters split across read boundaries. Each line is split into a
// verb and an optional parameter and dispatched through a handler table
// built once at startup. Handlers format responses against the shared
// mailbox.Store; multi-line responses end with a line containing only
// a dot.
//
// # Connection model
//
// Connections are serviced strictly one at a time: the accept loop
// drains a session to completion before accepting the next. Within a
// session, commands are processed in arrival order. A malformed command
// yields "-ERR" and keeps the session open; only transport failures and
// QUIT end it.
package pop3
