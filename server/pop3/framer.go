package pop3

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

// lineEnding terminates every line on the wire, both directions.
const lineEnding = "\r\n"

// readChunkSize is the size of each read from the underlying transport.
// It is an implementation detail, not part of the wire contract.
const readChunkSize = 4096

// LineReader frames delimiter-terminated text lines from a byte stream.
// It reads in fixed-size chunks, detects a CRLF split across two reads,
// and buffers any surplus past the delimiter for the next call.
//
// A returned line never contains the delimiter. When the peer half-closes
// the stream, any partial line accumulated so far is returned as the
// final line; once nothing remains, ReadLine returns io.EOF. io.EOF is
// therefore the "connection closed" signal, distinct from an empty line.
type LineReader struct {
	src     io.Reader
	chunk   []byte
	buf     []byte // unconsumed bytes of the current line (and beyond)
	scanned int    // prefix of buf already known to be delimiter-free
	sawEOF  bool
}

// NewLineReader wraps src. The reader owns framing only; closing the
// underlying transport stays with its owner.
func NewLineReader(src io.Reader) *LineReader {
	return &LineReader{
		src:   src,
		chunk: make([]byte, readChunkSize),
	}
}

// ReadLine returns the next delimiter-terminated line, blocking until a
// full line, half-close, or transport error.
func (r *LineReader) ReadLine() (string, error) {
	for {
		// Search only the not-yet-scanned tail, rewound one byte so a
		// delimiter straddling two reads is still found.
		start := r.scanned
		if start > 0 {
			start--
		}
		if i := bytes.Index(r.buf[start:], []byte(lineEnding)); i >= 0 {
			end := start + i
			line := string(r.buf[:end])
			r.buf = r.buf[end+len(lineEnding):]
			r.scanned = 0
			return line, nil
		}
		r.scanned = len(r.buf)

		if r.sawEOF {
			if len(r.buf) > 0 {
				line := string(r.buf)
				r.buf = nil
				r.scanned = 0
				return line, nil
			}
			return "", io.EOF
		}

		n, err := r.src.Read(r.chunk)
		if n > 0 {
			part := r.chunk[:n]
			if !utf8.Valid(part) {
				// Lenient degrade: drop the undecodable chunk and
				// terminate the line with what was accumulated.
				line := string(r.buf)
				r.buf = nil
				r.scanned = 0
				return line, nil
			}
			r.buf = append(r.buf, part...)
		}
		if err != nil {
			if err == io.EOF {
				r.sawEOF = true
				continue
			}
			return "", err
		}
	}
}

// LineWriter writes delimiter-terminated lines to a transport, flushing
// after every line so responses are never held back in the buffer.
type LineWriter struct {
	w *bufio.Writer
}

func NewLineWriter(dst io.Writer) *LineWriter {
	return &LineWriter{w: bufio.NewWriter(dst)}
}

// WriteLine appends the line delimiter and flushes.
func (w *LineWriter) WriteLine(line string) error {
	if _, err := w.w.WriteString(line); err != nil {
		return err
	}
	if _, err := w.w.WriteString(lineEnding); err != nil {
		return err
	}
	return w.w.Flush()
}
