// Package httpdriver drives one HTTP/1.1 request/response exchange
// over an MPC-TLS stream (spec §4.5). It parses the response by hand
// rather than through net/http's client, because http.Client closes
// and reuses connections in ways that would defeat byte-exact
// transcript capture — the teacher's own notary.go reads framed
// messages off its raw socket the same way, one line/length at a
// time, rather than reaching for a higher-level client.
package httpdriver

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/summitto/tlsn-wise-attestor/internal/mpctls"
	"github.com/summitto/tlsn-wise-attestor/internal/pipeerr"
)

// Response is the parsed HTTP response: status, headers, and body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Result bundles the parsed Response with the exact raw bytes read
// off the stream and the offset within those bytes where the body
// begins, so the caller can build a RecvPlan whose spans line up with
// what the MPC-TLS engine committed to.
type Result struct {
	Response   *Response
	Raw        []byte
	BodyOffset int
	// ChunkMap is nil for a Content-Length or read-to-EOF body, where
	// Response.Body's offsets already line up with Raw after a flat
	// BodyOffset shift. For a chunked body it records, per chunk,
	// where that chunk's bytes landed in the dechunked Response.Body
	// versus in Raw, so a caller can translate a Body-relative span
	// (as respparse.Locate produces) back into the Raw-relative spans
	// a RecvPlan needs (spec §4.5).
	ChunkMap []ChunkSpan
}

// ChunkSpan records one chunk's placement in both the dechunked body
// and the raw wire bytes.
type ChunkSpan struct {
	BodyStart int
	RawStart  int
	Length    int
}

// Do writes reqBytes to stream and reads back one HTTP/1.1 response.
// allowChunked gates whether a "Transfer-Encoding: chunked" response
// is accepted; most provider profiles declare only Content-Length
// framing and reject chunked bodies outright (spec §4.5).
func Do(stream mpctls.Stream, reqBytes []byte, allowChunked bool) (*Result, error) {
	if err := writeFull(stream, reqBytes); err != nil {
		return nil, pipeerr.Wrap(pipeerr.Http, "RequestWriteFailed", err)
	}

	br := bufio.NewReader(stream)
	var raw bytes.Buffer

	statusLine, err := readLine(br, &raw)
	if err != nil {
		return nil, pipeerr.Wrap(pipeerr.Http, "ResponseTruncated: failed to read status line", err)
	}
	statusCode, err := parseStatusLine(statusLine)
	if err != nil {
		return nil, pipeerr.Wrap(pipeerr.Http, "ResponseTruncated: malformed status line", err)
	}

	header := make(http.Header)
	for {
		line, err := readLine(br, &raw)
		if err != nil {
			return nil, pipeerr.Wrap(pipeerr.Http, "ResponseTruncated: failed to read headers", err)
		}
		if line == "" {
			break
		}
		if name, value, ok := splitHeaderLine(line); ok {
			header.Add(name, value)
		}
	}
	bodyOffset := raw.Len()

	body, chunkMap, err := readBody(br, header, allowChunked, &raw)
	if err != nil {
		return nil, err
	}

	return &Result{
		Response:   &Response{StatusCode: statusCode, Header: header, Body: body},
		Raw:        raw.Bytes(),
		BodyOffset: bodyOffset,
		ChunkMap:   chunkMap,
	}, nil
}

// ValidateResponse checks the status code and Content-Type against
// what the caller expects, per spec §4.5's HttpStatus/
// UnexpectedContentType failure modes.
func ValidateResponse(resp *Response, expectedStatus int, contentTypePrefix string) error {
	if resp.StatusCode != expectedStatus {
		return pipeerr.New(pipeerr.Http, fmt.Sprintf("HttpStatus: got %d, expected %d", resp.StatusCode, expectedStatus))
	}
	if contentTypePrefix != "" {
		ct := resp.Header.Get("Content-Type")
		if !strings.HasPrefix(ct, contentTypePrefix) {
			return pipeerr.New(pipeerr.Http, fmt.Sprintf("UnexpectedContentType: got %q, expected prefix %q", ct, contentTypePrefix))
		}
	}
	return nil
}

func writeFull(stream mpctls.Stream, data []byte) error {
	for len(data) > 0 {
		n, err := stream.Write(data)
		if err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// readLine reads one CRLF-terminated line (CRLF stripped), mirroring
// every byte it consumes into raw so the caller retains the exact
// wire bytes.
func readLine(br *bufio.Reader, raw *bytes.Buffer) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		raw.WriteString(line)
		return "", err
	}
	raw.WriteString(line)
	return strings.TrimRight(line, "\r\n"), nil
}

func parseStatusLine(line string) (int, error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 {
		return 0, fmt.Errorf("malformed status line %q", line)
	}
	return strconv.Atoi(parts[1])
}

func splitHeaderLine(line string) (name, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
}

func readBody(br *bufio.Reader, header http.Header, allowChunked bool, raw *bytes.Buffer) ([]byte, []ChunkSpan, error) {
	if strings.EqualFold(header.Get("Transfer-Encoding"), "chunked") {
		if !allowChunked {
			return nil, nil, pipeerr.New(pipeerr.Http, "UnexpectedContentType: chunked transfer not permitted by provider profile")
		}
		return readChunkedBody(br, raw)
	}

	if cl := header.Get("Content-Length"); cl != "" {
		n, err := strconv.Atoi(cl)
		if err != nil || n < 0 {
			return nil, nil, pipeerr.New(pipeerr.Http, "ResponseTruncated: invalid Content-Length")
		}
		body := make([]byte, n)
		if _, err := io.ReadFull(br, body); err != nil {
			return nil, nil, pipeerr.Wrap(pipeerr.Http, "ResponseTruncated: body shorter than Content-Length", err)
		}
		raw.Write(body)
		return body, nil, nil
	}

	// No framing header: read until the connection closes, which is
	// what every provider profile in this repository requests via
	// "Connection: close" (spec §4.2).
	body, err := io.ReadAll(br)
	if err != nil {
		return nil, nil, pipeerr.Wrap(pipeerr.Http, "ResponseTruncated: failed reading body to EOF", err)
	}
	raw.Write(body)
	return body, nil, nil
}

// readChunkedBody dechunks the body while recording, per chunk, the
// offset translation between the dechunked body and the raw wire
// bytes (the chunk-size lines and CRLF terminators appear in raw but
// not in the returned body) — see ChunkMap.
func readChunkedBody(br *bufio.Reader, raw *bytes.Buffer) ([]byte, []ChunkSpan, error) {
	var body bytes.Buffer
	var chunkMap []ChunkSpan
	for {
		sizeLine, err := readLine(br, raw)
		if err != nil {
			return nil, nil, pipeerr.Wrap(pipeerr.Http, "ResponseTruncated: failed to read chunk size", err)
		}
		sizeLine = strings.TrimSpace(strings.SplitN(sizeLine, ";", 2)[0])
		size, err := strconv.ParseInt(sizeLine, 16, 64)
		if err != nil {
			return nil, nil, pipeerr.Wrap(pipeerr.Http, "ResponseTruncated: malformed chunk size", err)
		}
		if size == 0 {
			// Trailer section, terminated by a blank line.
			for {
				line, err := readLine(br, raw)
				if err != nil {
					return nil, nil, pipeerr.Wrap(pipeerr.Http, "ResponseTruncated: failed to read chunk trailer", err)
				}
				if line == "" {
					break
				}
			}
			return body.Bytes(), chunkMap, nil
		}
		rawStart, bodyStart := raw.Len(), body.Len()
		chunk := make([]byte, size)
		if _, err := io.ReadFull(br, chunk); err != nil {
			return nil, nil, pipeerr.Wrap(pipeerr.Http, "ResponseTruncated: short chunk body", err)
		}
		raw.Write(chunk)
		body.Write(chunk)
		chunkMap = append(chunkMap, ChunkSpan{BodyStart: bodyStart, RawStart: rawStart, Length: int(size)})
		if _, err := readLine(br, raw); err != nil {
			return nil, nil, pipeerr.Wrap(pipeerr.Http, "ResponseTruncated: missing chunk terminator", err)
		}
	}
}
