package httpdriver

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDoParsesContentLengthResponse(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		buf := make([]byte, 1024)
		server.Read(buf)
		server.Write([]byte("HTTP/1.1 200 OK\r\nContent-Type: application/json\r\nContent-Length: 13\r\n\r\n{\"ok\":true}\r\n"))
	}()

	done := make(chan struct{})
	var result *Result
	var err error
	go func() {
		result, err = Do(client, []byte("GET / HTTP/1.1\r\n\r\n"), false)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return in time")
	}

	require.NoError(t, err)
	require.Equal(t, 200, result.Response.StatusCode)
	require.Equal(t, "application/json", result.Response.Header.Get("Content-Type"))
	require.Equal(t, 13, len(result.Response.Body))
	require.NoError(t, ValidateResponse(result.Response, 200, "application/json"))
}

func TestValidateResponseRejectsUnexpectedStatus(t *testing.T) {
	resp := &Response{StatusCode: 404}
	err := ValidateResponse(resp, 200, "")
	require.Error(t, err)
}

func TestDoRejectsChunkedWhenNotAllowed(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		buf := make([]byte, 1024)
		server.Read(buf)
		server.Write([]byte("HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n4\r\ntest\r\n0\r\n\r\n"))
	}()

	done := make(chan struct{})
	var err error
	go func() {
		_, err = Do(client, []byte("GET / HTTP/1.1\r\n\r\n"), false)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return in time")
	}
	require.Error(t, err)
}

func TestDoParsesChunkedResponseWithChunkMap(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		buf := make([]byte, 1024)
		server.Read(buf)
		server.Write([]byte("HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n4\r\ntest\r\n3\r\n-ok\r\n0\r\n\r\n"))
	}()

	done := make(chan struct{})
	var result *Result
	var err error
	go func() {
		result, err = Do(client, []byte("GET / HTTP/1.1\r\n\r\n"), true)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return in time")
	}

	require.NoError(t, err)
	require.Equal(t, "test-ok", string(result.Response.Body))
	require.Len(t, result.ChunkMap, 2)
	require.Equal(t, ChunkSpan{BodyStart: 0, RawStart: result.BodyOffset + len("4\r\n"), Length: 4}, result.ChunkMap[0])
	require.Equal(t, 3, result.ChunkMap[1].Length)
}
