// Package transport implements the real HTTP transport to the remote SOAP
// endpoint. It satisfies the engine's Transport interface so handlers can be
// tested with a mock instead of a network connection.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
)

// maxReplyBytes bounds how much of a reply body is read into memory.
const maxReplyBytes = 4 * 1024 * 1024 // 4 MB

// httpClient is the shared HTTP client. Per-call deadlines come from the
// request context; this timeout is only a hard upper bound.
var httpClient = &http.Client{Timeout: 2 * time.Minute}

// Client posts serialized request bodies to the remote service.
type Client struct {
	Endpoint string
	Verbose  bool
	Debug    bool
}

// NewClient creates a transport client for the given endpoint.
func NewClient(endpoint string, verbose, debug bool) *Client {
	return &Client{Endpoint: endpoint, Verbose: verbose, Debug: debug}
}

// Call sends one request body with the operation-identifying header and
// returns the reply text decoded to UTF-8. Non-2xx replies are still returned;
// the extractor decides whether they carry a result payload.
func (c *Client) Call(ctx context.Context, action string, body []byte) (string, error) {
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build remote request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", action)

	if c.Verbose {
		slog.Info("remote.request", "request_id", requestID, "action", action, "bytes", len(body))
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("remote request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return "", fmt.Errorf("read remote reply: %w", err)
	}

	if c.Verbose {
		slog.Info("remote.response", "request_id", requestID, "status", resp.StatusCode, "bytes", len(raw))
	}
	if c.Debug {
		writeDebugDumpBlock(fmt.Sprintf("REMOTE REPLY status=%d", resp.StatusCode), raw)
	}

	return decodeCharset(raw, resp.Header.Get("Content-Type")), nil
}

var dumpMu sync.Mutex

// writeDebugDumpBlock writes a reply body to stderr between boundary lines.
// Reply bodies never carry client credentials, so no masking is needed here.
func writeDebugDumpBlock(title string, data []byte) {
	dumpMu.Lock()
	defer dumpMu.Unlock()

	os.Stderr.WriteString("===== " + title + " BEGIN =====\n")
	if len(data) > 0 {
		os.Stderr.Write(data)
		if data[len(data)-1] != '\n' {
			os.Stderr.WriteString("\n")
		}
	}
	os.Stderr.WriteString("===== " + title + " END =====\n")
}

// decodeCharset converts Latin-1 reply bodies to UTF-8. The remote service
// labels its replies ISO-8859-1 even though requests are sent as UTF-8.
func decodeCharset(raw []byte, contentType string) string {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "iso-8859-1") || strings.Contains(ct, "latin1") {
		if decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw); err == nil {
			return string(decoded)
		}
	}
	return string(raw)
}
