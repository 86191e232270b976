// Package bodygate decides whether a response body may be materialized as
// text, and performs the gated read. Cheap heuristics (content type, URL
// extension, declared length) run before the body is fetched; the size cap
// is enforced again on the realized text, since declared lengths lie.
package bodygate

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"path"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/hraihanm/playwright-mcp-mod/internal/cache"
	"github.com/hraihanm/playwright-mcp-mod/pkg/capture"
)

// MaxTextBytes is the largest response body the engine will hold as text.
// Enforced both on the declared content-length and on the fetched body.
const MaxTextBytes = 5 << 20 // 5 MiB

// Rejection reasons. Search treats all of them as "field absent"; the
// downloader distinguishes unsafe content from a failed read.
var (
	ErrBinaryContent = errors.New("binary content type")
	ErrTooLarge      = fmt.Errorf("body exceeds %d bytes", MaxTextBytes)
	ErrUnreadable    = errors.New("body could not be read")
)

// binaryExtensions are URL path extensions that are never worth reading as
// text: archives, executables, fonts, media containers, office documents.
var binaryExtensions = map[string]bool{
	".zip": true, ".tar": true, ".gz": true, ".tgz": true, ".rar": true, ".7z": true,
	".exe": true, ".dll": true, ".so": true, ".bin": true, ".iso": true, ".dmg": true,
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true, ".eot": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true, ".webm": true, ".ogg": true,
	".wasm": true,
}

// Gate performs safety-checked, cached body reads.
type Gate struct {
	bodies *cache.BodyCache
}

// New creates a Gate backed by the given body cache. A nil cache disables
// caching; every read goes back to the accessor.
func New(bodies *cache.BodyCache) *Gate {
	return &Gate{bodies: bodies}
}

// isBinaryContentType reports whether the content-type major type marks the
// body as non-text.
func isBinaryContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.HasPrefix(mediaType, "image/") ||
		strings.HasPrefix(mediaType, "audio/") ||
		strings.HasPrefix(mediaType, "video/") ||
		strings.Contains(mediaType, "octet-stream")
}

// hasBinaryExtension reports whether the URL's path ends in a known binary
// extension. Query strings are ignored.
func hasBinaryExtension(rawURL string) bool {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	return binaryExtensions[strings.ToLower(path.Ext(p))]
}

// Check runs only the pre-read heuristics: content type, URL extension, and
// declared content-length. A nil return means the body is worth fetching,
// not that the fetched body will pass the size cap.
func (g *Gate) Check(ex *capture.Exchange) error {
	resp := ex.Response()
	if resp == nil {
		return ErrUnreadable
	}
	if ct := resp.ContentType(); ct != "" && isBinaryContentType(ct) {
		return ErrBinaryContent
	}
	if hasBinaryExtension(ex.URL) {
		return ErrBinaryContent
	}
	if declared := resp.Headers.Get("content-length"); declared != "" {
		if n, err := strconv.ParseInt(declared, 10, 64); err == nil && n > MaxTextBytes {
			return ErrTooLarge
		}
	}
	return nil
}

// Fetch runs Check, then reads the response body, enforces the size cap on
// the realized text, and decodes a declared non-UTF-8 charset. Successful
// reads are cached by exchange sequence number; a read error maps to
// ErrUnreadable so the caller can degrade instead of aborting.
func (g *Gate) Fetch(ctx context.Context, ex *capture.Exchange) (string, error) {
	if err := g.Check(ex); err != nil {
		return "", err
	}

	if g.bodies != nil {
		if body, ok := g.bodies.Get(ex.Seq); ok {
			return body, nil
		}
	}

	resp := ex.Response()
	body, err := resp.Text(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if len(body) > MaxTextBytes {
		return "", ErrTooLarge
	}

	body = decodeCharset(body, resp.ContentType())

	if g.bodies != nil {
		g.bodies.Put(ex.Seq, body)
	}
	return body, nil
}

// decodeCharset converts body text to UTF-8 when the content type declares a
// non-UTF-8 charset. Unknown charsets leave the body untouched.
func decodeCharset(body, contentType string) string {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body
	}
	cs := strings.ToLower(params["charset"])
	if cs == "" || cs == "utf-8" || cs == "utf8" {
		return body
	}
	enc, err := htmlindex.Get(cs)
	if err != nil {
		return body
	}
	decoded, err := enc.NewDecoder().String(body)
	if err != nil {
		return body
	}
	return decoded
}
