package custom

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/reelcast/reelcast/internal/cache"
	"github.com/reelcast/reelcast/log"
	"github.com/reelcast/reelcast/network"
	utls "github.com/refraction-networking/utls"
	"github.com/samber/lo"
	lua "github.com/yuin/gopher-lua"
	"golang.org/x/net/http2"
)

const tlsTimeout = 30 * time.Second

// tlsResponse is what http_tls.request returns to scripts, and what is cached for them.
type tlsResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

// tlsDo performs a request with a browser TLS fingerprint.
var tlsDo = func(ctx context.Context, method, url string, headers map[string]string, body string) (tlsResponse, error) {
	return fingerprinted().do(ctx, method, url, headers, body)
}

var storeResponse = func(key string, resp tlsResponse) error {
	return cache.Write(key, resp)
}

// registerTLSClient exposes http_tls to scripts:
//
//	http_tls.get(url [, headers])                         -> body
//	http_tls.request{url, method, headers, body, cache}   -> {status, body}
//
// Requests are bound to the context of the running streams call.
func registerTLSClient(L *lua.LState) {
	L.SetGlobal("http_tls", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"get":     luaTLSGet,
		"request": luaTLSRequest,
	}))
}

func luaTLSGet(L *lua.LState) int {
	url := L.CheckString(1)
	headers := stringMap(L.OptTable(2, nil))

	resp, err := tlsDo(luaContext(L), http.MethodGet, url, headers, "")
	if err != nil {
		L.RaiseError("http_tls.get: %s", err)
		return 0
	}

	L.Push(lua.LString(resp.Body))
	return 1
}

func luaTLSRequest(L *lua.LState) int {
	opts := L.CheckTable(1)

	var (
		url     = stringField(opts, "url", "")
		method  = strings.ToUpper(stringField(opts, "method", http.MethodGet))
		body    = stringField(opts, "body", "")
		cached  = lua.LVAsBool(opts.RawGetString("cache"))
		headers map[string]string
	)

	if url == "" {
		L.RaiseError("http_tls.request: url is required")
		return 0
	}

	if tbl, ok := opts.RawGetString("headers").(*lua.LTable); ok {
		headers = stringMap(tbl)
	}

	cacheKey := requestKey(method, url, headers, body)

	var resp tlsResponse
	if !cached || !cache.Read(cacheKey, &resp) {
		var err error
		resp, err = tlsDo(luaContext(L), method, url, headers, body)
		if err != nil {
			L.RaiseError("http_tls.request: %s", err)
			return 0
		}

		if cached && resp.Status == http.StatusOK {
			if err := storeResponse(cacheKey, resp); err != nil {
				log.Warnf("http_tls: caching %s %s: %s", method, url, err)
			}
		}
	}

	result := L.NewTable()
	result.RawSetString("status", lua.LNumber(resp.Status))
	result.RawSetString("body", lua.LString(resp.Body))
	L.Push(result)
	return 1
}

// requestKey identifies a cacheable request. Header names are canonicalized, everything else is taken as is.
func requestKey(method, url string, headers map[string]string, body string) string {
	parts := []string{"http_tls", method, url, body}

	names := lo.Keys(headers)
	sort.Slice(names, func(i, j int) bool {
		a, b := http.CanonicalHeaderKey(names[i]), http.CanonicalHeaderKey(names[j])
		if a != b {
			return a < b
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		parts = append(parts, http.CanonicalHeaderKey(name), headers[name])
	}

	return cache.GenerateKey(parts...)
}

func luaContext(L *lua.LState) context.Context {
	if ctx := L.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func stringMap(tbl *lua.LTable) map[string]string {
	m := make(map[string]string)
	if tbl == nil {
		return m
	}

	tbl.ForEach(func(k, v lua.LValue) {
		m[k.String()] = v.String()
	})
	return m
}

func stringField(tbl *lua.LTable, name, fallback string) string {
	if v := tbl.RawGetString(name); v != lua.LNil {
		return v.String()
	}
	return fallback
}

// fingerprintClient speaks h2 with a Chrome ClientHello and retries over
// HTTP/1.1 for servers that refuse h2.
type fingerprintClient struct {
	h2 *http.Client
	h1 *http.Client
}

var fingerprinted = sync.OnceValue(func() *fingerprintClient {
	return &fingerprintClient{
		h2: &http.Client{
			Timeout: tlsTimeout,
			Transport: &http2.Transport{
				DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
					return dialChrome(ctx, network, addr, nil)
				},
			},
		},
		h1: &http.Client{
			Timeout: tlsTimeout,
			Transport: &http.Transport{
				DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
					return dialChrome(ctx, network, addr, []string{"http/1.1"})
				},
			},
		},
	}
})

func (c *fingerprintClient) do(ctx context.Context, method, url string, headers map[string]string, body string) (tlsResponse, error) {
	resp, err := c.send(ctx, c.h2, method, url, headers, body)
	if err != nil && ctx.Err() == nil {
		resp, err = c.send(ctx, c.h1, method, url, headers, body)
	}
	if err != nil {
		return tlsResponse{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return tlsResponse{Status: resp.StatusCode}, fmt.Errorf("read body: %w", err)
	}

	return tlsResponse{Status: resp.StatusCode, Body: string(data)}, nil
}

func (c *fingerprintClient) send(ctx context.Context, client *http.Client, method, url string, headers map[string]string, body string) (*http.Response, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	defaults := map[string]string{
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
	}
	for k, v := range headers {
		defaults[http.CanonicalHeaderKey(k)] = v
	}

	req, err := network.NewRequest(ctx, method, url, reader, defaults)
	if err != nil {
		return nil, err
	}

	return client.Do(req)
}

// dialChrome opens a TLS connection with Chrome 120's ClientHello.
// A non-empty alpn replaces the advertised protocols.
func dialChrome(ctx context.Context, network, addr string, alpn []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	conn, err := (&net.Dialer{Timeout: tlsTimeout}).DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	spec, err := utls.UTLSIdToSpec(utls.HelloChrome_120)
	if err != nil {
		conn.Close()
		return nil, err
	}

	if len(alpn) > 0 {
		for _, ext := range spec.Extensions {
			if a, ok := ext.(*utls.ALPNExtension); ok {
				a.AlpnProtocols = alpn
			}
		}
	}

	uconn := utls.UClient(conn, &utls.Config{ServerName: host, MinVersion: tls.VersionTLS12}, utls.HelloCustom)
	if err := uconn.ApplyPreset(&spec); err != nil {
		conn.Close()
		return nil, err
	}

	if err := uconn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake with %s: %w", host, err)
	}

	return uconn, nil
}
