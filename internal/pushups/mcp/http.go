package mcp

import (
	"crypto/subtle"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

const SecretHeader = "X-MCP-Secret"

// NewHTTPHandler serves the MCP server over streamable HTTP. Requests must carry the
// shared secret in the X-MCP-Secret header; an empty secret disables the endpoint.
func NewHTTPHandler(server *mcp.Server, secret string) http.Handler {
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if secret == "" {
			log.Tracef("[mcp] endpoint disabled => %s", r.URL.Path)
			http.Error(w, "no can do", http.StatusUnauthorized)
			return
		}
		if subtle.ConstantTimeCompare([]byte(r.Header.Get(SecretHeader)), []byte(secret)) != 1 {
			log.Tracef("[mcp] wrong secret => %s", r.URL.Path)
			http.Error(w, "no can do", http.StatusUnauthorized)
			return
		}
		streamable.ServeHTTP(w, r)
	})
}
