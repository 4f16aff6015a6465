// Package server exposes the storage index over HTTP. It is a thin
// adapter: the URL is parsed into (public key, path) and dispatched to
// the index; all storage semantics live in the index package.
//
// Routes:
//
//	GET    /                      server banner
//	PUT    /{pubkey}/{path}       store payload, 201
//	GET    /{pubkey}/{path}       fetch payload, or list when path ends in "/"
//	DELETE /{pubkey}/{path}       remove payload, 204 or 404
//
// {pubkey} is the z-base-32 encoding of the owner's public key. Anyone
// holding that encoding may write under it; writes carry no signature in
// the current protocol.
package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ownkv/ownkv-go/config"
	"github.com/ownkv/ownkv-go/index"
)

// Server dispatches HTTP requests to a storage index.
type Server struct {
	idx          index.Index
	maxBodyBytes int64
}

// New creates a Server backed by idx. maxBodyBytes caps request bodies;
// zero or negative selects config.DefaultMaxBodyBytes.
func New(idx index.Index, maxBodyBytes int64) *Server {
	if maxBodyBytes <= 0 {
		maxBodyBytes = config.DefaultMaxBodyBytes
	}
	return &Server{idx: idx, maxBodyBytes: maxBodyBytes}
}

// Register installs middleware and routes on the gin engine.
func (s *Server) Register(engine *gin.Engine) {
	engine.Use(s.limiter)
	engine.Use(cors)
	engine.Use(recovery)

	engine.GET("/", root)
	engine.PUT("/:pubkey/*path", s.putEntry)
	engine.GET("/:pubkey/*path", s.getEntry)
	engine.DELETE("/:pubkey/*path", s.deleteEntry)
	engine.OPTIONS("/:pubkey/*path", preflight)
}

// limiter caps the request body size.
func (s *Server) limiter(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBodyBytes)
}

// cors applies the permissive policy of the original deployment: any
// origin, method, and header.
func cors(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "*")
	c.Header("Access-Control-Allow-Headers", "*")
	c.Next()
}

// recovery converts handler panics into a logged 500 response.
func recovery(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"error": fmt.Sprintf("%v", r),
			}).Error("server: Handler panic")
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				gin.H{"error": "internal server error"})
		}
	}()

	c.Next()
}

func preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func root(c *gin.Context) {
	c.String(http.StatusOK, "ownkv server")
}
