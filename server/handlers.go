package server

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"

	"github.com/ownkv/ownkv-go/identity"
)

// entryPath extracts the storage path from the wildcard parameter. gin
// keeps the leading slash on *path parameters.
func entryPath(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("path"), "/")
}

// ownerKey decodes the :pubkey segment, aborting with 400 on failure.
func (s *Server) ownerKey(c *gin.Context) (identity.PublicKey, bool) {
	pub, err := identity.Decode(c.Param("pubkey"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return identity.PublicKey{}, false
	}
	return pub, true
}

// putEntry handles PUT /{pubkey}/{path}: an unconditional upsert.
func (s *Server) putEntry(c *gin.Context) {
	owner, ok := s.ownerKey(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				gin.H{"error": "request body too large"})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"error": "failed to read request body"})
		return
	}

	if err := s.idx.Put(owner, entryPath(c), body); err != nil {
		s.storageError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// getEntry handles GET /{pubkey}/{path}. A path ending in "/" (including
// the bare /{pubkey}/) is a prefix listing; anything else is an exact
// fetch.
func (s *Server) getEntry(c *gin.Context) {
	owner, ok := s.ownerKey(c)
	if !ok {
		return
	}

	path := entryPath(c)
	if path == "" || strings.HasSuffix(path, "/") {
		keys, err := s.idx.List(owner, path)
		if err != nil {
			s.storageError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"keys": keys, "count": len(keys)})
		return
	}

	value, found, err := s.idx.Get(owner, path)
	if err != nil {
		s.storageError(c, err)
		return
	}
	if !found {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	tag := entryTag(value)
	c.Header("ETag", tag)
	if c.GetHeader("If-None-Match") == tag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", value)
}

// deleteEntry handles DELETE /{pubkey}/{path}.
func (s *Server) deleteEntry(c *gin.Context) {
	owner, ok := s.ownerKey(c)
	if !ok {
		return
	}

	removed, err := s.idx.Delete(owner, entryPath(c))
	if err != nil {
		s.storageError(c, err)
		return
	}
	if !removed {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// entryTag computes a strong ETag from the payload.
func entryTag(value []byte) string {
	sum := blake2b.Sum256(value)
	return fmt.Sprintf("%q", hex.EncodeToString(sum[:16]))
}

// storageError reports a backend failure. Only durable backends can
// reach this path; the in-memory index never fails.
func (s *Server) storageError(c *gin.Context, err error) {
	logrus.WithFields(logrus.Fields{
		"error": err,
	}).Error("server: Storage backend error")
	c.AbortWithStatusJSON(http.StatusInternalServerError,
		gin.H{"error": "storage backend failure"})
}
