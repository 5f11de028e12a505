package controllers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/zaqqye/eduapp_backend/internal/models"
	"github.com/zaqqye/eduapp_backend/internal/registry"
	"github.com/zaqqye/eduapp_backend/internal/storage"
)

type MaterialController struct {
	Registry       *registry.Service
	Store          storage.ObjectStore
	Log            *zap.Logger
	Prefix         string
	MaxUploadBytes int64
}

// Upload registers a material: the code is allocated first, the file is
// stored under it, then the record is created. A storage failure aborts the
// whole operation and nothing is recorded.
func (m *MaterialController) Upload(c *gin.Context) {
	user := mustUser(c)
	// leave room for the other form fields
	bodyLimit := m.MaxUploadBytes + (1 << 20)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, bodyLimit)
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || c.Request.ContentLength > bodyLimit {
			m.tooLarge(c)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	fh, err := c.FormFile("file")
	if err != nil || fh == nil || fh.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fh.Size > m.MaxUploadBytes {
		m.tooLarge(c)
		return
	}
	description := c.PostForm("description")

	rec, err := m.Registry.RegisterFunc(c.Request.Context(), user.UserID, title, models.KindMaterial,
		func(ctx context.Context, code string) (registry.Payload, error) {
			return m.store(ctx, code, title, description, fh)
		},
		m.discard)
	if err != nil {
		respondError(c, m.Log, err)
		return
	}
	c.JSON(http.StatusCreated, viewOf(rec, true))
}

func (m *MaterialController) tooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("file exceeds the %d MB limit", m.MaxUploadBytes>>20)})
}

// discard removes a blob whose record was never created.
func (m *MaterialController) discard(ctx context.Context, p registry.Payload) {
	mp, ok := p.(registry.MaterialPayload)
	if !ok || mp.ObjectKey == "" {
		return
	}
	if err := m.Store.Delete(ctx, mp.ObjectKey); err != nil {
		m.Log.Error("delete orphaned material", zap.String("key", mp.ObjectKey), zap.Error(err))
		return
	}
	m.Log.Info("orphaned material deleted", zap.String("key", mp.ObjectKey))
}

func (m *MaterialController) store(ctx context.Context, code, title, description string, fh *multipart.FileHeader) (registry.Payload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open upload")
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, errors.Wrap(err, "read upload")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "rewind upload")
	}

	key := storage.MaterialKey(m.Prefix, code, title, fh.Filename)
	sum := sha256.New()
	counter := &countingReader{r: io.TeeReader(f, sum)}
	if err := m.Store.Put(ctx, key, counter, storage.ContentType(fh.Filename, head[:n])); err != nil {
		return nil, &storageError{err: err}
	}
	m.Log.Info("material stored", zap.String("key", key), zap.Int64("bytes", counter.n))

	return registry.MaterialPayload{
		Description: description,
		FileType:    storage.FileType(fh.Filename),
		ObjectKey:   key,
		PublicURL:   m.Store.PublicURL(key),
		SizeBytes:   counter.n,
		Checksum:    checksum(sum),
	}, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func checksum(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

func (m *MaterialController) ListMine(c *gin.Context) {
	user := mustUser(c)
	opts := listOptions(c)
	items, total, err := m.Registry.ListByOwner(c.Request.Context(), user.UserID, models.KindMaterial, opts)
	if err != nil {
		respondError(c, m.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": viewsOf(items, true), "meta": listMeta(opts, total)})
}

// ListFiles lists the blobs currently stored under a redeemed material's code.
func (m *MaterialController) ListFiles(c *gin.Context) {
	user := mustUser(c)
	id, ok := idParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	ctx := c.Request.Context()
	rec, err := m.Registry.Get(ctx, id)
	if err != nil {
		respondError(c, m.Log, err)
		return
	}
	if rec.Kind != models.KindMaterial {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	redeemed, err := m.Registry.IsRedeemed(ctx, user.UserID, rec.ID)
	if err != nil {
		respondError(c, m.Log, err)
		return
	}
	if !redeemed {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	prefix := storage.CodePrefix(m.Prefix, rec.Code)
	objects, err := m.Store.List(ctx, prefix)
	if err != nil {
		respondError(c, m.Log, &storageError{err: err})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": objects,
		"meta": gin.H{"code": rec.Code, "prefix": prefix, "total": len(objects)},
	})
}

// ServeFile streams blobs held by the in-process store behind its public URLs.
func ServeFile(store *storage.MemoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")
		body, contentType, err := store.Open(key)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		if contentType != "" {
			c.Header("Content-Type", contentType)
		}
		http.ServeContent(c.Writer, c.Request, key, time.Time{}, body)
	}
}
