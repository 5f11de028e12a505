package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialKey(t *testing.T) {
	assert.Equal(t, "materials/AB3CD9/chapter-5-cell-division.pdf",
		MaterialKey("materials", "AB3CD9", "Chapter 5 - Cell Division", "notes.PDF"))
	assert.Equal(t, "AB3CD9/file", MaterialKey("", "AB3CD9", "   ", "README"))
	assert.Equal(t, "materials/AB3CD9/", CodePrefix("/materials/", "AB3CD9"))
}

func TestFileType(t *testing.T) {
	assert.Equal(t, "PDF", FileType("intro.pdf"))
	assert.Equal(t, "DOCX", FileType("lab.docx"))
	assert.Equal(t, "FILE", FileType("Makefile"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentType("a.pdf", nil))
	assert.Equal(t, "text/plain; charset=utf-8", ContentType("noext", []byte("hello world")))
	assert.Equal(t, "application/octet-stream", ContentType("noext", nil))
}

func TestMemoryStore_PutListOpen(t *testing.T) {
	store := NewMemoryStore("/files/")
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "materials/AAAAA/b.pdf", strings.NewReader("bbb"), "application/pdf"))
	require.NoError(t, store.Put(ctx, "materials/AAAAA/a.pdf", strings.NewReader("a"), "application/pdf"))
	require.NoError(t, store.Put(ctx, "materials/BBBBB/c.pdf", strings.NewReader("c"), "application/pdf"))

	objs, err := store.List(ctx, CodePrefix("materials", "AAAAA"))
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "materials/AAAAA/a.pdf", objs[0].Key)
	assert.Equal(t, int64(3), objs[1].Size)
	assert.Equal(t, "/files/materials/AAAAA/a.pdf", objs[0].PublicURL)

	r, ct, err := store.Open("materials/AAAAA/b.pdf")
	require.NoError(t, err)
	data, _ := io.ReadAll(r)
	assert.Equal(t, "bbb", string(data))
	assert.Equal(t, "application/pdf", ct)

	require.NoError(t, store.Delete(ctx, "materials/AAAAA/b.pdf"))
	require.NoError(t, store.Delete(ctx, "materials/AAAAA/b.pdf"))
	objs, err = store.List(ctx, CodePrefix("materials", "AAAAA"))
	require.NoError(t, err)
	assert.Len(t, objs, 1)

	_, _, err = store.Open("missing")
	assert.ErrorIs(t, err, ErrObjectMissing)
	assert.Error(t, store.Put(ctx, "", strings.NewReader("x"), ""))
}

func TestNewOSSStore_RequiresConfig(t *testing.T) {
	_, err := NewOSSStore(OSSConfig{Endpoint: "oss-cn-hangzhou.aliyuncs.com"}, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
