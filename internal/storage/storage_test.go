package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveOpenRelease(t *testing.T) {
	ctx := context.Background()
	disk, err := NewLocalDisk(t.TempDir())
	require.NoError(t, err)

	ref, err := Save(ctx, disk, "Cover.PNG", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, Prefix))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	other, err := Save(ctx, disk, "Cover.PNG", strings.NewReader("more"), "image/png")
	require.NoError(t, err)
	assert.NotEqual(t, ref, other)

	rc, err := OpenRef(ctx, disk, ref)
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))

	require.NoError(t, Release(ctx, disk, ref))
	name, _ := NameOf(ref)
	assert.False(t, disk.Exists(ctx, name))

	// releasing twice or releasing an external link is not an error
	assert.NoError(t, Release(ctx, disk, ref))
	assert.NoError(t, Release(ctx, disk, "https://cdn.example/cover.png"))
}

func TestNameOfRejectsTraversal(t *testing.T) {
	for _, ref := range []string{"", "/uploads/", "/uploads/../etc/passwd", "/uploads/a/b.pdf", "uploads/x.pdf", "/uploads/.."} {
		_, err := NameOf(ref)
		assert.ErrorIs(t, err, ErrNotStored, ref)
	}
	name, err := NameOf("/uploads/abc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "abc.pdf", name)
}

func TestFileURL(t *testing.T) {
	assert.Equal(t, "", FileURL("http", "localhost:4000", ""))
	assert.Equal(t, "http://localhost:4000/uploads/a.pdf", FileURL("http", "localhost:4000", "/uploads/a.pdf"))
	assert.Equal(t, "https://shop.example/uploads/a.pdf", FileURL("https", "shop.example", "uploads/a.pdf"))
	assert.Equal(t, "https://cdn.example/x.png", FileURL("http", "localhost", "https://cdn.example/x.png"))
}
