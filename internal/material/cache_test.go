package material

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMtl(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.mtl")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestCacheBasicReturnsSamePointer(t *testing.T) {
	cache := NewCache()
	assert.True(t, cache.IsEmpty())

	path := writeMtl(t, "newmtl TestMat\nKd 1.0 0.0 0.0\n")

	mat1, err := cache.LoadOrGet(path, "TestMat")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	mat2, err := cache.LoadOrGet(path, "TestMat")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())
	assert.Same(t, mat1, mat2)
}

func TestGetCached(t *testing.T) {
	cache := NewCache()
	path := writeMtl(t, "newmtl TestMat\nKd 1.0 0.0 0.0\n")

	assert.False(t, cache.IsCached(path, "TestMat"))
	_, ok := cache.GetCached(path, "TestMat")
	assert.False(t, ok)

	_, err := cache.LoadOrGet(path, "TestMat")
	require.NoError(t, err)

	assert.True(t, cache.IsCached(path, "TestMat"))
	_, ok = cache.GetCached(path, "TestMat")
	assert.True(t, ok)
}

func TestLoadAllOrGet(t *testing.T) {
	cache := NewCache()
	path := writeMtl(t, "newmtl Mat1\nKd 1.0 0.0 0.0\n\nnewmtl Mat2\nKd 0.0 1.0 0.0\n")

	materials, err := cache.LoadAllOrGet(path)
	require.NoError(t, err)
	assert.Len(t, materials, 2)
	assert.Equal(t, 2, cache.Len())
	assert.True(t, cache.IsCached(path, "Mat1"))
	assert.True(t, cache.IsCached(path, "Mat2"))
}

func TestClear(t *testing.T) {
	cache := NewCache()
	path := writeMtl(t, "newmtl TestMat\nKd 1.0 0.0 0.0\n")

	_, err := cache.LoadOrGet(path, "TestMat")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
	assert.False(t, cache.IsCached(path, "TestMat"))
}

func TestReloadPicksUpModifiedFile(t *testing.T) {
	cache := NewCache()
	path := writeMtl(t, "newmtl TestMat\nKd 1.0 0.0 0.0\n")

	mat1, err := cache.LoadOrGet(path, "TestMat")
	require.NoError(t, err)

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.WriteFile(path, []byte("newmtl TestMat\nKd 0.0 1.0 0.0\n"), 0o644))
	require.NoError(t, os.Chtimes(path, future, future))

	mat2, err := cache.Reload(path, "TestMat")
	require.NoError(t, err)
	assert.NotSame(t, mat1, mat2)
	assert.Equal(t, float32(1.0), mat2.BaseColor.Y())
}

func TestDifferentMaterialsSameFile(t *testing.T) {
	cache := NewCache()
	path := writeMtl(t, "newmtl Mat1\nKd 1.0 0.0 0.0\n\nnewmtl Mat2\nKd 0.0 1.0 0.0\n")

	mat1, err := cache.LoadOrGet(path, "Mat1")
	require.NoError(t, err)
	mat2, err := cache.LoadOrGet(path, "Mat2")
	require.NoError(t, err)

	assert.Equal(t, 2, cache.Len())
	assert.NotSame(t, mat1, mat2)
}

func TestLoadOrGetReloadsOnNewerMtime(t *testing.T) {
	cache := NewCache()
	path := writeMtl(t, "newmtl TestMat\nKd 1.0 0.0 0.0\n")

	_, err := cache.LoadOrGet(path, "TestMat")
	require.NoError(t, err)

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.WriteFile(path, []byte("newmtl TestMat\nKd 0.0 0.0 1.0\n"), 0o644))
	require.NoError(t, os.Chtimes(path, future, future))

	mat, err := cache.LoadOrGet(path, "TestMat")
	require.NoError(t, err)
	assert.Equal(t, float32(1.0), mat.BaseColor.Z())
}
