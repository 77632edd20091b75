package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveOpenDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("turmas/3/pauta.xlsx", []byte("conteudo"))
	require.NoError(t, err)
	require.Equal(t, "turmas/3/pauta.xlsx", name)

	file, err := store.Open(name)
	require.NoError(t, err)
	data, err := io.ReadAll(file)
	require.NoError(t, file.Close())
	require.NoError(t, err)
	require.Equal(t, "conteudo", string(data))

	require.NoError(t, store.Delete(name))
	_, err = store.Open(name)
	require.Error(t, err)

	// deleting an already collected file is not an error
	require.NoError(t, store.Delete(name))
}

func TestLocalStorageCleanupRemovesOnlyStaleFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	stale, err := store.Save("turmas/3/antiga.xlsx", []byte("velho"))
	require.NoError(t, err)
	fresh, err := store.Save("alunos/recente.csv", []byte("novo"))
	require.NoError(t, err)

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, stale), past, past))

	deleted, err := store.CleanupOlderThan(time.Hour)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.FromSlash("turmas/3/antiga.xlsx")}, deleted)

	_, err = store.Open(stale)
	require.Error(t, err)

	file, err := store.Open(fresh)
	require.NoError(t, err)
	require.NoError(t, file.Close())
}
