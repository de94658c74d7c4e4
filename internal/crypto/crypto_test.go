package crypto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AlexZinkM/webthree/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cheapScrypt(t *testing.T) {
	t.Helper()
	original := scryptN
	scryptN = 1 << 10
	t.Cleanup(func() { scryptN = original })
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	cheapScrypt(t)
	path := filepath.Join(t.TempDir(), "deployer"+KeyFileExt)
	data := &model.KeyData{PrivateKey: []byte{1, 2, 3, 4}, CreatedAt: "2026-10-14T00:00:00Z"}

	require.NoError(t, EncryptKey(path, "sepolia", "0xabc", "qr", data, []byte("secret")))

	keyFile, keyData, err := DecryptKey(path, []byte("secret"))
	require.NoError(t, err)
	assert.Equal(t, "sepolia", keyFile.Network)
	assert.Equal(t, "0xabc", keyFile.Address)
	assert.Equal(t, data.PrivateKey, keyData.PrivateKey)
	assert.Equal(t, data.CreatedAt, keyData.CreatedAt)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestDecryptKey_WrongPassword(t *testing.T) {
	cheapScrypt(t)
	path := filepath.Join(t.TempDir(), "deployer"+KeyFileExt)
	require.NoError(t, EncryptKey(path, "localhost", "0xabc", "", &model.KeyData{PrivateKey: []byte{9}}, []byte("right")))

	_, _, err := DecryptKey(path, []byte("wrong"))
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestEncryptKey_RefusesOverwrite(t *testing.T) {
	cheapScrypt(t)
	path := filepath.Join(t.TempDir(), "deployer"+KeyFileExt)
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0600))

	err := EncryptKey(path, "localhost", "0xabc", "", &model.KeyData{}, []byte("pw"))
	assert.True(t, IsFileExistsError(err))
}

func TestEncryptKey_WrongExtension(t *testing.T) {
	err := EncryptKey(filepath.Join(t.TempDir(), "deployer.json"), "localhost", "0xabc", "", &model.KeyData{}, []byte("pw"))
	assert.Error(t, err)
}

func TestReadKeyAddress(t *testing.T) {
	cheapScrypt(t)
	path := filepath.Join(t.TempDir(), "deployer"+KeyFileExt)
	require.NoError(t, EncryptKey(path, "localhost", "0xf39F", "", &model.KeyData{}, []byte("pw")))

	address, err := ReadKeyAddress(path)
	require.NoError(t, err)
	assert.Equal(t, "0xf39F", address)
}

func TestReadKeyAddress_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadKeyAddress(filepath.Join(dir, "missing"+KeyFileExt))
	assert.EqualError(t, err, "file does not exist")

	empty := filepath.Join(dir, "empty"+KeyFileExt)
	require.NoError(t, os.WriteFile(empty, nil, 0600))
	_, err = ReadKeyAddress(empty)
	assert.EqualError(t, err, "file is empty")
}
