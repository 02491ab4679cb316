package pwhash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFamilyFromName(t *testing.T) {
	for name, want := range map[string]Family{
		"Argon2d":  Argon2d,
		"Argon2i":  Argon2i,
		"Argon2id": Argon2id,
	} {
		got, err := FamilyFromName(name)
		require.NoError(t, err)
		require.Equal(t, want, got)
		require.Equal(t, name, got.String())
	}

	_, err := FamilyFromName("Scrypt")
	require.Error(t, err)
	require.Contains(t, err.Error(), `"Scrypt"`)
}

func TestNewValidation(t *testing.T) {
	_, err := New(Argon2d, 1024, 1, 1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not implemented")

	_, err = New(Argon2id, 0, 1, 1)
	require.Error(t, err)
	_, err = New(Argon2id, 1024, 0, 1)
	require.Error(t, err)
	_, err = New(Argon2id, 1024, 1, 0)
	require.Error(t, err)

	a, err := New(Argon2id, 1024, 1, 1)
	require.NoError(t, err)
	require.Equal(t, uint32(1024), a.Memory())
	require.Equal(t, uint32(1), a.Passes())
	require.Equal(t, uint8(1), a.Lanes())
	require.Equal(t, uint64(1024*1024), a.TotalMemoryUsage())
	require.Equal(t, "Argon2id(1024,1,1)", a.String())
}

func TestDefaults(t *testing.T) {
	i, err := Default(Argon2i)
	require.NoError(t, err)
	require.Equal(t, uint32(32*1024), i.Memory())
	require.Equal(t, uint32(3), i.Passes())

	id, err := Default(Argon2id)
	require.NoError(t, err)
	require.Equal(t, uint32(64*1024), id.Memory())
	require.Equal(t, uint32(1), id.Passes())
}

func TestDeriveKeyDeterministic(t *testing.T) {
	for _, family := range []Family{Argon2i, Argon2id} {
		a, err := New(family, 1024, 1, 1)
		require.NoError(t, err)

		salt := []byte("0123456789abcdef")
		k1 := a.DeriveKey([]byte("hunter2"), salt, 32)
		k2 := a.DeriveKey([]byte("hunter2"), salt, 32)
		require.Len(t, k1, 32)
		require.Equal(t, k1, k2, family.String())

		k3 := a.DeriveKey([]byte("hunter3"), salt, 32)
		require.NotEqual(t, k1, k3)
		k4 := a.DeriveKey([]byte("hunter2"), []byte("fedcba9876543210"), 32)
		require.NotEqual(t, k1, k4)
	}
}

func TestVariantsDiffer(t *testing.T) {
	salt := []byte("0123456789abcdef")
	i, _ := New(Argon2i, 1024, 1, 1)
	id, _ := New(Argon2id, 1024, 1, 1)
	require.NotEqual(t,
		i.DeriveKey([]byte("hunter2"), salt, 32),
		id.DeriveKey([]byte("hunter2"), salt, 32))
}
