package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	autherror "github.com/AnthoniusHendriyanto/academy-service/internal/errors"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("Secret1!")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	assert.True(t, h.Compare(hash, "Secret1!"))
	assert.False(t, h.Compare(hash, "secret1!"))
	assert.False(t, h.Compare("not-a-hash", "Secret1!"))
}

func TestBcryptHasher_OutOfRangeCostFallsBack(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}

func TestBcryptHasher_TooLong(t *testing.T) {
	// 40 runes but 80 bytes, so only bcrypt itself can reject it.
	_, err := NewBcryptHasher(bcrypt.MinCost).Hash(strings.Repeat("é", 40))
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
	assert.ErrorIs(t, err, autherror.ErrValidation)
	assert.Equal(t, "password must be at most 72 bytes", err.Error())
}
