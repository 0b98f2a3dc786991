package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageMeta_NextPage(t *testing.T) {
	next, ok := PageMeta{CurrentPage: 1, TotalPages: 3}.NextPage()
	assert.True(t, ok)
	assert.Equal(t, 2, next)

	_, ok = PageMeta{CurrentPage: 3, TotalPages: 3}.NextPage()
	assert.False(t, ok)

	_, ok = PageMeta{}.NextPage()
	assert.False(t, ok)
}

func TestTokenPair_Empty(t *testing.T) {
	assert.True(t, TokenPair{}.Empty())
	assert.False(t, TokenPair{RefreshToken: "r"}.Empty())
}
