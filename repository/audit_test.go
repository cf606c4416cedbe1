package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashHex_EncodesBytesAsLowercaseHex(t *testing.T) {
	var h [32]byte
	h[0] = 0xab
	h[1] = 0x01
	h[31] = 0xff

	got := hashHex(h)

	assert.Len(t, got, 64)
	assert.Equal(t, "ab01", got[:4])
	assert.Equal(t, "ff", got[len(got)-2:])
}

func TestHashHex_ZeroValue(t *testing.T) {
	var h [32]byte
	got := hashHex(h)
	assert.Equal(t, 64, len(got))
	for _, c := range got {
		assert.Equal(t, byte('0'), byte(c))
	}
}
