package gemini

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPCMRate(t *testing.T) {
	cases := []struct {
		mime string
		rate int
		ok   bool
	}{
		{"audio/L16;codec=pcm;rate=24000", 24000, true},
		{"audio/L16; rate=16000", 16000, true},
		{"audio/pcm", 24000, true},
		{"audio/mpeg", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		rate, ok := pcmRate(tc.mime)
		assert.Equal(t, tc.ok, ok, tc.mime)
		assert.Equal(t, tc.rate, rate, tc.mime)
	}
}

func TestWrapPCM(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	wav := WrapPCM(pcm, 24000)

	require.Len(t, wav, 48)
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, uint32(40), binary.LittleEndian.Uint32(wav[4:8]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, uint32(4), binary.LittleEndian.Uint32(wav[40:44]))
	assert.Equal(t, pcm, wav[44:])
}
