package ai

import "encoding/binary"

const (
	speechSampleRate = 24000
	speechChannels   = 1
	speechBitDepth   = 16
)

// pcmToWAV wraps raw little-endian 16-bit mono PCM in a RIFF/WAVE
// container so browsers can play it directly.
func pcmToWAV(pcm []byte) []byte {
	const headerLen = 44
	dataLen := len(pcm)
	byteRate := speechSampleRate * speechChannels * speechBitDepth / 8
	blockAlign := speechChannels * speechBitDepth / 8

	out := make([]byte, headerLen+dataLen)
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+dataLen))
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(out[22:24], speechChannels)
	binary.LittleEndian.PutUint32(out[24:28], speechSampleRate)
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], speechBitDepth)
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(dataLen))
	copy(out[headerLen:], pcm)
	return out
}
