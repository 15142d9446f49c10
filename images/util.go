package images

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"gocv.io/x/gocv"
)

// ComputeMatChecksum generates a deterministic checksum over a Mat's shape and
// pixel bytes, so two stage outputs can be compared without walking pixels.
//
// Returns "empty" for an empty Mat.
func ComputeMatChecksum(mat gocv.Mat) string {
	if mat.Empty() {
		return "empty"
	}

	hash := sha256.New()
	var header [12]byte
	binary.LittleEndian.PutUint32(header[0:], uint32(mat.Rows()))
	binary.LittleEndian.PutUint32(header[4:], uint32(mat.Cols()))
	binary.LittleEndian.PutUint32(header[8:], uint32(mat.Type()))
	hash.Write(header[:])
	hash.Write(mat.ToBytes())
	return fmt.Sprintf("%x", hash.Sum(nil))
}

// CountLevels returns how many pixels of a single-channel 8-bit Mat hold each value.
func CountLevels(mat gocv.Mat) map[uint8]int {
	levels := make(map[uint8]int)
	for y := 0; y < mat.Rows(); y++ {
		for x := 0; x < mat.Cols(); x++ {
			levels[mat.GetUCharAt(y, x)]++
		}
	}
	return levels
}
