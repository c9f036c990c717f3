package utils

// Checksum calculates the 8-bit checksum of data over the
// inclusive range [begin, end], using the same algorithm as
// the cartridge header checksum:
//
//	x = 0
//	for i := begin; i <= end; i++ {
//		x = x - data[i] - 1
//	}
func Checksum(data []byte, begin, end int) uint8 {
	var x uint8
	for i := begin; i <= end; i++ {
		x = x - data[i] - 1
	}
	return x
}
