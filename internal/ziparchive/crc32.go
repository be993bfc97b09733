package ziparchive

// crcPolynomial is the reflected IEEE 802.3 polynomial.
const crcPolynomial = 0xEDB88320

// crcTable is filled once at package init and never written again.
var crcTable = makeCRCTable()

func makeCRCTable() *[256]uint32 {
	var table [256]uint32
	for i := range table {
		c := uint32(i)
		for k := 0; k < 8; k++ {
			if c&1 == 1 {
				c = (c >> 1) ^ crcPolynomial
			} else {
				c >>= 1
			}
		}
		table[i] = c
	}
	return &table
}

// Checksum returns the CRC-32 of data as stored in ZIP headers.
// The checksum of an empty slice is 0.
func Checksum(data []byte) uint32 {
	crc := ^uint32(0)
	for _, b := range data {
		crc = (crc >> 8) ^ crcTable[byte(crc)^b]
	}
	return ^crc
}
