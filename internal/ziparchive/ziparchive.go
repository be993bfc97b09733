// Package ziparchive encodes text entries into an uncompressed ZIP archive.
//
// The output is byte-exact and deterministic: every entry uses the stored
// method, all timestamps are zero and no extra fields, comments or data
// descriptors are written. Identical input always yields identical bytes.
package ziparchive

import "encoding/binary"

// Record signatures and fixed header sizes.
const (
	LocalHeaderSignature   = 0x04034B50
	CentralHeaderSignature = 0x02014B50
	EndRecordSignature     = 0x06054B50

	LocalHeaderLen   = 30
	CentralHeaderLen = 46
	EndRecordLen     = 22

	// zipVersion is written as both "version made by" and "version needed".
	zipVersion = 20
)

// Entry is one archive member. Content is stored as its UTF-8 bytes.
type Entry struct {
	Name    string
	Content string
}

// Create encodes entries, in order, into a new ZIP archive.
//
// Create never fails. Empty names, empty content and duplicate names are
// written as given; an empty list yields a bare end-of-central-directory
// record. Lengths and counts that exceed their field width are truncated
// to it, so callers that need archives beyond 65535 entries or 4 GiB must
// split them.
func Create(entries []Entry) []byte {
	var local, central []byte
	var offset uint32

	for _, e := range entries {
		name := []byte(e.Name)
		data := []byte(e.Content)
		crc := Checksum(data)
		size := uint32(len(data))

		start := len(local)
		local = appendLocalHeader(local, crc, size, uint16(len(name)))
		local = append(local, name...)
		local = append(local, data...)

		central = appendCentralHeader(central, crc, size, uint16(len(name)), offset)
		central = append(central, name...)

		offset += uint32(len(local) - start)
	}

	out := make([]byte, 0, len(local)+len(central)+EndRecordLen)
	out = append(out, local...)
	out = append(out, central...)
	return appendEndRecord(out, uint16(len(entries)), uint32(len(central)), offset)
}

// Size reports the length of the archive Create would return for entries
// without encoding it.
func Size(entries []Entry) int {
	n := EndRecordLen
	for _, e := range entries {
		n += LocalHeaderLen + CentralHeaderLen + 2*len(e.Name) + len(e.Content)
	}
	return n
}

func appendLocalHeader(b []byte, crc, size uint32, nameLen uint16) []byte {
	le := binary.LittleEndian
	b = le.AppendUint32(b, LocalHeaderSignature)
	b = le.AppendUint16(b, zipVersion) // version needed
	b = le.AppendUint16(b, 0)          // flags
	b = le.AppendUint16(b, 0)          // method: stored
	b = le.AppendUint16(b, 0)          // mod time
	b = le.AppendUint16(b, 0)          // mod date
	b = le.AppendUint32(b, crc)
	b = le.AppendUint32(b, size) // compressed
	b = le.AppendUint32(b, size) // uncompressed
	b = le.AppendUint16(b, nameLen)
	return le.AppendUint16(b, 0) // extra length
}

func appendCentralHeader(b []byte, crc, size uint32, nameLen uint16, offset uint32) []byte {
	le := binary.LittleEndian
	b = le.AppendUint32(b, CentralHeaderSignature)
	b = le.AppendUint16(b, zipVersion) // version made by
	b = le.AppendUint16(b, zipVersion) // version needed
	b = le.AppendUint16(b, 0)          // flags
	b = le.AppendUint16(b, 0)          // method: stored
	b = le.AppendUint16(b, 0)          // mod time
	b = le.AppendUint16(b, 0)          // mod date
	b = le.AppendUint32(b, crc)
	b = le.AppendUint32(b, size) // compressed
	b = le.AppendUint32(b, size) // uncompressed
	b = le.AppendUint16(b, nameLen)
	b = le.AppendUint16(b, 0) // extra length
	b = le.AppendUint16(b, 0) // comment length
	b = le.AppendUint16(b, 0) // disk number start
	b = le.AppendUint16(b, 0) // internal attributes
	b = le.AppendUint32(b, 0) // external attributes
	return le.AppendUint32(b, offset)
}

func appendEndRecord(b []byte, count uint16, cdSize, cdOffset uint32) []byte {
	le := binary.LittleEndian
	b = le.AppendUint32(b, EndRecordSignature)
	b = le.AppendUint16(b, 0) // this disk
	b = le.AppendUint16(b, 0) // disk with central directory
	b = le.AppendUint16(b, count)
	b = le.AppendUint16(b, count)
	b = le.AppendUint32(b, cdSize)
	b = le.AppendUint32(b, cdOffset)
	return le.AppendUint16(b, 0) // comment length
}
