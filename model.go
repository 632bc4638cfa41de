// This model contains the structs which match the direct structures of
// exFAT directory records on disk. All fields are little endian.

package exfatprobe

// directoryEntrySize is the on-disk size of one directory record.
const directoryEntrySize = 32

// Type tags as they appear in the first byte of each directory record.
const (
	TypeEndOfDirectory  byte = 0x00
	TypeBitmap          byte = 0x81
	TypeUpcaseTable     byte = 0x82
	TypeVolumeLabel     byte = 0x83
	TypeFile            byte = 0x85
	TypeGUID            byte = 0xA0
	TypeStreamExtension byte = 0xC0
	TypeFileName        byte = 0xC1
)

type bitmapEntryData struct {
	EntryType    byte
	BitmapFlags  byte
	Reserved     [18]byte
	FirstCluster uint32
	DataLength   uint64
}

type upcaseEntryData struct {
	EntryType     byte
	Reserved1     [3]byte
	TableChecksum uint32
	Reserved2     [12]byte
	FirstCluster  uint32
	DataLength    uint64
}

type labelEntryData struct {
	EntryType      byte
	CharacterCount byte
	VolumeLabel    [22]byte
	Reserved       [8]byte
}
