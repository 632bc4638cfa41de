package exfatprobe

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"unicode/utf16"
)

// InvalidLabel is reported as the text of a volume label whose bytes
// are no valid UTF-16. Corrupt label text is a local finding, not a
// reason to stop the scan.
const InvalidLabel = "<invalid>"

// guidOffset is the position of the identifier bytes inside a GUID
// record, guidLength their count.
const (
	guidOffset = 20
	guidLength = 16
)

// DirectoryEntry is one decoded 32 byte record of a directory cluster.
// The concrete type is one of the variants below, with UnknownEntry
// covering every type tag this tool does not know.
type DirectoryEntry interface {
	// EntryType returns the raw type tag of the record.
	EntryType() byte
}

// EndOfDirectory terminates a directory. No record behind it is valid.
type EndOfDirectory struct{}

func (EndOfDirectory) EntryType() byte { return TypeEndOfDirectory }

// BitmapEntry describes the allocation bitmap of the cluster heap.
type BitmapEntry struct {
	FirstCluster uint32
	SizeBits     uint64
}

func (BitmapEntry) EntryType() byte { return TypeBitmap }

// UpcaseTableEntry describes the case folding table of the volume.
type UpcaseTableEntry struct {
	Checksum     uint32
	FirstCluster uint32
}

func (UpcaseTableEntry) EntryType() byte { return TypeUpcaseTable }

// VolumeLabelEntry carries the user visible name of the volume.
// Valid is false if the on-disk text was no decodable UTF-16, in which
// case Label is InvalidLabel.
type VolumeLabelEntry struct {
	Label  string
	Length uint8
	Valid  bool
}

func (VolumeLabelEntry) EntryType() byte { return TypeVolumeLabel }

// GUIDEntry carries the volume identifier. The bytes are surfaced as
// they are on disk, nothing about them is validated.
type GUIDEntry struct {
	GUID [guidLength]byte
}

func (GUIDEntry) EntryType() byte { return TypeGUID }

// String returns the identifier as plain hex.
func (e GUIDEntry) String() string {
	return hex.EncodeToString(e.GUID[:])
}

// FileEntry marks a file or directory record. Only the presence is
// decoded, the record fields and its secondary records are not.
type FileEntry struct{}

func (FileEntry) EntryType() byte { return TypeFile }

// StreamExtensionEntry marks the stream extension secondary record of a
// file. Decoded as a tag only, see FileEntry.
type StreamExtensionEntry struct{}

func (StreamExtensionEntry) EntryType() byte { return TypeStreamExtension }

// FileNameEntry marks a file name secondary record.
// Decoded as a tag only, see FileEntry.
type FileNameEntry struct{}

func (FileNameEntry) EntryType() byte { return TypeFileName }

// UnknownEntry is emitted for every type tag this tool does not know,
// so that unexpected records still show up in a report.
type UnknownEntry struct {
	Type byte
}

func (e UnknownEntry) EntryType() byte { return e.Type }

// DecodeDirectoryEntries decodes the directory records of one cluster.
//
// The cluster is scanned as consecutive 32 byte windows starting at
// offset 0. The scan stops either on an end-of-directory record, which
// is emitted as the last entry no matter how much data is left, or on a
// trailing window shorter than 32 bytes, which is dropped without a
// record. Records are independent of each other; grouping a file record
// with its secondary records is out of scope here.
func DecodeDirectoryEntries(data []byte) []DirectoryEntry {
	var entries []DirectoryEntry

	for offset := 0; offset+directoryEntrySize <= len(data); offset += directoryEntrySize {
		entry := decodeDirectoryEntry(data, offset)
		entries = append(entries, entry)

		if entry.EntryType() == TypeEndOfDirectory {
			break
		}
	}

	return entries
}

// decodeDirectoryEntry decodes the record in the 32 byte window at
// offset. The full buffer is passed along because a GUID record's
// identifier field runs up to the window end and beyond, see
// decodeGUIDEntry.
func decodeDirectoryEntry(data []byte, offset int) DirectoryEntry {
	window := data[offset : offset+directoryEntrySize]

	switch window[0] {
	case TypeEndOfDirectory:
		return EndOfDirectory{}
	case TypeBitmap:
		return decodeBitmapEntry(window)
	case TypeUpcaseTable:
		return decodeUpcaseEntry(window)
	case TypeVolumeLabel:
		return decodeLabelEntry(window)
	case TypeGUID:
		return decodeGUIDEntry(data[offset:])
	case TypeFile:
		return FileEntry{}
	case TypeStreamExtension:
		return StreamExtensionEntry{}
	case TypeFileName:
		return FileNameEntry{}
	default:
		return UnknownEntry{Type: window[0]}
	}
}

func decodeBitmapEntry(window []byte) BitmapEntry {
	var raw bitmapEntryData
	// Cannot fail, the window always holds exactly one record.
	_ = binary.Read(bytes.NewReader(window), binary.LittleEndian, &raw)

	return BitmapEntry{
		FirstCluster: raw.FirstCluster,
		SizeBits:     raw.DataLength,
	}
}

func decodeUpcaseEntry(window []byte) UpcaseTableEntry {
	var raw upcaseEntryData
	_ = binary.Read(bytes.NewReader(window), binary.LittleEndian, &raw)

	return UpcaseTableEntry{
		Checksum:     raw.TableChecksum,
		FirstCluster: raw.FirstCluster,
	}
}

func decodeLabelEntry(window []byte) VolumeLabelEntry {
	var raw labelEntryData
	_ = binary.Read(bytes.NewReader(window), binary.LittleEndian, &raw)

	// A character count beyond the record is clamped to the window, an
	// odd tail then simply fails the UTF-16 decode below.
	start := 2
	end := start + 2*int(raw.CharacterCount)
	if end > directoryEntrySize {
		end = directoryEntrySize
	}

	label, ok := decodeUTF16(window[start:end])
	if !ok {
		label = InvalidLabel
	}

	return VolumeLabelEntry{
		Label:  label,
		Length: raw.CharacterCount,
		Valid:  ok,
	}
}

// decodeGUIDEntry reads the identifier bytes starting at offset 20 of
// the record. The field is specified as 16 bytes and therefore crosses
// the record boundary; whatever the buffer still provides is taken, the
// rest stays zero.
func decodeGUIDEntry(data []byte) GUIDEntry {
	var entry GUIDEntry

	end := guidOffset + guidLength
	if end > len(data) {
		end = len(data)
	}
	copy(entry.GUID[:], data[guidOffset:end])

	return entry
}

// decodeUTF16 decodes little endian UTF-16 text. It reports false for
// byte sequences that are no valid UTF-16, like an odd byte count or an
// unpaired surrogate.
func decodeUTF16(data []byte) (string, bool) {
	if len(data)%2 != 0 {
		return "", false
	}

	units := make([]uint16, len(data)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(data[2*i:])
	}

	for i := 0; i < len(units); i++ {
		if !utf16.IsSurrogate(rune(units[i])) {
			continue
		}

		// A high surrogate must be directly followed by a low one.
		if units[i] >= 0xDC00 || i+1 >= len(units) || units[i+1] < 0xDC00 || units[i+1] >= 0xE000 {
			return "", false
		}
		i++
	}

	return string(utf16.Decode(units)), true
}
