package exfatprobe

import (
	"encoding/binary"
	"reflect"
	"testing"
)

// record builds one 32 byte directory record with the given type tag.
func record(entryType byte) []byte {
	data := make([]byte, directoryEntrySize)
	data[0] = entryType

	return data
}

// bitmapRecord encodes a Bitmap record like the formatter writes it.
func bitmapRecord(firstCluster uint32, sizeBits uint64) []byte {
	data := record(TypeBitmap)
	binary.LittleEndian.PutUint32(data[20:], firstCluster)
	binary.LittleEndian.PutUint64(data[24:], sizeBits)

	return data
}

// upcaseRecord encodes an Upcase Table record.
func upcaseRecord(checksum, firstCluster uint32) []byte {
	data := record(TypeUpcaseTable)
	binary.LittleEndian.PutUint32(data[4:], checksum)
	binary.LittleEndian.PutUint32(data[20:], firstCluster)

	return data
}

// labelRecord encodes a Volume Label record with raw label bytes.
func labelRecord(length byte, label []byte) []byte {
	data := record(TypeVolumeLabel)
	data[1] = length
	copy(data[2:], label)

	return data
}

func TestDecodeDirectoryEntries(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []DirectoryEntry
	}{
		{
			name: "bitmap record round trip",
			data: bitmapRecord(2, 4253),
			want: []DirectoryEntry{
				BitmapEntry{FirstCluster: 2, SizeBits: 4253},
			},
		},
		{
			name: "upcase record round trip",
			data: upcaseRecord(0xE619D30D, 3),
			want: []DirectoryEntry{
				UpcaseTableEntry{Checksum: 0xE619D30D, FirstCluster: 3},
			},
		},
		{
			name: "ascii volume label",
			data: labelRecord(3, []byte{'A', 0, 'B', 0, 'C', 0}),
			want: []DirectoryEntry{
				VolumeLabelEntry{Label: "ABC", Length: 3, Valid: true},
			},
		},
		{
			name: "label with an unpaired surrogate",
			data: labelRecord(1, []byte{0x00, 0xD8}),
			want: []DirectoryEntry{
				VolumeLabelEntry{Label: InvalidLabel, Length: 1, Valid: false},
			},
		},
		{
			name: "label with a surrogate pair",
			data: labelRecord(2, []byte{0x3D, 0xD8, 0x00, 0xDE}),
			want: []DirectoryEntry{
				VolumeLabelEntry{Label: "\U0001F600", Length: 2, Valid: true},
			},
		},
		{
			name: "end of directory stops the scan",
			data: append(record(TypeEndOfDirectory), record(TypeFile)...),
			want: []DirectoryEntry{
				EndOfDirectory{},
			},
		},
		{
			name: "tag only records",
			data: append(append(record(TypeFile), record(TypeStreamExtension)...), record(TypeFileName)...),
			want: []DirectoryEntry{
				FileEntry{},
				StreamExtensionEntry{},
				FileNameEntry{},
			},
		},
		{
			name: "unknown type tag",
			data: record(0x7F),
			want: []DirectoryEntry{
				UnknownEntry{Type: 0x7F},
			},
		},
		{
			name: "trailing partial window is dropped",
			data: append(record(TypeFile), 0x81, 0x00, 0x00),
			want: []DirectoryEntry{
				FileEntry{},
			},
		},
		{
			name: "buffer shorter than one record",
			data: []byte{0x85, 0x02},
			want: nil,
		},
		{
			name: "empty buffer",
			data: nil,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeDirectoryEntries(tt.data); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeDirectoryEntries() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeDirectoryEntries_GUID(t *testing.T) {
	// The identifier field starts at offset 20 and is 16 bytes long, so
	// it runs 4 bytes into the following record.
	data := append(record(TypeGUID), record(TypeEndOfDirectory)...)
	for i := 0; i < guidLength; i++ {
		data[guidOffset+i] = byte(i + 1)
	}

	entries := DecodeDirectoryEntries(data)
	if len(entries) != 2 {
		t.Fatalf("DecodeDirectoryEntries() returned %d entries, want 2", len(entries))
	}

	guid, ok := entries[0].(GUIDEntry)
	if !ok {
		t.Fatalf("entries[0] = %T, want GUIDEntry", entries[0])
	}

	want := [guidLength]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	if guid.GUID != want {
		t.Errorf("GUIDEntry.GUID = %v, want %v", guid.GUID, want)
	}
	if got := guid.String(); got != "0102030405060708090a0b0c0d0e0f10" {
		t.Errorf("GUIDEntry.String() = %v", got)
	}
}

// TestDecodeDirectoryEntries_GUIDAtBufferEnd ensures that an
// identifier cut off by the buffer end is zero padded instead of read
// out of range.
func TestDecodeDirectoryEntries_GUIDAtBufferEnd(t *testing.T) {
	data := record(TypeGUID)
	for i := guidOffset; i < directoryEntrySize; i++ {
		data[i] = 0xFF
	}

	entries := DecodeDirectoryEntries(data)
	if len(entries) != 1 {
		t.Fatalf("DecodeDirectoryEntries() returned %d entries, want 1", len(entries))
	}

	guid := entries[0].(GUIDEntry)
	want := [guidLength]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0, 0, 0, 0}
	if guid.GUID != want {
		t.Errorf("GUIDEntry.GUID = %v, want %v", guid.GUID, want)
	}
}

func Test_decodeUTF16(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		want      string
		wantValid bool
	}{
		{
			name:      "empty",
			data:      nil,
			want:      "",
			wantValid: true,
		},
		{
			name:      "plain ascii",
			data:      []byte{'R', 0, 'I', 0, 'M', 0},
			want:      "RIM",
			wantValid: true,
		},
		{
			name:      "odd byte count",
			data:      []byte{'A', 0, 'B'},
			wantValid: false,
		},
		{
			name:      "lone high surrogate",
			data:      []byte{0x00, 0xD8},
			wantValid: false,
		},
		{
			name:      "lone low surrogate",
			data:      []byte{0x00, 0xDC},
			wantValid: false,
		},
		{
			name:      "high surrogate at the end",
			data:      []byte{'A', 0, 0x3D, 0xD8},
			wantValid: false,
		},
		{
			name:      "surrogate pair",
			data:      []byte{0x3D, 0xD8, 0x00, 0xDE},
			want:      "\U0001F600",
			wantValid: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, valid := decodeUTF16(tt.data)
			if valid != tt.wantValid {
				t.Errorf("decodeUTF16() valid = %v, want %v", valid, tt.wantValid)
				return
			}
			if valid && got != tt.want {
				t.Errorf("decodeUTF16() = %q, want %q", got, tt.want)
			}
		})
	}
}
