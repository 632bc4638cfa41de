package exfatprobe

import (
	"encoding/binary"
	"fmt"
)

// FatEntry is one 32 bit entry of the File Allocation Table. Its value
// either points to the next cluster of a chain or carries one of the
// reserved sentinel values defined by exFAT.
type FatEntry uint32

// Sentinel values of the exFAT FAT.
const (
	fatEntryFree       FatEntry = 0x00000000
	fatEntryBadCluster FatEntry = 0xFFFFFFF7
	fatEntryEndOfChain FatEntry = 0xFFFFFFFF
)

// Value returns the entry as plain uint32.
func (e FatEntry) Value() uint32 {
	return uint32(e)
}

// IsFree reports whether the cluster the entry belongs to is unused.
func (e FatEntry) IsFree() bool {
	return e == fatEntryFree
}

// IsBadCluster reports whether the cluster is marked as unusable.
func (e FatEntry) IsBadCluster() bool {
	return e == fatEntryBadCluster
}

// IsEndOfChain reports whether the entry terminates a cluster chain.
func (e FatEntry) IsEndOfChain() bool {
	return e == fatEntryEndOfChain
}

// Describe returns a short classification of the entry value for
// diagnostic output. Chain following itself is out of scope, the value
// is only named, never resolved.
func (e FatEntry) Describe() string {
	switch {
	case e.IsFree():
		return "free"
	case e.IsBadCluster():
		return "bad cluster"
	case e.IsEndOfChain():
		return "end of chain"
	case e > fatEntryBadCluster:
		return "reserved"
	default:
		return fmt.Sprintf("next cluster %d", uint32(e))
	}
}

// fatRecordSize is the on-disk size of one FAT entry in bytes.
const fatRecordSize = 4

// Indices of the two reserved entries at the start of the table.
const (
	fatIndexMediaDescriptor = 0
	fatIndexReserved        = 1
)

// FATRecord is a decoded FAT entry together with its index inside the
// decoded sector. For the first FAT sector the index is also the
// cluster number the entry belongs to.
type FATRecord struct {
	Index uint32
	Value FatEntry
}

// Special reports whether the record is one of the two reserved entries
// at the start of the table. Those never point to a cluster, the first
// holds the media descriptor word (normally 0xFFFFFFF8) and the second
// is fixed padding.
func (r FATRecord) Special() bool {
	return r.Index < firstHeapCluster
}

// Label names the record for diagnostic output.
func (r FATRecord) Label() string {
	switch r.Index {
	case fatIndexMediaDescriptor:
		return "media descriptor"
	case fatIndexReserved:
		return "reserved"
	default:
		return r.Value.Describe()
	}
}

// DecodeFATSector interprets data as a run of 32 bit little endian FAT
// entries, one record per complete 4 byte word. A dangling partial word
// at the end is not emitted. The raw values are surfaced as they are,
// what they mean for a cluster chain is left to the caller.
func DecodeFATSector(data []byte) []FATRecord {
	records := make([]FATRecord, 0, len(data)/fatRecordSize)

	for offset := 0; offset+fatRecordSize <= len(data); offset += fatRecordSize {
		records = append(records, FATRecord{
			Index: uint32(offset / fatRecordSize),
			Value: FatEntry(binary.LittleEndian.Uint32(data[offset:])),
		})
	}

	return records
}
