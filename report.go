package exfatprobe

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Report renders decoded structures as a human readable listing.
// All output goes to a single writer, usually stdout.
type Report struct {
	out io.Writer
}

// NewReport returns a Report writing to out.
func NewReport(out io.Writer) *Report {
	return &Report{out: out}
}

// DirectoryEntries prints one block per decoded directory record, in
// scan order.
func (r *Report) DirectoryEntries(entries []DirectoryEntry) {
	for i, entry := range entries {
		switch e := entry.(type) {
		case EndOfDirectory:
			fmt.Fprintf(r.out, "Entry %d: End of Directory\n", i)
		case BitmapEntry:
			fmt.Fprintf(r.out, "Entry %d: Bitmap Entry\n", i)
			fmt.Fprintf(r.out, "  First cluster: %d\n", e.FirstCluster)
			fmt.Fprintf(r.out, "  Size: %d bits (%s)\n", e.SizeBits, humanize.IBytes(e.SizeBits/8))
		case UpcaseTableEntry:
			fmt.Fprintf(r.out, "Entry %d: Upcase Table Entry\n", i)
			fmt.Fprintf(r.out, "  Checksum: 0x%08X\n", e.Checksum)
			fmt.Fprintf(r.out, "  First cluster: %d\n", e.FirstCluster)
		case VolumeLabelEntry:
			fmt.Fprintf(r.out, "Entry %d: Volume Label Entry\n", i)
			fmt.Fprintf(r.out, "  Label: '%s'\n", e.Label)
		case GUIDEntry:
			fmt.Fprintf(r.out, "Entry %d: GUID Entry\n", i)
			fmt.Fprintf(r.out, "  GUID: %s\n", e)
			// The same bytes in RFC 4122 form, handy for comparing
			// against mount logs and formatter output.
			if id, err := uuid.FromBytes(e.GUID[:]); err == nil {
				fmt.Fprintf(r.out, "  UUID: %s\n", id)
			}
		case FileEntry:
			fmt.Fprintf(r.out, "Entry %d: File Entry\n", i)
		case StreamExtensionEntry:
			fmt.Fprintf(r.out, "Entry %d: Stream Extension Entry\n", i)
		case FileNameEntry:
			fmt.Fprintf(r.out, "Entry %d: File Name Entry\n", i)
		case UnknownEntry:
			fmt.Fprintf(r.out, "Entry %d: Unknown type 0x%02X\n", i, e.Type)
		}

		fmt.Fprintln(r.out)
	}
}

// FATSector prints the reserved head of the table followed by the first
// limit records that hold a value. Free (zero) entries are skipped so
// that a mostly empty table stays readable; use the hex dump to look at
// the raw words including the zeros.
func (r *Report) FATSector(records []FATRecord, limit int) {
	if len(records) < firstHeapCluster {
		fmt.Fprintln(r.out, "Sector too short for a FAT header")
		return
	}

	fmt.Fprintf(r.out, "Media descriptor + padding: 0x%08X\n", records[fatIndexMediaDescriptor].Value.Value())
	fmt.Fprintf(r.out, "Second FAT entry: 0x%08X\n", records[fatIndexReserved].Value.Value())

	fmt.Fprintf(r.out, "\nFirst FAT entries:\n")
	for _, record := range records {
		if int(record.Index) >= limit {
			break
		}
		if record.Special() || record.Value.IsFree() {
			continue
		}

		fmt.Fprintf(r.out, "  Cluster %d: 0x%08X (%s)\n", record.Index, record.Value.Value(), record.Label())
	}
}
