package exfatprobe

import (
	"errors"
	"fmt"

	"github.com/vdiskfs/exfatprobe/checkpoint"
)

// These errors may occur while translating addresses.
var (
	ErrClusterReserved = errors.New("clusters 0 and 1 are reserved and have no location in the cluster heap")
	ErrInvalidGeometry = errors.New("invalid volume geometry")
)

// Layout parameters of the volumes this tool usually inspects.
// They match what common exFAT formatters produce for small images.
const (
	DefaultSectorSize        = 512
	DefaultClusterSize       = 32 * 1024
	DefaultClusterHeapOffset = 256
)

// firstHeapCluster is the lowest valid cluster number.
// exFAT starts counting clusters of the heap at 2.
const firstHeapCluster = 2

// Geometry holds the layout parameters of an exFAT volume that are
// needed to locate sectors and clusters. The values normally come from
// the boot sector; this tool takes them as input instead so that it
// stays usable on images whose boot region is damaged.
type Geometry struct {
	// SectorSize is the size of one sector in bytes.
	SectorSize uint32
	// ClusterSize is the size of one cluster in bytes.
	// It is normally a multiple of SectorSize.
	ClusterSize uint32
	// ClusterHeapOffset is the start of the cluster heap in sectors,
	// relative to the partition start.
	ClusterHeapOffset uint32
}

// DefaultGeometry returns the layout produced by common formatters:
// 512 byte sectors, 32 KiB clusters and a cluster heap starting at
// sector 256.
func DefaultGeometry() Geometry {
	return Geometry{
		SectorSize:        DefaultSectorSize,
		ClusterSize:       DefaultClusterSize,
		ClusterHeapOffset: DefaultClusterHeapOffset,
	}
}

// Validate checks that all layout parameters are usable.
func (g Geometry) Validate() error {
	if g.SectorSize == 0 {
		return checkpoint.Wrap(fmt.Errorf("sector size must not be zero"), ErrInvalidGeometry)
	}
	if g.ClusterSize == 0 {
		return checkpoint.Wrap(fmt.Errorf("cluster size must not be zero"), ErrInvalidGeometry)
	}
	if g.ClusterHeapOffset == 0 {
		return checkpoint.Wrap(fmt.Errorf("cluster heap offset must not be zero"), ErrInvalidGeometry)
	}

	return nil
}

// SectorOffset returns the absolute byte offset of a sector inside the
// image. The sector number counts from the partition start. Whether the
// offset is inside the image is not checked here, reading it will fail
// instead.
func (g Geometry) SectorOffset(partitionOffset int64, sector uint32) int64 {
	return partitionOffset + int64(sector)*int64(g.SectorSize)
}

// ClusterOffset returns the absolute byte offset of a cluster of the
// cluster heap inside the image. It fails with ErrClusterReserved for
// the reserved cluster numbers 0 and 1, which do not map to any
// location on disk.
func (g Geometry) ClusterOffset(partitionOffset int64, cluster uint32) (int64, error) {
	if cluster < firstHeapCluster {
		return 0, checkpoint.Wrap(fmt.Errorf("cluster %d", cluster), ErrClusterReserved)
	}

	heapStart := partitionOffset + int64(g.ClusterHeapOffset)*int64(g.SectorSize)

	return heapStart + int64(cluster-firstHeapCluster)*int64(g.ClusterSize), nil
}
