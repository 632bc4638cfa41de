package exfatprobe

import (
	"github.com/vdiskfs/exfatprobe/checkpoint"
)

// Inspector reads single sectors and clusters of an exFAT partition
// embedded in a disk image. It only locates and fetches the raw bytes,
// decoding them is up to the caller.
type Inspector struct {
	source   Source
	geometry Geometry
}

// NewInspector returns an Inspector reading from source with the given
// layout. It fails with ErrInvalidGeometry before any I/O if the layout
// parameters are unusable.
func NewInspector(source Source, geometry Geometry) (*Inspector, error) {
	if err := geometry.Validate(); err != nil {
		return nil, checkpoint.From(err)
	}

	return &Inspector{
		source:   source,
		geometry: geometry,
	}, nil
}

// ReadSector reads one sector, counted from the partition start.
func (i *Inspector) ReadSector(partitionOffset int64, sector uint32) ([]byte, error) {
	offset := i.geometry.SectorOffset(partitionOffset, sector)

	return i.source.ReadAt(offset, int(i.geometry.SectorSize))
}

// ReadCluster reads one cluster of the cluster heap. A cluster cut off
// by the image end is returned together with ErrTruncatedRead so the
// caller can decide whether decoding the remainder still makes sense.
func (i *Inspector) ReadCluster(partitionOffset int64, cluster uint32) ([]byte, error) {
	offset, err := i.geometry.ClusterOffset(partitionOffset, cluster)
	if err != nil {
		return nil, err
	}

	return i.source.ReadAt(offset, int(i.geometry.ClusterSize))
}
