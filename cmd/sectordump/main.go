// sectordump reads one sector of an exFAT partition embedded in a disk
// image and hex-dumps it. Sectors inside the FAT region are
// additionally decoded as FAT entries.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/vdiskfs/exfatprobe"
)

const dumpLimit = 64

// FAT region of the images this tool is normally pointed at, in
// sectors relative to the partition start.
const (
	fatRegionStart = 128
	fatRegionEnd   = 256
)

// fatEntryLimit caps the decoded FAT listing to the entries covered by
// the hex dump above it.
const fatEntryLimit = dumpLimit / 4

var (
	sectorSize  uint32
	clusterSize uint32
	heapOffset  uint32
)

var rootCmd = &cobra.Command{
	Use:   "sectordump <image> <partition_offset_hex> <sector_num>",
	Short: "Hex-dump one sector of an exFAT partition inside a disk image",
	Args:  cobra.ExactArgs(3),
	RunE:  run,
}

func init() {
	rootCmd.Flags().Uint32Var(&sectorSize, "sector-size", exfatprobe.DefaultSectorSize, "sector size of the volume in bytes")
	rootCmd.Flags().Uint32Var(&clusterSize, "cluster-size", exfatprobe.DefaultClusterSize, "cluster size of the volume in bytes")
	rootCmd.Flags().Uint32Var(&heapOffset, "heap-offset", exfatprobe.DefaultClusterHeapOffset, "start of the cluster heap in sectors")
}

func run(cmd *cobra.Command, args []string) error {
	image := args[0]

	partitionOffset, err := parseHex(args[1])
	if err != nil {
		return fmt.Errorf("invalid partition offset %q: %w", args[1], err)
	}

	sector, err := strconv.ParseUint(args[2], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid sector number %q: %w", args[2], err)
	}

	geometry := exfatprobe.Geometry{
		SectorSize:        sectorSize,
		ClusterSize:       clusterSize,
		ClusterHeapOffset: heapOffset,
	}

	inspector, err := exfatprobe.NewInspector(exfatprobe.NewImageSource(afero.NewOsFs(), image), geometry)
	if err != nil {
		return err
	}

	// From here on failures are findings about the image, not usage
	// errors. They are reported but do not fail the process.
	cmd.SilenceUsage = true

	fmt.Printf("Analyzing image: %s\n", image)
	fmt.Printf("Partition offset: 0x%X\n", partitionOffset)
	fmt.Printf("Sector: %d\n\n", sector)

	data, err := inspector.ReadSector(int64(partitionOffset), uint32(sector))
	switch {
	case errors.Is(err, exfatprobe.ErrTruncatedRead):
		logrus.WithError(err).Warn("the image ends inside the sector, decoding the available bytes")
	case err != nil:
		logrus.WithError(err).Error("could not read the sector")
		return nil
	}

	fmt.Print(exfatprobe.Dump(data, dumpLimit))
	fmt.Println()

	if sector >= fatRegionStart && sector < fatRegionEnd {
		fmt.Println("=== FAT sector ===")
		exfatprobe.NewReport(os.Stdout).FATSector(exfatprobe.DecodeFATSector(data), fatEntryLimit)
	}

	return nil
}

// parseHex parses a hex number with or without 0x prefix into a value
// that still fits an int64 offset.
func parseHex(s string) (uint64, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")

	return strconv.ParseUint(s, 16, 63)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
