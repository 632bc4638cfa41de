// clusterdump reads one cluster of an exFAT partition embedded in a
// disk image and decodes it as directory records. Typically pointed at
// the root directory cluster of a damaged volume.
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

// dumpLimit caps the raw preview, a full 32 KiB cluster dump would
// drown the decoded listing.
const dumpLimit = 256

var (
	sectorSize  uint32
	clusterSize uint32
	heapOffset  uint32
)

var rootCmd = &cobra.Command{
	Use:   "clusterdump <image> <partition_offset_hex> <cluster_num>",
	Short: "Decode the directory records of one exFAT cluster inside a disk image",
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

	cluster, err := strconv.ParseUint(args[2], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid cluster number %q: %w", args[2], err)
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

	fmt.Printf("Analyzing cluster %d in: %s\n", cluster, image)
	fmt.Printf("Partition offset: 0x%X\n\n", partitionOffset)

	data, err := inspector.ReadCluster(int64(partitionOffset), uint32(cluster))
	switch {
	case errors.Is(err, exfatprobe.ErrTruncatedRead):
		logrus.WithError(err).Warn("the image ends inside the cluster, decoding the available bytes")
	case err != nil:
		logrus.WithError(err).Error("could not read the cluster")
		return nil
	}

	fmt.Printf("=== Raw data (first %d bytes) ===\n", dumpLimit)
	fmt.Print(exfatprobe.Dump(data, dumpLimit))
	fmt.Println()

	fmt.Println("=== Directory records ===")
	exfatprobe.NewReport(os.Stdout).DirectoryEntries(exfatprobe.DecodeDirectoryEntries(data))

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
