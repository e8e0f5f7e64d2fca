package io

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Endianness flag written to new snapshots. Snapshots of either
	// endianness can be read.
	DefaultEndiannessFlag int32 = 0
)

/*
The binary format used for snapshot files is as follows:
    |-- 1 --||-- 2 --||-- ... 3 ... --||-- ... 4 ... --||-- ... 5 ... --|

    1 - (int32) Flag indicating the endianness of the file. 0 indicates a
        little endian byte ordering and -1 indicates a big endian byte order.
    2 - (int32) Size of a SnapshotHeader struct. Checked for consistency.
    3 - (SnapshotHeader) Header containing meta-information about the
        snapshot.
    4 - ([][3]float32) Contiguous block of x, y, z particle positions in
        row-major grid order.
    5 - ([][3]float32) Contiguous block of x, y, z particle normals.
*/
type SnapshotHeader struct {
	Rows, Cols int64
	Step       int64
	Time, Dt   float64
}

// Count returns the number of particles in the snapshot.
func (hd *SnapshotHeader) Count() int {
	return int(hd.Rows * hd.Cols)
}

// SnapshotName returns the name of the snapshot file for the given step.
func SnapshotName(dir string, step int) string {
	return path.Join(dir, fmt.Sprintf("snap_%06d.cloth", step))
}

// endianness converts an endianness flag to a byte order.
func endianness(flag int32) (binary.ByteOrder, error) {
	switch flag {
	case 0:
		return binary.LittleEndian, nil
	case -1:
		return binary.BigEndian, nil
	}
	return nil, fmt.Errorf("Unrecognized endianness flag, %d.", flag)
}

func headerSize() int32 {
	return int32(binary.Size(SnapshotHeader{}))
}

// WriteSnapshot writes the positions and normals of a cloth to a file,
// described by the given header.
func WriteSnapshot(file string, hd *SnapshotHeader, xs, ns []mgl32.Vec3) error {
	if hd.Count() != len(xs) {
		return fmt.Errorf("Header count %d for file %s does not match "+
			"xs length, %d.", hd.Count(), file, len(xs))
	} else if hd.Count() != len(ns) {
		return fmt.Errorf("Header count %d for file %s does not match "+
			"ns length, %d.", hd.Count(), file, len(ns))
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err = writeSnapshot(f, hd, xs, ns); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeSnapshot(w io.Writer, hd *SnapshotHeader, xs, ns []mgl32.Vec3) error {
	order, _ := endianness(DefaultEndiannessFlag)
	wr := bufio.NewWriter(w)

	blocks := []interface{}{DefaultEndiannessFlag, headerSize(), hd, xs, ns}
	for _, block := range blocks {
		if err := binary.Write(wr, order, block); err != nil {
			return err
		}
	}
	return wr.Flush()
}

// readSnapshotHeader reads blocks 1 through 3 from r.
func readSnapshotHeader(
	r io.Reader, hd *SnapshotHeader,
) (binary.ByteOrder, error) {
	var flag, size int32
	// Order doesn't matter for this read, since flags are symmetric.
	if err := binary.Read(r, binary.LittleEndian, &flag); err != nil {
		return nil, err
	}
	order, err := endianness(flag)
	if err != nil {
		return nil, err
	}

	if err := binary.Read(r, order, &size); err != nil {
		return nil, err
	} else if size != headerSize() {
		return nil, fmt.Errorf("Expected SnapshotHeader size of %d, "+
			"found %d.", headerSize(), size)
	}

	if err := binary.Read(r, order, hd); err != nil {
		return nil, err
	}
	return order, nil
}

// ReadSnapshotHeader reads the header in the given file into hd.
func ReadSnapshotHeader(file string, hd *SnapshotHeader) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = readSnapshotHeader(bufio.NewReader(f), hd)
	return err
}

// ReadSnapshot reads the header, positions and normals in the given file. xs
// and ns must have one element per particle in the snapshot.
func ReadSnapshot(file string, hd *SnapshotHeader, xs, ns []mgl32.Vec3) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	return readSnapshot(bufio.NewReader(f), file, hd, xs, ns)
}

func readSnapshot(
	r io.Reader, file string, hd *SnapshotHeader, xs, ns []mgl32.Vec3,
) error {
	order, err := readSnapshotHeader(r, hd)
	if err != nil {
		return err
	}

	if hd.Count() != len(xs) {
		return fmt.Errorf("Position buffer has length %d, but file %s has "+
			"%d vectors.", len(xs), file, hd.Count())
	} else if hd.Count() != len(ns) {
		return fmt.Errorf("Normal buffer has length %d, but file %s has "+
			"%d vectors.", len(ns), file, hd.Count())
	}

	if err := binary.Read(r, order, xs); err != nil {
		return err
	}
	return binary.Read(r, order, ns)
}
