package archive

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/cespare/xxhash"
	"github.com/klauspost/compress/zip"
)

// fingerprintZip hashes the aggregated entry metadata of an archive into a
// stable fingerprint. Re-uploading the same export yields the same value, so
// the service can reuse the existing session instead of re-ingesting.
func fingerprintZip(files []*zip.File) (string, error) {
	type entry struct {
		name string
		size uint64
		crc  uint32
	}
	entries := make([]entry, 0, len(files))
	for _, f := range files {
		entries = append(entries, entry{name: f.Name, size: f.UncompressedSize64, crc: f.CRC32})
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("empty archive")
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })

	h := xxhash.New()
	for _, e := range entries {
		fmt.Fprintf(h, "%s|%d|%d;", e.name, e.size, e.crc)
	}
	return strconv.FormatUint(h.Sum64(), 16), nil
}

// FingerprintFile computes the fingerprint for an archive on disk.
func FingerprintFile(zipPath string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", err
	}
	defer r.Close()
	return fingerprintZip(r.File)
}
