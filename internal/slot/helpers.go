package slot

import "os"

// Footprint overhead: KV cache and runtime buffers on top of the raw
// weights file, estimated as a fixed +20%.
const overheadPctNum, overheadPctDen = 6, 5

// estimateFootprintMB estimates resident memory for a weights file from its
// on-disk size. Returns a conservative minimum of 1MB when the file cannot
// be stat'ed so budget checks are never bypassed by an unknown size.
func estimateFootprintMB(path string) int {
	fi, err := os.Stat(path)
	if err != nil {
		return 1
	}
	mb := int(fi.Size() / (1024 * 1024))
	if mb <= 0 {
		mb = 1
	}
	return mb * overheadPctNum / overheadPctDen
}
