//go:build windows

package naming

import (
	"path/filepath"

	"golang.org/x/sys/windows"
)

// readVolumeLabel asks Windows for the label of the volume containing root,
// e.g. "Data" for S:\. Any failure yields the empty string so SafeName falls
// back to the drive token.
func readVolumeLabel(root string) string {
	vol := filepath.VolumeName(root)
	if vol == "" {
		return ""
	}

	rootPath, err := windows.UTF16PtrFromString(vol + `\`)
	if err != nil {
		return ""
	}

	var label [windows.MAX_PATH + 1]uint16
	err = windows.GetVolumeInformation(rootPath, &label[0], uint32(len(label)), nil, nil, nil, nil, 0)
	if err != nil {
		return ""
	}
	return windows.UTF16ToString(label[:])
}
