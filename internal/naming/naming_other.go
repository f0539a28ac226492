//go:build !windows

package naming

// readVolumeLabel finds no label on platforms without per-volume labels;
// SafeName falls back to the drive token or "root".
func readVolumeLabel(root string) string { return "" }
