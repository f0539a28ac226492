package models

import "strings"

// DestinationKind distinguishes local filesystem destinations from remote
// ones addressed through the sync tool.
type DestinationKind int

const (
	// DestinationLocal is a plain filesystem path.
	DestinationLocal DestinationKind = iota
	// DestinationRemote is a provider-prefixed address (e.g. "gdrive:Backups").
	DestinationRemote
)

// Destination describes where the finished archive goes.
type Destination struct {
	Kind DestinationKind
	// Root is the destination root as given, e.g. "/mnt/backups" or
	// "gdrive:Backups".
	Root string
	// Remote is the provider prefix for remote destinations ("gdrive"),
	// empty for local ones.
	Remote string
	// Path is the part after the colon for remote destinations, the whole
	// root for local ones.
	Path string
}

// ParseDestination classifies a destination root string. A colon that is not
// immediately preceded by a single drive letter marks a remote address;
// "D:\Backups" and a bare "C:" stay local.
func ParseDestination(root string) Destination {
	idx := strings.Index(root, ":")
	if idx < 0 {
		return Destination{Kind: DestinationLocal, Root: root, Path: root}
	}
	if idx == 1 && isDriveLetter(root[0]) {
		return Destination{Kind: DestinationLocal, Root: root, Path: root}
	}
	return Destination{
		Kind:   DestinationRemote,
		Root:   root,
		Remote: root[:idx],
		Path:   root[idx+1:],
	}
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
