package models

import "time"

// ArchiveResult holds the result of an archive build.
type ArchiveResult struct {
	Path     string // path of the produced archive file
	Files    int    // number of files included
	Duration time.Duration
}

// PublishResult holds the result of a remote publish.
type PublishResult struct {
	RemotePath   string // full remote address of the uploaded archive
	LocalRemoved bool   // true when the local copy was deleted after upload
	Duration     time.Duration
}
