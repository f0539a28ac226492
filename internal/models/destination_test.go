package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDestination_Remote(t *testing.T) {
	d := ParseDestination("gdrive:Backups/x")

	assert.Equal(t, DestinationRemote, d.Kind)
	assert.Equal(t, "gdrive", d.Remote)
	assert.Equal(t, "Backups/x", d.Path)
	assert.Equal(t, "gdrive:Backups/x", d.Root)
}

func TestParseDestination_WindowsDriveIsLocal(t *testing.T) {
	d := ParseDestination(`D:\Backups`)

	assert.Equal(t, DestinationLocal, d.Kind)
	assert.Equal(t, `D:\Backups`, d.Path)
}

func TestParseDestination_BareDriveLetterIsLocal(t *testing.T) {
	assert.Equal(t, DestinationLocal, ParseDestination("C:").Kind)
	assert.Equal(t, DestinationLocal, ParseDestination("c:").Kind)
}

func TestParseDestination_PlainPathIsLocal(t *testing.T) {
	assert.Equal(t, DestinationLocal, ParseDestination("/mnt/backups").Kind)
	assert.Equal(t, DestinationLocal, ParseDestination("relative/dir").Kind)
}

func TestParseDestination_MultiCharPrefixIsRemote(t *testing.T) {
	d := ParseDestination("s3:bucket/prefix")

	assert.Equal(t, DestinationRemote, d.Kind)
	assert.Equal(t, "s3", d.Remote)
	assert.Equal(t, "bucket/prefix", d.Path)
}
