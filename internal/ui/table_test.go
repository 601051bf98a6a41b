package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVolumeTable(t *testing.T) {
	// Given: one indexed and one never-indexed volume
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := []VolumeRow{
		{Index: 0, Name: "Backup", Serial: "ABCD-1234", FileSystem: "NTFS", DriveType: "Local Disk",
			Size: 500_000_000_000, Free: 120_000_000_000, IndexedAt: now.Add(-2 * time.Hour)},
		{Index: 1, Name: "USB", Serial: "0000-0001", FileSystem: "vfat", DriveType: "Removable Disk"},
	}

	// When
	out := VolumeTable(rows, true, now)

	// Then
	assert.Contains(t, out, "Serial")
	assert.Contains(t, out, "ABCD-1234")
	assert.Contains(t, out, "500 GB")
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "Removable Disk")
	assert.NotContains(t, out, "\x1b[")
}

func TestVolumeDetail(t *testing.T) {
	r := VolumeRow{
		Index: 2, Caption: "E:\\", Name: "Photos", Serial: "1111-2222",
		FileSystem: "exFAT", DriveType: "Removable Disk", Size: 64_000_000_000,
		Description: "family photos",
	}

	out := VolumeDetail(r, true)

	assert.Contains(t, out, "[#2] Volume E:\\")
	assert.Contains(t, out, "Name: Photos")
	assert.Contains(t, out, "Size: 64 GB")
	assert.Contains(t, out, "Volume serial: 1111-2222")
	assert.Contains(t, out, "Description: family photos")
	assert.NotContains(t, out, "Indexed:")
}
