// Package volume enumerates the volumes attached to this host and describes
// arbitrary directories so they can be scanned like a volume.
package volume

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Aman-CERP/catcrawler/internal/catalog"
)

// Drive type codes, numbered as the Windows logical disk DriveType.
const (
	DriveUnknown     = 0
	DriveNoRootDir   = 1
	DriveRemovable   = 2
	DriveLocal       = 3
	DriveNetwork     = 4
	DriveCompactDisc = 5
	DriveRAMDisk     = 6
)

var driveTypeLabels = map[int]string{
	DriveUnknown:     "Unknown",
	DriveNoRootDir:   "No Root Directory",
	DriveRemovable:   "Removable Disk",
	DriveLocal:       "Local Disk",
	DriveNetwork:     "Network Drive",
	DriveCompactDisc: "Compact Disc",
	DriveRAMDisk:     "RAM Disk",
}

// DriveTypeLabel returns the display label for a drive type code.
// Codes outside the table map to "Unknown".
func DriveTypeLabel(code int) string {
	if label, ok := driveTypeLabels[code]; ok {
		return label
	}
	return driveTypeLabels[DriveUnknown]
}

// Descriptor is a host volume as reported by a Provider.
type Descriptor struct {
	// Caption is the mount point or drive root the volume is scanned from.
	Caption       string `json:"caption"`
	Name          string `json:"name"`
	FileSystem    string `json:"file_system"`
	DriveTypeCode int    `json:"drive_type"`
	SizeBytes     uint64 `json:"size_bytes"`
	FreeBytes     uint64 `json:"free_bytes"`
	Serial        string `json:"serial"`
}

// DriveType returns the label of the descriptor's drive type.
func (d Descriptor) DriveType() string {
	return DriveTypeLabel(d.DriveTypeCode)
}

// Record converts d to the catalog snapshot stored after a scan.
func (d Descriptor) Record() catalog.VolumeRecord {
	return catalog.VolumeRecord{
		Serial:     d.Serial,
		Name:       d.Name,
		FileSystem: d.FileSystem,
		DriveType:  d.DriveType(),
		SizeBytes:  d.SizeBytes,
		FreeBytes:  d.FreeBytes,
		RootPath:   d.Caption,
	}
}

// fallbackSerial derives a stable serial from where a volume lives, for
// filesystems that expose none. The format mimics a FAT/NTFS volume serial.
func fallbackSerial(device, mountpoint string) string {
	sum := sha256.Sum256([]byte(device + "\x00" + mountpoint))
	h := strings.ToUpper(hex.EncodeToString(sum[:4]))
	return fmt.Sprintf("%s-%s", h[:4], h[4:])
}

var (
	networkFS = map[string]bool{
		"nfs": true, "nfs4": true, "cifs": true, "smbfs": true, "smb3": true,
		"afpfs": true, "sshfs": true, "fuse.sshfs": true, "9p": true, "davfs": true, "webdav": true,
	}
	opticalFS = map[string]bool{
		"iso9660": true, "udf": true, "cdfs": true, "cd9660": true,
	}
	ramFS = map[string]bool{
		"tmpfs": true, "ramfs": true,
	}
	removableFS = map[string]bool{
		"vfat": true, "fat": true, "fat32": true, "exfat": true, "msdos": true,
	}
	removableMounts = []string{"/media/", "/run/media/", "/Volumes/", "/mnt/"}
)

// classifyDrive guesses a drive type code from the filesystem type and mount
// point. Only Windows reports the drive type directly.
func classifyDrive(fstype, mountpoint string) int {
	fs := strings.ToLower(fstype)
	switch {
	case fs == "":
		return DriveUnknown
	case networkFS[fs]:
		return DriveNetwork
	case opticalFS[fs]:
		return DriveCompactDisc
	case ramFS[fs]:
		return DriveRAMDisk
	case removableFS[fs]:
		return DriveRemovable
	}
	for _, prefix := range removableMounts {
		if strings.HasPrefix(mountpoint, prefix) {
			return DriveRemovable
		}
	}
	return DriveLocal
}
