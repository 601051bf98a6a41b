package volume

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
)

func TestDriveTypeLabel(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "Unknown"},
		{1, "No Root Directory"},
		{2, "Removable Disk"},
		{3, "Local Disk"},
		{4, "Network Drive"},
		{5, "Compact Disc"},
		{6, "RAM Disk"},
		{7, "Unknown"},
		{-1, "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DriveTypeLabel(tt.code), "code %d", tt.code)
	}
}

func TestClassifyDrive(t *testing.T) {
	tests := []struct {
		name       string
		fstype     string
		mountpoint string
		want       int
	}{
		{"ext4 root", "ext4", "/", DriveLocal},
		{"ntfs", "NTFS", `C:`, DriveLocal},
		{"nfs share", "nfs4", "/srv/share", DriveNetwork},
		{"cd", "iso9660", "/media/cdrom", DriveCompactDisc},
		{"tmpfs", "tmpfs", "/tmp", DriveRAMDisk},
		{"usb stick", "vfat", "/boot/efi", DriveRemovable},
		{"ext4 under media", "ext4", "/media/alex/backup", DriveRemovable},
		{"unknown fs", "", "/x", DriveUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyDrive(tt.fstype, tt.mountpoint))
		})
	}
}

func TestFallbackSerial_StableAndShaped(t *testing.T) {
	a := fallbackSerial("/dev/sdb1", "/media/usb")

	assert.Equal(t, a, fallbackSerial("/dev/sdb1", "/media/usb"))
	assert.NotEqual(t, a, fallbackSerial("/dev/sdb1", "/media/other"))
	assert.Regexp(t, `^[0-9A-F]{4}-[0-9A-F]{4}$`, a)
}

func TestDescriptor_Record(t *testing.T) {
	d := Descriptor{
		Caption: "/media/usb", Name: "USB", FileSystem: "vfat",
		DriveTypeCode: DriveRemovable, SizeBytes: 100, FreeBytes: 40, Serial: "1234-ABCD",
	}

	rec := d.Record()

	assert.Equal(t, "1234-ABCD", rec.Serial)
	assert.Equal(t, "USB", rec.Name)
	assert.Equal(t, "Removable Disk", rec.DriveType)
	assert.Equal(t, "/media/usb", rec.RootPath)
	assert.Equal(t, uint64(40), rec.FreeBytes)
	assert.True(t, rec.IndexedAt.IsZero())
}

func TestStaticProvider_ReturnsCopy(t *testing.T) {
	p := StaticProvider{{Serial: "A"}, {Serial: "B"}}

	got, err := p.Volumes(context.Background())
	require.NoError(t, err)
	got[0].Serial = "changed"

	assert.Equal(t, "A", p[0].Serial)
	assert.Len(t, got, 2)
}

func fakeSystem(parts []disk.PartitionStat) *SystemProvider {
	return &SystemProvider{
		partitions: func(context.Context, bool) ([]disk.PartitionStat, error) { return parts, nil },
		usage: func(_ context.Context, path string) (*disk.UsageStat, error) {
			if path == "/broken" {
				return nil, errors.New("permission denied")
			}
			return &disk.UsageStat{Path: path, Total: 1000, Free: 250}, nil
		},
		serial: func(_ context.Context, device string) (string, error) {
			switch device {
			case "/dev/sda1":
				return "  WD-123  ", nil
			case "/dev/sdd1":
				return "../../etc/x", nil
			}
			return "", errors.New("no serial")
		},
		label: func(_ context.Context, device string) (string, error) {
			if device == "sda1" {
				return "System", nil
			}
			return "", errors.New("no label")
		},
	}
}

func TestSystemProvider_Volumes(t *testing.T) {
	// Given: three partitions, one listed twice and one without usage
	p := fakeSystem([]disk.PartitionStat{
		{Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4"},
		{Device: "/dev/sdb1", Mountpoint: "/media/usb", Fstype: "exfat"},
		{Device: "/dev/sdb1", Mountpoint: "/media/usb", Fstype: "exfat"},
		{Device: "/dev/sdc1", Mountpoint: "/broken", Fstype: "ext4"},
	})

	// When
	vols, err := p.Volumes(context.Background())

	// Then
	require.NoError(t, err)
	require.Len(t, vols, 3)

	assert.Equal(t, "WD-123", vols[0].Serial)
	assert.Equal(t, "System", vols[0].Name)
	assert.Equal(t, DriveLocal, vols[0].DriveTypeCode)
	assert.Equal(t, uint64(1000), vols[0].SizeBytes)

	assert.Equal(t, fallbackSerial("/dev/sdb1", "/media/usb"), vols[1].Serial)
	assert.Equal(t, "usb", vols[1].Name)
	assert.Equal(t, DriveRemovable, vols[1].DriveTypeCode)

	assert.Zero(t, vols[2].SizeBytes)
	assert.Equal(t, "/broken", vols[2].Caption)
}

func TestSystemProvider_UnsafeSerialFallsBack(t *testing.T) {
	// Given: a device reporting a serial with path separators
	p := fakeSystem([]disk.PartitionStat{
		{Device: "/dev/sdd1", Mountpoint: "/media/odd", Fstype: "vfat"},
	})

	// When
	vols, err := p.Volumes(context.Background())

	// Then: the derived serial is used instead
	require.NoError(t, err)
	require.Len(t, vols, 1)
	assert.Equal(t, fallbackSerial("/dev/sdd1", "/media/odd"), vols[0].Serial)
}

func TestSystemProvider_PartitionError(t *testing.T) {
	p := &SystemProvider{
		partitions: func(context.Context, bool) ([]disk.PartitionStat, error) {
			return nil, errors.New("boom")
		},
	}

	_, err := p.Volumes(context.Background())

	assert.Equal(t, caterrors.ErrCodeReadFailed, caterrors.GetCode(err))
}

func TestDescribePath(t *testing.T) {
	dir := t.TempDir()

	t.Run("defaults serial and name", func(t *testing.T) {
		d, err := DescribePath(context.Background(), dir, "", "")

		require.NoError(t, err)
		assert.Equal(t, dir, d.Caption)
		assert.Equal(t, filepath.Base(dir), d.Name)
		assert.Equal(t, fallbackSerial(dir, dir), d.Serial)
	})

	t.Run("explicit serial and name", func(t *testing.T) {
		d, err := DescribePath(context.Background(), dir, "BOX-01", "Archive")

		require.NoError(t, err)
		assert.Equal(t, "BOX-01", d.Serial)
		assert.Equal(t, "Archive", d.Name)
	})

	t.Run("serial escaping the index directory", func(t *testing.T) {
		for _, serial := range []string{"../escaped", "a/b", `a\b`, ".", "x..y"} {
			_, err := DescribePath(context.Background(), dir, serial, "")

			assert.Equal(t, caterrors.ErrCodeInvalidInput, caterrors.GetCode(err), serial)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := DescribePath(context.Background(), filepath.Join(dir, "nope"), "", "")

		assert.Equal(t, caterrors.CategoryNotFound, caterrors.GetCategory(err))
	})

	t.Run("file instead of directory", func(t *testing.T) {
		file := filepath.Join(dir, "file.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		_, err := DescribePath(context.Background(), file, "", "")

		assert.Equal(t, caterrors.CategoryValidation, caterrors.GetCategory(err))
	})
}
