package volume

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"

	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
	"github.com/Aman-CERP/catcrawler/internal/indexfile"
)

// SystemProvider reads mounted volumes from the operating system.
type SystemProvider struct {
	// All includes pseudo and virtual filesystems.
	All bool

	partitions func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
	usage      func(ctx context.Context, path string) (*disk.UsageStat, error)
	serial     func(ctx context.Context, device string) (string, error)
	label      func(ctx context.Context, device string) (string, error)
}

// NewSystemProvider returns a provider backed by gopsutil.
func NewSystemProvider() *SystemProvider {
	return &SystemProvider{
		partitions: disk.PartitionsWithContext,
		usage:      disk.UsageWithContext,
		serial:     disk.SerialNumberWithContext,
		label:      disk.LabelWithContext,
	}
}

// Volumes implements Provider. Volumes whose usage cannot be read are still
// listed, with zero sizes.
func (p *SystemProvider) Volumes(ctx context.Context) ([]Descriptor, error) {
	parts, err := p.partitions(ctx, p.All)
	if err != nil {
		return nil, caterrors.New(caterrors.ErrCodeReadFailed, "failed to list volumes", err)
	}

	seen := make(map[string]bool, len(parts))
	out := make([]Descriptor, 0, len(parts))
	for _, part := range parts {
		if seen[part.Mountpoint] {
			continue
		}
		seen[part.Mountpoint] = true
		out = append(out, p.describe(ctx, part))
	}
	return out, nil
}

func (p *SystemProvider) describe(ctx context.Context, part disk.PartitionStat) Descriptor {
	d := Descriptor{
		Caption:       part.Mountpoint,
		FileSystem:    part.Fstype,
		DriveTypeCode: classifyDrive(part.Fstype, part.Mountpoint),
	}

	if usage, err := p.usage(ctx, part.Mountpoint); err == nil {
		d.SizeBytes = usage.Total
		d.FreeBytes = usage.Free
	} else {
		slog.Debug("volume_usage_unavailable",
			slog.String("mountpoint", part.Mountpoint),
			slog.String("error", err.Error()))
	}

	s, err := p.serial(ctx, part.Device)
	s = strings.TrimSpace(s)
	if err == nil && indexfile.ValidateSerial(s) == nil {
		d.Serial = s
	} else {
		d.Serial = fallbackSerial(part.Device, part.Mountpoint)
	}

	if l, err := p.label(ctx, deviceName(part.Device)); err == nil && strings.TrimSpace(l) != "" {
		d.Name = strings.TrimSpace(l)
	} else if base := filepath.Base(part.Mountpoint); base != "/" && base != "." && base != `\` {
		d.Name = base
	}
	return d
}

// deviceName strips the /dev/ prefix; label lookups expect a bare block
// device name.
func deviceName(device string) string {
	return strings.TrimPrefix(device, "/dev/")
}
