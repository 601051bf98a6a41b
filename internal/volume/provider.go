package volume

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shirou/gopsutil/v4/disk"

	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
	"github.com/Aman-CERP/catcrawler/internal/indexfile"
)

// Provider lists the volumes attached to the host.
type Provider interface {
	Volumes(ctx context.Context) ([]Descriptor, error)
}

// StaticProvider returns a fixed list of volumes.
type StaticProvider []Descriptor

// Volumes implements Provider.
func (p StaticProvider) Volumes(ctx context.Context) ([]Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Descriptor, len(p))
	copy(out, p)
	return out, nil
}

// DescribePath builds a Descriptor for an arbitrary directory so it can be
// scanned as a volume. An empty serial is derived from the absolute path and
// an empty name defaults to the directory's base name.
func DescribePath(ctx context.Context, path, serial, name string) (Descriptor, error) {
	if serial != "" {
		if err := indexfile.ValidateSerial(serial); err != nil {
			return Descriptor{}, caterrors.ValidationError(
				fmt.Sprintf("serial %q cannot be used as an index file name", serial), err).
				WithSuggestion("use a serial without path separators or '..'")
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Descriptor{}, caterrors.ValidationError("invalid path "+path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return Descriptor{}, caterrors.NotFound("path not found: "+abs, err)
		}
		return Descriptor{}, caterrors.New(caterrors.ErrCodeReadFailed, "cannot stat "+abs, err)
	}
	if !info.IsDir() {
		return Descriptor{}, caterrors.ValidationError(abs+" is not a directory", nil)
	}

	d := Descriptor{
		Caption: abs,
		Name:    name,
		Serial:  serial,
	}
	if d.Serial == "" {
		d.Serial = fallbackSerial(abs, abs)
	}
	if d.Name == "" {
		d.Name = filepath.Base(abs)
	}

	if usage, err := disk.UsageWithContext(ctx, abs); err == nil {
		d.FileSystem = usage.Fstype
		d.SizeBytes = usage.Total
		d.FreeBytes = usage.Free
	}
	d.DriveTypeCode = classifyDrive(d.FileSystem, abs)
	return d, nil
}
