// Copyright © 2025 The guestfix authors

package fixer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/vmshift/guestfix/guestfs"
	"github.com/vmshift/guestfix/identity"
)

func TestRunDryRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	guest := guestfs.NewMockGuestFSOperations(ctrl)

	guest.EXPECT().Launch().Return(nil)
	guest.EXPECT().ActivateVolumeGroups().Return(nil)
	guest.EXPECT().InspectOS().Return(&guestfs.Inspection{
		Root: "/dev/sda2", Product: "Debian 12", Distro: "debian",
		Mountpoints: map[string]string{"/": "/dev/sda2"},
	}, nil)
	guest.EXPECT().MountRO("/dev/sda2", "/").Return(nil)

	guest.EXPECT().IsFile("/etc/os-release").Return(true)
	guest.EXPECT().ReadFile("/etc/os-release").Return([]byte("ID=debian\n"), nil)

	fstabBefore := "/dev/disk/by-path/pci-x-part1 /boot ext4 defaults 0 2\n" +
		"UUID=aaaa-bbbb / ext4 defaults 0 1\n"
	guest.EXPECT().IsFile("/etc/fstab").Return(true)
	guest.EXPECT().ReadFile("/etc/fstab").Return([]byte(fstabBefore), nil)
	guest.EXPECT().ResolveSymlink("/dev/disk/by-path/pci-x-part1").Return("/dev/sda1", nil)
	guest.EXPECT().BlockAttributes("/dev/sda1").Return(map[string]string{"UUID": "1234-ABCD"}, nil)
	guest.EXPECT().IsFile("/etc/crypttab").Return(false)

	guest.EXPECT().IsDir("/tmp").Return(true)
	guest.EXPECT().UnmountAll().Return(nil).Times(2)
	guest.EXPECT().Close().Return(nil)

	reportPath := filepath.Join(t.TempDir(), "disk.report.json")
	f := &Fixer{
		Image:      "/var/lib/images/disk.qcow2",
		DryRun:     true,
		Mode:       identity.ModeStabilizeAll,
		ReportPath: reportPath,
		Guest:      guest,
	}
	report, err := f.Run(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, report.Error)
	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.Changes.Fstab)
	assert.Equal(t, 0, report.Changes.Crypttab)
	assert.Equal(t, "/dev/sda2", report.Guest.RootDevice)
	assert.Equal(t, "mounted-direct", report.Guest.MountState)
	assert.Equal(t, "Debian 12", report.Guest.Product)
	assert.Equal(t, "ID=debian", report.Guest.OSRelease)
	assert.NotNil(t, report.Analysis.FstabAudit)
	assert.Len(t, report.Analysis.FstabChanges, 1)
	assert.Equal(t, "UUID=1234-ABCD", report.Analysis.FstabChanges[0].New)

	// The report lands on disk as JSON even for dry runs.
	raw, err := os.ReadFile(reportPath)
	assert.NoError(t, err)
	var onDisk Report
	assert.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Equal(t, "guestfix", onDisk.Tool)
	assert.Equal(t, report.Changes.Fstab, onDisk.Changes.Fstab)
	assert.NotEmpty(t, onDisk.Timestamps.Start)
	assert.NotEmpty(t, onDisk.Timestamps.End)
}

func TestRunWritesTables(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	guest := guestfs.NewMockGuestFSOperations(ctrl)

	guest.EXPECT().Launch().Return(nil)
	guest.EXPECT().ActivateVolumeGroups().Return(nil)
	guest.EXPECT().InspectOS().Return(&guestfs.Inspection{
		Mountpoints: map[string]string{"/": "/dev/vda2"},
	}, nil)
	guest.EXPECT().Mount("/dev/vda2", "/").Return(nil)

	guest.EXPECT().IsFile("/etc/os-release").Return(false)

	fstabBefore := "/dev/disk/by-path/pci-x-part1 /boot ext4 defaults 0 2\n"
	guest.EXPECT().IsFile("/etc/fstab").Return(true).Times(2)
	guest.EXPECT().ReadFile("/etc/fstab").Return([]byte(fstabBefore), nil)
	guest.EXPECT().ResolveSymlink("/dev/disk/by-path/pci-x-part1").Return("/dev/vda1", nil)
	guest.EXPECT().BlockAttributes("/dev/vda1").Return(map[string]string{"UUID": "1234-ABCD"}, nil)
	guest.EXPECT().CopyFile("/etc/fstab", gomock.Any()).Return(nil)
	guest.EXPECT().WriteFile("/etc/fstab", []byte("UUID=1234-ABCD\t/boot\text4\tdefaults\t0\t2\n")).Return(nil)
	guest.EXPECT().IsFile("/etc/crypttab").Return(false)

	guest.EXPECT().IsDir("/tmp").Return(true)
	guest.EXPECT().Sync().Return(nil)
	guest.EXPECT().UnmountAll().Return(nil).Times(2)
	guest.EXPECT().Close().Return(nil)

	f := &Fixer{
		Image: "/var/lib/images/disk.qcow2",
		Mode:  identity.ModeStabilizeAll,
		Guest: guest,
	}
	report, err := f.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, report.Changes.Fstab)
}

func TestRunLaunchFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	guest := guestfs.NewMockGuestFSOperations(ctrl)

	guest.EXPECT().Launch().Return(fmt.Errorf("qemu: could not open disk image"))

	reportPath := filepath.Join(t.TempDir(), "disk.report.json")
	f := &Fixer{
		Image:      "/var/lib/images/broken.qcow2",
		Mode:       identity.ModeStabilizeAll,
		ReportPath: reportPath,
		Guest:      guest,
	}
	report, err := f.Run(context.Background())
	assert.Error(t, err)
	assert.Contains(t, report.Error, "failed to open disk image")

	// The error still produces a report.
	raw, readErr := os.ReadFile(reportPath)
	assert.NoError(t, readErr)
	var onDisk Report
	assert.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Contains(t, onDisk.Error, "failed to open disk image")
}

func TestRunCanceledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	guest := guestfs.NewMockGuestFSOperations(ctrl)

	guest.EXPECT().Launch().Return(nil)
	guest.EXPECT().ActivateVolumeGroups().Return(nil)
	guest.EXPECT().UnmountAll().Return(nil)
	guest.EXPECT().Close().Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &Fixer{Image: "/tmp/disk.img", Mode: identity.ModeStabilizeAll, Guest: guest}
	_, err := f.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFixTmpCreatesDirectory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	guest := guestfs.NewMockGuestFSOperations(ctrl)

	guest.EXPECT().IsDir("/tmp").Return(false)
	guest.EXPECT().MkdirAll("/tmp").Return(nil)
	guest.EXPECT().Chmod(0o1777, "/tmp").Return(nil)

	f := &Fixer{Guest: guest}
	f.fixTmp()
}

func TestFixTmpDryRunOnlyChecks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	guest := guestfs.NewMockGuestFSOperations(ctrl)

	guest.EXPECT().IsDir("/tmp").Return(false)

	f := &Fixer{Guest: guest, DryRun: true}
	f.fixTmp()
}

func TestEventReporterReceivesStageMessages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	guest := guestfs.NewMockGuestFSOperations(ctrl)

	guest.EXPECT().Launch().Return(fmt.Errorf("boom"))

	events := make(chan string, 8)
	f := &Fixer{Image: "/tmp/disk.img", Mode: identity.ModeNoOp, Guest: guest, EventReporter: events}
	_, err := f.Run(context.Background())
	assert.Error(t, err)
	close(events)

	var got []string
	for msg := range events {
		got = append(got, msg)
	}
	assert.Equal(t, []string{"Starting offline guest fix for /tmp/disk.img"}, got)
}
