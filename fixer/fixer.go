// Copyright © 2025 The guestfix authors

// Package fixer runs the per-image offline fix: unlock, mount the guest
// root, rewrite the storage-reference tables, report. One Fixer owns one
// disk image and runs strictly sequentially; concurrency across images
// belongs to the caller.
package fixer

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/vmshift/guestfix/fstab"
	"github.com/vmshift/guestfix/guestfs"
	"github.com/vmshift/guestfix/identity"
	"github.com/vmshift/guestfix/pkg/constants"
	"github.com/vmshift/guestfix/recovery"
	"github.com/vmshift/guestfix/rootfs"
)

// Fixer holds everything one disk image's fix needs.
type Fixer struct {
	Image      string
	DryRun     bool
	NoBackup   bool
	Mode       identity.Mode
	ReportPath string
	LUKS       rootfs.LUKSOptions

	Guest    guestfs.GuestFSOperations
	Recovery *recovery.Manager

	// EventReporter receives stage messages when the engine runs under an
	// orchestrator that forwards them (pod events). Nil disables it.
	EventReporter chan<- string
}

func (f *Fixer) logMessage(message string) {
	log.Println(message)
	if f.EventReporter != nil {
		f.EventReporter <- message
	}
}

// Run executes the full fix for one image. The returned report is valid
// even on error, with Error filled in.
func (f *Fixer) Run(ctx context.Context) (*Report, error) {
	report := newReport(f)
	err := f.run(ctx, report)
	if err != nil {
		report.Error = err.Error()
	}
	report.Timestamps.End = time.Now().Format(time.RFC3339)
	if werr := report.Write(f.ReportPath); werr != nil {
		log.Printf("Failed to write report: %v", werr)
	}
	return report, err
}

func (f *Fixer) run(ctx context.Context, report *Report) error {
	f.logMessage("Starting offline guest fix for " + f.Image)
	f.checkpoint(constants.StageStart, map[string]interface{}{"image": f.Image})

	if err := f.Guest.Launch(); err != nil {
		return errors.Wrap(err, "failed to open disk image")
	}
	defer func() {
		_ = f.Guest.UnmountAll()
		_ = f.Guest.Close()
	}()

	luksAudit := rootfs.UnlockLUKS(f.Guest, f.LUKS)
	report.Analysis.LUKS = &luksAudit

	// Safe with no LVM present; new mountables may appear after unlock.
	if err := f.Guest.ActivateVolumeGroups(); err != nil {
		log.Printf("Volume group activation failed (continuing): %v", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	locator := &rootfs.Locator{Guest: f.Guest, DryRun: f.DryRun}
	mount, err := locator.LocateAndMount()
	if err != nil {
		return errors.Wrapf(err, "failed to locate root filesystem on %s", f.Image)
	}
	report.Guest = guestIdentity(f.Guest, mount)
	f.checkpoint(constants.StageMounted, map[string]interface{}{
		"root_dev":    mount.Device,
		"root_subvol": mount.Subvolume,
		"state":       mount.State.String(),
	})
	f.logMessage("Mounted guest root from " + mount.Device)

	rewriter := &fstab.Rewriter{
		Guest:      f.Guest,
		RootDevice: mount.Device,
		Mode:       f.Mode,
		DryRun:     f.DryRun,
		NoBackup:   f.NoBackup,
	}

	fstabChanged, fstabChanges, fstabAudit, err := rewriter.RewriteFstab(constants.FstabPath)
	if err != nil {
		return errors.Wrap(err, "fstab rewrite failed")
	}
	report.Changes.Fstab = fstabChanged
	report.Analysis.FstabAudit = &fstabAudit
	report.Analysis.FstabChanges = fstabChanges
	f.checkpoint(constants.StageFstabRewritten, map[string]interface{}{"changed": fstabChanged})

	crypttabChanged, crypttabChanges, crypttabAudit, err := rewriter.RewriteCrypttab(constants.CrypttabPath)
	if err != nil {
		return errors.Wrap(err, "crypttab rewrite failed")
	}
	report.Changes.Crypttab = crypttabChanged
	report.Analysis.CrypttabAudit = &crypttabAudit
	report.Analysis.CrypttabChanges = crypttabChanges
	f.checkpoint(constants.StageCrypttabRewritten, map[string]interface{}{"changed": crypttabChanged})

	f.fixTmp()

	if !f.DryRun {
		if err := f.Guest.Sync(); err != nil {
			log.Printf("Sync failed (continuing to unmount): %v", err)
		}
	}
	if err := f.Guest.UnmountAll(); err != nil {
		log.Printf("Unmount failed: %v", err)
	}

	f.checkpoint(constants.StageDone, map[string]interface{}{
		"fstab_changes":    fstabChanged,
		"crypttab_changes": crypttabChanged,
	})
	f.logMessage("Guest fix complete for " + f.Image)
	return nil
}

// fixTmp recreates /tmp with the sticky bit when a minimal image lacks it.
func (f *Fixer) fixTmp() {
	if f.Guest.IsDir("/tmp") {
		return
	}
	log.Println("Fixing /tmp: creating directory inside guest")
	if f.DryRun {
		return
	}
	if err := f.Guest.MkdirAll("/tmp"); err != nil {
		log.Printf("/tmp sanity fix failed: %v", err)
		return
	}
	if err := f.Guest.Chmod(0o1777, "/tmp"); err != nil {
		log.Printf("/tmp chmod failed: %v", err)
	}
}

func (f *Fixer) checkpoint(stage string, data map[string]interface{}) {
	if f.Recovery == nil {
		return
	}
	if err := f.Recovery.SaveCheckpoint(stage, data); err != nil {
		log.Printf("Checkpoint %s failed: %v", stage, err)
	}
}

// guestIdentity captures what we know about the mounted guest for the
// report.
func guestIdentity(g guestfs.GuestFSOperations, mount rootfs.RootMount) GuestInfo {
	info := GuestInfo{
		RootDevice:    mount.Device,
		RootSubvolume: mount.Subvolume,
		MountState:    mount.State.String(),
	}
	if mount.Inspection != nil {
		info.InspectRoot = mount.Inspection.Root
		info.Product = mount.Inspection.Product
		info.Distro = mount.Inspection.Distro
	}
	if g.IsFile("/etc/os-release") {
		if data, err := g.ReadFile("/etc/os-release"); err == nil {
			info.OSRelease = strings.TrimSpace(string(data))
		}
	}
	return info
}
