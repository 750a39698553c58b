// Copyright © 2025 The guestfix authors

package fixer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/vmshift/guestfix/fstab"
	"github.com/vmshift/guestfix/pkg/constants"
	"github.com/vmshift/guestfix/rootfs"
)

// Report is the structured result of one image's fix run.
type Report struct {
	Tool       string     `json:"tool"`
	Version    string     `json:"version"`
	Image      string     `json:"image"`
	DryRun     bool       `json:"dry_run"`
	Mode       string     `json:"fstab_mode"`
	Guest      GuestInfo  `json:"guest"`
	Changes    Changes    `json:"changes"`
	Analysis   Analysis   `json:"analysis"`
	Timestamps Timestamps `json:"timestamps"`
	Error      string     `json:"error,omitempty"`
}

type GuestInfo struct {
	InspectRoot   string `json:"inspect_root,omitempty"`
	Product       string `json:"product,omitempty"`
	Distro        string `json:"distro,omitempty"`
	RootDevice    string `json:"root_dev"`
	RootSubvolume string `json:"root_btrfs_subvol,omitempty"`
	MountState    string `json:"mount_state"`
	OSRelease     string `json:"os_release,omitempty"`
}

type Changes struct {
	Fstab    int `json:"fstab"`
	Crypttab int `json:"crypttab"`
}

type Analysis struct {
	LUKS            *rootfs.LUKSAudit `json:"luks,omitempty"`
	FstabAudit      *fstab.TableAudit `json:"fstab_audit,omitempty"`
	FstabChanges    []fstab.Change    `json:"fstab_changes,omitempty"`
	CrypttabAudit   *fstab.TableAudit `json:"crypttab_audit,omitempty"`
	CrypttabChanges []fstab.Change    `json:"crypttab_changes,omitempty"`
}

type Timestamps struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

func newReport(f *Fixer) *Report {
	return &Report{
		Tool:       constants.ToolName,
		Version:    constants.Version,
		Image:      f.Image,
		DryRun:     f.DryRun,
		Mode:       string(f.Mode),
		Timestamps: Timestamps{Start: time.Now().Format(time.RFC3339)},
	}
}

// Write persists the report as JSON. An empty path disables reporting.
func (r *Report) Write(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create report directory for %s", path)
	}
	payload, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode report")
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write report %s", path)
	}
	return nil
}
