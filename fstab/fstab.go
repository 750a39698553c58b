// Copyright © 2025 The guestfix authors

// Package fstab rewrites the guest's storage-reference tables (fstab and
// crypttab) so every entry names a device by a stable identifier rather
// than a bus-position path.
package fstab

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/vmshift/guestfix/guestfs"
	"github.com/vmshift/guestfix/identity"
)

// Pseudo/virtual mountpoints the rewriter must never touch.
var ignoreMountpoints = map[string]struct{}{
	"/proc":          {},
	"/sys":           {},
	"/dev":           {},
	"/run":           {},
	"/dev/pts":       {},
	"/dev/shm":       {},
	"/sys/fs/cgroup": {},
}

// Change records one rewritten table row. For crypttab rows Mountpoint
// holds the crypt mapping name, the table's equivalent key column.
type Change struct {
	LineNo     int             `json:"line_no"`
	Mountpoint string          `json:"mountpoint"`
	Old        string          `json:"old"`
	New        string          `json:"new"`
	Reason     identity.Reason `json:"reason"`
	Target     string          `json:"target,omitempty"`
}

// TableAudit summarizes one rewrite pass over one table.
type TableAudit struct {
	TotalLines     int `json:"total_lines"`
	Entries        int `json:"entries"`
	ByPathEntries  int `json:"bypath_entries"`
	ChangedEntries int `json:"changed_entries"`
}

// Rewriter performs the table passes against a mounted guest. RootDevice
// is the node the root was mounted from and feeds by-path reconstruction.
type Rewriter struct {
	Guest      guestfs.GuestFSOperations
	RootDevice string
	Mode       identity.Mode
	DryRun     bool
	NoBackup   bool
}

// tableShape distinguishes the fstab layout (spec, mountpoint, ...) from
// the crypttab layout (name, spec).
type tableShape struct {
	name            string
	specColumn      int
	keyColumn       int
	minColumns      int
	delimiter       string
	skipMountpoints bool
}

var (
	fstabShape    = tableShape{name: "fstab", specColumn: 0, keyColumn: 1, minColumns: 2, delimiter: "\t", skipMountpoints: true}
	crypttabShape = tableShape{name: "crypttab", specColumn: 1, keyColumn: 0, minColumns: 2, delimiter: " "}
)

// RewriteFstab rewrites the mount table at path (normally /etc/fstab).
func (r *Rewriter) RewriteFstab(path string) (int, []Change, TableAudit, error) {
	return r.rewriteTable(path, fstabShape)
}

// RewriteCrypttab rewrites the encrypted-volume table at path (normally
// /etc/crypttab). A missing file is a silent skip; most guests have none.
func (r *Rewriter) RewriteCrypttab(path string) (int, []Change, TableAudit, error) {
	return r.rewriteTable(path, crypttabShape)
}

func (r *Rewriter) rewriteTable(path string, shape tableShape) (int, []Change, TableAudit, error) {
	var audit TableAudit

	// noop is a true short-circuit: the file is not even read.
	if r.Mode == identity.ModeNoOp {
		log.Printf("%s: mode=noop (skipping)", shape.name)
		return 0, nil, audit, nil
	}
	if !r.Guest.IsFile(path) {
		log.Printf("%s: %s not found; skipping", shape.name, path)
		return 0, nil, audit, nil
	}

	before, err := r.Guest.ReadFile(path)
	if err != nil {
		return 0, nil, audit, errors.Wrapf(err, "failed to read %s", path)
	}

	lines := strings.Split(strings.TrimSuffix(string(before), "\n"), "\n")
	outLines := make([]string, 0, len(lines))
	var changes []Change

	for idx, line := range lines {
		audit.TotalLines++
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") {
			outLines = append(outLines, line)
			continue
		}
		cols := strings.Fields(s)
		if len(cols) < shape.minColumns {
			outLines = append(outLines, line)
			continue
		}
		spec := cols[shape.specColumn]
		key := cols[shape.keyColumn]
		if shape.skipMountpoints {
			if _, ignored := ignoreMountpoints[key]; ignored {
				outLines = append(outLines, line)
				continue
			}
		}

		audit.Entries++
		isByPath := strings.HasPrefix(spec, identity.ByPathPrefix)
		if isByPath {
			audit.ByPathEntries++
		}
		if r.Mode == identity.ModeByPathOnly && !isByPath && identity.Classify(spec) != identity.KindBtrfsVolume {
			outLines = append(outLines, line)
			continue
		}

		res := identity.Resolve(spec, r.RootDevice, r.Mode, r.Guest)
		if res.Spec == spec {
			// Untouched lines are copied verbatim, original whitespace
			// included.
			outLines = append(outLines, line)
			continue
		}
		cols[shape.specColumn] = res.Spec
		outLines = append(outLines, strings.Join(cols, shape.delimiter))
		changes = append(changes, Change{
			LineNo:     idx + 1,
			Mountpoint: key,
			Old:        spec,
			New:        res.Spec,
			Reason:     res.Reason,
			Target:     res.Target,
		})
	}

	audit.ChangedEntries = len(changes)
	log.Printf("%s scan: total_lines=%d entries=%d bypath_entries=%d changed_entries=%d",
		shape.name, audit.TotalLines, audit.Entries, audit.ByPathEntries, audit.ChangedEntries)

	// Idempotence: a pass with nothing to change must leave the file's
	// on-disk state untouched, so a second run is a clean zero.
	if len(changes) == 0 {
		return 0, nil, audit, nil
	}
	for _, ch := range changes {
		log.Printf("%s line %d: %s -> %s (%s) [%s]", shape.name, ch.LineNo, ch.Old, ch.New, ch.Mountpoint, ch.Reason)
	}

	after := strings.Join(outLines, "\n") + "\n"
	if r.DryRun {
		log.Printf("%s: DRY-RUN: would apply %d change(s)", shape.name, len(changes))
		return len(changes), changes, audit, nil
	}

	r.backupFile(path)
	if err := r.Guest.WriteFile(path, []byte(after)); err != nil {
		return 0, nil, audit, errors.Wrapf(err, "failed to write %s", path)
	}
	log.Printf("%s updated (%d changes)", path, len(changes))
	return len(changes), changes, audit, nil
}

// backupFile copies the original next to itself with a tool marker and
// timestamp. Backup failure is a warning; losing the backup is better than
// losing the fix.
func (r *Rewriter) backupFile(path string) {
	if r.NoBackup || r.DryRun {
		return
	}
	if !r.Guest.IsFile(path) {
		return
	}
	backup := fmt.Sprintf("%s.backup.guestfix.%d", path, time.Now().Unix())
	if err := r.Guest.CopyFile(path, backup); err != nil {
		log.Printf("Backup failed for %s: %v", path, err)
		return
	}
	log.Printf("Backup: %s -> %s", path, backup)
}
