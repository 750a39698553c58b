// Copyright © 2025 The guestfix authors

// Package identity maps raw block-device references from guest storage
// tables to stable identifiers that survive a change of virtual hardware
// topology.
package identity

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// ByPathPrefix is the bus-topology symlink namespace. References under
	// it encode controller/slot positions and break after migration.
	ByPathPrefix = "/dev/disk/by-path/"

	btrfsVolPrefix = "btrfsvol:"
)

// Mode bounds how aggressively table specs are rewritten.
type Mode string

const (
	// ModeStabilizeAll rewrites every resolvable non-stable spec,
	// including plain /dev nodes.
	ModeStabilizeAll Mode = "stabilize-all"
	// ModeByPathOnly rewrites only by-path and btrfs-volume specs.
	ModeByPathOnly Mode = "bypath-only"
	// ModeNoOp performs no rewriting at all.
	ModeNoOp Mode = "noop"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeStabilizeAll, ModeByPathOnly, ModeNoOp:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown fstab mode %q (want stabilize-all, bypath-only or noop)", s)
}

// SpecKind classifies a raw device spec. Classification is total: anything
// that does not match a more specific form is a plain path.
type SpecKind int

const (
	KindPlainPath SpecKind = iota
	KindByPath
	KindStableID
	KindBtrfsVolume
)

func Classify(raw string) SpecKind {
	switch {
	case strings.HasPrefix(raw, btrfsVolPrefix):
		return KindBtrfsVolume
	case IsStable(raw):
		return KindStableID
	case strings.HasPrefix(raw, ByPathPrefix):
		return KindByPath
	default:
		return KindPlainPath
	}
}

// IsStable reports whether spec already uses a hypervisor-independent
// identifier prefix.
func IsStable(spec string) bool {
	u := strings.ToUpper(spec)
	for _, p := range []string{"UUID=", "PARTUUID=", "LABEL=", "PARTLABEL="} {
		if strings.HasPrefix(u, p) {
			return true
		}
	}
	return false
}

// SplitBtrfsVol parses libguestfs-style btrfsvol: specs.
// Examples:
//
//	btrfsvol:/dev/sda2//@
//	btrfsvol:/dev/sda2//@/var
//	btrfsvol:/dev/sda2//@/.snapshots/1/snapshot
//
// Returns the device and the subvolume name ("@", "@/var", ...). Specs
// without the prefix come back unchanged with an empty subvolume.
func SplitBtrfsVol(spec string) (device, subvol string) {
	if !strings.HasPrefix(spec, btrfsVolPrefix) {
		return spec, ""
	}
	s := spec[len(btrfsVolPrefix):]
	if !strings.Contains(s, "//") {
		return strings.TrimSpace(s), ""
	}
	parts := strings.SplitN(s, "//", 2)
	device = strings.TrimSpace(parts[0])
	subvol = strings.TrimLeft(strings.TrimSpace(parts[1]), "/")
	return device, subvol
}

// JoinBtrfsVol rebuilds the compound wrapper around a (possibly rewritten)
// device token.
func JoinBtrfsVol(device, subvol string) string {
	if subvol == "" {
		return btrfsVolPrefix + device
	}
	return btrfsVolPrefix + device + "//" + subvol
}

// ChooseStable picks a stable prefix from blkid-style attributes in the
// fixed priority order UUID, PARTUUID, LABEL, PARTLABEL. Keys are expected
// uppercase. Returns "" when no attribute qualifies.
func ChooseStable(attrs map[string]string) string {
	for _, key := range []string{"UUID", "PARTUUID", "LABEL", "PARTLABEL"} {
		if v := attrs[key]; v != "" {
			return key + "=" + v
		}
	}
	return ""
}

var (
	reNVMePartition   = regexp.MustCompile(`^(/dev/(?:nvme\d+n\d+|mmcblk\d+))p\d+$`)
	reLetterPartition = regexp.MustCompile(`^(/dev/[a-zA-Z]+)\d+$`)
	reNVMeWholeDisk   = regexp.MustCompile(`^/dev/(?:nvme\d+n\d+|mmcblk\d+)$`)
	reLetterWholeDisk = regexp.MustCompile(`^/dev/[a-zA-Z]+$`)
	rePartSuffix      = regexp.MustCompile(`-part(\d+)$`)
)

// PartitionParent returns the whole-disk device a partition node belongs to
// (/dev/sda3 -> /dev/sda, /dev/nvme0n1p2 -> /dev/nvme0n1), or "" when dev
// does not look like a partition.
func PartitionParent(dev string) string {
	if m := reNVMePartition.FindStringSubmatch(dev); m != nil {
		return m[1]
	}
	if m := reLetterPartition.FindStringSubmatch(dev); m != nil {
		return m[1]
	}
	return ""
}

// InferPartitionFromByPath reconstructs the device node a dangling by-path
// reference pointed at, using the root device's naming scheme: the trailing
// -partN suffix combined with the root disk's base name. nvme/mmcblk disks
// take a "p" separator, everything else concatenates the number directly.
// Returns "" when no deterministic reconstruction exists.
func InferPartitionFromByPath(spec, rootDev string) string {
	if rootDev == "" || !strings.HasPrefix(spec, ByPathPrefix) {
		return ""
	}
	m := rePartSuffix.FindStringSubmatch(spec)
	if m == nil {
		return ""
	}
	base := PartitionParent(rootDev)
	if base == "" {
		// The root hint may already name a whole disk.
		if reNVMeWholeDisk.MatchString(rootDev) || reLetterWholeDisk.MatchString(rootDev) {
			base = rootDev
		} else {
			return ""
		}
	}
	if reNVMeWholeDisk.MatchString(base) {
		return base + "p" + m[1]
	}
	return base + m[1]
}
