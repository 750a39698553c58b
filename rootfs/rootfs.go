// Copyright © 2025 The guestfix authors

// Package rootfs locates and mounts the guest's root filesystem inside a
// disk image, working down a ladder of strategies from precise inspection
// metadata to a blind per-partition probe.
package rootfs

import (
	"fmt"
	"log"
	"strings"

	"github.com/pkg/errors"

	"github.com/vmshift/guestfix/guestfs"
	"github.com/vmshift/guestfix/identity"
)

// MountState tracks where a disk image is in the root-location lifecycle.
// It only moves forward; Failed is terminal and fatal for the disk.
type MountState int

const (
	StateNotMounted MountState = iota
	StateMountedDirect
	StateMountedFallback
	StateFailed
)

func (s MountState) String() string {
	switch s {
	case StateNotMounted:
		return "not-mounted"
	case StateMountedDirect:
		return "mounted-direct"
	case StateMountedFallback:
		return "mounted-fallback"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("mount-state(%d)", int(s))
}

// RootMount describes the mounted guest root. Device is the node all later
// identity resolution runs against.
type RootMount struct {
	State     MountState
	Device    string
	Subvolume string
	// Inspection carries the guest identity when rung 1 produced one.
	Inspection *guestfs.Inspection
}

// Mounted reports whether the locator reached a terminal success state.
func (m RootMount) Mounted() bool {
	return m.State == StateMountedDirect || m.State == StateMountedFallback
}

// Common root subvolume names for distros that default to btrfs layouts
// (openSUSE "@/.snapshots", Ubuntu "@").
var commonBtrfsSubvols = []string{"@", "@/", "@root", "@rootfs", "@/.snapshots/1/snapshot"}

var rootHintFiles = []string{"/etc/fstab", "/etc/os-release", "/bin/sh", "/sbin/init"}
var rootStrongHints = []string{"/etc/passwd", "/usr/bin/env", "/var/lib", "/proc"}

// Locator mounts the guest root through a fallback ladder: inspection
// metadata, then a direct mount of the reported device, then brute-force
// probing of every candidate filesystem. One Locator owns one image.
type Locator struct {
	Guest  guestfs.GuestFSOperations
	DryRun bool
}

// LocateAndMount runs the ladder once. The error is non-nil only for the
// terminal Failed state; every other outcome mounts something.
func (l *Locator) LocateAndMount() (RootMount, error) {
	insp, err := l.Guest.InspectOS()
	if err != nil || insp == nil {
		log.Println("OS inspection found no roots; falling back to brute-force mount")
		return l.bruteForce(nil)
	}
	log.Printf("Detected guest: %s %d.%d (distro=%s)", insp.Product, insp.Major, insp.Minor, insp.Distro)

	rootSpec := strings.TrimSpace(insp.Mountpoints["/"])
	if rootSpec == "" {
		log.Println("Inspection did not report a root (/) device spec; brute-force mounting")
		return l.bruteForce(insp)
	}

	dev, subvol := identity.SplitBtrfsVol(rootSpec)
	real := ""
	if strings.HasPrefix(dev, "/dev/disk/by-") {
		if rp, rpErr := l.Guest.ResolveSymlink(dev); rpErr == nil {
			rp = strings.TrimSpace(rp)
			if strings.HasPrefix(rp, "/dev/") {
				real = rp
			}
		}
	}
	// A by-path hint from the old topology that no longer resolves is the
	// common case after migration. Mounting it blind would pick a
	// non-deterministic partition, so go straight to the probe.
	if real == "" && strings.HasPrefix(dev, identity.ByPathPrefix) {
		log.Println("Root spec is by-path and not resolvable; brute-force mounting")
		return l.bruteForce(insp)
	}
	if real == "" && strings.HasPrefix(dev, "/dev/") {
		real = dev
	}
	if real == "" {
		log.Println("Could not determine root device from inspection; brute-force mounting")
		return l.bruteForce(insp)
	}

	if mountErr := l.mountRoot(real, subvol); mountErr != nil {
		log.Printf("%v; brute-force mounting", mountErr)
		return l.bruteForce(insp)
	}
	if subvol != "" {
		log.Printf("Mounted root at / using %s (btrfs subvol=%s)", real, subvol)
	} else {
		log.Printf("Mounted root at / using %s", real)
	}
	return RootMount{State: StateMountedDirect, Device: real, Subvolume: subvol, Inspection: insp}, nil
}

func (l *Locator) mountRoot(dev, subvol string) error {
	var err error
	switch {
	case subvol != "":
		opts := "subvol=" + subvol
		if l.DryRun {
			opts = "ro," + opts
		}
		err = l.Guest.MountWithOptions(opts, dev, "/")
	case l.DryRun:
		err = l.Guest.MountRO(dev, "/")
	default:
		err = l.Guest.Mount(dev, "/")
	}
	if err != nil {
		return errors.Wrapf(err, "failed mounting root %s (subvol=%q)", dev, subvol)
	}
	return nil
}

// candidateDevices builds the probe list: partitions first, then mountable
// filesystems (LUKS mappers show up here once opened), then logical
// volumes. First-seen order, deduplicated.
func (l *Locator) candidateDevices() []string {
	var candidates []string

	if parts, err := l.Guest.ListPartitions(); err == nil {
		candidates = append(candidates, parts...)
	}
	if fsmap, err := l.Guest.ListFilesystems(); err == nil {
		for dev, fstype := range fsmap {
			if fstype == "swap" || fstype == "crypto_LUKS" {
				continue
			}
			if strings.HasPrefix(dev, "/dev/") {
				candidates = append(candidates, dev)
			}
		}
	}
	if lvs, err := l.Guest.ListLogicalVolumes(); err == nil {
		for _, lv := range lvs {
			if strings.HasPrefix(lv, "/dev/") {
				candidates = append(candidates, lv)
			}
		}
	}

	seen := map[string]struct{}{}
	var out []string
	for _, d := range candidates {
		if _, ok := seen[d]; d == "" || ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

func (l *Locator) bruteForce(insp *guestfs.Inspection) (RootMount, error) {
	candidates := l.candidateDevices()
	if len(candidates) == 0 {
		return RootMount{State: StateFailed}, errors.New("failed to list partitions/filesystems for brute-force root detection")
	}

	// Plain mounts first; they are cheap and cover everything non-btrfs.
	for _, dev := range candidates {
		_ = l.Guest.UnmountAll()
		var err error
		if l.DryRun {
			err = l.Guest.MountRO(dev, "/")
		} else {
			err = l.Guest.Mount(dev, "/")
		}
		if err != nil {
			continue
		}
		if l.looksLikeRoot() {
			log.Printf("Fallback root detected at %s", dev)
			return RootMount{State: StateMountedFallback, Device: dev, Inspection: insp}, nil
		}
	}

	for _, dev := range candidates {
		for _, sv := range commonBtrfsSubvols {
			_ = l.Guest.UnmountAll()
			opts := "subvol=" + sv
			if l.DryRun {
				opts = "ro," + opts
			}
			if err := l.Guest.MountWithOptions(opts, dev, "/"); err != nil {
				continue
			}
			if l.looksLikeRoot() {
				log.Printf("Fallback btrfs root detected at %s (subvol=%s)", dev, sv)
				return RootMount{State: StateMountedFallback, Device: dev, Subvolume: sv, Inspection: insp}, nil
			}
		}
	}

	_ = l.Guest.UnmountAll()
	return RootMount{State: StateFailed}, errors.New("no root filesystem could be located on the image")
}

// looksLikeRoot checks the mounted tree for root-filesystem markers. A
// single hit is too weak; data partitions occasionally carry an fstab
// backup or a stray /proc directory.
func (l *Locator) looksLikeRoot() bool {
	hits := 0
	for _, p := range rootHintFiles {
		if l.Guest.IsFile(p) {
			hits++
		}
	}
	for _, p := range rootStrongHints {
		if l.Guest.IsFile(p) || l.Guest.IsDir(p) {
			hits++
		}
	}
	return hits >= 2
}
