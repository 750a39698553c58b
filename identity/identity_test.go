// Copyright © 2025 The guestfix authors

package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeLookup answers resolution queries from fixed tables.
type fakeLookup struct {
	symlinks map[string]string
	attrs    map[string]map[string]string
}

func (f *fakeLookup) ResolveSymlink(path string) (string, error) {
	if target, ok := f.symlinks[path]; ok {
		return target, nil
	}
	return "", assert.AnError
}

func (f *fakeLookup) BlockAttributes(device string) (map[string]string, error) {
	if attrs, ok := f.attrs[device]; ok {
		return attrs, nil
	}
	return map[string]string{}, nil
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindPlainPath, Classify("/dev/sda1"))
	assert.Equal(t, KindPlainPath, Classify("/dev/mapper/vg-root"))
	assert.Equal(t, KindPlainPath, Classify("tmpfs"))
	assert.Equal(t, KindByPath, Classify("/dev/disk/by-path/pci-0000:00:05.0-part3"))
	assert.Equal(t, KindStableID, Classify("UUID=1234-ABCD"))
	assert.Equal(t, KindStableID, Classify("uuid=1234-abcd"))
	assert.Equal(t, KindStableID, Classify("PARTLABEL=esp"))
	assert.Equal(t, KindBtrfsVolume, Classify("btrfsvol:/dev/sda2//@"))
}

func TestSplitBtrfsVol(t *testing.T) {
	tests := []struct {
		spec, device, subvol string
	}{
		{"btrfsvol:/dev/sda2//@", "/dev/sda2", "@"},
		{"btrfsvol:/dev/sda2//@/var", "/dev/sda2", "@/var"},
		{"btrfsvol:/dev/sda2//@/.snapshots/1/snapshot", "/dev/sda2", "@/.snapshots/1/snapshot"},
		{"btrfsvol:/dev/sda2", "/dev/sda2", ""},
		{"btrfsvol:/dev/sda2//", "/dev/sda2", ""},
		{"/dev/sda2", "/dev/sda2", ""},
	}
	for _, tc := range tests {
		dev, sv := SplitBtrfsVol(tc.spec)
		assert.Equal(t, tc.device, dev, tc.spec)
		assert.Equal(t, tc.subvol, sv, tc.spec)
	}
}

func TestChooseStablePriority(t *testing.T) {
	// UUID must always win over PARTUUID, and so on down the chain.
	all := map[string]string{
		"UUID":      "1234-ABCD",
		"PARTUUID":  "feed-beef",
		"LABEL":     "root",
		"PARTLABEL": "primary",
	}
	assert.Equal(t, "UUID=1234-ABCD", ChooseStable(all))

	delete(all, "UUID")
	assert.Equal(t, "PARTUUID=feed-beef", ChooseStable(all))

	delete(all, "PARTUUID")
	assert.Equal(t, "LABEL=root", ChooseStable(all))

	delete(all, "LABEL")
	assert.Equal(t, "PARTLABEL=primary", ChooseStable(all))

	delete(all, "PARTLABEL")
	assert.Equal(t, "", ChooseStable(all))
}

func TestInferPartitionFromByPath(t *testing.T) {
	// sdX-style roots concatenate the partition number directly.
	assert.Equal(t, "/dev/vda3",
		InferPartitionFromByPath("/dev/disk/by-path/pci-0000:00:05.0-part3", "/dev/vda"))
	assert.Equal(t, "/dev/sda1",
		InferPartitionFromByPath("/dev/disk/by-path/pci-0000:00:1f.2-ata-1-part1", "/dev/sda2"))

	// nvme/mmcblk insert a "p" separator.
	assert.Equal(t, "/dev/nvme0n1p2",
		InferPartitionFromByPath("/dev/disk/by-path/pci-0000:03:00.0-nvme-1-part2", "/dev/nvme0n1"))
	assert.Equal(t, "/dev/mmcblk0p1",
		InferPartitionFromByPath("/dev/disk/by-path/platform-fe340000.mmc-part1", "/dev/mmcblk0p2"))

	// No deterministic reconstruction: no -partN suffix, no usable root.
	assert.Equal(t, "", InferPartitionFromByPath("/dev/disk/by-path/pci-0000:00:05.0", "/dev/vda"))
	assert.Equal(t, "", InferPartitionFromByPath("/dev/disk/by-path/pci-x-part1", ""))
	assert.Equal(t, "", InferPartitionFromByPath("/dev/disk/by-path/pci-x-part1", "/dev/mapper/vg-root"))
	assert.Equal(t, "", InferPartitionFromByPath("/dev/sda1", "/dev/sda"))
}

func TestPartitionParent(t *testing.T) {
	assert.Equal(t, "/dev/sda", PartitionParent("/dev/sda3"))
	assert.Equal(t, "/dev/nvme0n1", PartitionParent("/dev/nvme0n1p2"))
	assert.Equal(t, "/dev/mmcblk1", PartitionParent("/dev/mmcblk1p3"))
	assert.Equal(t, "", PartitionParent("/dev/sda"))
	assert.Equal(t, "", PartitionParent("/dev/mapper/vg-root"))
}

func TestResolveAlreadyStable(t *testing.T) {
	lookup := &fakeLookup{}
	res := Resolve("UUID=1234-ABCD", "/dev/sda1", ModeStabilizeAll, lookup)
	assert.Equal(t, "UUID=1234-ABCD", res.Spec)
	assert.Equal(t, ReasonAlreadyStable, res.Reason)
}

func TestResolveUUIDWinsOverPartUUID(t *testing.T) {
	lookup := &fakeLookup{attrs: map[string]map[string]string{
		"/dev/sda1": {"UUID": "1234-ABCD", "PARTUUID": "feed-beef"},
	}}
	res := Resolve("/dev/sda1", "/dev/sda1", ModeStabilizeAll, lookup)
	assert.Equal(t, "UUID=1234-ABCD", res.Spec)
	assert.Equal(t, ReasonBlockIDLookup, res.Reason)
	assert.Equal(t, "/dev/sda1", res.Target)
}

func TestResolveByPathViaSymlink(t *testing.T) {
	lookup := &fakeLookup{
		symlinks: map[string]string{"/dev/disk/by-path/pci-x-part1": "/dev/sda1"},
		attrs:    map[string]map[string]string{"/dev/sda1": {"UUID": "1234-ABCD"}},
	}
	res := Resolve("/dev/disk/by-path/pci-x-part1", "", ModeStabilizeAll, lookup)
	assert.Equal(t, "UUID=1234-ABCD", res.Spec)
	assert.Equal(t, ReasonMappedByPath, res.Reason)
	assert.Equal(t, "/dev/sda1", res.Target)
}

func TestResolveByPathReconstructed(t *testing.T) {
	// Dangling symlink; reconstruction from the root device must kick in.
	lookup := &fakeLookup{
		attrs: map[string]map[string]string{"/dev/sda1": {"UUID": "1234-ABCD"}},
	}
	res := Resolve("/dev/disk/by-path/pci-x-part1", "/dev/sda", ModeStabilizeAll, lookup)
	assert.Equal(t, "UUID=1234-ABCD", res.Spec)
	assert.Equal(t, ReasonMappedByPath, res.Reason)
	assert.Equal(t, "/dev/sda1", res.Target)
}

func TestResolveByPathUnresolved(t *testing.T) {
	lookup := &fakeLookup{}
	res := Resolve("/dev/disk/by-path/pci-x", "", ModeStabilizeAll, lookup)
	assert.Equal(t, "/dev/disk/by-path/pci-x", res.Spec)
	assert.Equal(t, ReasonByPathUnresolved, res.Reason)
}

func TestResolveDevNoID(t *testing.T) {
	lookup := &fakeLookup{}
	res := Resolve("/dev/sdb1", "/dev/sda1", ModeStabilizeAll, lookup)
	assert.Equal(t, "/dev/sdb1", res.Spec)
	assert.Equal(t, ReasonDevNoID, res.Reason)
}

func TestResolveParentDiskFallback(t *testing.T) {
	// Partition exposes nothing; the whole disk carries the identity.
	lookup := &fakeLookup{attrs: map[string]map[string]string{
		"/dev/sdb": {"PARTUUID": "feed-beef"},
	}}
	res := Resolve("/dev/sdb1", "/dev/sda1", ModeStabilizeAll, lookup)
	assert.Equal(t, "PARTUUID=feed-beef", res.Spec)
	assert.Equal(t, ReasonBlockIDLookup, res.Reason)
}

func TestResolveByPathOnlyLeavesPlainNodes(t *testing.T) {
	// Fully resolvable, but the policy gate wins.
	lookup := &fakeLookup{attrs: map[string]map[string]string{
		"/dev/sda1": {"UUID": "1234-ABCD"},
	}}
	res := Resolve("/dev/sda1", "/dev/sda1", ModeByPathOnly, lookup)
	assert.Equal(t, "/dev/sda1", res.Spec)
	assert.Equal(t, ReasonUnchanged, res.Reason)
}

func TestResolveByPathOnlyStillMapsByPath(t *testing.T) {
	lookup := &fakeLookup{
		symlinks: map[string]string{"/dev/disk/by-path/pci-x-part1": "/dev/sda1"},
		attrs:    map[string]map[string]string{"/dev/sda1": {"UUID": "1234-ABCD"}},
	}
	res := Resolve("/dev/disk/by-path/pci-x-part1", "", ModeByPathOnly, lookup)
	assert.Equal(t, "UUID=1234-ABCD", res.Spec)
	assert.Equal(t, ReasonMappedByPath, res.Reason)
}

func TestResolveBtrfsVolumeKeepsSubvolume(t *testing.T) {
	lookup := &fakeLookup{attrs: map[string]map[string]string{
		"/dev/sda2": {"UUID": "1234-ABCD"},
	}}
	res := Resolve("btrfsvol:/dev/sda2//@", "/dev/sda2", ModeStabilizeAll, lookup)
	assert.Equal(t, "btrfsvol:UUID=1234-ABCD//@", res.Spec)
	assert.Equal(t, ReasonBlockIDLookup, res.Reason)

	// Already-stable device token inside the wrapper stays put.
	res = Resolve("btrfsvol:UUID=1234-ABCD//@", "/dev/sda2", ModeStabilizeAll, lookup)
	assert.Equal(t, "btrfsvol:UUID=1234-ABCD//@", res.Spec)
	assert.Equal(t, ReasonAlreadyStable, res.Reason)
}

func TestResolveIdempotence(t *testing.T) {
	lookup := &fakeLookup{attrs: map[string]map[string]string{
		"/dev/sda1": {"UUID": "1234-ABCD"},
	}}
	for _, mode := range []Mode{ModeStabilizeAll, ModeByPathOnly} {
		first := Resolve("/dev/sda1", "/dev/sda1", mode, lookup)
		second := Resolve(first.Spec, "/dev/sda1", mode, lookup)
		assert.Equal(t, first.Spec, second.Spec, mode)
		if first.Spec != "/dev/sda1" {
			assert.Equal(t, ReasonAlreadyStable, second.Reason, mode)
		}
	}
}

func TestResolveChangedSpecCarriesChangeReason(t *testing.T) {
	// A changed spec must never claim an unchanged-family reason.
	lookup := &fakeLookup{
		symlinks: map[string]string{"/dev/disk/by-path/pci-x-part1": "/dev/sda1"},
		attrs: map[string]map[string]string{
			"/dev/sda1": {"UUID": "1234-ABCD"},
			"/dev/sdb1": {},
		},
	}
	unchangedReasons := map[Reason]bool{
		ReasonAlreadyStable:    true,
		ReasonByPathUnresolved: true,
		ReasonDevNoID:          true,
		ReasonUnchanged:        true,
	}
	for _, raw := range []string{
		"/dev/disk/by-path/pci-x-part1",
		"/dev/sda1",
		"/dev/sdb1",
		"UUID=1234-ABCD",
		"/dev/disk/by-path/pci-y",
	} {
		res := Resolve(raw, "/dev/sda1", ModeStabilizeAll, lookup)
		if res.Spec == raw {
			assert.True(t, unchangedReasons[res.Reason], "unchanged %s got %s", raw, res.Reason)
		} else {
			assert.False(t, unchangedReasons[res.Reason], "changed %s got %s", raw, res.Reason)
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"stabilize-all", "bypath-only", "noop"} {
		m, err := ParseMode(s)
		assert.NoError(t, err)
		assert.Equal(t, Mode(s), m)
	}
	_, err := ParseMode("aggressive")
	assert.Error(t, err)
}
