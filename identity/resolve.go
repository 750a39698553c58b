// Copyright © 2025 The guestfix authors

package identity

import "strings"

// Lookup is the slice of the disk-access capability resolution needs.
type Lookup interface {
	// ResolveSymlink follows a symlink inside the guest to a real device
	// node.
	ResolveSymlink(path string) (string, error)
	// BlockAttributes returns blkid-style identifying attributes for a
	// device (UUID, PARTUUID, LABEL, PARTLABEL), keys uppercase.
	BlockAttributes(device string) (map[string]string, error)
}

// Reason explains the outcome of resolving one table spec.
type Reason string

const (
	// ReasonAlreadyStable marks specs that already carried a stable prefix.
	ReasonAlreadyStable Reason = "already-stable"
	// ReasonMappedByPath marks by-path specs mapped to a device and then
	// to a stable identifier.
	ReasonMappedByPath Reason = "mapped-by-path"
	// ReasonByPathUnresolved marks by-path specs no device could be found
	// for. Not an error; the spec is left alone.
	ReasonByPathUnresolved Reason = "by-path-unresolved"
	// ReasonBlockIDLookup marks plain device nodes stabilized through a
	// direct attribute lookup.
	ReasonBlockIDLookup Reason = "blkid"
	// ReasonDevNoID marks devices that expose no identifying attributes.
	ReasonDevNoID Reason = "dev-no-id"
	// ReasonUnchanged marks specs the active policy left untouched.
	ReasonUnchanged Reason = "unchanged"
)

// Resolution is the outcome of resolving one spec. Spec equals the input
// whenever Reason is one of the unchanged-family values.
type Resolution struct {
	Spec   string
	Reason Reason
	// Target is the concrete device node behind a MappedByPath, BlockIDLookup
	// or DevNoID outcome.
	Target string
}

func (r Resolution) String() string {
	if r.Target != "" {
		return string(r.Reason) + ":" + r.Target
	}
	return string(r.Reason)
}

// Resolve maps a raw table spec to a stable replacement, or returns it
// unchanged with a reason. It never fails: an unresolvable reference is a
// normal outcome, surfaced through the reason code.
func Resolve(raw, rootDevice string, mode Mode, lookup Lookup) Resolution {
	kind := Classify(raw)

	// Policy gate: under bypath-only, anything that is not a by-path or
	// btrfs-volume spec is out of bounds before resolution even starts.
	if mode == ModeByPathOnly && kind != KindByPath && kind != KindBtrfsVolume {
		return Resolution{Spec: raw, Reason: ReasonUnchanged}
	}

	spec := raw
	subvol := ""
	if kind == KindBtrfsVolume {
		// Only the device token is rewritten; the subvolume rides along.
		spec, subvol = SplitBtrfsVol(raw)
	}

	if IsStable(spec) {
		return Resolution{Spec: raw, Reason: ReasonAlreadyStable}
	}

	if strings.HasPrefix(spec, ByPathPrefix) {
		mapped := ""
		if rp, err := lookup.ResolveSymlink(spec); err == nil {
			rp = strings.TrimSpace(rp)
			if strings.HasPrefix(rp, "/dev/") {
				mapped = rp
			}
		}
		if mapped == "" {
			mapped = InferPartitionFromByPath(spec, rootDevice)
		}
		if mapped == "" {
			return Resolution{Spec: raw, Reason: ReasonByPathUnresolved}
		}
		if stable := stableFor(mapped, lookup); stable != "" {
			return Resolution{Spec: rewrap(kind, stable, subvol), Reason: ReasonMappedByPath, Target: mapped}
		}
		return Resolution{Spec: raw, Reason: ReasonDevNoID, Target: mapped}
	}

	if mode == ModeStabilizeAll && strings.HasPrefix(spec, "/dev/") {
		if stable := stableFor(spec, lookup); stable != "" {
			return Resolution{Spec: rewrap(kind, stable, subvol), Reason: ReasonBlockIDLookup, Target: spec}
		}
		return Resolution{Spec: raw, Reason: ReasonDevNoID, Target: spec}
	}

	return Resolution{Spec: raw, Reason: ReasonUnchanged}
}

// stableFor looks up identifying attributes for dev, falling back to the
// inferred parent whole-disk device for partition tables that only expose
// identity at the disk level.
func stableFor(dev string, lookup Lookup) string {
	if attrs, err := lookup.BlockAttributes(dev); err == nil {
		if s := ChooseStable(attrs); s != "" {
			return s
		}
	}
	parent := PartitionParent(dev)
	if parent == "" {
		return ""
	}
	attrs, err := lookup.BlockAttributes(parent)
	if err != nil {
		return ""
	}
	return ChooseStable(attrs)
}

func rewrap(kind SpecKind, device, subvol string) string {
	if kind != KindBtrfsVolume {
		return device
	}
	return JoinBtrfsVol(device, subvol)
}
