// Copyright © 2025 The guestfix authors

// Package guestfs provides read/write access to the filesystems inside a
// disk image through a libguestfs appliance driven over guestfish.
package guestfs

//go:generate mockgen -source=guestfs.go -destination=guestfs_mock.go -package=guestfs

// Inspection is the OS inspection summary the appliance reports for an
// image: the root filesystem it identified plus the mountpoint-to-device
// map recorded in the guest.
type Inspection struct {
	Root        string
	Product     string
	Distro      string
	Major       int
	Minor       int
	Mountpoints map[string]string
}

// GuestFSOperations is the disk-access capability the fix engine runs
// against. One instance owns one disk image; calls must not interleave
// across goroutines.
type GuestFSOperations interface {
	Launch() error
	Close() error

	Mount(device, mountpoint string) error
	MountRO(device, mountpoint string) error
	MountWithOptions(options, device, mountpoint string) error
	UnmountAll() error

	IsFile(path string) bool
	IsDir(path string) bool
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, content []byte) error
	CopyFile(src, dst string) error
	MkdirAll(path string) error
	Chmod(mode int, path string) error

	ListPartitions() ([]string, error)
	ListFilesystems() (map[string]string, error)
	ListLogicalVolumes() ([]string, error)
	ResolveSymlink(path string) (string, error)
	BlockAttributes(device string) (map[string]string, error)
	InspectOS() (*Inspection, error)

	LUKSOpen(device, name string, key []byte) error
	ActivateVolumeGroups() error
	Sync() error
}
