// Copyright © 2025 The guestfix authors

package rootfs

import (
	"fmt"
	"log"
	"os"

	"github.com/vmshift/guestfix/guestfs"
)

// LUKSOptions configures the optional unlock of encrypted volumes before
// root location. Key material sources, strongest first: keyfile, literal
// passphrase, environment variable.
type LUKSOptions struct {
	Enabled       bool
	Passphrase    string
	PassphraseEnv string
	Keyfile       string
	MapperPrefix  string
}

// LUKSAudit records what the unlock pass attempted, for the run report.
type LUKSAudit struct {
	Enabled     bool         `json:"enabled"`
	Attempted   bool         `json:"attempted"`
	Configured  bool         `json:"configured"`
	LUKSDevices []string     `json:"luks_devices,omitempty"`
	Opened      []LUKSOpened `json:"opened,omitempty"`
	Skipped     []string     `json:"skipped,omitempty"`
	Errors      []string     `json:"errors,omitempty"`
}

// LUKSOpened maps an encrypted device to the mapper node it was opened as.
type LUKSOpened struct {
	Device string `json:"device"`
	Mapped string `json:"mapped"`
}

func (o LUKSOptions) keyMaterial() []byte {
	if o.Keyfile != "" {
		if data, err := os.ReadFile(o.Keyfile); err == nil {
			return data
		}
	}
	pw := o.Passphrase
	if pw == "" && o.PassphraseEnv != "" {
		pw = os.Getenv(o.PassphraseEnv)
	}
	if pw != "" {
		return []byte(pw)
	}
	return nil
}

// UnlockLUKS opens every crypto_LUKS device on the image with the
// configured key material and activates volume groups when anything was
// opened, so LVs stacked on the encrypted devices become mountable. A
// failed unlock is recorded, never fatal.
func UnlockLUKS(g guestfs.GuestFSOperations, opts LUKSOptions) LUKSAudit {
	audit := LUKSAudit{Enabled: opts.Enabled}
	if !opts.Enabled {
		audit.Skipped = append(audit.Skipped, "luks_disabled")
		return audit
	}

	key := opts.keyMaterial()
	audit.Configured = key != nil
	if key == nil {
		audit.Skipped = append(audit.Skipped, "no_key_material_configured")
		return audit
	}

	fsmap, err := g.ListFilesystems()
	if err != nil {
		audit.Errors = append(audit.Errors, fmt.Sprintf("list_filesystems_failed: %v", err))
		return audit
	}
	for dev, fstype := range fsmap {
		if fstype == "crypto_LUKS" {
			audit.LUKSDevices = append(audit.LUKSDevices, dev)
		}
	}
	if len(audit.LUKSDevices) == 0 {
		audit.Skipped = append(audit.Skipped, "no_crypto_LUKS_devices_found")
		return audit
	}

	audit.Attempted = true
	prefix := opts.MapperPrefix
	if prefix == "" {
		prefix = "guestfix-crypt"
	}
	for idx, dev := range audit.LUKSDevices {
		name := fmt.Sprintf("%s%d", prefix, idx+1)
		if err := g.LUKSOpen(dev, name, key); err != nil {
			audit.Errors = append(audit.Errors, fmt.Sprintf("%s: %v", dev, err))
			log.Printf("LUKS: failed to open %s: %v", dev, err)
			continue
		}
		mapped := "/dev/mapper/" + name
		audit.Opened = append(audit.Opened, LUKSOpened{Device: dev, Mapped: mapped})
		log.Printf("LUKS: opened %s -> %s", dev, mapped)
	}

	if len(audit.Opened) > 0 {
		if err := g.ActivateVolumeGroups(); err != nil {
			audit.Errors = append(audit.Errors, fmt.Sprintf("vg_activate_failed: %v", err))
		}
	}
	return audit
}
