// Copyright © 2025 The guestfix authors

package guestfs

import "strings"

// splitDeviceList turns newline-separated guestfish output into a clean
// slice, dropping blanks.
func splitDeviceList(out string) []string {
	var devices []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			devices = append(devices, line)
		}
	}
	return devices
}

// parseKeyValueLines parses guestfish "key: value" output (blkid,
// list-filesystems, inspect-get-mountpoints). blkid keys are uppercased so
// attribute lookups are case-insensitive.
func parseKeyValueLines(out string, upperKeys bool) map[string]string {
	m := map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.Index(line, ": ")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+2:])
		if upperKeys {
			key = strings.ToUpper(key)
		}
		if key != "" && value != "" {
			m[key] = value
		}
	}
	return m
}
