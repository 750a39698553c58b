// Copyright © 2025 The guestfix authors

package reporter

import (
	"fmt"
	"strings"

	"github.com/vmshift/guestfix/fstab"
)

// RenderChanges renders one table's change list and audit as the
// human-readable block that goes to logs and the run report.
func RenderChanges(table string, changes []fstab.Change, audit fstab.TableAudit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d/%d entries rewritten (%d by-path, %d lines total)\n",
		table, audit.ChangedEntries, audit.Entries, audit.ByPathEntries, audit.TotalLines)
	for _, ch := range changes {
		fmt.Fprintf(&b, "  line %3d  %-20s %s -> %s [%s]\n", ch.LineNo, ch.Mountpoint, ch.Old, ch.New, ch.Reason)
	}
	if len(changes) == 0 {
		b.WriteString("  no changes\n")
	}
	return b.String()
}
