// Copyright © 2025 The guestfix authors

package constants

const (
	ToolName = "guestfix"
	Version  = "0.1.0"

	// Guest-side table paths.
	FstabPath    = "/etc/fstab"
	CrypttabPath = "/etc/crypttab"

	// DefaultLUKSMapperPrefix names opened encrypted devices
	// (/dev/mapper/guestfix-crypt1, ...).
	DefaultLUKSMapperPrefix = "guestfix-crypt"

	// Pipeline stage names used for checkpoints and pod events.
	StageStart             = "start"
	StageMounted           = "mounted"
	StageFstabRewritten    = "fstab-rewritten"
	StageCrypttabRewritten = "crypttab-rewritten"
	StageDone              = "done"
)
