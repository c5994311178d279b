// internal/domain/notification/shared_types.go
package notification

// RunType identifies which scheduled job produced a notification run.
type RunType string

const (
	RunTypeShiftChange    RunType = "SHIFT_CHANGE"    // 07:00 announcement of today's shift
	RunTypeShiftReminder  RunType = "SHIFT_REMINDER"  // lead-time reminder before a working shift
	RunTypeTransferDigest RunType = "TRANSFER_DIGEST" // upcoming handovers with the watched team
)
