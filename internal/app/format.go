// internal/app/format.go
package app

import (
	"fmt"
	"strings"
	"time"

	"shift_rotation_bot/internal/domain/calendar"
	"shift_rotation_bot/internal/domain/shift"
)

const clockLayout = "15:04"

// FormatKindHours renders "Morning 07:00–15:00" or "Off".
func FormatKindHours(k shift.Kind) string {
	start, end, ok := k.Hours()
	if !ok {
		return k.DisplayName()
	}
	return fmt.Sprintf("%s %02d:00–%02d:00", k.DisplayName(), start, end)
}

// FormatShiftHours lists the working kinds with their hours, in rotation order.
func FormatShiftHours() string {
	var parts []string
	for _, k := range shift.Kinds() {
		if k.IsWorking() {
			parts = append(parts, FormatKindHours(k))
		}
	}
	return "Shifts: " + strings.Join(parts, ", ")
}

// FormatStatus renders a TeamStatus as a chat message.
func FormatStatus(team shift.Team, st *TeamStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, shift day %s (%s)\n", team, st.ShiftDay, st.Code)
	fmt.Fprintf(&b, "Today: %s", FormatKindHours(st.Current.Kind))
	if st.OnShiftNow {
		b.WriteString(" (on shift now)")
	}
	b.WriteString("\n")
	if st.Off != nil {
		fmt.Fprintf(&b, "Off day %d of %d\n", st.Off.Current, st.Off.Total)
	}
	fmt.Fprintf(&b, "Next: %s on %s at %s", st.Next.Kind.DisplayName(), st.Next.Day, st.NextStart.Format(clockLayout))
	if !st.Countdown.Expired {
		fmt.Fprintf(&b, " (in %s)", st.Countdown.Formatted)
	}
	return b.String()
}

// FormatSnapshot renders all teams for one shift day.
func FormatSnapshot(day calendar.Day, assignments []shift.Assignment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shift day %s\n", day)
	for _, a := range assignments {
		fmt.Fprintf(&b, "%s: %s\n", a.Team, FormatKindHours(a.Kind))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatTransfers renders detected handovers from the subject team's point of view.
func FormatTransfers(subject, other shift.Team, result shift.TransferResult, loc *time.Location) string {
	if len(result.Events) == 0 {
		return fmt.Sprintf("No handovers between %s and %s in this period.", subject, other)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Handovers between %s and %s:\n", subject, other)
	for _, e := range result.Events {
		label := "takeover"
		if e.IsHandover {
			label = "handover"
		}
		at := e.At(loc)
		fmt.Fprintf(&b, "%s %s %s: %s (%s) → %s (%s)\n",
			calendar.DayOf(at), at.Format(clockLayout), label,
			e.From, e.FromKind.DisplayName(), e.To, e.ToKind.DisplayName())
	}
	if result.HasMore {
		fmt.Fprintf(&b, "…and %d more.", result.Total-len(result.Events))
	}
	return strings.TrimRight(b.String(), "\n")
}
