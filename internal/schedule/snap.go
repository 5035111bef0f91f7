package schedule

const (
	// SnapMinutes is the grid granularity for all pointer gestures.
	SnapMinutes = 15

	// MinEventMinutes and MaxEventMinutes clamp resize gestures.
	MinEventMinutes = 15
	MaxEventMinutes = 720
)

// Snap rounds a minute-of-day value to the nearest 15-minute grid line. The
// result is always a multiple of 15 in [0, 1425], so a snapped start always
// leaves room for a minimum-length event. Idempotent.
func Snap(minutes int) int {
	snapped := ((minutes + SnapMinutes/2) / SnapMinutes) * SnapMinutes
	if snapped < 0 {
		return 0
	}
	if snapped > MinutesPerDay-SnapMinutes {
		return MinutesPerDay - SnapMinutes
	}
	return snapped
}

// ClampDuration keeps a resize gesture's duration within [15, 720] minutes.
func ClampDuration(minutes int) int {
	if minutes < MinEventMinutes {
		return MinEventMinutes
	}
	if minutes > MaxEventMinutes {
		return MaxEventMinutes
	}
	return minutes
}
