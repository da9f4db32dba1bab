package identity

// Prompt is the capability the resolver uses when a human decision is
// needed. Implementations: the bubbletea prompt in internal/tui, and
// AutoPrompt for non-interactive runs.
type Prompt interface {
	// Interactive reports whether a human is on the other end. Fuzzy-only
	// suggestions are offered to humans but never auto-applied.
	Interactive() bool
	// ConfirmMapping asks whether candidate should be folded into
	// suggestion.
	ConfirmMapping(candidate, suggestion string) (bool, error)
	// RequestManualName asks for a replacement name for candidate. Empty
	// means keep the candidate as a separate participant.
	RequestManualName(candidate string) (string, error)
	// RequestDeviceOwnerName asks for the device owner's display name.
	// Empty means leave owner messages unattributed.
	RequestDeviceOwnerName() (string, error)
}

// AutoPrompt answers without human input: heuristic matches are accepted,
// no-match keeps the candidate separate, and the device owner comes from
// configuration (possibly empty).
type AutoPrompt struct {
	DeviceOwner string
}

func (AutoPrompt) Interactive() bool { return false }

func (AutoPrompt) ConfirmMapping(candidate, suggestion string) (bool, error) {
	return true, nil
}

func (AutoPrompt) RequestManualName(candidate string) (string, error) {
	return "", nil
}

func (p AutoPrompt) RequestDeviceOwnerName() (string, error) {
	return p.DeviceOwner, nil
}
