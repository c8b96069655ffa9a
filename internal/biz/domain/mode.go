package domain

// Mode is the process-wide dispatch setting.
// It affects only whether a draft is auto-sent, never how it is computed.
type Mode string

const (
	// ModeMock runs fully simulated; drafts are auto-dispatched
	ModeMock Mode = "mock"
	// ModeShadow drafts replies but requires an explicit human send action
	ModeShadow Mode = "shadow"
)

// ValidMode reports whether s names a known mode
func ValidMode(s string) bool {
	return Mode(s) == ModeMock || Mode(s) == ModeShadow
}
