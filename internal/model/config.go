package model

// HostSelection decides how the in-game host is picked each round
type HostSelection string

const (
	HostSelectionRoundRobin HostSelection = "ROUND_ROBIN"
	HostSelectionRandom     HostSelection = "RANDOM"
	HostSelectionFixed      HostSelection = "FIXED"
)

// Valid reports whether the policy is one of the known values
func (h HostSelection) Valid() bool {
	switch h {
	case HostSelectionRoundRobin, HostSelectionRandom, HostSelectionFixed:
		return true
	default:
		return false
	}
}

// RoomConfig holds the settings the room host can change in the lobby
type RoomConfig struct {
	HostSelection HostSelection
	TimerMinutes  int // Length of the questioning phase
}

// DefaultRoomConfig returns the configuration new rooms start with
func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		HostSelection: HostSelectionRoundRobin,
		TimerMinutes:  3,
	}
}

// Validate checks the configuration is usable
func (c RoomConfig) Validate() error {
	if !c.HostSelection.Valid() || c.TimerMinutes < 1 {
		return ErrInvalidConfig
	}
	return nil
}

// ConfigPatch is a partial update; nil fields are left unchanged
type ConfigPatch struct {
	HostSelection *HostSelection
	TimerMinutes  *int
}

// Apply merges the patch into the configuration
func (c RoomConfig) Apply(p ConfigPatch) RoomConfig {
	if p.HostSelection != nil {
		c.HostSelection = *p.HostSelection
	}
	if p.TimerMinutes != nil {
		c.TimerMinutes = *p.TimerMinutes
	}
	return c
}
