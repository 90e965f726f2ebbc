package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case *Account:
		o.printAccount(*v)
	case *AuthResult:
		o.printAuthResult(*v)
	case *Room:
		o.printRoom(*v)
	case *PrivateView:
		o.printPrivateView(*v)
	case *HealthResult:
		fmt.Printf("Status: %s\nStorage: %s\n", v.Status, v.Storage)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Account response type (matches API)
type Account struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines account and token
type AuthResult struct {
	Player       Account `json:"player"`
	SessionToken string  `json:"session_token"`
}

// RoomConfig response type
type RoomConfig struct {
	HostSelection string `json:"host_selection"`
	TimerMinutes  int    `json:"timer_minutes"`
}

// RoomPlayer response type
type RoomPlayer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Score       int    `json:"score"`
	Role        string `json:"role,omitempty"`
	HasBeenHost bool   `json:"has_been_host"`
	IsRoomHost  bool   `json:"is_room_host"`
}

// Room response type
type Room struct {
	ID      string       `json:"id"`
	Code    string       `json:"code"`
	Status  string       `json:"status"`
	HostID  string       `json:"host_id"`
	Players []RoomPlayer `json:"players"`
	Config  RoomConfig   `json:"config"`
	Round   int          `json:"round"`

	EndTime *time.Time        `json:"end_time,omitempty"`
	Voted   []string          `json:"voted,omitempty"`
	Votes   map[string]string `json:"votes,omitempty"`
	Winner  string            `json:"winner,omitempty"`
}

// PrivateView response type
type PrivateView struct {
	RoomCode string `json:"room_code"`
	PlayerID string `json:"player_id"`
	Status   string `json:"status"`
	Role     string `json:"role,omitempty"`
	Word     string `json:"word,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

func (o *Output) printAccount(a Account) {
	guestStr := "no"
	if a.IsGuest {
		guestStr = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", a.DisplayName, a.ID)
	fmt.Printf("Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printAccount(a.Player)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s\n", r.Code)
	fmt.Printf("Status: %s (round %d)\n", r.Status, r.Round)
	fmt.Printf("Host selection: %s, timer: %d min\n", r.Config.HostSelection, r.Config.TimerMinutes)
	if r.EndTime != nil {
		remaining := time.Until(*r.EndTime).Round(time.Second)
		fmt.Printf("Questioning ends: %s (%s left)\n", r.EndTime.Local().Format(time.Kitchen), max(remaining, 0))
	}

	names := make(map[string]string, len(r.Players))
	fmt.Printf("Players (%d):\n", len(r.Players))
	for _, p := range r.Players {
		names[p.ID] = p.Name
		var tags []string
		if p.IsRoomHost {
			tags = append(tags, "room host")
		}
		if p.Role != "" {
			tags = append(tags, strings.ToLower(p.Role))
		}
		suffix := ""
		if len(tags) > 0 {
			suffix = " [" + strings.Join(tags, ", ") + "]"
		}
		fmt.Printf("  - %s (%s) %d pts%s\n", p.Name, p.ID, p.Score, suffix)
	}

	if len(r.Voted) > 0 {
		voted := make([]string, len(r.Voted))
		for i, id := range r.Voted {
			voted[i] = nameOr(names, id)
		}
		fmt.Printf("Voted: %s\n", strings.Join(voted, ", "))
	}

	if len(r.Votes) > 0 {
		voters := make([]string, 0, len(r.Votes))
		for voter := range r.Votes {
			voters = append(voters, voter)
		}
		sort.Strings(voters)
		fmt.Println("Votes:")
		for _, voter := range voters {
			fmt.Printf("  %s -> %s\n", nameOr(names, voter), nameOr(names, r.Votes[voter]))
		}
	}

	if r.Winner != "" {
		fmt.Printf("Winner: %s\n", r.Winner)
	}
}

func (o *Output) printPrivateView(v PrivateView) {
	fmt.Printf("Room: %s (%s)\n", v.RoomCode, v.Status)
	if v.Role == "" {
		fmt.Println("Role: not revealed yet")
	} else {
		fmt.Printf("Role: %s\n", v.Role)
	}
	if v.Word != "" {
		fmt.Printf("Word: %s\n", v.Word)
	}
}

func nameOr(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id
}
