package cli

import (
	"encoding/json"
	"fmt"
	"os"
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

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"error": err.Error()})
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case LeaderboardResult:
		o.printLeaderboard(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// LeaderboardEntry response type (matches API)
type LeaderboardEntry struct {
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
}

// LeaderboardResult response type
type LeaderboardResult struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// HealthResult response type
type HealthResult struct {
	Status  string `json:"status"`
	Players int    `json:"players"`
	Ranking string `json:"ranking"`
}

func (o *Output) printLeaderboard(l LeaderboardResult) {
	if len(l.Entries) == 0 {
		fmt.Println("Leaderboard is empty")
		return
	}
	for i, e := range l.Entries {
		fmt.Printf("%3d. %-24s %d\n", i+1, e.Nickname, e.Score)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
	fmt.Printf("Players: %d\n", h.Players)
	fmt.Printf("Ranking: %s\n", h.Ranking)
}
