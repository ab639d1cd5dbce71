package types

import "time"

// Role identifies the author of a transcript entry
type Role string

// Transcript roles
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one transcript turn
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SessionState is the derived view of where a session is in the refinement flow
type SessionState string

// Session states. There is no terminal state: artifacts can be produced from either.
const (
	StateCreated  SessionState = "created"
	StateRefining SessionState = "refining"
)

// Session is the server-held state of one upload-through-refinement conversation
type Session struct {
	ID             string        `json:"sessionId"`
	OriginalText   string        `json:"originalText"`
	Data           ParsedCvData  `json:"cvData"`
	Transcript     []ChatMessage `json:"chatHistory"`
	CountryCode    string        `json:"countryCode,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	LastActivityAt time.Time     `json:"lastActivityAt"`
}

// State derives the session state from its transcript
func (s Session) State() SessionState {
	if len(s.Transcript) == 0 {
		return StateCreated
	}
	return StateRefining
}

// Clone returns a deep copy of the session
func (s Session) Clone() Session {
	out := s
	out.Data = s.Data.Clone()
	out.Transcript = append([]ChatMessage{}, s.Transcript...)
	return out
}

// RecentTurns returns up to n of the most recent transcript entries, oldest first
func (s Session) RecentTurns(n int) []ChatMessage {
	if n <= 0 || len(s.Transcript) == 0 {
		return nil
	}
	start := len(s.Transcript) - n
	if start < 0 {
		start = 0
	}
	return append([]ChatMessage{}, s.Transcript[start:]...)
}
