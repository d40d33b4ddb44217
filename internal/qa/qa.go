// Package qa holds the conversation records shared by the wizard and
// the guide generator.
package qa

// Role identifies who produced a chat message.
type Role string

const (
	RoleModel Role = "model"
	RoleUser  Role = "user"
)

// Message is one entry of the chat transcript.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Answer pairs an asked question with the user's reply.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
