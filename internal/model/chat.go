package model

// Chat roles as understood by the generative model.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Part is one text fragment of a chat turn.
type Part struct {
	Text string `json:"text"`
}

// ChatTurn is one role-tagged entry of the context replayed to the model.
type ChatTurn struct {
	Role  string `json:"role" validate:"oneof=user model"`
	Parts []Part `json:"parts"`
}

// Text concatenates all parts of the turn.
func (t ChatTurn) Text() string {
	var s string
	for _, p := range t.Parts {
		s += p.Text
	}
	return s
}
