package quiz

// Kind identifies a Question variant.
type Kind string

const (
	KindMapClick       Kind = "map-click"
	KindMultipleChoice Kind = "multiple-choice"
)

// Question is one step of a playthrough. The concrete types are MapClick
// and MultipleChoice; consumers switch on the concrete type.
type Question interface {
	// Target returns the ID of the region the player must identify.
	Target() string

	// Kind returns the variant tag.
	Kind() Kind

	isQuestion()
}

// MapClick asks the player to pick the target region on the map.
type MapClick struct {
	TargetID string `json:"targetId"`
}

func (q MapClick) Target() string { return q.TargetID }
func (q MapClick) Kind() Kind     { return KindMapClick }
func (MapClick) isQuestion()      {}

// MultipleChoice asks the player to name the target region from Options.
// Options always contains TargetID and never repeats an ID.
type MultipleChoice struct {
	TargetID string   `json:"targetId"`
	Options  []string `json:"options"`
}

func (q MultipleChoice) Target() string { return q.TargetID }
func (q MultipleChoice) Kind() Kind     { return KindMultipleChoice }
func (MultipleChoice) isQuestion()      {}

// OptionAt returns the option at the 1-based position n.
func (q MultipleChoice) OptionAt(n int) (string, bool) {
	if n < 1 || n > len(q.Options) {
		return "", false
	}
	return q.Options[n-1], true
}
