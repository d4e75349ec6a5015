package entity

// Choice represents one answer option of a Question along with its tally.
type Choice struct {
	ID         int64
	QuestionID int64
	ChoiceText string
	Votes      int
}

// String returns the choice text.
func (c *Choice) String() string {
	return c.ChoiceText
}
