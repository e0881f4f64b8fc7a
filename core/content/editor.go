package content

import "errors"

// ErrQuestionIndex rejects an operation on a question slot that does not exist.
var ErrQuestionIndex = errors.New("question index out of range")

// QuestionEditor holds the in-progress question draft and the ordered
// question list it commits into. EditingIndex is -1 while appending and the
// slot being replaced otherwise.
type QuestionEditor struct {
	Draft        Question
	EditingIndex int
	Questions    []Question
}

func NewQuestionEditor() *QuestionEditor {
	return &QuestionEditor{
		Draft:        NewQuestion(QuestionMultipleChoice),
		EditingIndex: -1,
	}
}

// StartDraft resets the draft to an empty question of the given type and
// leaves the question list untouched.
func (ed *QuestionEditor) StartDraft(qtype string) {
	ed.Draft = NewQuestion(qtype)
	ed.EditingIndex = -1
}

// SetType switches the draft to a fresh variant of the given type, keeping
// the question text (options and answer reset with the variant).
func (ed *QuestionEditor) SetType(qtype string) {
	if ed.Draft.Type == qtype {
		return
	}
	text := ed.Draft.Text
	ed.Draft = NewQuestion(qtype)
	ed.Draft.Text = text
}

// Field updates mutate the draft only; validation is deferred to Commit.

func (ed *QuestionEditor) SetText(text string) {
	ed.Draft.Text = text
}

func (ed *QuestionEditor) SetOption(i int, val string) error {
	if i < 0 || i >= len(ed.Draft.Options) {
		return ErrQuestionIndex
	}
	ed.Draft.Options[i] = val
	return nil
}

func (ed *QuestionEditor) SetAnswer(val string) {
	ed.Draft.Answer = val
}

// Commit validates the draft and incorporates it into the question list:
// replacing Questions[EditingIndex] when editing, appending otherwise.
// On validation failure the list is left unchanged and the failure is
// returned for the caller to surface. On success the draft is reset to an
// empty question of the same type.
// Updated reports whether an existing slot was replaced.
func (ed *QuestionEditor) Commit() (updated bool, err error) {
	if err = ed.Draft.Validate(); err != nil {
		return false, err
	}

	q := ed.Draft.clone()
	if ed.EditingIndex >= 0 {
		ed.Questions[ed.EditingIndex] = q
		updated = true
	} else {
		ed.Questions = append(ed.Questions, q)
	}
	ed.StartDraft(ed.Draft.Type)
	return updated, nil
}

// Clear resets the draft without committing; the question list is untouched.
func (ed *QuestionEditor) Clear() {
	ed.StartDraft(ed.Draft.Type)
}

// Edit loads Questions[i] into the draft for in-place editing.
func (ed *QuestionEditor) Edit(i int) error {
	if i < 0 || i >= len(ed.Questions) {
		return ErrQuestionIndex
	}
	ed.Draft = ed.Questions[i].clone()
	ed.EditingIndex = i
	return nil
}

// Delete removes Questions[i], preserving the relative order of the rest.
// If the removed slot was being edited the draft is cleared; an edit of a
// later slot keeps following the same question.
func (ed *QuestionEditor) Delete(i int) error {
	if i < 0 || i >= len(ed.Questions) {
		return ErrQuestionIndex
	}
	ed.Questions = append(ed.Questions[:i], ed.Questions[i+1:]...)

	switch {
	case ed.EditingIndex == i:
		ed.Clear()
	case ed.EditingIndex > i:
		ed.EditingIndex--
	}
	return nil
}

// Dirty reports whether the live draft holds any non-empty field.
func (ed *QuestionEditor) Dirty() bool {
	return !ed.Draft.IsEmpty()
}
