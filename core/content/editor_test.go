package content_test

import (
	"testing"

	"github.com/easymind/easymind/core/content"
)

func newMCDraft(ed *content.QuestionEditor, text, answer string, opts ...string) {
	ed.SetText(text)
	for i, opt := range opts {
		if err := ed.SetOption(i, opt); err != nil {
			panic(err)
		}
	}
	ed.SetAnswer(answer)
}

func TestQuestionEditorCommit(t *testing.T) {
	ed := content.NewQuestionEditor()

	// invalid draft leaves the list untouched
	ed.SetText("Pick one")
	if _, err := ed.Commit(); err == nil {
		t.Fatal("Commit() with incomplete options should fail")
	}
	if len(ed.Questions) != 0 {
		t.Fatalf("Questions = %d after failed commit; want 0", len(ed.Questions))
	}
	if ed.Draft.Text != "Pick one" {
		t.Errorf("failed commit should keep the draft; text = %q", ed.Draft.Text)
	}

	newMCDraft(ed, "Pick one", "Lion", "Dog", "Cat", "Lion", "Tiger")
	updated, err := ed.Commit()
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if updated {
		t.Error("Commit() of a new question should append, not update")
	}
	if len(ed.Questions) != 1 {
		t.Fatalf("Questions = %d; want 1", len(ed.Questions))
	}
	if !ed.Draft.IsEmpty() {
		t.Error("Commit() should reset the draft")
	}
	if ed.Draft.Type != content.QuestionMultipleChoice {
		t.Errorf("Commit() should keep the draft type; got %q", ed.Draft.Type)
	}
	if ed.EditingIndex != -1 {
		t.Errorf("EditingIndex = %d; want -1", ed.EditingIndex)
	}
}

func TestQuestionEditorEdit(t *testing.T) {
	ed := content.NewQuestionEditor()
	newMCDraft(ed, "First", "A", "A", "B", "C", "D")
	if _, err := ed.Commit(); err != nil {
		t.Fatal(err)
	}
	newMCDraft(ed, "Second", "C", "A", "B", "C", "D")
	if _, err := ed.Commit(); err != nil {
		t.Fatal(err)
	}

	if err := ed.Edit(0); err != nil {
		t.Fatalf("Edit(0) error = %v", err)
	}
	if ed.Draft.Text != "First" || ed.EditingIndex != 0 {
		t.Fatalf("Edit(0) draft = %q index = %d", ed.Draft.Text, ed.EditingIndex)
	}

	// mutating the draft must not touch the committed question until commit
	ed.SetText("First (edited)")
	if ed.Questions[0].Text != "First" {
		t.Error("editing the draft leaked into the committed question")
	}

	updated, err := ed.Commit()
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if !updated {
		t.Error("Commit() while editing should report an update")
	}
	if ed.Questions[0].Text != "First (edited)" {
		t.Errorf("Questions[0].Text = %q; want %q", ed.Questions[0].Text, "First (edited)")
	}
	if len(ed.Questions) != 2 {
		t.Errorf("Questions = %d; want 2", len(ed.Questions))
	}
	if ed.EditingIndex != -1 {
		t.Errorf("EditingIndex = %d after commit; want -1", ed.EditingIndex)
	}

	if err := ed.Edit(5); err != content.ErrQuestionIndex {
		t.Errorf("Edit(5) error = %v; want ErrQuestionIndex", err)
	}
}

func TestQuestionEditorDelete(t *testing.T) {
	ed := content.NewQuestionEditor()
	for _, text := range []string{"First", "Second", "Third"} {
		newMCDraft(ed, text, "A", "A", "B", "C", "D")
		if _, err := ed.Commit(); err != nil {
			t.Fatal(err)
		}
	}

	// deleting an earlier slot keeps the edit following the same question
	if err := ed.Edit(2); err != nil {
		t.Fatal(err)
	}
	if err := ed.Delete(0); err != nil {
		t.Fatalf("Delete(0) error = %v", err)
	}
	if ed.EditingIndex != 1 {
		t.Errorf("EditingIndex = %d after deleting earlier slot; want 1", ed.EditingIndex)
	}
	if ed.Questions[ed.EditingIndex].Text != "Third" {
		t.Errorf("edit no longer follows the question; got %q", ed.Questions[ed.EditingIndex].Text)
	}

	// deleting the edited slot clears the draft
	if err := ed.Delete(1); err != nil {
		t.Fatalf("Delete(1) error = %v", err)
	}
	if !ed.Draft.IsEmpty() || ed.EditingIndex != -1 {
		t.Errorf("deleting the edited slot should clear the draft; index = %d", ed.EditingIndex)
	}
	if len(ed.Questions) != 1 || ed.Questions[0].Text != "Second" {
		t.Errorf("Questions = %+v; want just %q", ed.Questions, "Second")
	}

	if err := ed.Delete(3); err != content.ErrQuestionIndex {
		t.Errorf("Delete(3) error = %v; want ErrQuestionIndex", err)
	}
}

func TestQuestionEditorSetType(t *testing.T) {
	ed := content.NewQuestionEditor()
	newMCDraft(ed, "A dog says ____.", "Woof", "Woof", "Meow", "Moo", "Quack")

	ed.SetType(content.QuestionFillInTheBlank)
	if ed.Draft.Text != "A dog says ____." {
		t.Errorf("SetType() should keep the text; got %q", ed.Draft.Text)
	}
	if ed.Draft.Options != nil || ed.Draft.Answer != "" {
		t.Errorf("SetType() should reset options and answer; got %v %q", ed.Draft.Options, ed.Draft.Answer)
	}

	// same type is a no-op
	ed.SetAnswer("Woof")
	ed.SetType(content.QuestionFillInTheBlank)
	if ed.Draft.Answer != "Woof" {
		t.Error("SetType() with the same type should be a no-op")
	}
}

func TestQuestionEditorClearAndDirty(t *testing.T) {
	ed := content.NewQuestionEditor()
	if ed.Dirty() {
		t.Error("fresh editor should not be dirty")
	}

	ed.SetText("Pick one")
	if !ed.Dirty() {
		t.Error("editor with a typed draft should be dirty")
	}

	ed.Clear()
	if ed.Dirty() {
		t.Error("Clear() should reset the draft")
	}
}
