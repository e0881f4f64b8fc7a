package content

import (
	"bytes"
	"context"
	"time"

	"github.com/easymind/easymind/core"
	"github.com/pkg/errors"
)

// State names the form a session currently has open. The two forms are
// mutually exclusive: opening one closes (or prompts to close) the other.
type State string

const (
	StateClosed     State = "closed"
	StateMaterial   State = "editing_material"
	StateAssessment State = "editing_assessment"
)

// NoticeDismissDelay is how long clients should display a notice before
// dismissing it.
const NoticeDismissDelay = 2 * time.Second

var (
	// ErrConfirmationRequired signals that the requested action is held
	// pending explicit confirmation.
	ErrConfirmationRequired = errors.New("confirmation required")

	// ErrSubmitInFlight rejects a submit while a previous one is still running.
	ErrSubmitInFlight = errors.New("submission already in progress")

	// ErrInvalidState rejects an operation that needs a form the session
	// does not have open.
	ErrInvalidState = errors.New("no form open for this operation")
)

// blocking validation messages
var (
	errIncompleteMaterial   = errors.New("Please enter a material title, select a cover image, and upload a file.")
	errIncompleteAssessment = errors.New("Please enter an assessment title, select a cover image, and add at least one question.")
	errEmptyAssessment      = errors.New("The assessment cannot be empty.")
)

// confirmation prompts
const (
	promptUnsaved        = "You haven't saved this. Are you sure you want to exit?"
	promptDeleteMaterial = "Are you sure you want to delete this material?"
	promptDeleteAssess   = "Are you sure you want to delete this assessment?"
	promptDeleteQuestion = "Are you sure you want to delete this question?"
)

type (
	// MaterialDraft is the state of an open material form.
	MaterialDraft struct {
		Title    string
		Cover    Cover
		FileName string
		File     []byte
	}

	// AssessmentDraft is the state of an open assessment form.
	AssessmentDraft struct {
		Title  string
		Cover  Cover
		Editor *QuestionEditor
	}

	// Session is a single author's authoring state: which form is open, its
	// draft, any pending confirmation and the last notice. It is not safe
	// for concurrent use; callers serialize access per session.
	Session struct {
		svc *Service

		state      State
		material   MaterialDraft
		assessment AssessmentDraft

		// questionsOpen tracks whether the assessment form's question panel
		// is expanded.
		questionsOpen bool

		// edit bootstrap; empty editingID means the form creates new content
		editingID      string
		editingType    string
		currentCover   string
		editingFileURL string
		editingCreated time.Time

		pendingPrompt string
		pendingApply  func(ctx context.Context) error

		inFlight bool
		notice   string
	}
)

func NewSession(svc *Service) *Session {
	return &Session{svc: svc, state: StateClosed}
}

// OpenMaterialForm opens a blank material form. If the assessment form is
// open with unsaved work the switch is held for confirmation.
func (s *Session) OpenMaterialForm() error {
	s.CancelPending()
	if s.state == StateMaterial {
		return nil
	}
	if s.state == StateAssessment && s.assessmentDirty() && s.editingID == "" {
		s.hold(promptUnsaved, func(context.Context) error {
			s.openMaterial()
			return nil
		})
		return ErrConfirmationRequired
	}
	s.openMaterial()
	return nil
}

// OpenAssessmentForm opens a blank assessment form. If the material form is
// open with unsaved work the switch is held for confirmation.
func (s *Session) OpenAssessmentForm() error {
	s.CancelPending()
	if s.state == StateAssessment {
		return nil
	}
	if s.state == StateMaterial && s.materialDirty() && s.editingID == "" {
		s.hold(promptUnsaved, func(context.Context) error {
			s.openAssessment()
			return nil
		})
		return ErrConfirmationRequired
	}
	s.openAssessment()
	return nil
}

// RequestClose closes the open form. A dirty create form is held for
// confirmation; edit forms close without prompting since the saved content
// is untouched.
func (s *Session) RequestClose() error {
	s.CancelPending()
	if s.state == StateClosed {
		return nil
	}
	if s.editingID == "" && s.currentDirty() {
		s.hold(promptUnsaved, func(context.Context) error {
			s.close()
			return nil
		})
		return ErrConfirmationRequired
	}
	s.close()
	return nil
}

// BeginEdit opens the form matching the item's type, prefilled with its
// current values. Any open form is discarded; the caller navigated away
// from it deliberately. An item without an id or with an unrecognized type
// is no navigation state at all: ErrNotFound, the caller falls back to
// the listing.
func (s *Session) BeginEdit(item Item) error {
	s.CancelPending()
	if item.ID == "" {
		return errors.Wrap(ErrNotFound, "missing edit state")
	}
	switch item.Type {
	case TypeMaterial:
		s.openMaterial()
		s.material.Title = item.Title
	case TypeAssessment:
		s.openAssessment()
		s.assessment.Title = item.Title
		s.assessment.Editor.Questions = cloneQuestions(item.Questions)
	default:
		return errors.Wrap(ErrNotFound, "missing edit state")
	}
	s.editingID = item.ID
	s.editingType = item.Type
	s.currentCover = item.CoverURL
	s.editingFileURL = item.FileURL
	s.editingCreated = item.CreatedAt
	return nil
}

// form field updates; validation is deferred to submit

func (s *Session) SetTitle(title string) error {
	s.CancelPending()
	switch s.state {
	case StateMaterial:
		s.material.Title = title
	case StateAssessment:
		s.assessment.Title = title
	default:
		return ErrInvalidState
	}
	return nil
}

// SelectCover picks a cover from the open form's catalog.
func (s *Session) SelectCover(id int) error {
	s.CancelPending()
	switch s.state {
	case StateMaterial:
		c, ok := CoverByID(MaterialCovers, id)
		if !ok {
			return errors.Errorf("unknown cover %d", id)
		}
		s.material.Cover = c
	case StateAssessment:
		c, ok := CoverByID(AssessmentCovers, id)
		if !ok {
			return errors.Errorf("unknown cover %d", id)
		}
		s.assessment.Cover = c
	default:
		return ErrInvalidState
	}
	return nil
}

// AttachFile stages the material file to upload on submit.
func (s *Session) AttachFile(name string, data []byte) error {
	s.CancelPending()
	if s.state != StateMaterial {
		return ErrInvalidState
	}
	s.material.FileName = name
	s.material.File = data
	return nil
}

// SubmitMaterial validates the material form and persists it: a create
// uploads the staged file then stores the document; an edit updates title
// and cover, keeping the original file. Concurrent submits are rejected.
func (s *Session) SubmitMaterial(ctx context.Context) error {
	s.CancelPending()
	if s.state != StateMaterial {
		return ErrInvalidState
	}
	if s.inFlight {
		return ErrSubmitInFlight
	}

	title := core.CleanString(s.material.Title)
	coverURL := s.material.Cover.URL
	if coverURL == "" {
		coverURL = s.currentCover
	}
	if title == "" || coverURL == "" || (s.editingID == "" && len(s.material.File) == 0) {
		return core.NewValidationError(errIncompleteMaterial)
	}

	s.inFlight = true
	defer func() { s.inFlight = false }()

	if s.editingID != "" {
		mat := Material{
			ID:        s.editingID,
			Title:     title,
			CoverURL:  coverURL,
			FileURL:   s.editingFileURL,
			CreatedAt: s.editingCreated,
		}
		if err := s.svc.UpdateMaterial(ctx, mat); err != nil {
			return err
		}
		s.close()
		s.notice = "Material updated successfully"
		return nil
	}

	mat := Material{Title: title, CoverURL: coverURL}
	if _, err := s.svc.CreateMaterial(ctx, mat, s.material.FileName, bytes.NewReader(s.material.File)); err != nil {
		return err
	}
	s.close()
	s.notice = "Material added successfully"
	return nil
}

// SubmitAssessment validates the assessment form and persists it. Only
// committed questions count; a live draft that was never committed does not
// make the assessment non-empty.
func (s *Session) SubmitAssessment(ctx context.Context) error {
	s.CancelPending()
	if s.state != StateAssessment {
		return ErrInvalidState
	}
	if s.inFlight {
		return ErrSubmitInFlight
	}

	title := core.CleanString(s.assessment.Title)
	coverURL := s.assessment.Cover.URL
	if coverURL == "" {
		coverURL = s.currentCover
	}
	questions := s.assessment.Editor.Questions

	if len(questions) == 0 && s.editingID != "" {
		return core.NewValidationError(errEmptyAssessment)
	}
	if title == "" || coverURL == "" || len(questions) == 0 {
		return core.NewValidationError(errIncompleteAssessment)
	}

	s.inFlight = true
	defer func() { s.inFlight = false }()

	ass := Assessment{
		Title:     title,
		CoverURL:  coverURL,
		Questions: cloneQuestions(questions),
	}
	if s.editingID != "" {
		ass.ID = s.editingID
		ass.CreatedAt = s.editingCreated
		if err := s.svc.UpdateAssessment(ctx, ass); err != nil {
			return err
		}
		s.close()
		s.notice = "Assessment updated successfully"
		return nil
	}

	if _, err := s.svc.CreateAssessment(ctx, ass); err != nil {
		return err
	}
	s.close()
	s.notice = "Assessment added successfully"
	return nil
}

// question editor operations, valid only while the assessment form is open

func (s *Session) ToggleQuestions() error {
	s.CancelPending()
	if s.state != StateAssessment {
		return ErrInvalidState
	}
	s.questionsOpen = !s.questionsOpen
	return nil
}

func (s *Session) SetQuestionType(qtype string) error {
	s.CancelPending()
	if s.state != StateAssessment {
		return ErrInvalidState
	}
	if qtype != QuestionMultipleChoice && qtype != QuestionFillInTheBlank {
		return errors.Errorf("unknown question type %q", qtype)
	}
	s.assessment.Editor.SetType(qtype)
	return nil
}

func (s *Session) SetQuestionText(text string) error {
	s.CancelPending()
	if s.state != StateAssessment {
		return ErrInvalidState
	}
	s.assessment.Editor.SetText(text)
	return nil
}

func (s *Session) SetQuestionOption(i int, val string) error {
	s.CancelPending()
	if s.state != StateAssessment {
		return ErrInvalidState
	}
	return s.assessment.Editor.SetOption(i, val)
}

func (s *Session) SetQuestionAnswer(val string) error {
	s.CancelPending()
	if s.state != StateAssessment {
		return ErrInvalidState
	}
	s.assessment.Editor.SetAnswer(val)
	return nil
}

// CommitQuestion validates the draft and adds or updates it in the list.
func (s *Session) CommitQuestion() error {
	s.CancelPending()
	if s.state != StateAssessment {
		return ErrInvalidState
	}
	updated, err := s.assessment.Editor.Commit()
	if err != nil {
		return err
	}
	if updated {
		s.notice = "Question updated"
	} else {
		s.notice = "Question added"
	}
	return nil
}

// ClearQuestion discards the draft without touching the committed list.
func (s *Session) ClearQuestion() error {
	s.CancelPending()
	if s.state != StateAssessment {
		return ErrInvalidState
	}
	s.assessment.Editor.Clear()
	s.notice = "Question cleared"
	return nil
}

// EditQuestion loads a committed question back into the draft.
func (s *Session) EditQuestion(i int) error {
	s.CancelPending()
	if s.state != StateAssessment {
		return ErrInvalidState
	}
	if err := s.assessment.Editor.Edit(i); err != nil {
		return err
	}
	s.questionsOpen = true
	return nil
}

// RequestDeleteQuestion holds removal of a committed question for
// confirmation, like any other destructive action.
func (s *Session) RequestDeleteQuestion(i int) error {
	s.CancelPending()
	if s.state != StateAssessment {
		return ErrInvalidState
	}
	if i < 0 || i >= len(s.assessment.Editor.Questions) {
		return ErrQuestionIndex
	}
	s.hold(promptDeleteQuestion, func(context.Context) error {
		if err := s.assessment.Editor.Delete(i); err != nil {
			return err
		}
		s.notice = "Question deleted"
		return nil
	})
	return ErrConfirmationRequired
}

// RequestDelete holds deletion of stored content for confirmation.
func (s *Session) RequestDelete(item Item) error {
	s.CancelPending()
	prompt := promptDeleteMaterial
	notice := "Material deleted successfully"
	if item.Type == TypeAssessment {
		prompt = promptDeleteAssess
		notice = "Assessment deleted successfully"
	}
	s.hold(prompt, func(ctx context.Context) error {
		if err := s.svc.Delete(ctx, item.Type, item.ID); err != nil {
			return err
		}
		s.notice = notice
		return nil
	})
	return ErrConfirmationRequired
}

// ConfirmPending executes the held action and clears it. The pending action
// is consumed even if it fails.
func (s *Session) ConfirmPending(ctx context.Context) error {
	if s.pendingApply == nil {
		return errors.New("nothing pending confirmation")
	}
	apply := s.pendingApply
	s.pendingApply, s.pendingPrompt = nil, ""
	return apply(ctx)
}

// CancelPending drops the held action; the session state is unchanged.
func (s *Session) CancelPending() {
	s.pendingApply, s.pendingPrompt = nil, ""
}

// TakeNotice returns the last notice and clears it.
func (s *Session) TakeNotice() string {
	n := s.notice
	s.notice = ""
	return n
}

// hold stages apply behind a confirmation prompt. Prompts are modal:
// mutating operations dismiss an unanswered prompt before proceeding, so a
// held action never runs against state that changed after the prompt was
// raised.
func (s *Session) hold(prompt string, apply func(ctx context.Context) error) {
	s.pendingPrompt = prompt
	s.pendingApply = apply
}

func (s *Session) openMaterial() {
	s.state = StateMaterial
	s.material = MaterialDraft{}
	s.assessment = AssessmentDraft{}
	s.questionsOpen = false
	s.clearEditing()
}

func (s *Session) openAssessment() {
	s.state = StateAssessment
	s.material = MaterialDraft{}
	s.assessment = AssessmentDraft{Editor: NewQuestionEditor()}
	s.questionsOpen = false
	s.clearEditing()
}

func (s *Session) close() {
	s.state = StateClosed
	s.material = MaterialDraft{}
	s.assessment = AssessmentDraft{}
	s.questionsOpen = false
	s.clearEditing()
}

func (s *Session) clearEditing() {
	s.editingID, s.editingType = "", ""
	s.currentCover, s.editingFileURL = "", ""
	s.editingCreated = time.Time{}
}

func (s *Session) materialDirty() bool {
	return s.material.Title != "" || !s.material.Cover.IsZero() || len(s.material.File) > 0
}

func (s *Session) assessmentDirty() bool {
	if s.assessment.Title != "" || !s.assessment.Cover.IsZero() {
		return true
	}
	if ed := s.assessment.Editor; ed != nil {
		return len(ed.Questions) > 0 || ed.Dirty()
	}
	return false
}

func (s *Session) currentDirty() bool {
	switch s.state {
	case StateMaterial:
		return s.materialDirty()
	case StateAssessment:
		return s.assessmentDirty()
	}
	return false
}

func cloneQuestions(qs []Question) []Question {
	if qs == nil {
		return nil
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = q.clone()
	}
	return out
}
