package content_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/easymind/easymind/core"
	"github.com/easymind/easymind/core/content"
	"github.com/easymind/easymind/storage/document/dummydb"
)

type fakeFileStore struct {
	uploads  []string
	onUpload func()
	err      error
}

func (f *fakeFileStore) Upload(_ context.Context, key string, body io.Reader) (string, error) {
	if f.onUpload != nil {
		f.onUpload()
	}
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, key)
	return "https://files.test/" + key, nil
}

func setup(t *testing.T) (*content.Session, *content.Service, content.Repository, *fakeFileStore) {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	repo := dummydb.NewContentRepository(db)
	files := &fakeFileStore{}
	svc := content.NewService(repo, files)
	return content.NewSession(svc), svc, repo, files
}

func fillMaterialForm(t *testing.T, s *content.Session, title string) {
	t.Helper()
	if err := s.SetTitle(title); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectCover(1); err != nil {
		t.Fatal(err)
	}
	if err := s.AttachFile("alphabet.pdf", []byte("pdf bytes")); err != nil {
		t.Fatal(err)
	}
}

func addQuestion(t *testing.T, s *content.Session, text string) {
	t.Helper()
	if err := s.SetQuestionText(text); err != nil {
		t.Fatal(err)
	}
	for i, opt := range []string{"Dog", "Cat", "Lion", "Tiger"} {
		if err := s.SetQuestionOption(i, opt); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.SetQuestionAnswer("Lion"); err != nil {
		t.Fatal(err)
	}
	if err := s.CommitQuestion(); err != nil {
		t.Fatal(err)
	}
}

func TestSessionFormExclusivity(t *testing.T) {
	s, _, _, _ := setup(t)

	if got := s.Snapshot().State; got != content.StateClosed {
		t.Fatalf("initial state = %q; want %q", got, content.StateClosed)
	}

	// clean form switches freely
	if err := s.OpenMaterialForm(); err != nil {
		t.Fatal(err)
	}
	if err := s.OpenAssessmentForm(); err != nil {
		t.Fatalf("switching from a clean form should not prompt: %v", err)
	}

	// dirty form holds the switch for confirmation
	if err := s.SetTitle("Animal Sounds"); err != nil {
		t.Fatal(err)
	}
	if err := s.OpenMaterialForm(); errors.Cause(err) != content.ErrConfirmationRequired {
		t.Fatalf("OpenMaterialForm() error = %v; want ErrConfirmationRequired", err)
	}
	if got := s.Snapshot().State; got != content.StateAssessment {
		t.Errorf("state changed before confirmation: %q", got)
	}

	// cancel keeps the dirty form and its draft
	s.CancelPending()
	snap := s.Snapshot()
	if snap.State != content.StateAssessment || snap.Assessment.Title != "Animal Sounds" {
		t.Errorf("cancel lost the draft: %+v", snap)
	}

	// confirm switches and discards
	if err := s.OpenMaterialForm(); errors.Cause(err) != content.ErrConfirmationRequired {
		t.Fatal("expected confirmation prompt")
	}
	if err := s.ConfirmPending(context.Background()); err != nil {
		t.Fatal(err)
	}
	snap = s.Snapshot()
	if snap.State != content.StateMaterial {
		t.Errorf("state = %q after confirm; want %q", snap.State, content.StateMaterial)
	}
	if snap.Material.Title != "" {
		t.Errorf("switch should open a blank form; title = %q", snap.Material.Title)
	}
}

func TestSessionCloseConfirmation(t *testing.T) {
	s, _, _, _ := setup(t)

	// clean form closes without prompting
	if err := s.OpenMaterialForm(); err != nil {
		t.Fatal(err)
	}
	if err := s.RequestClose(); err != nil {
		t.Fatalf("closing a clean form should not prompt: %v", err)
	}

	if err := s.OpenMaterialForm(); err != nil {
		t.Fatal(err)
	}
	if err := s.SetTitle("The Alphabet"); err != nil {
		t.Fatal(err)
	}
	if err := s.RequestClose(); errors.Cause(err) != content.ErrConfirmationRequired {
		t.Fatalf("RequestClose() error = %v; want ErrConfirmationRequired", err)
	}
	if err := s.ConfirmPending(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().State; got != content.StateClosed {
		t.Errorf("state = %q after confirmed close; want %q", got, content.StateClosed)
	}
}

func TestSessionSubmitMaterial(t *testing.T) {
	ctx := context.Background()
	s, svc, _, files := setup(t)

	if err := s.OpenMaterialForm(); err != nil {
		t.Fatal(err)
	}

	// incomplete form is rejected and nothing is persisted
	err := s.SubmitMaterial(ctx)
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("SubmitMaterial() error = %v; want ValidationError", err)
	}
	want := "Please enter a material title, select a cover image, and upload a file."
	if vErr.Error() != want {
		t.Errorf("message = %q; want %q", vErr.Error(), want)
	}
	if len(files.uploads) != 0 {
		t.Error("validation failure must not reach the file store")
	}

	fillMaterialForm(t, s, "  The Alphabet  ")
	if err := s.SubmitMaterial(ctx); err != nil {
		t.Fatalf("SubmitMaterial() error = %v", err)
	}

	if got := s.Snapshot().State; got != content.StateClosed {
		t.Errorf("state = %q after submit; want %q", got, content.StateClosed)
	}
	if notice := s.TakeNotice(); notice != "Material added successfully" {
		t.Errorf("notice = %q", notice)
	}
	if s.TakeNotice() != "" {
		t.Error("TakeNotice() should clear the notice")
	}

	if len(files.uploads) != 1 {
		t.Fatalf("uploads = %d; want 1", len(files.uploads))
	}
	if !strings.HasPrefix(files.uploads[0], "materials/") || !strings.HasSuffix(files.uploads[0], "-alphabet.pdf") {
		t.Errorf("upload key = %q", files.uploads[0])
	}

	items, err := svc.List(ctx, content.FilterAll, content.SortNewest)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d; want 1", len(items))
	}
	it := items[0]
	if it.Title != "The Alphabet" { // title is trimmed
		t.Errorf("title = %q", it.Title)
	}
	if it.FileURL != "https://files.test/"+files.uploads[0] {
		t.Errorf("fileUrl = %q", it.FileURL)
	}
	if it.CreatedAt.IsZero() {
		t.Error("createdAt not set")
	}
}

func TestSessionSubmitMaterialUploadFails(t *testing.T) {
	ctx := context.Background()
	s, svc, _, files := setup(t)
	files.err = errors.New("bucket unavailable")

	if err := s.OpenMaterialForm(); err != nil {
		t.Fatal(err)
	}
	fillMaterialForm(t, s, "The Alphabet")

	if err := s.SubmitMaterial(ctx); err == nil {
		t.Fatal("SubmitMaterial() should surface the upload failure")
	}

	// failed upload leaves the document store untouched and the form open
	items, err := svc.List(ctx, content.FilterAll, content.SortNewest)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Errorf("items = %d after failed upload; want 0", len(items))
	}
	if got := s.Snapshot().State; got != content.StateMaterial {
		t.Errorf("state = %q; the form should stay open", got)
	}
}

func TestSessionSubmitReentry(t *testing.T) {
	ctx := context.Background()
	s, _, _, files := setup(t)

	if err := s.OpenMaterialForm(); err != nil {
		t.Fatal(err)
	}
	fillMaterialForm(t, s, "The Alphabet")

	// a second submit while the first is still running is rejected
	var reentryErr error
	files.onUpload = func() {
		reentryErr = s.SubmitMaterial(ctx)
	}
	if err := s.SubmitMaterial(ctx); err != nil {
		t.Fatalf("SubmitMaterial() error = %v", err)
	}
	if errors.Cause(reentryErr) != content.ErrSubmitInFlight {
		t.Errorf("reentrant submit error = %v; want ErrSubmitInFlight", reentryErr)
	}
}

func TestSessionSubmitAssessment(t *testing.T) {
	ctx := context.Background()
	s, svc, _, _ := setup(t)

	if err := s.OpenAssessmentForm(); err != nil {
		t.Fatal(err)
	}

	// no questions committed yet
	if err := s.SetTitle("Animal Sounds"); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectCover(6); err != nil {
		t.Fatal(err)
	}
	err := s.SubmitAssessment(ctx)
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("SubmitAssessment() error = %v; want ValidationError", err)
	}

	// a live draft does not count, only committed questions do
	if err := s.SetQuestionText("Which animal roars?"); err != nil {
		t.Fatal(err)
	}
	if err = s.SubmitAssessment(ctx); !errors.As(err, &vErr) {
		t.Fatalf("SubmitAssessment() with uncommitted draft error = %v; want ValidationError", err)
	}

	addQuestion(t, s, "Which animal roars?")
	if notice := s.TakeNotice(); notice != "Question added" {
		t.Errorf("notice = %q", notice)
	}

	if err := s.SubmitAssessment(ctx); err != nil {
		t.Fatalf("SubmitAssessment() error = %v", err)
	}
	if notice := s.TakeNotice(); notice != "Assessment added successfully" {
		t.Errorf("notice = %q", notice)
	}

	items, err := svc.List(ctx, content.FilterAssessments, content.SortNewest)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || len(items[0].Questions) != 1 {
		t.Fatalf("items = %+v", items)
	}
	if items[0].Questions[0].Answer != "Lion" {
		t.Errorf("answer = %q", items[0].Questions[0].Answer)
	}
}

func TestSessionEditAssessment(t *testing.T) {
	ctx := context.Background()
	s, svc, _, _ := setup(t)

	if err := s.OpenAssessmentForm(); err != nil {
		t.Fatal(err)
	}
	if err := s.SetTitle("Animal Sounds"); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectCover(6); err != nil {
		t.Fatal(err)
	}
	addQuestion(t, s, "Which animal roars?")
	if err := s.SubmitAssessment(ctx); err != nil {
		t.Fatal(err)
	}

	items, err := svc.List(ctx, content.FilterAssessments, content.SortNewest)
	if err != nil {
		t.Fatal(err)
	}
	orig := items[0]

	if err := s.BeginEdit(orig); err != nil {
		t.Fatalf("BeginEdit() error = %v", err)
	}
	snap := s.Snapshot()
	if !snap.Editing || snap.Assessment.Title != "Animal Sounds" {
		t.Fatalf("BeginEdit() snapshot = %+v", snap)
	}
	// the item's present cover is offered first
	if len(snap.Assessment.Covers) != len(content.AssessmentCovers)+1 || snap.Assessment.Covers[0].Name != "Current Cover" {
		t.Errorf("covers = %+v", snap.Assessment.Covers)
	}

	// deleting the only question then submitting is rejected
	if err := s.RequestDeleteQuestion(0); errors.Cause(err) != content.ErrConfirmationRequired {
		t.Fatalf("RequestDeleteQuestion() error = %v; want ErrConfirmationRequired", err)
	}
	if err := s.ConfirmPending(ctx); err != nil {
		t.Fatal(err)
	}
	err = s.SubmitAssessment(ctx)
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("SubmitAssessment() error = %v; want ValidationError", err)
	}
	if vErr.Error() != "The assessment cannot be empty." {
		t.Errorf("message = %q", vErr.Error())
	}

	addQuestion(t, s, "Which animal roars?")
	if err := s.SetTitle("Animal Sounds 2"); err != nil {
		t.Fatal(err)
	}
	if err := s.SubmitAssessment(ctx); err != nil {
		t.Fatalf("SubmitAssessment() error = %v", err)
	}
	if notice := s.TakeNotice(); notice != "Assessment updated successfully" {
		t.Errorf("notice = %q", notice)
	}

	items, err = svc.List(ctx, content.FilterAssessments, content.SortNewest)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d; want 1", len(items))
	}
	got := items[0]
	if got.ID != orig.ID || got.Title != "Animal Sounds 2" {
		t.Errorf("updated item = %+v", got)
	}
	if got.CoverURL != orig.CoverURL { // cover kept when not re-picked
		t.Errorf("coverUrl = %q; want %q", got.CoverURL, orig.CoverURL)
	}
	if !got.CreatedAt.Equal(orig.CreatedAt) {
		t.Errorf("createdAt changed on update")
	}

	// edit sessions close without prompting
	if err := s.BeginEdit(got); err != nil {
		t.Fatal(err)
	}
	if err := s.SetTitle("changed my mind"); err != nil {
		t.Fatal(err)
	}
	if err := s.RequestClose(); err != nil {
		t.Errorf("closing an edit form should not prompt: %v", err)
	}
}

func TestSessionReopenSameForm(t *testing.T) {
	s, _, _, _ := setup(t)

	if err := s.OpenMaterialForm(); err != nil {
		t.Fatal(err)
	}
	if err := s.SetTitle("The Alphabet"); err != nil {
		t.Fatal(err)
	}

	// re-requesting the open form neither prompts nor resets it
	if err := s.OpenMaterialForm(); err != nil {
		t.Fatalf("reopening the open form should not prompt: %v", err)
	}
	if got := s.Snapshot().Material.Title; got != "The Alphabet" {
		t.Errorf("reopening the open form lost the draft; title = %q", got)
	}
}

func TestSessionBeginEditMissingState(t *testing.T) {
	s, _, _, _ := setup(t)

	if err := s.BeginEdit(content.Item{}); errors.Cause(err) != content.ErrNotFound {
		t.Errorf("BeginEdit(zero item) error = %v; want ErrNotFound", err)
	}
	if err := s.BeginEdit(content.Item{Type: "lol", ID: "x"}); errors.Cause(err) != content.ErrNotFound {
		t.Errorf("BeginEdit(unknown type) error = %v; want ErrNotFound", err)
	}
	if err := s.BeginEdit(content.Item{Type: content.TypeMaterial}); errors.Cause(err) != content.ErrNotFound {
		t.Errorf("BeginEdit(no id) error = %v; want ErrNotFound", err)
	}
	if got := s.Snapshot().State; got != content.StateClosed {
		t.Errorf("state = %q after failed edit; want %q", got, content.StateClosed)
	}
}

func TestSessionPendingDroppedOnMutation(t *testing.T) {
	ctx := context.Background()
	s, _, _, _ := setup(t)

	if err := s.OpenAssessmentForm(); err != nil {
		t.Fatal(err)
	}
	addQuestion(t, s, "First")
	addQuestion(t, s, "Second")
	s.TakeNotice()

	if err := s.RequestDeleteQuestion(0); errors.Cause(err) != content.ErrConfirmationRequired {
		t.Fatalf("RequestDeleteQuestion() error = %v; want ErrConfirmationRequired", err)
	}

	// another action dismisses the prompt; a later confirm must not delete
	addQuestion(t, s, "Third")
	if err := s.ConfirmPending(ctx); err == nil {
		t.Error("ConfirmPending() after an intervening action should fail")
	}
	snap := s.Snapshot()
	if snap.PendingPrompt != "" {
		t.Errorf("prompt = %q; want dismissed", snap.PendingPrompt)
	}
	if n := len(snap.Assessment.Questions); n != 3 {
		t.Errorf("questions = %d; want all 3 intact", n)
	}
}

func TestSessionDeleteContent(t *testing.T) {
	ctx := context.Background()
	s, svc, _, _ := setup(t)

	if err := s.OpenMaterialForm(); err != nil {
		t.Fatal(err)
	}
	fillMaterialForm(t, s, "The Alphabet")
	if err := s.SubmitMaterial(ctx); err != nil {
		t.Fatal(err)
	}
	s.TakeNotice()

	items, err := svc.List(ctx, content.FilterAll, content.SortNewest)
	if err != nil {
		t.Fatal(err)
	}
	item := items[0]

	// deletion is gated on confirmation
	if err := s.RequestDelete(item); errors.Cause(err) != content.ErrConfirmationRequired {
		t.Fatalf("RequestDelete() error = %v; want ErrConfirmationRequired", err)
	}
	items, _ = svc.List(ctx, content.FilterAll, content.SortNewest)
	if len(items) != 1 {
		t.Fatal("content deleted before confirmation")
	}

	s.CancelPending()
	if err := s.ConfirmPending(ctx); err == nil {
		t.Error("ConfirmPending() after cancel should fail")
	}

	if err := s.RequestDelete(item); errors.Cause(err) != content.ErrConfirmationRequired {
		t.Fatal("expected confirmation prompt")
	}
	if err := s.ConfirmPending(ctx); err != nil {
		t.Fatalf("ConfirmPending() error = %v", err)
	}
	if notice := s.TakeNotice(); notice != "Material deleted successfully" {
		t.Errorf("notice = %q", notice)
	}

	items, _ = svc.List(ctx, content.FilterAll, content.SortNewest)
	if len(items) != 0 {
		t.Errorf("items = %d after delete; want 0", len(items))
	}

	// deleting it again reports not found
	if err := s.RequestDelete(item); errors.Cause(err) != content.ErrConfirmationRequired {
		t.Fatal("expected confirmation prompt")
	}
	if err := s.ConfirmPending(ctx); errors.Cause(err) != content.ErrNotFound {
		t.Errorf("ConfirmPending() error = %v; want ErrNotFound", err)
	}
}

func TestSessionQuestionPanel(t *testing.T) {
	s, _, _, _ := setup(t)

	if err := s.ToggleQuestions(); errors.Cause(err) != content.ErrInvalidState {
		t.Fatalf("ToggleQuestions() with no form error = %v; want ErrInvalidState", err)
	}

	if err := s.OpenAssessmentForm(); err != nil {
		t.Fatal(err)
	}
	if s.Snapshot().QuestionsOpen {
		t.Error("question panel should start collapsed")
	}
	if err := s.ToggleQuestions(); err != nil {
		t.Fatal(err)
	}
	if !s.Snapshot().QuestionsOpen {
		t.Error("ToggleQuestions() did not expand the panel")
	}

	addQuestion(t, s, "Which animal roars?")
	s.TakeNotice()

	// clearing the draft leaves committed questions alone
	if err := s.SetQuestionText("half-typed"); err != nil {
		t.Fatal(err)
	}
	if err := s.ClearQuestion(); err != nil {
		t.Fatal(err)
	}
	if notice := s.TakeNotice(); notice != "Question cleared" {
		t.Errorf("notice = %q", notice)
	}
	snap := s.Snapshot()
	if len(snap.Assessment.Questions) != 1 {
		t.Errorf("questions = %d; want 1", len(snap.Assessment.Questions))
	}
	if snap.Assessment.Draft.Text != "" {
		t.Errorf("draft text = %q after clear", snap.Assessment.Draft.Text)
	}

	// editing a committed question loads it and expands the panel
	if err := s.EditQuestion(0); err != nil {
		t.Fatal(err)
	}
	snap = s.Snapshot()
	if snap.Assessment.EditingIndex != 0 || snap.Assessment.Draft.Text != "Which animal roars?" {
		t.Errorf("EditQuestion() snapshot = %+v", snap.Assessment)
	}
	if err := s.CommitQuestion(); err != nil {
		t.Fatal(err)
	}
	if notice := s.TakeNotice(); notice != "Question updated" {
		t.Errorf("notice = %q", notice)
	}
}
