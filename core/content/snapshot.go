package content

type (
	// MaterialFormView is the material form as shown to the client.
	MaterialFormView struct {
		Title    string  `json:"title"`
		Cover    Cover   `json:"cover"`
		FileName string  `json:"fileName,omitempty"`
		HasFile  bool    `json:"hasFile"`
		Covers   []Cover `json:"covers"`
	}

	// AssessmentFormView is the assessment form as shown to the client.
	AssessmentFormView struct {
		Title        string     `json:"title"`
		Cover        Cover      `json:"cover"`
		Covers       []Cover    `json:"covers"`
		Questions    []Question `json:"questions"`
		Draft        Question   `json:"draft"`
		EditingIndex int        `json:"editingIndex"`
	}

	// Snapshot is a read-only view of a session, safe to serialize.
	Snapshot struct {
		State         State               `json:"state"`
		Material      *MaterialFormView   `json:"material,omitempty"`
		Assessment    *AssessmentFormView `json:"assessment,omitempty"`
		QuestionsOpen bool                `json:"questionsOpen"`
		Editing       bool                `json:"editing"`
		EditingID     string              `json:"editingId,omitempty"`
		PendingPrompt string              `json:"pendingPrompt,omitempty"`
		Notice        string              `json:"notice,omitempty"`
	}
)

// Snapshot captures the session's current state. The offered cover catalog
// includes the item's present cover when editing.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:         s.state,
		QuestionsOpen: s.questionsOpen,
		Editing:       s.editingID != "",
		EditingID:     s.editingID,
		PendingPrompt: s.pendingPrompt,
		Notice:        s.notice,
	}

	switch s.state {
	case StateMaterial:
		snap.Material = &MaterialFormView{
			Title:    s.material.Title,
			Cover:    s.material.Cover,
			FileName: s.material.FileName,
			HasFile:  len(s.material.File) > 0,
			Covers:   s.offeredCovers(MaterialCovers),
		}
	case StateAssessment:
		ed := s.assessment.Editor
		snap.Assessment = &AssessmentFormView{
			Title:        s.assessment.Title,
			Cover:        s.assessment.Cover,
			Covers:       s.offeredCovers(AssessmentCovers),
			Questions:    cloneQuestions(ed.Questions),
			Draft:        ed.Draft.clone(),
			EditingIndex: ed.EditingIndex,
		}
	}
	return snap
}

func (s *Session) offeredCovers(catalog []Cover) []Cover {
	if s.editingID == "" || s.currentCover == "" {
		return catalog
	}
	covers := make([]Cover, 0, len(catalog)+1)
	covers = append(covers, CurrentCover(s.currentCover))
	return append(covers, catalog...)
}
