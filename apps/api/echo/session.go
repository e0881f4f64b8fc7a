package echoapi

import (
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/easymind/easymind/core/content"
)

// sessionStore keeps live authoring sessions keyed by id. Session ops are
// serialized per session; the store lock only guards the map.
type sessionStore struct {
	mu   sync.RWMutex
	svc  *content.Service
	byID map[string]*sessionEntry
}

type sessionEntry struct {
	mu sync.Mutex
	s  *content.Session
}

func newSessionStore(svc *content.Service) *sessionStore {
	return &sessionStore{
		svc:  svc,
		byID: make(map[string]*sessionEntry),
	}
}

func (st *sessionStore) create() (string, *sessionEntry) {
	st.mu.Lock()
	defer st.mu.Unlock()

	id := uuid.New().String()
	entry := &sessionEntry{s: content.NewSession(st.svc)}
	st.byID[id] = entry
	return id, entry
}

func (st *sessionStore) get(id string) (*sessionEntry, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	entry, ok := st.byID[id]
	return entry, ok
}

func (st *sessionStore) drop(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.byID[id]; !ok {
		return false
	}
	delete(st.byID, id)
	return true
}

func registerAuthoringAPI(g *echo.Group, api *contentApi) {
	ag := g.Group("/authoring")

	ag.POST("", api.createSession)

	sg := ag.Group("/:sid")
	sg.GET("", api.snapshot)
	sg.DELETE("", api.dropSession)

	sg.POST("/material", api.openMaterialForm)
	sg.POST("/assessment", api.openAssessmentForm)
	sg.POST("/close", api.requestClose)
	sg.POST("/confirm", api.confirmPending)
	sg.POST("/cancel", api.cancelPending)

	sg.PUT("/title", api.setTitle)
	sg.PUT("/cover", api.selectCover)
	sg.PUT("/file", api.attachFile)
	sg.POST("/submit", api.submit)

	sg.POST("/edit", api.beginEdit)
	sg.POST("/delete", api.requestDelete)
	sg.DELETE("/notice", api.dismissNotice)

	qg := sg.Group("/questions")
	qg.POST("", api.commitQuestion)
	qg.POST("/toggle", api.toggleQuestions)
	qg.POST("/clear", api.clearQuestion)
	qg.PUT("/draft/type", api.setQuestionType)
	qg.PUT("/draft/text", api.setQuestionText)
	qg.PUT("/draft/option", api.setQuestionOption)
	qg.PUT("/draft/answer", api.setQuestionAnswer)
	qg.POST("/:index/edit", api.editQuestion)
	qg.DELETE("/:index", api.deleteQuestion)
}

// session request/response bindings

type (
	SessionResponse struct {
		ID            string           `json:"id"`
		NoticeTimeout time.Duration    `json:"noticeTimeoutMs"`
		Session       content.Snapshot `json:"session"`
	}

	TitleRequest struct {
		Title string `json:"title"`
	}

	CoverRequest struct {
		ID int `json:"id"`
	}

	QuestionTypeRequest struct {
		Type string `json:"type" validate:"required,oneof=multiple_choice fill_in_the_blank"`
	}

	QuestionTextRequest struct {
		Text string `json:"questionText"`
	}

	QuestionOptionRequest struct {
		Index int    `json:"index"`
		Value string `json:"value"`
	}

	QuestionAnswerRequest struct {
		Answer string `json:"correctAnswer"`
	}

	DeleteRequest struct {
		Type string `json:"type" validate:"required,oneof=material assessment"`
		ID   string `json:"id" validate:"required"`
	}
)

// withSession runs fn holding the session's lock and renders the resulting
// snapshot. A session op asking for confirmation renders as 409 Conflict with
// the pending prompt in the snapshot.
func (api *contentApi) withSession(ctx echo.Context, fn func(s *content.Session) error) error {
	entry, ok := api.sessions.get(ctx.Param("sid"))
	if !ok {
		return errHttpNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := fn(entry.s); err != nil {
		if errors.Cause(err) == content.ErrConfirmationRequired {
			return ctx.JSON(http.StatusConflict, entry.s.Snapshot())
		}
		return err
	}
	return ctx.JSON(http.StatusOK, entry.s.Snapshot())
}

// Handlers

func (api *contentApi) createSession(ctx echo.Context) error {
	id, entry := api.sessions.create()

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return ctx.JSON(http.StatusCreated, SessionResponse{
		ID:            id,
		NoticeTimeout: content.NoticeDismissDelay / time.Millisecond,
		Session:       entry.s.Snapshot(),
	})
}

func (api *contentApi) snapshot(ctx echo.Context) error {
	return api.withSession(ctx, func(*content.Session) error { return nil })
}

func (api *contentApi) dropSession(ctx echo.Context) error {
	if !api.sessions.drop(ctx.Param("sid")) {
		return errHttpNotFound
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *contentApi) openMaterialForm(ctx echo.Context) error {
	return api.withSession(ctx, func(s *content.Session) error {
		return s.OpenMaterialForm()
	})
}

func (api *contentApi) openAssessmentForm(ctx echo.Context) error {
	return api.withSession(ctx, func(s *content.Session) error {
		return s.OpenAssessmentForm()
	})
}

func (api *contentApi) requestClose(ctx echo.Context) error {
	return api.withSession(ctx, func(s *content.Session) error {
		return s.RequestClose()
	})
}

func (api *contentApi) confirmPending(ctx echo.Context) error {
	return api.withSession(ctx, func(s *content.Session) error {
		return s.ConfirmPending(ctx.Request().Context())
	})
}

func (api *contentApi) cancelPending(ctx echo.Context) error {
	return api.withSession(ctx, func(s *content.Session) error {
		s.CancelPending()
		return nil
	})
}

func (api *contentApi) setTitle(ctx echo.Context) error {
	var data TitleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TitleRequest")
	}
	return api.withSession(ctx, func(s *content.Session) error {
		return s.SetTitle(data.Title)
	})
}

func (api *contentApi) selectCover(ctx echo.Context) error {
	var data CoverRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CoverRequest")
	}
	return api.withSession(ctx, func(s *content.Session) error {
		return s.SelectCover(data.ID)
	})
}

func (api *contentApi) attachFile(ctx echo.Context) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return errors.Wrap(err, "reading form file")
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening form file")
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return errors.Wrap(err, "reading form file")
	}

	return api.withSession(ctx, func(s *content.Session) error {
		return s.AttachFile(fh.Filename, data)
	})
}

// submit persists whichever form the session has open.
func (api *contentApi) submit(ctx echo.Context) error {
	return api.withSession(ctx, func(s *content.Session) error {
		switch s.Snapshot().State {
		case content.StateAssessment:
			return s.SubmitAssessment(ctx.Request().Context())
		default:
			return s.SubmitMaterial(ctx.Request().Context())
		}
	})
}

func (api *contentApi) beginEdit(ctx echo.Context) error {
	var item content.Item
	if err := ctx.Bind(&item); err != nil {
		// no usable navigation state; the client falls back to the listing
		return errHttpNotFound
	}
	return api.withSession(ctx, func(s *content.Session) error {
		return s.BeginEdit(item)
	})
}

func (api *contentApi) requestDelete(ctx echo.Context) error {
	var data DeleteRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DeleteRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}
	return api.withSession(ctx, func(s *content.Session) error {
		return s.RequestDelete(content.Item{Type: data.Type, ID: data.ID})
	})
}

func (api *contentApi) dismissNotice(ctx echo.Context) error {
	return api.withSession(ctx, func(s *content.Session) error {
		s.TakeNotice()
		return nil
	})
}

func (api *contentApi) toggleQuestions(ctx echo.Context) error {
	return api.withSession(ctx, func(s *content.Session) error {
		return s.ToggleQuestions()
	})
}

func (api *contentApi) setQuestionType(ctx echo.Context) error {
	var data QuestionTypeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuestionTypeRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}
	return api.withSession(ctx, func(s *content.Session) error {
		return s.SetQuestionType(data.Type)
	})
}

func (api *contentApi) setQuestionText(ctx echo.Context) error {
	var data QuestionTextRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuestionTextRequest")
	}
	return api.withSession(ctx, func(s *content.Session) error {
		return s.SetQuestionText(data.Text)
	})
}

func (api *contentApi) setQuestionOption(ctx echo.Context) error {
	var data QuestionOptionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuestionOptionRequest")
	}
	return api.withSession(ctx, func(s *content.Session) error {
		return s.SetQuestionOption(data.Index, data.Value)
	})
}

func (api *contentApi) setQuestionAnswer(ctx echo.Context) error {
	var data QuestionAnswerRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuestionAnswerRequest")
	}
	return api.withSession(ctx, func(s *content.Session) error {
		return s.SetQuestionAnswer(data.Answer)
	})
}

func (api *contentApi) commitQuestion(ctx echo.Context) error {
	return api.withSession(ctx, func(s *content.Session) error {
		return s.CommitQuestion()
	})
}

func (api *contentApi) clearQuestion(ctx echo.Context) error {
	return api.withSession(ctx, func(s *content.Session) error {
		return s.ClearQuestion()
	})
}

func (api *contentApi) editQuestion(ctx echo.Context) error {
	i, err := bindQuestionIndex(ctx)
	if err != nil {
		return err
	}
	return api.withSession(ctx, func(s *content.Session) error {
		return s.EditQuestion(i)
	})
}

func (api *contentApi) deleteQuestion(ctx echo.Context) error {
	i, err := bindQuestionIndex(ctx)
	if err != nil {
		return err
	}
	return api.withSession(ctx, func(s *content.Session) error {
		return s.RequestDeleteQuestion(i)
	})
}

func bindQuestionIndex(ctx echo.Context) (int, error) {
	i, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid question index")
	}
	return i, nil
}
