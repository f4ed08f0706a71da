package echoapi

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/revisioncam/core/qcm"
	"github.com/trezcool/revisioncam/core/study"
)

var (
	formFileField      = "file"
	errNoChoices       = echo.NewHTTPError(http.StatusBadRequest, "this question has no selectable answer")
	errQuestionMissing = echo.NewHTTPError(http.StatusNotFound, "question or answer not found")
)

type (
	studyApi struct {
		svc      *study.Service
		validate *validator.Validate
	}

	// importer is implemented by both study modes.
	importer interface {
		Import(ctx context.Context, name string, r io.Reader) (study.Status, error)
	}

	WorkspaceResponse struct {
		Cards study.CardsView `json:"cards"`
		Quiz  study.QuizView  `json:"qcm"`
	}
)

func registerStudyAPI(g *echo.Group, session echo.MiddlewareFunc, deps ServerDeps) {
	api := studyApi{
		svc:      deps.StudySvc,
		validate: deps.Validate,
	}

	// authed endpoints
	wg := g.Group("/workspace", session)
	wg.GET("", api.retrieveWorkspace)
	wg.DELETE("", api.destroyWorkspace)

	cg := g.Group("/cards", session)
	cg.GET("", api.retrieveCards)
	cg.POST("/import", api.importCards)
	cg.POST("/render", api.renderCards)
	cg.PUT("/preview", api.setCardsPreview)
	cg.POST("/clear", api.clearCards)
	cg.POST("/next", api.nextCard)
	cg.POST("/previous", api.previousCard)
	cg.POST("/flip", api.flipCard)
	cg.POST("/goto", api.goToCard)

	qg := g.Group("/qcm", session)
	qg.GET("", api.retrieveQuiz)
	qg.POST("/import", api.importQuiz)
	qg.POST("/render", api.renderQuiz)
	qg.PUT("/preview", api.setQuizPreview)
	qg.POST("/clear", api.clearQuiz)
	qg.POST("/questions/:index/select", api.selectAnswer)
	qg.POST("/reveal", api.reveal)
}

// withCards runs fn on the cards of the session's workspace and responds with their view.
func (api *studyApi) withCards(ctx echo.Context, fn func(c *study.Cards) error) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}

	var view study.CardsView
	err = api.svc.Do(sess, func(ws *study.Workspace) error {
		if err := fn(ws.Cards); err != nil {
			return err
		}
		view = ws.Cards.View()
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "updating cards")
	}
	return ctx.JSON(http.StatusOK, view)
}

// withQuiz runs fn on the quiz of the session's workspace and responds with its view.
func (api *studyApi) withQuiz(ctx echo.Context, fn func(q *study.Quiz) error) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}

	var view study.QuizView
	err = api.svc.Do(sess, func(ws *study.Workspace) error {
		if err := fn(ws.Quiz); err != nil {
			return err
		}
		view = ws.Quiz.View()
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "updating quiz")
	}
	return ctx.JSON(http.StatusOK, view)
}

// importFile feeds the uploaded file to imp. A request without file reaches imp with no name,
// which only updates the status.
func (api *studyApi) importFile(ctx echo.Context, imp importer) error {
	fh, err := ctx.FormFile(formFileField)
	if err != nil {
		if err == http.ErrMissingFile {
			_, err = imp.Import(ctx.Request().Context(), "", nil)
			return err
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form").SetInternal(err)
	}

	data := ImportRequest{FileName: fh.Filename}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer f.Close()

	_, err = imp.Import(ctx.Request().Context(), data.FileName, f)
	return err
}

func (api *studyApi) bindPreview(ctx echo.Context) (bool, error) {
	var data PreviewRequest
	if err := ctx.Bind(&data); err != nil {
		return false, errors.Wrap(err, "binding to PreviewRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return false, err
	}
	return *data.Enabled, nil
}

// Handlers

func (api *studyApi) retrieveWorkspace(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}

	var resp WorkspaceResponse
	err = api.svc.Do(sess, func(ws *study.Workspace) error {
		resp.Cards = ws.Cards.View()
		resp.Quiz = ws.Quiz.View()
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "reading workspace")
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *studyApi) destroyWorkspace(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	if err = api.svc.Close(sess.ID); err != nil {
		return errors.Wrap(err, "closing workspace")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studyApi) retrieveCards(ctx echo.Context) error {
	return api.withCards(ctx, func(*study.Cards) error { return nil })
}

func (api *studyApi) importCards(ctx echo.Context) error {
	return api.withCards(ctx, func(c *study.Cards) error { return api.importFile(ctx, c) })
}

func (api *studyApi) renderCards(ctx echo.Context) error {
	return api.withCards(ctx, func(c *study.Cards) error {
		c.Render()
		return nil
	})
}

func (api *studyApi) setCardsPreview(ctx echo.Context) error {
	enabled, err := api.bindPreview(ctx)
	if err != nil {
		return err
	}
	return api.withCards(ctx, func(c *study.Cards) error {
		c.SetLivePreview(enabled)
		return nil
	})
}

func (api *studyApi) clearCards(ctx echo.Context) error {
	return api.withCards(ctx, func(c *study.Cards) error {
		c.Clear()
		return nil
	})
}

func (api *studyApi) nextCard(ctx echo.Context) error {
	return api.withCards(ctx, func(c *study.Cards) error {
		c.Next()
		return nil
	})
}

func (api *studyApi) previousCard(ctx echo.Context) error {
	return api.withCards(ctx, func(c *study.Cards) error {
		c.Previous()
		return nil
	})
}

func (api *studyApi) flipCard(ctx echo.Context) error {
	var data FlipRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to FlipRequest")
	}
	return api.withCards(ctx, func(c *study.Cards) error {
		if data.Flipped != nil {
			c.SetFlipped(*data.Flipped)
		} else {
			c.Flip()
		}
		return nil
	})
}

func (api *studyApi) goToCard(ctx echo.Context) error {
	var data GoToRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GoToRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	return api.withCards(ctx, func(c *study.Cards) error {
		c.GoTo(*data.Index)
		return nil
	})
}

func (api *studyApi) retrieveQuiz(ctx echo.Context) error {
	return api.withQuiz(ctx, func(*study.Quiz) error { return nil })
}

func (api *studyApi) importQuiz(ctx echo.Context) error {
	return api.withQuiz(ctx, func(q *study.Quiz) error { return api.importFile(ctx, q) })
}

func (api *studyApi) renderQuiz(ctx echo.Context) error {
	return api.withQuiz(ctx, func(q *study.Quiz) error {
		q.Render()
		return nil
	})
}

func (api *studyApi) setQuizPreview(ctx echo.Context) error {
	enabled, err := api.bindPreview(ctx)
	if err != nil {
		return err
	}
	return api.withQuiz(ctx, func(q *study.Quiz) error {
		q.SetLivePreview(enabled)
		return nil
	})
}

func (api *studyApi) clearQuiz(ctx echo.Context) error {
	return api.withQuiz(ctx, func(q *study.Quiz) error {
		q.Clear()
		return nil
	})
}

func (api *studyApi) selectAnswer(ctx echo.Context) error {
	qi, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		return errHttpNotFound
	}
	var data SelectRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SelectRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	return api.withQuiz(ctx, func(q *study.Quiz) error {
		switch _, err := q.Select(qi, *data.Choice); err {
		case nil:
			return nil
		case qcm.ErrOutOfRange:
			return errQuestionMissing
		case qcm.ErrNoChoices:
			return errNoChoices
		default:
			return err
		}
	})
}

func (api *studyApi) reveal(ctx echo.Context) error {
	return api.withQuiz(ctx, func(q *study.Quiz) error {
		q.Reveal()
		return nil
	})
}
