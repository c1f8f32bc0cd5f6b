package game

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"goban_rules/internal/domain/game"
	errs "goban_rules/internal/errors"
	"goban_rules/internal/httpresponse"
	gameuc "goban_rules/internal/usecase/game"
	"goban_rules/internal/utils"
)

type GameHandler struct {
	log    *zap.SugaredLogger
	gameUC *gameuc.GameUseCase
	feed   *Feed
}

func NewGameHandler(log *zap.SugaredLogger, gameUC *gameuc.GameUseCase, feed *Feed) *GameHandler {
	return &GameHandler{
		log:    log,
		gameUC: gameUC,
		feed:   feed,
	}
}

func (g *GameHandler) Routes(r chi.Router) {
	r.Get("/board", g.HandleBoard)
	r.Post("/new", g.HandleNewGame)
	r.Post("/legal", g.HandleCheckMove)
	r.Get("/legal-moves", g.HandleLegalMoves)
	r.Post("/move", g.HandleMove)
	r.Post("/pass", g.HandlePass)
	r.Post("/undo", g.HandleUndo)
	r.Post("/redo", g.HandleRedo)
	r.Post("/setup", g.HandleSetup)
	r.Delete("/setup", g.HandleRevertSetup)
	r.Post("/end", g.HandleEnd)
	r.Get("/archive", g.HandleArchive)
	r.Get("/archive/{id}", g.HandleArchivedGame)
	r.Get("/ws", g.HandleFeed)
}

func (g *GameHandler) HandleBoard(w http.ResponseWriter, r *http.Request) {
	state, err := g.gameUC.State(r.Context())
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, state)
}

func (g *GameHandler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	var req game.NewGameRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.writeError(w, err)
		return
	}
	state, err := g.gameUC.NewGame(r.Context(), req.BoardSize, req.KoRule)
	if err != nil {
		g.writeError(w, err)
		return
	}
	g.log.Infof("new game %s requested", state.GameID)
	httpresponse.WriteResponseWithStatus(w, http.StatusCreated, state)
}

func (g *GameHandler) HandleCheckMove(w http.ResponseWriter, r *http.Request) {
	var move game.Move
	if err := utils.DecodeJSONRequest(r, &move); err != nil {
		g.writeError(w, err)
		return
	}
	legality, err := g.gameUC.CheckMove(r.Context(), move)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, legality)
}

func (g *GameHandler) HandleLegalMoves(w http.ResponseWriter, r *http.Request) {
	moves, err := g.gameUC.LegalMoves(r.Context(), r.URL.Query().Get("color"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, moves)
}

func (g *GameHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	var move game.Move
	if err := utils.DecodeJSONRequest(r, &move); err != nil {
		g.writeError(w, err)
		return
	}
	if move.IsPass() {
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, "coordinates are required, use /pass to pass")
		return
	}
	res, err := g.gameUC.PlayMove(r.Context(), move)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, res)
}

func (g *GameHandler) HandlePass(w http.ResponseWriter, r *http.Request) {
	var req game.PassRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.writeError(w, err)
		return
	}
	res, err := g.gameUC.PlayMove(r.Context(), game.Move{Color: req.Color})
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, res)
}

func (g *GameHandler) HandleUndo(w http.ResponseWriter, r *http.Request) {
	res, err := g.gameUC.Undo(r.Context())
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, res)
}

func (g *GameHandler) HandleRedo(w http.ResponseWriter, r *http.Request) {
	res, err := g.gameUC.Redo(r.Context())
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, res)
}

func (g *GameHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	var setup game.Setup
	if err := utils.DecodeJSONRequest(r, &setup); err != nil {
		g.writeError(w, err)
		return
	}
	state, err := g.gameUC.Setup(r.Context(), setup)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, state)
}

func (g *GameHandler) HandleRevertSetup(w http.ResponseWriter, r *http.Request) {
	state, err := g.gameUC.RevertSetup(r.Context())
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, state)
}

func (g *GameHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	rec, err := g.gameUC.EndGame(r.Context())
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, rec)
}

func (g *GameHandler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, "page must be a positive number")
			return
		}
		page = n
	}
	records, err := g.gameUC.ArchivedGames(r.Context(), page)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, records)
}

func (g *GameHandler) HandleArchivedGame(w http.ResponseWriter, r *http.Request) {
	rec, err := g.gameUC.ArchivedGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, rec)
}

// writeError maps an error to a status: illegal moves are 409, caller
// mistakes 400, missing records 404 and everything else 500.
func (g *GameHandler) writeError(w http.ResponseWriter, err error) {
	if reason, ok := gameuc.IsIllegal(err); ok {
		httpresponse.WriteResponseWithStatus(w, http.StatusConflict, game.Legality{Legal: false, Reason: reason.String()})
		return
	}
	switch {
	case errors.Is(err, errs.ErrInvalidArgument), errors.Is(err, errs.ErrInvalidState):
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrRecordNotFound):
		httpresponse.WriteErrorWithStatus(w, http.StatusNotFound, err.Error())
	default:
		g.log.Errorf("request failed: %v", err)
		httpresponse.WriteInternalErrorResponse(w)
	}
}
