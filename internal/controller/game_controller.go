package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/chessrules/internal/chess"
	"github.com/benbeisheim/chessrules/internal/middleware"
	"github.com/benbeisheim/chessrules/internal/model"
	"github.com/benbeisheim/chessrules/internal/service"
	"github.com/benbeisheim/chessrules/internal/storage"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound), errors.Is(err, storage.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrNotInGame), errors.Is(err, model.ErrNotAuthorized):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrGameFull), errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrAlreadyQueued), errors.Is(err, chess.ErrWrongTurn):
		return fiber.StatusConflict
	case errors.Is(err, chess.ErrInvalidCoordinate), errors.Is(err, chess.ErrNoPiece),
		errors.Is(err, chess.ErrIllegalMove), errors.Is(err, chess.ErrSelfCheck),
		errors.Is(err, chess.ErrInvalidPromotion):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame()
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := middleware.PlayerID(c)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(gameState)
}

// GetLegalMoves lists the fully legal destinations of the piece on ?from=<square>.
func (gc *GameController) GetLegalMoves(c *fiber.Ctx) error {
	from := c.Query("from")
	if from == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query parameter from is required",
		})
	}
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), from)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"from":  from,
		"moves": moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.WSMove
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move body",
		})
	}
	gameID := c.Params("gameId")
	if err := gc.gameService.HandleMove(gameID, middleware.PlayerID(c), move); err != nil {
		return fail(c, err)
	}
	gameState, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) Resign(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if err := gc.gameService.Resign(gameID, middleware.PlayerID(c)); err != nil {
		return fail(c, err)
	}
	gameState, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) GetArchivedGame(c *fiber.Ctx) error {
	rec, err := gc.gameService.ArchivedGame(c.Params("gameId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rec)
}

func (gc *GameController) GetPlayerStats(c *fiber.Ctx) error {
	playerID := c.Params("playerId")
	stats, err := gc.gameService.PlayerStats(playerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"player":   playerID,
		"stats":    stats,
		"win_rate": stats.WinRate(),
	})
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(middleware.PlayerID(c)); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) MatchmakingStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"queued": gc.gameService.IsQueued(middleware.PlayerID(c)),
	})
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	if !gc.gameService.LeaveMatchmaking(middleware.PlayerID(c)) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "player not in queue",
		})
	}
	return c.JSON(fiber.Map{
		"status": "left",
	})
}
