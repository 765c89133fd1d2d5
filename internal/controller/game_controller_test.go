package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/chessrules/internal/chess"
	"github.com/benbeisheim/chessrules/internal/model"
	"github.com/benbeisheim/chessrules/internal/service"
	"github.com/benbeisheim/chessrules/internal/storage"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store, err := storage.Open("")
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	gs := service.NewGameService(service.NewGameManager(service.ArchiveTo(store)), store)
	app := fiber.New()
	RegisterRoutes(app, NewGameController(gs), NewWebSocketController(gs), []string{"http://localhost:5173"})
	return app
}

func do(t *testing.T, app *fiber.App, method, path, player, body string, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if player != "" {
		req.Header.Set("X-Player-ID", player)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func TestGameLifecycle(t *testing.T) {
	app := newTestApp(t)

	if code := do(t, app, http.MethodPost, "/api/game/create", "", "", nil); code != fiber.StatusUnauthorized {
		t.Fatalf("create without player: %d", code)
	}

	var created struct {
		GameID string `json:"game_id"`
	}
	if code := do(t, app, http.MethodPost, "/api/game/create", "alice", "", &created); code != fiber.StatusCreated || created.GameID == "" {
		t.Fatalf("create: %d %+v", code, created)
	}
	base := "/api/game/" + created.GameID

	var joined struct {
		Color string `json:"color"`
	}
	if code := do(t, app, http.MethodPost, "/api/game/join/"+created.GameID, "alice", "", &joined); code != fiber.StatusOK || joined.Color != "white" {
		t.Fatalf("alice join: %d %+v", code, joined)
	}
	if code := do(t, app, http.MethodPost, "/api/game/join/"+created.GameID, "bob", "", &joined); code != fiber.StatusOK || joined.Color != "black" {
		t.Fatalf("bob join: %d %+v", code, joined)
	}
	if code := do(t, app, http.MethodPost, "/api/game/join/"+created.GameID, "carol", "", nil); code != fiber.StatusConflict {
		t.Fatalf("carol join: %d", code)
	}

	var legal struct {
		Moves []string `json:"moves"`
	}
	if code := do(t, app, http.MethodGet, base+"/moves?from=e2", "alice", "", &legal); code != fiber.StatusOK {
		t.Fatalf("moves: %d", code)
	}
	if want := []string{"e3", "e4"}; !reflect.DeepEqual(legal.Moves, want) {
		t.Fatalf("moves = %v, want %v", legal.Moves, want)
	}
	if code := do(t, app, http.MethodGet, base+"/moves", "alice", "", nil); code != fiber.StatusBadRequest {
		t.Fatalf("moves without from: %d", code)
	}

	moveTests := []struct {
		name   string
		player string
		body   string
		want   int
	}{
		{name: "wrong turn", player: "bob", body: `{"from":"e7","to":"e5"}`, want: fiber.StatusConflict},
		{name: "spectator", player: "carol", body: `{"from":"e2","to":"e4"}`, want: fiber.StatusForbidden},
		{name: "illegal", player: "alice", body: `{"from":"e2","to":"e5"}`, want: fiber.StatusUnprocessableEntity},
		{name: "bad square", player: "alice", body: `{"from":"z2","to":"e4"}`, want: fiber.StatusUnprocessableEntity},
		{name: "bad body", player: "alice", body: `{"from":`, want: fiber.StatusBadRequest},
		{name: "legal", player: "alice", body: `{"from":"e2","to":"e4"}`, want: fiber.StatusOK},
	}
	for _, tt := range moveTests {
		t.Run(tt.name, func(t *testing.T) {
			if code := do(t, app, http.MethodPost, base+"/move", tt.player, tt.body, nil); code != tt.want {
				t.Fatalf("status = %d, want %d", code, tt.want)
			}
		})
	}

	var state struct {
		ToMove    string `json:"toMove"`
		BoardView struct {
			FEN string `json:"fen"`
		} `json:"boardState"`
	}
	if code := do(t, app, http.MethodGet, base, "bob", "", &state); code != fiber.StatusOK {
		t.Fatalf("state: %d", code)
	}
	if state.ToMove != "black" {
		t.Fatalf("toMove = %q", state.ToMove)
	}
	if want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b - - 0 1"; state.BoardView.FEN != want {
		t.Fatalf("fen = %q, want %q", state.BoardView.FEN, want)
	}

	if code := do(t, app, http.MethodGet, "/api/game/archive/"+created.GameID, "alice", "", nil); code != fiber.StatusNotFound {
		t.Fatalf("archive of running game: %d", code)
	}
	if code := do(t, app, http.MethodPost, base+"/resign", "bob", "", nil); code != fiber.StatusOK {
		t.Fatalf("resign: %d", code)
	}
	if code := do(t, app, http.MethodPost, base+"/move", "bob", `{"from":"e7","to":"e5"}`, nil); code != fiber.StatusConflict {
		t.Fatalf("move after resign: %d", code)
	}

	var archived storage.GameRecord
	if code := do(t, app, http.MethodGet, "/api/game/archive/"+created.GameID, "alice", "", &archived); code != fiber.StatusOK {
		t.Fatalf("archive: %d", code)
	}
	if archived.Winner != "white" || !reflect.DeepEqual(archived.Moves, []string{"e4"}) {
		t.Fatalf("archived = %+v", archived)
	}

	var stats struct {
		Stats   storage.PlayerStats `json:"stats"`
		WinRate float64             `json:"win_rate"`
	}
	if code := do(t, app, http.MethodGet, "/api/players/alice/stats", "", "", &stats); code != fiber.StatusOK {
		t.Fatalf("stats: %d", code)
	}
	if stats.Stats.Wins != 1 || stats.WinRate != 100 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestSeatsSurviveLaterRequests(t *testing.T) {
	app := newTestApp(t)

	var created struct {
		GameID string `json:"game_id"`
	}
	do(t, app, http.MethodPost, "/api/game/create", "alice", "", &created)
	base := "/api/game/" + created.GameID
	do(t, app, http.MethodPost, "/api/game/join/"+created.GameID, "alice", "", nil)
	do(t, app, http.MethodPost, "/api/game/join/"+created.GameID, "bob", "", nil)

	// same length as "alice", never joined
	if code := do(t, app, http.MethodPost, base+"/move", "mallo", `{"from":"e2","to":"e4"}`, nil); code != fiber.StatusForbidden {
		t.Fatalf("outsider move: status %d, want %d", code, fiber.StatusForbidden)
	}
	if code := do(t, app, http.MethodPost, base+"/move", "alice", `{"from":"e2","to":"e4"}`, nil); code != fiber.StatusOK {
		t.Fatalf("alice move: status %d", code)
	}

	var state struct {
		Players struct {
			White struct {
				ID string `json:"id"`
			} `json:"white"`
			Black struct {
				ID string `json:"id"`
			} `json:"black"`
		} `json:"players"`
	}
	do(t, app, http.MethodGet, base, "zzzzz", "", &state)
	if state.Players.White.ID != "alice" || state.Players.Black.ID != "bob" {
		t.Fatalf("seats = %q/%q, want alice/bob", state.Players.White.ID, state.Players.Black.ID)
	}
}

func TestUnknownGameIsNotFound(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/api/game/missing", "/api/game/missing/moves?from=e2"} {
		if code := do(t, app, http.MethodGet, path, "alice", "", nil); code != fiber.StatusNotFound {
			t.Errorf("GET %s: %d", path, code)
		}
	}
	if code := do(t, app, http.MethodPost, "/api/game/join/missing", "alice", "", nil); code != fiber.StatusNotFound {
		t.Errorf("join missing: %d", code)
	}
}

func TestMatchmakingQueue(t *testing.T) {
	app := newTestApp(t)
	if code := do(t, app, http.MethodPost, "/api/game/matchmaking/join", "alice", "", nil); code != fiber.StatusOK {
		t.Fatalf("join: %d", code)
	}
	if code := do(t, app, http.MethodPost, "/api/game/matchmaking/join", "alice", "", nil); code != fiber.StatusConflict {
		t.Fatalf("double join: %d", code)
	}
	var status struct {
		Queued bool `json:"queued"`
	}
	if do(t, app, http.MethodGet, "/api/game/matchmaking/status", "alice", "", &status); !status.Queued {
		t.Fatalf("alice should be queued")
	}
	if do(t, app, http.MethodGet, "/api/game/matchmaking/status", "bob", "", &status); status.Queued {
		t.Fatalf("bob never queued")
	}
	if code := do(t, app, http.MethodPost, "/api/game/matchmaking/leave", "alice", "", nil); code != fiber.StatusOK {
		t.Fatalf("leave: %d", code)
	}
	if code := do(t, app, http.MethodPost, "/api/game/matchmaking/leave", "alice", "", nil); code != fiber.StatusNotFound {
		t.Fatalf("second leave: %d", code)
	}
}

func TestWebSocketRoutesRequireUpgrade(t *testing.T) {
	app := newTestApp(t)
	if code := do(t, app, http.MethodGet, "/ws/matchmaking", "alice", "", nil); code != fiber.StatusUpgradeRequired {
		t.Fatalf("matchmaking without upgrade: %d", code)
	}
	if code := do(t, app, http.MethodGet, "/ws/game/abc", "", "", nil); code != fiber.StatusUnauthorized {
		t.Fatalf("game socket without player: %d", code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrGameNotFound, fiber.StatusNotFound},
		{storage.ErrNotFound, fiber.StatusNotFound},
		{model.ErrNotInGame, fiber.StatusForbidden},
		{model.ErrGameFull, fiber.StatusConflict},
		{chess.ErrWrongTurn, fiber.StatusConflict},
		{chess.ErrSelfCheck, fiber.StatusUnprocessableEntity},
		{errors.New("disk on fire"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
