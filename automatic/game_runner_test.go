package automatic

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/fishderby/bot"
	"github.com/domino14/fishderby/config"
	"github.com/domino14/fishderby/game"
)

// scripted always answers with the same action and keeps what it was shown.
type scripted struct {
	action string
	seen   []*game.Message
}

func (s *scripted) Decide(ctx context.Context, msg *game.Message) (bot.Response, error) {
	s.seen = append(s.seen, msg)
	return bot.Response{Action: s.action}, nil
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigGridWidth, 8)
	cfg.Set(config.ConfigGridHeight, 8)
	cfg.Set(config.ConfigSelfplayFish, 3)
	cfg.Set(config.ConfigSelfplayMaxTurns, 40)
	cfg.Set(config.ConfigSearchTimeLimit, 10*time.Millisecond)
	cfg.Set(config.ConfigSearchTimeMargin, 2*time.Millisecond)
	return cfg
}

func TestStayingPlayersScoreNothing(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	p0, p1 := &scripted{action: "stay"}, &scripted{action: "stay"}
	logchan := make(chan string, 1)
	r := NewGameRunner(logchan, cfg, [game.NumPlayers]Player{p0, p1})

	res, err := r.PlayGame(context.Background())
	is.NoErr(err)
	is.Equal(res.Turns, 40)
	is.Equal(res.Scores, [game.NumPlayers]int{0, 0})
	is.Equal(len(p0.seen), 20)
	is.Equal(len(p1.seen), 20)
	line := <-logchan
	is.True(strings.HasPrefix(line, res.GameID+",0,0,40"))

	// fish swam but never left the water
	for _, msg := range append(p0.seen, p1.seen...) {
		for _, pos := range msg.FishesPositions {
			is.True(pos[1] >= 0 && pos[1] < 7)
			is.True(pos[0] >= 0 && pos[0] < 8)
		}
	}
}

func TestSeededDeals(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	cfg.Set(config.ConfigSelfplayMaxTurns, 2)
	seed := GenerateSeeds(1)[0]

	var first [2]*game.Message
	for i := range first {
		p := &scripted{action: "stay"}
		r := NewGameRunner(nil, cfg, [game.NumPlayers]Player{p, &scripted{action: "stay"}})
		r.Seed(seed)
		_, err := r.PlayGame(context.Background())
		is.NoErr(err)
		first[i] = p.seen[0]
	}
	is.Equal(first[0], first[1])
}

func TestBadActionStopsGame(t *testing.T) {
	cfg := testConfig()
	r := NewGameRunner(nil, cfg, [game.NumPlayers]Player{
		&scripted{action: "dive"}, &scripted{action: "stay"}})
	_, err := r.PlayGame(context.Background())
	assert.ErrorContains(t, err, "unknown move")
}

func TestEnginesPlayAGame(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	players, err := EnginePlayers(cfg, nil)()
	is.NoErr(err)
	r := NewGameRunner(nil, cfg, players)

	res, err := r.PlayGame(context.Background())
	is.NoErr(err)
	is.True(res.Turns > 0)
	is.True(res.Scores[0]+res.Scores[1] <= 3*cfg.GetInt(config.ConfigSelfplayMaxValue))
	is.Equal(r.Decisions().Turns(), res.Turns)
	// the bots were reset for the next game
	is.Equal(players[0].(*bot.Bot).Decisions().Turns(), 0)
}

func TestStartCompVCompGames(t *testing.T) {
	cfg := testConfig()
	logPath := filepath.Join(t.TempDir(), "games.csv")
	cfg.Set(config.ConfigSelfplayGames, 4)
	cfg.Set(config.ConfigSelfplayThreads, 2)
	cfg.Set(config.ConfigSelfplayLog, logPath)

	summary, err := StartCompVCompGames(context.Background(), cfg,
		EnginePlayers(cfg, nil), GenerateSeeds(2))
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Games)
	assert.Equal(t, 4, summary.Wins[0]+summary.Wins[1]+summary.Ties)
	assert.Equal(t, int64(0), IsPlaying.Value())
	assert.True(t, summary.Decisions.Turns() > 0)

	var sb strings.Builder
	require.NoError(t, summary.WriteReport(&sb))
	assert.Contains(t, sb.String(), "games: 4")
	assert.Contains(t, sb.String(), "turns:")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 5)
	assert.Equal(t, strings.TrimSpace(logHeader), lines[0])

	report, err := AnalyzeLogFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, report, "games: 4")
}

func TestStartCompVCompGamesFactoryError(t *testing.T) {
	cfg := testConfig()
	cfg.Set(config.ConfigSelfplayGames, 3)
	boom := errors.New("no players")
	_, err := StartCompVCompGames(context.Background(), cfg,
		func() ([game.NumPlayers]Player, error) {
			return [game.NumPlayers]Player{}, boom
		}, nil)
	assert.ErrorIs(t, err, boom)
}

func TestReadGameLog(t *testing.T) {
	is := is.New(t)
	s, err := ReadGameLog(strings.NewReader(logHeader +
		"a,10,4,30\nb,2,9,41\nc,5,5,12\n"))
	is.NoErr(err)
	is.Equal(s.Games, 3)
	is.Equal(s.Wins, [game.NumPlayers]int{1, 1})
	is.Equal(s.Ties, 1)
	is.Equal(s.Spread.Mean(), 0.0)

	_, err = ReadGameLog(strings.NewReader("a,10,x,30\n"))
	is.True(err != nil)
}
