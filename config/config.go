package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug = "debug"

	ConfigSearchTimeLimit           = "search-time-limit"
	ConfigSearchTimeMargin          = "search-time-margin"
	ConfigSearchCheckDeadline       = "search-check-deadline"
	ConfigSearchMaxDepth            = "search-max-depth"
	ConfigSearchCachePolicy         = "search-cache-policy"
	ConfigSearchCacheMemoryFraction = "search-cache-memory-fraction"

	ConfigHeuristicDistanceExponent = "heuristic-distance-exponent"
	ConfigHeuristicScoreWeight      = "heuristic-score-weight"
	ConfigHeuristicDistanceMetric   = "heuristic-distance-metric"

	ConfigGridWidth  = "grid-width"
	ConfigGridHeight = "grid-height"
	ConfigPlayer     = "player"

	ConfigProvider     = "provider"
	ConfigWebsocketURL = "websocket-url"
	ConfigNatsURL      = "nats-url"
	ConfigNatsSubject  = "nats-subject"

	ConfigStorePath = "store-path"
	ConfigDotPath   = "dot-path"

	ConfigSelfplayGames    = "selfplay-games"
	ConfigSelfplayThreads  = "selfplay-threads"
	ConfigSelfplayFish     = "selfplay-fish"
	ConfigSelfplayMaxValue = "selfplay-max-value"
	ConfigSelfplayMaxTurns = "selfplay-max-turns"
	ConfigSelfplaySwim     = "selfplay-swim"
	ConfigSelfplayOpponent = "selfplay-opponent"
	ConfigSelfplayLog      = "selfplay-log"
	ConfigSelfplaySeeds    = "selfplay-seeds"
)

type option struct {
	key   string
	value any
	usage string
}

var options = []option{
	{ConfigDebug, false, "log at debug level"},

	{ConfigSearchTimeLimit, 75 * time.Millisecond, "wall-clock budget per turn"},
	{ConfigSearchTimeMargin, 15 * time.Millisecond, "part of the budget reserved for sending the move"},
	{ConfigSearchCheckDeadline, true, "abort the search when the deadline passes"},
	{ConfigSearchMaxDepth, 64, "deepest iteration of iterative deepening"},
	{ConfigSearchCachePolicy, "reference", "transposition cache policy: reference, bounded or off"},
	{ConfigSearchCacheMemoryFraction, 0.0, "cap the cache at this fraction of system memory (0 = no cap)"},

	{ConfigHeuristicDistanceExponent, 10.0, "power applied to the hook-fish distance"},
	{ConfigHeuristicScoreWeight, 10.0, "multiplier of the score difference"},
	{ConfigHeuristicDistanceMetric, "euclidean", "distance metric: euclidean or manhattan"},

	{ConfigGridWidth, 20, "grid width (columns wrap)"},
	{ConfigGridHeight, 20, "grid height"},
	{ConfigPlayer, 0, "player index the engine moves for"},

	{ConfigProvider, "stdio", "game state provider: stdio, websocket or nats"},
	{ConfigWebsocketURL, "ws://localhost:8080/ws", "websocket provider URL"},
	{ConfigNatsURL, "nats://localhost:4222", "NATS server URL"},
	{ConfigNatsSubject, "fishderby.turn", "NATS subject turn requests arrive on"},

	{ConfigStorePath, "", "sqlite file for the decision log (empty disables it)"},
	{ConfigDotPath, "", "write the last search tree as graphviz dot to this file"},

	{ConfigSelfplayGames, 100, "number of self-play games"},
	{ConfigSelfplayThreads, 4, "self-play games played at once"},
	{ConfigSelfplayFish, 6, "fish dealt per self-play game"},
	{ConfigSelfplayMaxValue, 10, "highest fish value dealt"},
	{ConfigSelfplayMaxTurns, 200, "plies after which a self-play game is stopped"},
	{ConfigSelfplaySwim, true, "let fish swim between rounds"},
	{ConfigSelfplayOpponent, "engine", "player 1 in self-play: engine or nats"},
	{ConfigSelfplayLog, "", "CSV file for self-play game results"},
	{ConfigSelfplaySeeds, "", "file of deal seeds; games replay them in order"},
}

// Config is the engine configuration. Values come, in increasing order of
// precedence, from defaults, a config file, FISHDERBY_* environment
// variables and command-line flags.
type Config struct {
	*viper.Viper
}

// DefaultConfig returns a config holding only the defaults.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	for _, o := range options {
		c.SetDefault(o.key, o.value)
	}
	return c
}

// Load parses args and reads the environment and the optional config file.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	fs := pflag.NewFlagSet("fishderby", pflag.ContinueOnError)
	configFile := fs.String("config", "", "path to a config file (yaml, toml or json)")
	for _, o := range options {
		c.SetDefault(o.key, o.value)
		switch v := o.value.(type) {
		case bool:
			fs.Bool(o.key, v, o.usage)
		case int:
			fs.Int(o.key, v, o.usage)
		case float64:
			fs.Float64(o.key, v, o.usage)
		case string:
			fs.String(o.key, v, o.usage)
		case time.Duration:
			fs.Duration(o.key, v, o.usage)
		default:
			return fmt.Errorf("option %s has unsupported type %T", o.key, o.value)
		}
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.SetEnvPrefix("fishderby")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if *configFile != "" {
		c.SetConfigFile(*configFile)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", *configFile, err)
		}
	}
	return c.Validate()
}

// Validate catches settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.GetInt(ConfigGridWidth) < 2 || c.GetInt(ConfigGridHeight) < 2 {
		return fmt.Errorf("grid must be at least 2x2, got %dx%d",
			c.GetInt(ConfigGridWidth), c.GetInt(ConfigGridHeight))
	}
	if p := c.GetInt(ConfigPlayer); p != 0 && p != 1 {
		return fmt.Errorf("player must be 0 or 1, got %d", p)
	}
	if c.GetDuration(ConfigSearchTimeMargin) < 0 {
		return fmt.Errorf("%s must not be negative", ConfigSearchTimeMargin)
	}
	if c.GetInt(ConfigSearchMaxDepth) < 1 {
		return fmt.Errorf("%s must be at least 1", ConfigSearchMaxDepth)
	}
	if c.GetInt(ConfigSelfplayThreads) < 1 {
		return fmt.Errorf("%s must be at least 1", ConfigSelfplayThreads)
	}
	return nil
}
