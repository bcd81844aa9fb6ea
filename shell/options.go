package shell

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethiery/isolation/config"
	"github.com/ethiery/isolation/eval"
	"github.com/ethiery/isolation/game"
	"github.com/ethiery/isolation/search"
)

// optionKeys fixes the display order of `set` and `opts`.
var optionKeys = []string{
	config.BoardWidth,
	config.BoardHeight,
	config.TimeLimit,
	config.TimeMargin,
	config.SearchMethod,
	config.SearchEval,
	config.SearchDepth,
	config.Iterative,
	config.Reordering,
	config.Table,
	config.TableMemFraction,
	config.Matches,
	config.Threads,
	config.Roster,
	config.Debug,
}

// Options validates runtime settings before they land in the config.
type Options struct {
	cfg *config.Config
}

func NewOptions(cfg *config.Config) *Options {
	return &Options{cfg: cfg}
}

func (o *Options) Show(key string) (bool, string) {
	switch key {
	case config.BoardWidth, config.BoardHeight, config.SearchDepth,
		config.Matches, config.Threads:
		return true, strconv.Itoa(o.cfg.GetInt(key))
	case config.TimeLimit, config.TimeMargin:
		return true, o.cfg.GetDuration(key).String()
	case config.SearchMethod, config.SearchEval, config.Table, config.Roster:
		return true, o.cfg.GetString(key)
	case config.Iterative, config.Reordering, config.Debug:
		return true, strconv.FormatBool(o.cfg.GetBool(key))
	case config.TableMemFraction:
		return true, strconv.FormatFloat(o.cfg.GetFloat64(key), 'g', -1, 64)
	}
	return false, "no such option: " + key
}

func (o *Options) Set(key, value string) error {
	switch key {
	case config.BoardWidth, config.BoardHeight:
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		if n < 1 || n > game.MaxDim {
			return fmt.Errorf("%s must be between 1 and %d", key, game.MaxDim)
		}
		o.cfg.Set(key, n)
	case config.SearchDepth, config.Matches:
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		if n < 1 {
			return fmt.Errorf("%s must be at least 1", key)
		}
		o.cfg.Set(key, n)
	case config.Threads:
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("%s must not be negative", key)
		}
		o.cfg.Set(key, n)
	case config.TimeLimit:
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
		o.cfg.Set(key, d)
	case config.TimeMargin:
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		if d < 0 {
			return fmt.Errorf("%s must not be negative", key)
		}
		o.cfg.Set(key, d)
	case config.SearchMethod:
		if _, err := search.MethodFromName(value); err != nil {
			return err
		}
		o.cfg.Set(key, value)
	case config.SearchEval:
		if _, err := eval.FromName(value); err != nil {
			return err
		}
		o.cfg.Set(key, value)
	case config.Iterative, config.Reordering, config.Debug:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		o.cfg.Set(key, b)
	case config.Table:
		switch value {
		case "map", "bounded", "none":
		default:
			return fmt.Errorf("table must be map, bounded or none")
		}
		o.cfg.Set(key, value)
	case config.TableMemFraction:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		if f <= 0 || f > 1 {
			return fmt.Errorf("%s must be in (0, 1]", key)
		}
		o.cfg.Set(key, f)
	case config.Roster:
		o.cfg.Set(key, value)
	default:
		return fmt.Errorf("no such option: %s", key)
	}
	return nil
}

func (o *Options) ToDisplayText() string {
	out := strings.Builder{}
	out.WriteString("Settings:\n")
	for _, key := range optionKeys {
		_, val := o.Show(key)
		out.WriteString("  " + key + ": " + val + "\n")
	}
	return out.String()
}
