package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pbaille/clozer/internal/config"
	"github.com/pbaille/clozer/internal/drafter"
	"github.com/pbaille/clozer/internal/logging"
	"github.com/pbaille/clozer/internal/pipeline"
	"github.com/pbaille/clozer/internal/store"
	"github.com/pbaille/clozer/internal/validate"
)

type commandContext struct {
	configFlag *string
	dbFlag     *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *logging.Logger
	loggerErr  error
}

func newCommandContext(configFlag, dbFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		dbFlag:     dbFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := c.applyDBFlag(cfg); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// applyDBFlag lets --db pick the store without a config file.
func (c *commandContext) applyDBFlag(cfg *config.Config) error {
	if c.dbFlag == nil {
		return nil
	}
	db := strings.TrimSpace(*c.dbFlag)
	switch {
	case db == "":
		return nil
	case strings.HasPrefix(db, "postgres://"), strings.HasPrefix(db, "postgresql://"):
		cfg.Store.Driver = "postgres"
		cfg.Store.DSN = db
	default:
		expanded, err := config.ExpandPath(db)
		if err != nil {
			return fmt.Errorf("resolve --db: %w", err)
		}
		cfg.Store.Driver = "sqlite"
		cfg.Store.Path = expanded
	}
	return nil
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) ensureLogger() (*logging.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) validator() *validate.Validator {
	cfg, err := c.ensureConfig()
	if err != nil || cfg == nil {
		return validate.New(nil, validate.Options{})
	}
	return validate.New(nil, validate.Options{
		ClozePerSentence: cfg.Engine.ClozePerSentence,
		MaxAntecedents:   cfg.Engine.MaxAntecedents,
	})
}

func (c *commandContext) openStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	switch cfg.Store.Driver {
	case "postgres":
		return store.OpenPostgres(ctx, cfg.Store.DSN)
	default:
		dir := filepath.Dir(cfg.Store.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		return store.OpenSQLite(cfg.Store.Path)
	}
}

func (c *commandContext) openDrafter(ctx context.Context) (*drafter.Drafter, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	p, err := drafter.Open(ctx, drafter.Options{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
		Timeout:  cfg.LLMTimeout(),
	})
	if err != nil {
		return nil, err
	}
	return drafter.New(p), nil
}

// withService opens the store (and the drafter when needed), runs fn and
// releases both.
func (c *commandContext) withService(ctx context.Context, needDrafter bool, fn func(*pipeline.Service) error) error {
	log, err := c.ensureLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	var d *drafter.Drafter
	if needDrafter {
		d, err = c.openDrafter(ctx)
		if err != nil {
			return err
		}
		defer d.Close()
	}

	return fn(pipeline.New(st, c.validator(), d, log))
}
