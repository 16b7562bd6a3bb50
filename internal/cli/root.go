package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/habitgarden/internal/achievements"
	"github.com/julianstephens/habitgarden/internal/backup"
	"github.com/julianstephens/habitgarden/internal/config"
	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/engine"
	apperrors "github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/keyring"
	"github.com/julianstephens/habitgarden/internal/logger"
	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/internal/storage"
)

// shortIDLen is how many characters of a uuid the CLI prints and accepts as a prefix.
const shortIDLen = 8

// lookupKeyring is swapped out in tests.
var lookupKeyring = keyring.ConnectionString

type Context struct {
	Config     *config.Config
	ConfigPath string
	Store      storage.Provider
	Engine     *engine.Engine
	Out        io.Writer
	In         io.Reader
}

// NewContext wires storage, the achievement catalog and the engine for cfg.
// The engine is not loaded; commands that need state run after Engine.Load.
func NewContext(cfg *config.Config, configPath string, out io.Writer, in io.Reader) (*Context, error) {
	target, err := ResolveStorage(cfg)
	if err != nil {
		return nil, err
	}

	catalog := achievements.DefaultCatalog()
	if cfg.AchievementsFile != "" {
		catalog, err = achievements.LoadCatalog(config.ExpandHome(cfg.AchievementsFile))
		if err != nil {
			return nil, err
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	ctx := &Context{
		Config:     cfg,
		ConfigPath: configPath,
		Store:      storage.New(target),
		Out:        out,
		In:         in,
	}
	ctx.Engine = engine.New(ctx.Store, engine.Options{
		Catalog:         catalog,
		SuggestionLimit: cfg.SuggestionLimit,
		Location:        loc,
		OnUnlock: func(u models.User, a models.Achievement) {
			ctx.printf("🏆 %s unlocked %s %s: %s\n", u.DisplayName, a.Icon, a.Name, a.Description)
		},
	})
	return ctx, nil
}

// NeedsState reports whether the kong command path runs against loaded state.
// Setup, diagnostics and file-level backup commands manage storage themselves.
func NeedsState(command string) bool {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return true
	}
	switch fields[0] {
	case "init", "doctor", "config", "backup":
		return false
	}
	return true
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*storage.SQLiteStore); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// location is the zone dates are displayed in.
func (c *Context) location() *time.Location {
	if c.Config != nil {
		if loc, err := c.Config.Location(); err == nil {
			return loc
		}
	}
	return time.Local
}

// currentUser returns the selected user or a hint on how to select one.
func (c *Context) currentUser() (models.User, error) {
	u, err := c.Engine.CurrentUser()
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return models.User{}, fmt.Errorf("%w (run 'habitgarden user register' or 'habitgarden user use')", err)
		}
		return models.User{}, err
	}
	return u, nil
}

// userOrCurrent resolves identifier, falling back to the current user when empty.
func (c *Context) userOrCurrent(identifier string) (models.User, error) {
	if strings.TrimSpace(identifier) == "" {
		return c.currentUser()
	}
	return c.Engine.ResolveUser(identifier)
}

// findHabit matches ref against the owner's habits by id, id prefix, or
// case-insensitive name.
func (c *Context) findHabit(ownerID, ref string) (models.Habit, error) {
	habits, err := c.Engine.Habits(ownerID)
	if err != nil {
		return models.Habit{}, err
	}
	ref = strings.TrimSpace(ref)
	var matches []models.Habit
	for _, h := range habits {
		if h.ID == ref || strings.EqualFold(h.Name, ref) {
			return h, nil
		}
		if len(ref) >= 4 && strings.HasPrefix(h.ID, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, apperrors.NotFound("habit", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, apperrors.Validation("habit", "%q matches %d habits, use a longer id", ref, len(matches))
	}
}

// findPost matches ref against post ids or id prefixes.
func (c *Context) findPost(ref string) (models.Post, error) {
	posts, err := c.Engine.ListPosts()
	if err != nil {
		return models.Post{}, err
	}
	ref = strings.TrimSpace(ref)
	var matches []models.Post
	for _, p := range posts {
		if p.ID == ref {
			return p, nil
		}
		if len(ref) >= 4 && strings.HasPrefix(p.ID, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return models.Post{}, apperrors.NotFound("post", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Post{}, apperrors.Validation("post", "%q matches %d posts, use a longer id", ref, len(matches))
	}
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// ResolveStorage returns the storage target for cfg. PostgreSQL strings in the
// config may not carry a password; the full string comes from the environment
// or the OS keyring, falling back to the config value for .pgpass setups.
func ResolveStorage(cfg *config.Config) (string, error) {
	if !cfg.IsPostgres() {
		return config.ExpandHome(cfg.Storage), nil
	}
	if storage.HasEmbeddedCredentials(cfg.Storage) {
		return "", fmt.Errorf("%w: store the password-bearing string with 'habitgarden config set-connection' or %s",
			storage.ErrEmbeddedCredentials, constants.EnvDBConnection)
	}
	if v := os.Getenv(constants.EnvDBConnection); v != "" {
		return v, nil
	}
	connStr, err := lookupKeyring()
	switch {
	case err == nil:
		return connStr, nil
	case errors.Is(err, keyring.ErrNotFound):
		return cfg.Storage, nil
	default:
		logger.Warn("Keyring lookup failed, using configured connection string", "error", err)
		return cfg.Storage, nil
	}
}
