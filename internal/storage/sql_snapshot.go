package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitgarden/internal/migration"
	"github.com/julianstephens/habitgarden/internal/models"
)

// snapshotTables lists every table a Save rewrites, children first.
var snapshotTables = []string{
	"comments", "post_likes", "posts", "unlocks", "check_ins", "habits", "friendships", "users", "meta",
}

// rebind rewrites ? placeholders into the dialect's bind syntax.
func rebind(d migration.Dialect, query string) string {
	if d != migration.Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(column, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return t, nil
}

// writeSnapshot replaces the stored snapshot with state inside one transaction.
func writeSnapshot(db *sql.DB, d migration.Dialect, state *models.State) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	exec := func(query string, args ...any) error {
		_, err := tx.Exec(rebind(d, query), args...)
		return err
	}

	for _, table := range snapshotTables {
		if err := exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	meta := map[string]string{
		"version":         strconv.Itoa(state.Version),
		"current_user_id": state.CurrentUserID,
	}
	for k, v := range meta {
		if err := exec("INSERT INTO meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("failed to save meta: %w", err)
		}
	}

	for i, u := range state.Users {
		if err := exec(`INSERT INTO users (id, seq, username, display_name, avatar, bio, background_color, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			u.ID, i, u.Username, u.DisplayName, u.Avatar, u.Bio, u.BackgroundColor, formatTime(u.CreatedAt)); err != nil {
			return fmt.Errorf("failed to save user %s: %w", u.ID, err)
		}
	}

	for i, f := range state.Friendships {
		if err := exec("INSERT INTO friendships (user_id, friend_id, seq, created_at) VALUES (?, ?, ?, ?)",
			f.UserID, f.FriendID, i, formatTime(f.CreatedAt)); err != nil {
			return fmt.Errorf("failed to save friendship: %w", err)
		}
	}

	for i, h := range state.Habits {
		if err := exec(`INSERT INTO habits (id, seq, owner_id, name, description, duration, plant_type, created_at, pos_x, pos_y)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			h.ID, i, h.OwnerID, h.Name, h.Description, h.Duration, string(h.PlantType), formatTime(h.CreatedAt),
			h.Position.X, h.Position.Y); err != nil {
			return fmt.Errorf("failed to save habit %s: %w", h.ID, err)
		}
		for _, c := range h.CheckIns {
			if err := exec("INSERT INTO check_ins (habit_id, date) VALUES (?, ?)", h.ID, c.Date); err != nil {
				return fmt.Errorf("failed to save check-in for habit %s: %w", h.ID, err)
			}
		}
	}

	for i, u := range state.Unlocks {
		if err := exec("INSERT INTO unlocks (user_id, achievement_id, seq, unlocked_at) VALUES (?, ?, ?, ?)",
			u.UserID, u.AchievementID, i, formatTime(u.UnlockedAt)); err != nil {
			return fmt.Errorf("failed to save unlock: %w", err)
		}
	}

	for i, p := range state.Posts {
		if err := exec("INSERT INTO posts (id, seq, user_id, content, created_at) VALUES (?, ?, ?, ?, ?)",
			p.ID, i, p.UserID, p.Content, formatTime(p.Timestamp)); err != nil {
			return fmt.Errorf("failed to save post %s: %w", p.ID, err)
		}
		for j, userID := range p.Likes {
			if err := exec("INSERT INTO post_likes (post_id, user_id, seq) VALUES (?, ?, ?)", p.ID, userID, j); err != nil {
				return fmt.Errorf("failed to save like on post %s: %w", p.ID, err)
			}
		}
		for j, c := range p.Comments {
			if err := exec("INSERT INTO comments (id, post_id, seq, user_id, content, created_at) VALUES (?, ?, ?, ?, ?, ?)",
				c.ID, p.ID, j, c.UserID, c.Content, formatTime(c.Timestamp)); err != nil {
				return fmt.Errorf("failed to save comment %s: %w", c.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// readSnapshot loads the stored snapshot in persisted order.
func readSnapshot(db *sql.DB, d migration.Dialect) (*models.State, error) {
	state := models.NewState()
	query := func(q string, args ...any) (*sql.Rows, error) {
		return db.Query(rebind(d, q), args...)
	}

	if err := readMeta(db, state); err != nil {
		return nil, err
	}

	rows, err := query("SELECT id, username, display_name, avatar, bio, background_color, created_at FROM users ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	err = scanRows(rows, func() error {
		var err error
		var u models.User
		var createdAt string
		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.Avatar, &u.Bio, &u.BackgroundColor, &createdAt); err != nil {
			return err
		}
		u.CreatedAt, err = parseTime("users.created_at", createdAt)
		if err != nil {
			return err
		}
		state.Users = append(state.Users, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	rows, err = query("SELECT user_id, friend_id, created_at FROM friendships ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query friendships: %w", err)
	}
	err = scanRows(rows, func() error {
		var err error
		var f models.Friendship
		var createdAt string
		if err := rows.Scan(&f.UserID, &f.FriendID, &createdAt); err != nil {
			return err
		}
		f.CreatedAt, err = parseTime("friendships.created_at", createdAt)
		if err != nil {
			return err
		}
		state.Friendships = append(state.Friendships, f)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load friendships: %w", err)
	}

	habitIdx := make(map[string]int)
	rows, err = query("SELECT id, owner_id, name, description, duration, plant_type, created_at, pos_x, pos_y FROM habits ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	err = scanRows(rows, func() error {
		var err error
		var h models.Habit
		var plant, createdAt string
		if err := rows.Scan(&h.ID, &h.OwnerID, &h.Name, &h.Description, &h.Duration, &plant, &createdAt,
			&h.Position.X, &h.Position.Y); err != nil {
			return err
		}
		h.PlantType = models.PlantType(plant)
		h.CreatedAt, err = parseTime("habits.created_at", createdAt)
		if err != nil {
			return err
		}
		h.CheckIns = []models.CheckIn{}
		habitIdx[h.ID] = len(state.Habits)
		state.Habits = append(state.Habits, h)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}

	rows, err = query("SELECT habit_id, date FROM check_ins ORDER BY habit_id, date")
	if err != nil {
		return nil, fmt.Errorf("failed to query check-ins: %w", err)
	}
	err = scanRows(rows, func() error {
		var habitID, date string
		if err := rows.Scan(&habitID, &date); err != nil {
			return err
		}
		if i, ok := habitIdx[habitID]; ok {
			state.Habits[i].CheckIns = append(state.Habits[i].CheckIns, models.CheckIn{Date: date})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load check-ins: %w", err)
	}

	rows, err = query("SELECT user_id, achievement_id, unlocked_at FROM unlocks ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query unlocks: %w", err)
	}
	err = scanRows(rows, func() error {
		var err error
		var u models.Unlock
		var unlockedAt string
		if err := rows.Scan(&u.UserID, &u.AchievementID, &unlockedAt); err != nil {
			return err
		}
		u.UnlockedAt, err = parseTime("unlocks.unlocked_at", unlockedAt)
		if err != nil {
			return err
		}
		state.Unlocks = append(state.Unlocks, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load unlocks: %w", err)
	}

	postIdx := make(map[string]int)
	rows, err = query("SELECT id, user_id, content, created_at FROM posts ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	err = scanRows(rows, func() error {
		var err error
		var p models.Post
		var createdAt string
		if err := rows.Scan(&p.ID, &p.UserID, &p.Content, &createdAt); err != nil {
			return err
		}
		p.Timestamp, err = parseTime("posts.created_at", createdAt)
		if err != nil {
			return err
		}
		p.Likes = []string{}
		p.Comments = []models.Comment{}
		postIdx[p.ID] = len(state.Posts)
		state.Posts = append(state.Posts, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	rows, err = query("SELECT post_id, user_id FROM post_likes ORDER BY post_id, seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query likes: %w", err)
	}
	err = scanRows(rows, func() error {
		var postID, userID string
		if err := rows.Scan(&postID, &userID); err != nil {
			return err
		}
		if i, ok := postIdx[postID]; ok {
			state.Posts[i].Likes = append(state.Posts[i].Likes, userID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load likes: %w", err)
	}

	rows, err = query("SELECT id, post_id, user_id, content, created_at FROM comments ORDER BY post_id, seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	err = scanRows(rows, func() error {
		var err error
		var c models.Comment
		var postID, createdAt string
		if err := rows.Scan(&c.ID, &postID, &c.UserID, &c.Content, &createdAt); err != nil {
			return err
		}
		c.Timestamp, err = parseTime("comments.created_at", createdAt)
		if err != nil {
			return err
		}
		if i, ok := postIdx[postID]; ok {
			state.Posts[i].Comments = append(state.Posts[i].Comments, c)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	return state, nil
}

func readMeta(db *sql.DB, state *models.State) error {
	rows, err := db.Query("SELECT key, value FROM meta")
	if err != nil {
		return fmt.Errorf("failed to query meta: %w", err)
	}
	err = scanRows(rows, func() error {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		switch key {
		case "version":
			v, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid snapshot version %q", value)
			}
			state.Version = v
		case "current_user_id":
			state.CurrentUserID = value
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load meta: %w", err)
	}
	if state.Version > models.StateVersion {
		return fmt.Errorf("storage version %d is newer than supported version %d", state.Version, models.StateVersion)
	}
	return nil
}

// scanRows calls fn for each row and closes rows.
func scanRows(rows *sql.Rows, fn func() error) error {
	defer rows.Close()
	for rows.Next() {
		if err := fn(); err != nil {
			return err
		}
	}
	return rows.Err()
}
