package cli

import (
	"time"

	"github.com/julianstephens/habitgarden/internal/feed"
	"github.com/julianstephens/habitgarden/internal/models"
)

type PostCmd struct {
	Create  PostCreateCmd  `cmd:"" help:"Share a post."`
	List    PostListCmd    `cmd:"" help:"Show the feed, newest first."`
	Like    PostLikeCmd    `cmd:"" help:"Like or unlike a post."`
	Comment PostCommentCmd `cmd:"" help:"Comment on a post."`
}

type PostCreateCmd struct {
	Content string `arg:"" help:"Post text."`
}

func (c *PostCreateCmd) Run(ctx *Context) error {
	u, err := ctx.currentUser()
	if err != nil {
		return err
	}
	p, err := ctx.Engine.CreatePost(u.ID, c.Content)
	if err != nil {
		return err
	}
	ctx.printf("Posted %s\n", shortID(p.ID))
	return nil
}

type PostListCmd struct {
	Limit    int  `help:"Show at most this many posts (0 for all)." default:"20"`
	Comments bool `help:"Include comments." short:"c"`
}

func (c *PostListCmd) Run(ctx *Context) error {
	posts, err := ctx.Engine.ListPosts()
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		ctx.println("The feed is empty.")
		return nil
	}
	state, err := ctx.Engine.Snapshot()
	if err != nil {
		return err
	}
	if c.Limit > 0 && len(posts) > c.Limit {
		posts = posts[:c.Limit]
	}

	now := ctx.Engine.Now()
	for i, p := range posts {
		if i > 0 {
			ctx.println()
		}
		printPost(ctx, state, p, now, c.Comments)
	}
	return nil
}

type PostLikeCmd struct {
	Post string `arg:"" help:"Post id or id prefix."`
}

func (c *PostLikeCmd) Run(ctx *Context) error {
	u, err := ctx.currentUser()
	if err != nil {
		return err
	}
	p, err := ctx.findPost(c.Post)
	if err != nil {
		return err
	}
	liked, err := ctx.Engine.LikePost(p.ID, u.ID)
	if err != nil {
		return err
	}
	if liked {
		ctx.printf("♥ Liked %s\n", shortID(p.ID))
	} else {
		ctx.printf("♡ Unliked %s\n", shortID(p.ID))
	}
	return nil
}

type PostCommentCmd struct {
	Post    string `arg:"" help:"Post id or id prefix."`
	Content string `arg:"" help:"Comment text."`
}

func (c *PostCommentCmd) Run(ctx *Context) error {
	u, err := ctx.currentUser()
	if err != nil {
		return err
	}
	p, err := ctx.findPost(c.Post)
	if err != nil {
		return err
	}
	if _, err := ctx.Engine.AddComment(p.ID, u.ID, c.Content); err != nil {
		return err
	}
	ctx.printf("Commented on %s\n", shortID(p.ID))
	return nil
}

func printPost(ctx *Context, state *models.State, p models.Post, now time.Time, withComments bool) {
	author := feed.Author(state, p.UserID)
	ctx.printf("%s %s (@%s) · %s · %s\n", author.Avatar, author.DisplayName, author.Username,
		feed.RelativeTime(p.Timestamp, now), shortID(p.ID))
	ctx.printf("  %s\n", p.Content)
	ctx.printf("  ♥ %d  💬 %d\n", len(p.Likes), len(p.Comments))
	if !withComments {
		return
	}
	for _, cm := range p.Comments {
		a := feed.Author(state, cm.UserID)
		ctx.printf("    %s %s: %s (%s)\n", a.Avatar, a.DisplayName, cm.Content, feed.RelativeTime(cm.Timestamp, now))
	}
}
