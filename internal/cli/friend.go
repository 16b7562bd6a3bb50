package cli

type FriendCmd struct {
	Add     FriendAddCmd     `cmd:"" help:"Add a friend by username."`
	List    FriendListCmd    `cmd:"" help:"List friends."`
	Suggest FriendSuggestCmd `cmd:"" help:"Suggest users to befriend."`
}

type FriendAddCmd struct {
	Username string `arg:"" help:"Username to befriend."`
}

func (c *FriendAddCmd) Run(ctx *Context) error {
	u, err := ctx.currentUser()
	if err != nil {
		return err
	}
	friend, err := ctx.Engine.AddFriend(u.ID, c.Username)
	if err != nil {
		return err
	}
	ctx.printf("You and %s (@%s) are now friends\n", friend.DisplayName, friend.Username)
	return nil
}

type FriendListCmd struct {
	User string `arg:"" optional:"" help:"Username or id (default: current user)."`
}

func (c *FriendListCmd) Run(ctx *Context) error {
	u, err := ctx.userOrCurrent(c.User)
	if err != nil {
		return err
	}
	friends, err := ctx.Engine.ListFriends(u.ID)
	if err != nil {
		return err
	}
	if len(friends) == 0 {
		ctx.println("No friends yet.")
		return nil
	}
	for _, f := range friends {
		printUserLine(ctx, f, false)
	}
	return nil
}

type FriendSuggestCmd struct {
	Query string `arg:"" optional:"" help:"Filter by username or display name."`
}

func (c *FriendSuggestCmd) Run(ctx *Context) error {
	u, err := ctx.currentUser()
	if err != nil {
		return err
	}
	suggestions, err := ctx.Engine.SuggestFriends(u.ID, c.Query)
	if err != nil {
		return err
	}
	if len(suggestions) == 0 {
		ctx.println("No suggestions.")
		return nil
	}
	for _, s := range suggestions {
		printUserLine(ctx, s, false)
	}
	return nil
}
