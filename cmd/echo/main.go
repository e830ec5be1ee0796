package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"echoclient/application/ports"
	"echoclient/infrastructure/config"
	"echoclient/infrastructure/di"
	apperrors "echoclient/pkg/errors"
)

const usage = `echo - command line client for the Echo feed

Usage:
  echo login [-email E] [-password P]
  echo register
  echo logout
  echo whoami
  echo profile [-name N] [-bio B]
  echo post <content>
  echo feed
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Close()

	ctx := context.Background()
	var cmdErr error
	switch os.Args[1] {
	case "login":
		cmdErr = runLogin(ctx, container, os.Args[2:])
	case "register":
		cmdErr = runRegister(ctx, container)
	case "logout":
		container.SessionSvc.Logout()
		fmt.Println("Logged out.")
	case "whoami":
		cmdErr = runWhoami(container)
	case "profile":
		cmdErr = runProfile(ctx, container, os.Args[2:])
	case "post":
		cmdErr = runPost(ctx, container, os.Args[2:])
	case "feed":
		cmdErr = runFeed(ctx, container)
	default:
		fmt.Print(usage)
		os.Exit(1)
	}

	if cmdErr != nil {
		fmt.Println("Error:", apperrors.UserMessage(cmdErr))
		os.Exit(1)
	}
}

func runLogin(ctx context.Context, c *di.Container, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted if omitted)")
	fs.Parse(args)

	reader := bufio.NewReader(os.Stdin)
	if *email == "" {
		fmt.Print("Email: ")
		line, _ := reader.ReadString('\n')
		*email = strings.TrimSpace(line)
	}
	if *password == "" {
		pw, err := promptPassword(reader, "Password: ")
		if err != nil {
			return err
		}
		*password = pw
	}

	if err := c.SessionSvc.Login(ctx, *email, *password); err != nil {
		return err
	}
	cur := c.Sessions.Current()
	fmt.Printf("Welcome, %s.\n", cur.DisplayName)
	return nil
}

func runRegister(ctx context.Context, c *di.Container) error {
	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string) string {
		fmt.Print(label)
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}

	in := ports.RegisterInput{
		Email:    prompt("Email: "),
		Username: prompt("Username: "),
		FullName: prompt("Name: "),
	}
	password, err := promptPassword(reader, "Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword(reader, "Confirm password: ")
	if err != nil {
		return err
	}
	in.Password = password

	if err := c.SessionSvc.Register(ctx, in, confirm); err != nil {
		return err
	}
	fmt.Println("Registered. You can now log in.")
	return nil
}

func runWhoami(c *di.Container) error {
	if !c.SessionSvc.HasStoredCredential() {
		fmt.Println("Not logged in.")
		return nil
	}
	if expiry, ok := c.SessionSvc.CredentialExpiry(); ok {
		fmt.Printf("Logged in, token valid until %s.\n", expiry.Local().Format("2006-01-02 15:04"))
	} else {
		fmt.Println("Logged in.")
	}
	return nil
}

func runProfile(ctx context.Context, c *di.Container, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	bio := fs.String("bio", "", "profile bio")
	fs.Parse(args)

	if err := requireLogin(ctx, c); err != nil {
		return err
	}
	if err := c.SessionSvc.UpdateProfile(ctx, *name, *bio); err != nil {
		return err
	}
	cur := c.Sessions.Current()
	fmt.Printf("Profile updated: %s (%s)\n", cur.DisplayName, cur.AvatarInitial)
	return nil
}

func runPost(ctx context.Context, c *di.Container, args []string) error {
	if len(args) == 0 {
		return apperrors.NewValidationError("content is required")
	}
	if err := requireLogin(ctx, c); err != nil {
		return err
	}
	content := strings.Join(args, " ")
	if err := c.FeedSync.Create(ctx, content); err != nil {
		return err
	}
	fmt.Println("Posted.")
	return nil
}

// runFeed is the interactive feed loop. It mirrors the home screen:
// entering fetches the list, each item can open a context menu, and
// deleting asks for confirmation first.
func runFeed(ctx context.Context, c *di.Container) error {
	// Ownership checks need the profile from a login response, and the
	// profile lives only in process memory. A stored token alone is not
	// enough, so the feed starts with a login prompt when needed.
	if !c.Sessions.Authenticated() {
		if err := runLogin(ctx, c, nil); err != nil {
			return err
		}
	}

	c.FeedSync.LoadCached()
	screen := c.FeedScreen
	if err := screen.Enter(ctx); err != nil {
		fmt.Println("Fetch failed:", apperrors.UserMessage(err))
		fmt.Println("Showing last known feed.")
	}
	defer screen.Leave()

	printFeed(c)
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "list":
			printFeed(c)
		case "refresh":
			if err := screen.Enter(ctx); err != nil {
				fmt.Println("Fetch failed:", apperrors.UserMessage(err))
			}
			printFeed(c)
		case "menu":
			id, ok := parseID(fields)
			if !ok {
				fmt.Println("usage: menu <id>")
				continue
			}
			screen.ToggleMenu(id)
			if open, isOpen := screen.OpenMenu(); isOpen {
				fmt.Printf("Menu open on post %d.\n", open)
			} else {
				fmt.Println("Menu closed.")
			}
		case "tap":
			screen.TapOutside()
			fmt.Println("Menu closed.")
		case "like":
			id, ok := parseID(fields)
			if !ok {
				fmt.Println("usage: like <id>")
				continue
			}
			if err := screen.Like(id); err != nil {
				fmt.Println("Error:", apperrors.UserMessage(err))
				continue
			}
			printFeed(c)
		case "del":
			id, ok := parseID(fields)
			if !ok {
				fmt.Println("usage: del <id>")
				continue
			}
			confirmation, err := screen.RequestDelete(id)
			if err != nil {
				fmt.Println("Error:", apperrors.UserMessage(err))
				continue
			}
			fmt.Printf("Delete post %d? [y/N] ", confirmation.ItemID())
			answer, _ := reader.ReadString('\n')
			if strings.TrimSpace(strings.ToLower(answer)) != "y" {
				confirmation.Cancel()
				fmt.Println("Cancelled.")
				continue
			}
			if err := confirmation.Confirm(ctx); err != nil {
				fmt.Println("Error:", apperrors.UserMessage(err))
				continue
			}
			printFeed(c)
		case "post":
			if len(fields) < 2 {
				fmt.Println("usage: post <content>")
				continue
			}
			content := strings.TrimSpace(strings.TrimPrefix(line, "post"))
			if err := c.FeedSync.Create(ctx, content); err != nil {
				fmt.Println("Error:", apperrors.UserMessage(err))
			} else {
				fmt.Println("Posted.")
			}
		case "back", "quit", "exit":
			return nil
		default:
			fmt.Println("commands: list refresh menu <id> tap like <id> del <id> post <content> back")
		}
	}
}

func printFeed(c *di.Container) {
	items := c.FeedScreen.Items()
	if len(items) == 0 {
		fmt.Println("(no posts)")
		return
	}
	for _, it := range items {
		liked := " "
		if it.LikedByViewer {
			liked = "*"
		}
		owner := ""
		if c.FeedSync.CanModify(it.ID) {
			owner = " (yours)"
		}
		fmt.Printf("[%d] %s%s\n    %s\n    %s%s %d likes\n",
			it.ID, it.AuthorName, owner, it.Content, it.CreatedAt.Local().Format("2006-01-02 15:04"), liked, it.LikeCount)
	}
}

// requireLogin checks that a credential exists before a protected
// command runs. Requests carry whatever token is on disk; if it has
// expired the server rejects it and the error surfaces normally.
func requireLogin(_ context.Context, c *di.Container) error {
	if !c.SessionSvc.HasStoredCredential() && !c.Sessions.Authenticated() {
		return apperrors.NewAuthError("not logged in")
	}
	return nil
}

func parseID(fields []string) (int64, bool) {
	if len(fields) < 2 {
		return 0, false
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func promptPassword(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
