// Command blogctl drives the blog backend from a terminal.
//
//	blogctl [-config file] [-api url] [-v] <command> [flags]
//
// Commands: list, show, create, update, delete.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/minimal-blog/internal/api"
	"github.com/debemdeboas/minimal-blog/internal/blog"
	"github.com/debemdeboas/minimal-blog/internal/config"
	"github.com/debemdeboas/minimal-blog/internal/logger"
	"github.com/debemdeboas/minimal-blog/internal/model"
)

const (
	exitOK      = 0
	exitFailed  = 1
	exitUsage   = 2
	usageHeader = "usage: blogctl [-config file] [-api url] [-v] <list|show|create|update|delete> [flags]"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_ = godotenv.Load()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("blogctl", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "config.yaml", "path to the YAML configuration file")
	apiURL := global.String("api", "", "backend base URL, overrides backend.base_url")
	verbose := global.Bool("v", false, "log backend requests to stderr")
	global.Usage = func() {
		fmt.Fprintln(stderr, usageHeader)
		global.PrintDefaults()
	}

	if err := global.Parse(args); err != nil {
		return exitUsage
	}
	if global.NArg() == 0 {
		global.Usage()
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "blogctl: %v\n", err)
		return exitFailed
	}
	if *apiURL != "" {
		cfg.Backend.BaseURL = *apiURL
	}

	if *verbose {
		l := logger.New(zerolog.LevelDebugValue, cfg.Logging.Format, stderr)
		api.SetLogger(l)
		blog.SetLogger(l)
	}

	client, err := api.NewClient(cfg.Backend.BaseURL, cfg.Backend.CollectionPath, cfg.Backend.Timeout)
	if err != nil {
		fmt.Fprintf(stderr, "blogctl: %v\n", err)
		return exitFailed
	}

	inbox := &blog.Inbox{}
	c := &cli{
		ctrl:  blog.NewController(client, inbox),
		inbox: inbox,
		print: &printer{
			out:           stdout,
			errOut:        stderr,
			previewLength: cfg.Content.PreviewLength,
			dateFormat:    cfg.Content.DateFormat,
		},
	}

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "list":
		return c.list(ctx, rest)
	case "show":
		return c.show(ctx, rest)
	case "create":
		return c.create(ctx, rest)
	case "update":
		return c.update(ctx, rest)
	case "delete":
		return c.remove(ctx, rest)
	default:
		fmt.Fprintf(stderr, "blogctl: unknown command %q\n", cmd)
		global.Usage()
		return exitUsage
	}
}

type cli struct {
	ctrl  *blog.Controller
	inbox *blog.Inbox
	print *printer
}

// done prints what the controller reported and maps err to an exit status.
func (c *cli) done(err error) int {
	c.print.notifications(c.inbox.Drain())
	if err != nil {
		return exitFailed
	}
	return exitOK
}

func newFlagSet(name string, c *cli) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.print.errOut)
	return fs
}

func (c *cli) list(ctx context.Context, args []string) int {
	fs := newFlagSet("list", c)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if err := c.ctrl.Refresh(ctx); err != nil {
		return c.done(err)
	}
	c.print.list(c.ctrl.State().Posts)
	return c.done(nil)
}

// find refreshes the list and looks id up in it.
func (c *cli) find(ctx context.Context, id string) (model.Post, int) {
	if err := c.ctrl.Refresh(ctx); err != nil {
		return model.Post{}, c.done(err)
	}
	post, ok := c.ctrl.Post(model.PostID(id))
	if !ok {
		c.print.errorf("No blog with id %q", id)
		return model.Post{}, exitFailed
	}
	return post, exitOK
}

func (c *cli) show(ctx context.Context, args []string) int {
	fs := newFlagSet("show", c)
	id := fs.String("id", "", "post id")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *id == "" {
		c.print.errorf("show: -id is required")
		return exitUsage
	}

	post, status := c.find(ctx, *id)
	if status != exitOK {
		return status
	}
	c.print.show(post)
	return exitOK
}

func (c *cli) create(ctx context.Context, args []string) int {
	fs := newFlagSet("create", c)
	title := fs.String("title", "", "post title")
	content := fs.String("content", "", "post content")
	author := fs.String("author", "", "post author")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	draft := model.Draft{Title: *title, Content: *content, Author: *author}
	if !draft.Complete() {
		c.print.errorf("create: -title, -content and -author are required")
		return exitUsage
	}

	return c.done(c.ctrl.Submit(ctx, draft))
}

func (c *cli) update(ctx context.Context, args []string) int {
	fs := newFlagSet("update", c)
	id := fs.String("id", "", "post id")
	title := fs.String("title", "", "new title")
	content := fs.String("content", "", "new content")
	author := fs.String("author", "", "new author")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *id == "" {
		c.print.errorf("update: -id is required")
		return exitUsage
	}

	post, status := c.find(ctx, *id)
	if status != exitOK {
		return status
	}

	c.ctrl.BeginEdit(post)
	draft := c.ctrl.State().Draft
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			draft.Title = *title
		case "content":
			draft.Content = *content
		case "author":
			draft.Author = *author
		}
	})
	if !draft.Complete() {
		c.print.errorf("update: title, content and author can't be empty")
		return exitUsage
	}

	return c.done(c.ctrl.Submit(ctx, draft))
}

func (c *cli) remove(ctx context.Context, args []string) int {
	fs := newFlagSet("delete", c)
	id := fs.String("id", "", "post id")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *id == "" {
		c.print.errorf("delete: -id is required")
		return exitUsage
	}

	return c.done(c.ctrl.Remove(ctx, model.PostID(*id)))
}
