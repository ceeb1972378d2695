package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/mikepea/tinylink/pkg/tinylink/auth"
	"github.com/mikepea/tinylink/pkg/tinylink/client"
	"github.com/mikepea/tinylink/pkg/tinylink/importexport"
	"github.com/mikepea/tinylink/pkg/tinylink/models"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "tinylink",
		Usage: "create, inspect and delete short links on a TinyLink server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   "http://localhost:5000",
				EnvVars: []string{"TINYLINK_SERVER"},
				Usage:   "server base URL",
			},
			&cli.StringFlag{
				Name:    "token",
				EnvVars: []string{"TINYLINK_TOKEN"},
				Usage:   "admin bearer token (see the login command)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "shorten a URL",
				ArgsUsage: "<url>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "code", Aliases: []string{"c"}, Usage: "custom 6-8 character code"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("expected exactly one URL", 2)
					}
					created, err := newClient(c).Create(c.Context, c.Args().First(), c.String("code"))
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, created.ShortURL)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "list all links, newest first",
				Action: func(c *cli.Context) error {
					links, err := newClient(c).List(c.Context)
					if err != nil {
						return err
					}
					printLinks(c.App.Writer, links)
					return nil
				},
			},
			{
				Name:      "stats",
				Usage:     "show click statistics for a code",
				ArgsUsage: "<code>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("expected exactly one code", 2)
					}
					link, err := newClient(c).Get(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					printLinks(c.App.Writer, []models.Link{*link})
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "permanently delete a code",
				ArgsUsage: "<code>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("expected exactly one code", 2)
					}
					if err := newClient(c).Delete(c.Context, c.Args().First()); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Deleted %s\n", c.Args().First())
					return nil
				},
			},
			{
				Name:  "login",
				Usage: "exchange the admin password for a token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "password", EnvVars: []string{"TINYLINK_PASSWORD"}, Required: true},
				},
				Action: func(c *cli.Context) error {
					token, err := newClient(c).Login(c.Context, c.String("password"))
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, token)
					return nil
				},
			},
			{
				Name:      "export",
				Usage:     "write every link and its statistics as JSON",
				ArgsUsage: "[file]",
				Action: func(c *cli.Context) error {
					exported, err := newClient(c).Export(c.Context)
					if err != nil {
						return err
					}
					w := c.App.Writer
					if path := c.Args().First(); path != "" {
						f, err := os.Create(path)
						if err != nil {
							return err
						}
						defer f.Close()
						w = f
					}
					enc := json.NewEncoder(w)
					enc.SetIndent("", "  ")
					return enc.Encode(exported)
				},
			},
			{
				Name:      "import",
				Usage:     "restore links from an export file",
				ArgsUsage: "<file>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("expected exactly one file", 2)
					}
					data, err := os.ReadFile(c.Args().First())
					if err != nil {
						return err
					}
					var in []importexport.ExportedLink
					if err := json.Unmarshal(data, &in); err != nil {
						return fmt.Errorf("parse %s: %w", c.Args().First(), err)
					}
					result, err := newClient(c).Import(c.Context, in)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Imported %d, skipped %d\n", result.Imported, result.Skipped)
					for _, msg := range result.Errors {
						fmt.Fprintln(c.App.ErrWriter, msg)
					}
					return nil
				},
			},
			{
				Name:      "hash-password",
				Usage:     "print a bcrypt hash for ADMIN_PASSWORD_HASH",
				ArgsUsage: "<password>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("expected exactly one password", 2)
					}
					hash, err := auth.HashPassword(c.Args().First())
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, hash)
					return nil
				},
			},
			{
				Name:      "watch",
				Usage:     "refresh the link table (or one code's stats) until interrupted",
				ArgsUsage: "[code]",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: "interval", Aliases: []string{"i"}, Value: time.Second},
				},
				Action: watch,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newClient(c *cli.Context) *client.Client {
	return client.New(c.String("server"), client.WithToken(c.String("token")))
}

func watch(c *cli.Context) error {
	if c.Duration("interval") <= 0 {
		return cli.Exit("--interval must be positive", 2)
	}
	api := newClient(c)
	code := c.Args().First()

	return client.Poll(c.Context, c.Duration("interval"), func(ctx context.Context) {
		var (
			rows []models.Link
			err  error
		)
		if code != "" {
			var link *models.Link
			if link, err = api.Get(ctx, code); err == nil {
				rows = []models.Link{*link}
			}
		} else {
			rows, err = api.List(ctx)
		}
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("Fetch error: %v", err)
			}
			return
		}

		fmt.Fprint(c.App.Writer, "\033[H\033[2J")
		fmt.Fprintf(c.App.Writer, "%s  (every %s, Ctrl-C to stop)\n\n", time.Now().Format(time.TimeOnly), c.Duration("interval"))
		printLinks(c.App.Writer, rows)
	})
}

func printLinks(w io.Writer, links []models.Link) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tCLICKS\tLAST CLICKED\tCREATED\tURL")
	for _, l := range links {
		last := "never"
		if l.LastClicked != nil {
			last = l.LastClicked.Local().Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", l.Code, l.Clicks, last, l.CreatedAt.Local().Format(time.DateTime), l.URL)
	}
	tw.Flush()
}
