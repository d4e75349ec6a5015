// Package main provides pollctl, a command-line tool for poll questions.
// Usage:
//
//	pollctl create -text "What's new?" [-days N] [-choice A -choice B]
//	pollctl list [-output json]
//	pollctl recent ID
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"mysite/internal/infra/adapter/persistence"
	"mysite/internal/infra/db"
	"mysite/internal/observability/logging"
	questionUC "mysite/internal/usecase/question"
	envconfig "mysite/pkg/config"
)

const usage = `Usage:
  pollctl create -text "question" [-days N] [-choice text ...]
  pollctl list [-output json]
  pollctl recent ID`

var errUsage = errors.New("invalid usage")

// choiceList collects repeated -choice flags.
type choiceList []string

func (c *choiceList) String() string { return strings.Join(*c, ",") }

func (c *choiceList) Set(v string) error {
	*c = append(*c, v)
	return nil
}

// QuestionOutput is the JSON form of a listed question.
type QuestionOutput struct {
	ID           int64     `json:"id"`
	QuestionText string    `json:"question_text"`
	PubDate      time.Time `json:"pub_date"`
}

func main() {
	logger := logging.New(os.Stderr, os.Getenv("LOG_FORMAT"), envconfig.GetEnvString("LOG_LEVEL", "warn"))
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	driver := envconfig.GetEnvString("DATABASE_DRIVER", db.DriverSQLite)
	database, err := db.Open(ctx, driver, envconfig.GetEnvString("DATABASE_URL", "file:mysite.db"), db.DefaultConnectionConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	if err := db.MigrateUp(ctx, database, driver); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	repos, err := persistence.New(driver, database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(ctx, os.Args[1:], os.Stdout, repos, time.Now); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
		}
		os.Exit(1)
	}
}

// run executes one subcommand against repos.
func run(ctx context.Context, args []string, out io.Writer, repos persistence.Repositories, now func() time.Time) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}
	svc := &questionUC.Service{Repo: repos.Questions, Choices: repos.Choices, Now: now}

	switch args[0] {
	case "create":
		return runCreate(ctx, args[1:], out, svc)
	case "list":
		return runList(ctx, args[1:], out, svc)
	case "recent":
		return runRecent(ctx, args[1:], out, svc)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func runCreate(ctx context.Context, args []string, out io.Writer, svc *questionUC.Service) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	text := fs.String("text", "", "question text")
	days := fs.Int("days", 0, "days after publication; negative for the past")
	var choices choiceList
	fs.Var(&choices, "choice", "choice text, repeatable")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if strings.TrimSpace(*text) == "" {
		return fmt.Errorf("%w: -text is required", errUsage)
	}

	created, err := svc.Create(ctx, questionUC.CreateInput{
		QuestionText:       *text,
		DaysAfterPublished: *days,
		Choices:            choices,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "created question %d (pub_date %s, %d choices)\n",
		created.Question.ID, created.Question.PubDate.UTC().Format(time.RFC3339), len(created.Choices))
	return nil
}

func runList(ctx context.Context, args []string, out io.Writer, svc *questionUC.Service) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	output := fs.String("output", "text", "output format: text or json")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	questions, err := svc.LatestPublished(ctx)
	if err != nil {
		return err
	}

	if *output == "json" {
		list := make([]QuestionOutput, 0, len(questions))
		for _, q := range questions {
			list = append(list, QuestionOutput{ID: q.ID, QuestionText: q.QuestionText, PubDate: q.PubDate})
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(list)
	}

	if len(questions) == 0 {
		fmt.Fprintln(out, "No polls are available.")
		return nil
	}
	for _, q := range questions {
		fmt.Fprintf(out, "%d\t%s\t%s\n", q.ID, q.PubDate.UTC().Format(time.RFC3339), q.QuestionText)
	}
	return nil
}

func runRecent(ctx context.Context, args []string, out io.Writer, svc *questionUC.Service) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: recent takes exactly one question ID", errUsage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid question ID %q", errUsage, args[0])
	}

	recent, err := svc.WasPublishedRecently(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, recent)
	return nil
}
