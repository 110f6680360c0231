// Relevance analysis against a running searchcompare server.
// Sends each query to the comparison API and marks every hit as relevant when its
// content contains the query or one of its terms.
//
// Использование:
//
//	relevance -server http://localhost:3000 -q "American" -q "machine learning"
//
// Without -q the built-in query list is used.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/kailas-cloud/searchcompare/internal/relevance"
	"github.com/kailas-cloud/searchcompare/pkg/client"
)

var defaultQueries = []string{
	"American",
	"technology",
	"database",
	"artificial intelligence",
	"machine learning",
}

type queryList []string

func (q *queryList) String() string { return strings.Join(*q, ", ") }

func (q *queryList) Set(v string) error {
	*q = append(*q, v)
	return nil
}

type config struct {
	server   string
	endpoint string
	queries  queryList
	timeout  time.Duration
	verbose  bool
}

func main() {
	cfg := parseFlags()

	ctx, cancel := signal.NotifyContext(
		context.Background(), syscall.SIGTERM, syscall.SIGINT,
	)
	defer cancel()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		cancel()
		log.Fatal(err)
	}
}

func parseFlags() config {
	cfg := config{}
	flag.StringVar(&cfg.server, "server", envOr("SEARCHCOMPARE_URL", "http://localhost:3000"), "searchcompare base URL")
	flag.StringVar(&cfg.endpoint, "endpoint", "/api/search", "comparison endpoint")
	flag.Var(&cfg.queries, "q", "query to analyze (repeatable)")
	flag.DurationVar(&cfg.timeout, "timeout", 60*time.Second, "per-request timeout")
	flag.BoolVar(&cfg.verbose, "v", false, "log client operations")
	flag.Parse()
	if len(cfg.queries) == 0 {
		cfg.queries = defaultQueries
	}
	return cfg
}

func run(ctx context.Context, cfg config, out io.Writer) error {
	opts := []client.Option{client.WithEndpoint(cfg.endpoint)}
	if cfg.verbose {
		opts = append(opts, client.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	c, err := client.New(cfg.server, opts...)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	fmt.Fprintln(out, "RELEVANCE ANALYSIS")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintln(out)

	for _, q := range cfg.queries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		qctx, cancel := context.WithTimeout(ctx, cfg.timeout)
		res, err := c.Compare(qctx, q)
		cancel()

		fmt.Fprintf(out, "Query: %q\n", q)
		fmt.Fprintln(out, strings.Repeat("-", 50))
		if err != nil {
			fmt.Fprintf(out, "error: %v\n\n", err)
			continue
		}
		printComparison(out, q, res)
		fmt.Fprintln(out)
	}
	return nil
}

func printComparison(out io.Writer, q string, res client.CompareResult) {
	reports := make([]relevance.Report, len(res.Results))
	for i, r := range res.Results {
		fmt.Fprintf(out, "%s (%s):\n", r.Name, r.Result.Method)
		if r.Result.Failed() {
			fmt.Fprintf(out, "  error: %s\n", r.Result.Error)
			continue
		}
		reports[i] = relevance.Analyze(q, r.Result.Hits)
		for j, h := range r.Result.Hits {
			mark := "no"
			if reports[i].Marks[j] {
				mark = "yes"
			}
			fmt.Fprintf(out, "  %d. %s... [%s]\n", j+1, preview(h.Content, 60), mark)
		}
	}

	fmt.Fprintln(out, "Relevance:")
	for i, r := range res.Results {
		if r.Result.Failed() {
			continue
		}
		rep := reports[i]
		fmt.Fprintf(out, "  %s: %d/%d relevant (%.0f%%)\n", r.Name, rep.Relevant, rep.Total, rep.Percent())
	}

	fastest, ok := res.Results.Get(res.Performance.FastestProvider)
	fmt.Fprintln(out, "Speed:")
	for _, r := range res.Results {
		line := fmt.Sprintf("  %s: %dms", r.Name, r.Result.Ms)
		if ok && r.Name != res.Performance.FastestProvider {
			if ratio := relevance.SpeedRatio(r.Result.Ms, fastest.Ms); ratio > 0 {
				line += fmt.Sprintf(" (%.1fx slower than %s)", ratio, res.Performance.FastestProvider)
			}
		}
		fmt.Fprintln(out, line)
	}
	if res.EmbeddingTokens >= 0 {
		fmt.Fprintf(out, "Embedding tokens: %d\n", res.EmbeddingTokens)
	}
}

func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
