// vjudge submits one solution through a configured remote-judge account
// and streams the verdicts back to the terminal. Mostly a manual testing
// harness for the provider library.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/programme-lv/vjudge/codeforces"
	"github.com/programme-lv/vjudge/conf"
	"github.com/programme-lv/vjudge/logger"
	"github.com/programme-lv/vjudge/provider"
	"github.com/programme-lv/vjudge/session"
)

func main() {
	handle := flag.String("account", "", "account handle from the accounts file")
	problem := flag.String("problem", "", "problem id, e.g. P1000A")
	langID := flag.String("lang", "cpp17", "language id")
	srcPath := flag.String("file", "", "path to the solution source")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall judging deadline")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded", "err", err)
	}
	if *problem == "" || *srcPath == "" {
		fmt.Fprintln(os.Stderr, "usage: vjudge -account <handle> -problem <id> -lang <id> -file <source>")
		os.Exit(2)
	}

	stateDir := conf.GetStateDirFromEnv()
	accounts, err := conf.LoadAccounts(conf.GetAccountsPathFromEnv(), stateDir)
	if err != nil {
		slog.Error("failed to load accounts", "err", err)
		os.Exit(1)
	}
	acc, ok := pickAccount(accounts, *handle)
	if !ok {
		slog.Error("account not found in accounts file", "account", *handle)
		os.Exit(1)
	}

	source, err := os.ReadFile(*srcPath)
	if err != nil {
		slog.Error("failed to read solution source", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithAccount(ctx, acc.Handle)

	save := func(cookies []string) error {
		return conf.SaveCookies(stateDir, acc.Handle, cookies)
	}
	prov, err := codeforces.New(acc, session.SaveFunc(save),
		codeforces.WithLogger(logger.FromContext(ctx)))
	if err != nil {
		slog.Error("failed to build provider", "err", err)
		os.Exit(1)
	}

	if err := prov.EnsureLogin(ctx); err != nil {
		slog.Error("login failed", "err", err)
		os.Exit(1)
	}

	ticket := &provider.SubmissionTicket{
		RequestID: uuid.New(),
		ProblemID: *problem,
		LangID:    *langID,
		Source:    string(source),
	}
	rejection, err := prov.Submit(ctx, ticket)
	if err != nil {
		slog.Error("submit failed", "err", err)
		os.Exit(1)
	}
	if rejection != nil {
		fmt.Printf("rejected: %s\n", rejection.Message)
		os.Exit(1)
	}
	fmt.Printf("submitted, remote id %s\n", ticket.RemoteID)

	var final provider.FinalResult
	err = prov.Poll(ctx, ticket.RemoteID, provider.Callbacks{
		Case: func(c provider.CaseResult) {
			fmt.Printf("case %d: %s (%d ms, %d KiB)\n", c.ID, c.Status, c.TimeMs, c.MemKiB)
		},
		CompileLog: func(log string) {
			fmt.Printf("compiler output:\n%s\n", log)
		},
		Final: func(f provider.FinalResult) {
			final = f
		},
	})
	if err != nil {
		slog.Error("polling aborted", "err", err)
		os.Exit(1)
	}
	fmt.Printf("final: %s score=%d time=%dms memory=%dKiB\n",
		final.Status, final.Score, final.TimeMs, final.MemKiB)
	if final.Score != 100 {
		os.Exit(1)
	}
}

func pickAccount(accounts []provider.RemoteAccount, handle string) (provider.RemoteAccount, bool) {
	if handle == "" && len(accounts) == 1 {
		return accounts[0], true
	}
	for _, a := range accounts {
		if a.Handle == handle {
			return a, true
		}
	}
	return provider.RemoteAccount{}, false
}
