// Command fluuyo-probe exercises the SDK against a running backend: it
// boots a session, optionally logs in, reports the routing decisions, and
// lists the account's loans. Useful for smoke-testing an environment
// without the web front end.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	fluuyo "github.com/fluuyo/fluuyo-go"
)

func main() {
	var (
		configDir = flag.String("config", "", "directory containing fluuyo.yaml (default: working directory)")
		email     = flag.String("email", "", "login email; empty skips login")
		password  = flag.String("password", "", "login password")
		resolve   = flag.String("resolve", "/", "path to resolve against the route table")
		listLoans = flag.Bool("loans", false, "list active loans after login")
		timeout   = flag.Duration("timeout", 30*time.Second, "overall probe deadline")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg, err := fluuyo.LoadConfig(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	client, err := fluuyo.New().WithConfig(cfg).Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build: %v\n", err)
		os.Exit(2)
	}
	defer client.Close()

	if err := client.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "start: %v\n", err)
		os.Exit(1)
	}

	state := client.Session()
	fmt.Printf("booted: authenticated=%v\n", state.Authenticated())

	if *email != "" {
		user, err := client.Login(ctx, *email, *password)
		switch {
		case errors.Is(err, fluuyo.ErrEmailNotVerified):
			fmt.Println("login refused: email not verified (resend verification first)")
			os.Exit(1)
		case err != nil:
			fmt.Fprintf(os.Stderr, "login: %v\n", err)
			os.Exit(1)
		default:
			fmt.Printf("logged in as %s (%s), landing route %s\n", user.Email, user.Role, fluuyo.RouteFor(user))
		}
	}

	res := client.Resolve(*resolve)
	switch res.Decision {
	case fluuyo.DecisionRender:
		fmt.Printf("resolve %s: render %s\n", *resolve, res.Screen)
	case fluuyo.DecisionRedirect:
		fmt.Printf("resolve %s: redirect to %s\n", *resolve, res.Target)
	default:
		fmt.Printf("resolve %s: loading\n", *resolve)
	}

	if *listLoans && client.Session().Authenticated() {
		loans, err := client.API().ActiveLoans(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loans: %v\n", err)
			os.Exit(1)
		}
		for _, loan := range loans {
			fmt.Printf("loan %s status=%s principal=%s term=%dm\n", loan.ID, loan.Status, loan.PrincipalCOP, loan.TermMonths)
		}
	}
}
